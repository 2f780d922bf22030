package vibration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aalemi-dev/anomaly-lab/logger"
)

// ErrUnknownMode is returned for an unsupported Config.Mode.
var ErrUnknownMode = errors.New("vibration: unknown mode")

// Service reads every machine's Collector each Interval and publishes the
// values as machine_vibration_acceleration{machine_id}.
type Service struct {
	cfg        Config
	collectors map[string]Collector
	exporter   exporter
	server     *http.Server
	log        logger.Logger
}

// New builds the exporter for cfg.Mode and one Simulator per machine.
func New(ctx context.Context, cfg Config, serviceName string, log logger.Logger) (*Service, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if len(cfg.Machines) == 0 {
		cfg.Machines = []string{"machine_1"}
	}

	var exp exporter
	switch cfg.Mode {
	case ModePrometheus, "":
		exp = newPromExporter()
	case ModeOTelPrometheus, ModeOTLP:
		e, err := newOTelExporter(ctx, cfg, serviceName)
		if err != nil {
			return nil, err
		}
		exp = e
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}

	collectors := make(map[string]Collector, len(cfg.Machines))
	for i, id := range cfg.Machines {
		seed := cfg.Seed
		if seed != 0 {
			seed += uint64(i)
		}
		collectors[id] = NewSimulator(seed)
	}

	s := &Service{
		cfg:        cfg,
		collectors: collectors,
		exporter:   exp,
		log:        log.Named("vibration"),
	}
	if h := exp.handler(); h != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", h)
		s.server = &http.Server{Addr: cfg.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}
	return s, nil
}

// SetCollector replaces the reading source of a machine.
func (s *Service) SetCollector(machineID string, c Collector) {
	s.collectors[machineID] = c
}

// Handler serves the local /metrics payload, or nil in otlp mode.
func (s *Service) Handler() http.Handler {
	return s.exporter.handler()
}

// Tick takes and publishes one reading per machine.
func (s *Service) Tick() {
	for _, id := range s.cfg.Machines {
		v := s.collectors[id].Collect()
		s.exporter.record(id, v)
		s.log.Info("vibration data collected", nil, map[string]interface{}{
			"machine_id": id,
			"value":      v,
		})
	}
}

// Run publishes readings until ctx is cancelled, serving /metrics meanwhile
// when the mode has a local endpoint.
func (s *Service) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	if s.server != nil {
		go func() {
			s.log.Info("serving vibration metrics", nil, map[string]interface{}{"address": s.server.Addr})
			if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
		}()
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.Tick()
	for {
		select {
		case <-ctx.Done():
			return s.shutdown()
		case err := <-serveErr:
			_ = s.shutdown()
			return fmt.Errorf("metrics server: %w", err)
		case <-ticker.C:
			s.Tick()
		}
	}
}

func (s *Service) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if s.server != nil {
		errs = append(errs, s.server.Shutdown(ctx))
	}
	errs = append(errs, s.exporter.shutdown(ctx))
	return errors.Join(errs...)
}
