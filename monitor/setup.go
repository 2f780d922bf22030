package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Workiva/go-datastructures/queue"

	"github.com/aalemi-dev/anomaly-lab/detector"
	"github.com/aalemi-dev/anomaly-lab/exposition"
	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/metrics"
	"github.com/aalemi-dev/anomaly-lab/source"
	"github.com/aalemi-dev/anomaly-lab/tracer"
	"github.com/aalemi-dev/anomaly-lab/window"
)

// ErrAlreadyRunning is returned by Run and Start on a monitor that is running.
var ErrAlreadyRunning = errors.New("monitor: already running")

// pipe connects the scrape loop to the detect loop of one metric.
type pipe struct {
	metric string
	path   string
	queue  *queue.Queue
	window *window.Window
}

// Monitor scrapes a Source on a fixed schedule and scores every CPU and
// memory sample with a Detector.
//
// One goroutine scrapes and feeds a bounded queue per metric; one goroutine
// per metric drains its queue, keeps the sliding window and calls the
// detector. A slow detector therefore never delays the scrape schedule; when
// a queue is full the newest sample is dropped and counted.
type Monitor struct {
	cfg      Config
	source   source.Source
	detector detector.Detector
	tracer   tracer.Tracer
	log      logger.Logger
	inst     *instruments
	tracker  exposition.CPUTracker

	mu      sync.RWMutex
	status  map[string]Status
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New wires a monitor. Nothing runs until Run or Start.
func New(cfg Config, src source.Source, det detector.Detector, collector metrics.MetricsCollector, tr tracer.Tracer, log logger.Logger) *Monitor {
	cfg.applyDefaults()
	return &Monitor{
		cfg:      cfg,
		source:   src,
		detector: det,
		tracer:   tr,
		log:      log.Named("monitor"),
		inst:     newInstruments(collector),
		status:   make(map[string]Status),
	}
}

// Run scrapes and scores until ctx is cancelled. Queues are disposed and
// every goroutine has returned by the time Run does.
func (m *Monitor) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.running = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	if m.cfg.ExportCSV {
		if err := m.prepareExportDir(); err != nil {
			return err
		}
	}

	pipes := m.newPipes()

	m.log.Info("monitoring started", nil, map[string]interface{}{
		"source":   m.source.Name(),
		"detector": m.detector.Name(),
		"interval": m.cfg.Interval.String(),
	})

	var wg sync.WaitGroup
	for _, p := range pipes {
		wg.Add(1)
		go func(p *pipe) {
			defer wg.Done()
			m.detectLoop(ctx, p)
		}(p)
	}

	m.scrapeLoop(ctx, pipes)

	for _, p := range pipes {
		p.queue.Dispose()
	}
	wg.Wait()

	m.log.Info("monitoring stopped", nil)
	return nil
}

// Start runs the monitor in the background until Stop.
func (m *Monitor) Start() error {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	go func() {
		defer close(done)
		if err := m.Run(ctx); err != nil {
			m.log.Error("monitor exited", err)
		}
	}()
	return nil
}

// Stop cancels a monitor started with Start and waits for it, or for ctx.
func (m *Monitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns the latest verdict per metric, CPU first.
func (m *Monitor) Status() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Status, 0, len(m.status))
	for _, metric := range []string{MetricCPU, MetricMemory} {
		if s, ok := m.status[metric]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (m *Monitor) setStatus(s Status) {
	m.mu.Lock()
	m.status[s.Metric] = s
	m.mu.Unlock()
}

func (m *Monitor) newPipes() []*pipe {
	pipes := make([]*pipe, 0, 2)
	for _, metric := range []string{MetricCPU, MetricMemory} {
		pipes = append(pipes, &pipe{
			metric: metric,
			path:   ExportPath(m.cfg.ExportDir, metric),
			queue:  queue.New(int64(m.cfg.QueueSize)),
			window: window.New(m.cfg.WindowSize),
		})
	}
	return pipes
}

// scrapeLoop runs on an absolute schedule: each tick is one Interval after
// the previous scheduled tick, not after the previous scrape finished.
func (m *Monitor) scrapeLoop(ctx context.Context, pipes []*pipe) {
	next := time.Now()
	for {
		m.scrape(ctx, pipes)

		next = next.Add(m.cfg.Interval)
		timer := time.NewTimer(max(0, time.Until(next)))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (m *Monitor) scrape(ctx context.Context, pipes []*pipe) {
	snap, err := m.source.Scrape(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.inst.scrapeFails.WithLabelValues(m.source.Name()).Inc()
		m.log.WarnWithContext(ctx, "error fetching metrics", err, map[string]interface{}{
			"source": m.source.Name(),
		})
		return
	}

	if usage, ok := m.tracker.Usage(snap.CPUTotal, snap.CPUIdle); ok {
		m.enqueue(pipes[0], Sample{Metric: MetricCPU, At: snap.At, Value: usage})
	}
	if snap.MemOK {
		m.enqueue(pipes[1], Sample{Metric: MetricMemory, At: snap.At, Value: snap.MemUtil})
	}
}

func (m *Monitor) enqueue(p *pipe, s Sample) {
	// Only the scrape loop puts, so the length cannot grow between the check
	// and the Put.
	if p.queue.Len() >= int64(m.cfg.QueueSize) {
		m.inst.dropped.WithLabelValues(p.metric).Inc()
		m.log.Warn("detect queue full, dropping sample", nil, map[string]interface{}{
			"metric": p.metric,
			"value":  s.Value,
		})
		return
	}
	_ = p.queue.Put(s)
}
