package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gonum.org/v1/plot/vg"

	"github.com/aalemi-dev/anomaly-lab/logger"
	"github.com/aalemi-dev/anomaly-lab/monitor"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 5 * vg.Inch
)

// Server serves the dashboard page, the chart and a health check.
type Server struct {
	cfg    Config
	echo   *echo.Echo
	server *http.Server
	status monitor.StatusProvider
	log    logger.Logger
}

// New builds the server. status may be nil when no monitor runs in the
// process; the page then only shows the chart.
func New(cfg Config, status monitor.StatusProvider, log logger.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		status: status,
		log:    log.Named("dashboard"),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(
		middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			Skipper: func(c echo.Context) bool {
				return c.Request().URL.Path == "/healthz"
			},
			LogURI:     true,
			LogStatus:  true,
			LogLatency: true,
			LogError:   true,
			LogMethod:  true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				fields := map[string]interface{}{
					"method":  v.Method,
					"uri":     v.URI,
					"status":  v.Status,
					"latency": v.Latency.String(),
				}
				if v.Error != nil {
					s.log.Error("request failed", v.Error, fields)
				} else {
					s.log.Debug("request", nil, fields)
				}
				return nil
			},
		}),
		middleware.RecoverWithConfig(middleware.RecoverConfig{
			LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
				s.log.Error("panic recovered", err, map[string]interface{}{"stack": string(stack)})
				return nil
			},
		}),
	)

	e.GET("/", s.handleIndex)
	e.GET("/chart.svg", s.handleChart)
	e.GET("/healthz", s.handleHealth)

	s.echo = e
	s.server = &http.Server{Addr: cfg.Address}
	return s
}

// Handler exposes the routes, e.g. for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves in the background.
func (s *Server) Start() {
	s.log.Info("starting dashboard", nil, map[string]interface{}{"address": s.cfg.Address})
	go func() {
		if err := s.echo.StartServer(s.server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("dashboard server error", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down dashboard", nil)
	return s.server.Shutdown(ctx)
}

func (s *Server) handleIndex(c echo.Context) error {
	chart, err := s.chart()
	if err != nil {
		s.log.Warn("error loading metrics", err)
		page, rerr := renderError(err)
		if rerr != nil {
			return rerr
		}
		return c.HTML(http.StatusOK, page)
	}

	var status []monitor.Status
	if s.status != nil {
		status = s.status.Status()
	}
	page, err := renderPage(chart, status, s.cfg.Refresh)
	if err != nil {
		return err
	}
	return c.HTML(http.StatusOK, page)
}

func (s *Server) handleChart(c echo.Context) error {
	chart, err := s.chart()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Error loading metrics: "+err.Error())
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Blob(http.StatusOK, "image/svg+xml", chart)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (s *Server) chart() ([]byte, error) {
	series, err := LoadSeries(s.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return Chart(series, chartWidth, chartHeight)
}
