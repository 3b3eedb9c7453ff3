package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andreasstove999/versus/api-service-go/internal/config"
	"github.com/andreasstove999/versus/api-service-go/internal/middleware"
)

const metricsPath = "/metrics"

type Deps struct {
	Logger *slog.Logger
	Cfg    config.Config
}

func NewRouter(d Deps) http.Handler {
	return newRouter(d)
}

func newRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	var reg *prometheus.Registry
	if d.Cfg.MetricsEnabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	// outer -> inner. Metrics sit outside Recover so recovered panics are
	// counted as 500s.
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID(d.Logger))
	r.Use(middleware.Logging(d.Logger))
	if reg != nil {
		r.Use(middleware.NewMetrics(reg).Instrument)
	}
	r.Use(middleware.Recover(d.Logger))
	r.Use(middleware.CORS(d.Cfg.CORSAllowOrigins))

	if reg != nil {
		r.Method(http.MethodGet, metricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	r.Get("/", rootHandler)
	r.Get("/health", healthHandler)

	return r
}
