package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"todo-app/internal/logger"
)

// NewRouter отдает только метрики и проверку живости, список задач через HTTP недоступен
func NewRouter(gatherer prometheus.Gatherer) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP)
	r.Get("/healthz", healthHandler())
	return r
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}
}

// MetricsServer - необязательный эндпоинт метрик, включается metrics.addr в конфиге
type MetricsServer struct {
	srv *http.Server
}

func NewMetricsServer(addr string) *MetricsServer {
	return &MetricsServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(prometheus.DefaultGatherer),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start запускает сервер в фоне. Ошибка прослушивания только логируется:
// интерактивная сессия от метрик не зависит.
func (m *MetricsServer) Start(ctx context.Context) {
	go func() {
		logger.Info(ctx, "Эндпоинт метрик запущен", "addr", m.srv.Addr)
		if err := m.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, err, "Ошибка сервера метрик", "addr", m.srv.Addr)
		}
	}()
}

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.srv.Shutdown(ctx)
}
