package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/nxncube"
	"github.com/SeamusWaldron/nxncube/internal/metrics"
	"github.com/SeamusWaldron/nxncube/internal/replication"
)

var (
	serveAddr string
	serveSize int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a replication hub",
	Long: `Run a websocket hub that shares one puzzle between players.

Routes:
  GET /ws       - Replication websocket (nxncube play --connect ws://HOST/ws)
  GET /healthz  - Liveness check
  GET /metrics  - Prometheus metrics (disable with server.metrics: false)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().IntVarP(&serveSize, "size", "n", 0, "Puzzle size (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, "serve", false)
	defer log.Close()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// The hub never renders, so turns complete on submission.
	e, err := nxncube.NewEngine(sizeOrDefault(cfg, serveSize),
		nxncube.WithAnimationDuration(0),
		nxncube.WithObserver(m),
		nxncube.WithLogger(log.Slog()))
	if err != nil {
		return err
	}
	hub := replication.NewHub(e, log.Slog(), m)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go hub.Run(ctx)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(hub, reg, cfg.Server.Metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("server shutdown failed", "error", err)
		}
	}()

	log.Info("replication hub listening", "addr", addr, "size", e.Size(), "metrics", cfg.Server.Metrics)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	log.Info("replication hub stopped")
	return nil
}

// newRouter wires the hub and metrics endpoints.
func newRouter(hub http.Handler, reg *prometheus.Registry, withMetrics bool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ws", gin.WrapH(hub))
	if withMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	}
	return router
}
