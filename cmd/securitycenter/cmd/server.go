package cmd

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/alibeddi/securitycenter/api"
	"github.com/alibeddi/securitycenter/internal/config"
	"github.com/alibeddi/securitycenter/upstream"
	"github.com/alibeddi/securitycenter/web"
)

var (
	listenAddr string
	auditDB    string
	tlsCert    string
	tlsKey     string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if listenAddr != "" {
			cfg.ListenAddr = listenAddr
		}
		if auditDB != "" {
			cfg.AuditDBPath = auditDB
		}

		up := upstream.New(cfg.UpstreamBaseURL,
			upstream.WithEndpoints(upstream.Endpoints{
				Login:    cfg.UpstreamLoginPath,
				Refresh:  cfg.UpstreamRefreshPath,
				Validate: cfg.UpstreamValidatePath,
				Alerts:   cfg.UpstreamAlertsPath,
			}),
			upstream.WithTimeout(cfg.UpstreamTimeout),
		)

		opts := []api.Option{
			api.WithBackendRefresh(cfg.EnableBackendRefresh),
			api.WithTokenValidation(cfg.EnableTokenValidation),
			api.WithForceSecureCookies(cfg.ForceSecureCookies),
			api.WithMetrics(api.NewMetrics(prometheus.DefaultRegisterer)),
		}
		if cfg.AuditDBPath != "" {
			store, err := api.NewBoltAuditStore(cfg.AuditDBPath)
			if err != nil {
				return fmt.Errorf("failed to open audit store: %w", err)
			}
			defer store.Close()
			opts = append(opts, api.WithAuditStore(store))
		}
		a := api.New(up, opts...)

		webHandler, err := web.Handler()
		if err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Use(api.SecurityHeaders)
		r.Use(api.RouteGate)

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})
		r.Handle("/metrics", promhttp.Handler())
		r.Mount("/api", a.Router())
		r.Handle("/*", webHandler)

		server := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		useTLS := tlsCert != "" && tlsKey != ""
		if useTLS {
			cert, err := tls.LoadX509KeyPair(tlsCert, tlsKey)
			if err != nil {
				return fmt.Errorf("failed to load TLS key pair: %w", err)
			}
			server.TLSConfig = &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			}
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			var err error
			if useTLS {
				err = server.ListenAndServeTLS("", "")
			} else {
				err = server.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		printBanner()
		fmt.Printf("Starting server on %s (upstream: %s)...\n", cfg.ListenAddr, cfg.UpstreamBaseURL)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringVarP(&listenAddr, "addr", "a", "", "Listen address (overrides LISTEN_ADDR)")
	serverCmd.Flags().StringVar(&auditDB, "audit-db", "", "Path to the audit trail database (overrides AUDIT_DB_PATH)")
	serverCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to TLS certificate file")
	serverCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to TLS key file")
}
