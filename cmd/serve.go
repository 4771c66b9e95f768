package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"portfolio/config"
	"portfolio/controllers"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// formOverhead is the room left for text fields and multipart framing on top
// of the largest accepted upload.
const formOverhead = 1 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API. The schema (or the mongo indexes) is migrated before
the listener starts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Migrate(ctx); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	deps := controllers.Deps{
		Auth:               a.auth,
		Posts:              a.posts,
		Projects:           a.projects,
		Hub:                a.hub,
		Log:                logger,
		AllowedOrigins:     cfg.AllowedOrigins,
		CookieSecure:       cfg.CookieSecure,
		MaxMultipartMemory: cfg.MaxUploadBytes,
		MaxBodyBytes:       cfg.MaxUploadBytes + formOverhead,
	}
	if cfg.MediaStrategy == config.MediaLocal {
		deps.UploadDir = cfg.UploadDir
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           controllers.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
