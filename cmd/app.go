package cmd

import (
	"context"
	"fmt"
	"log"

	"portfolio/config"
	"portfolio/media"
	"portfolio/realtime"
	"portfolio/services"
	"portfolio/store"
)

// app bundles the long-lived components built from a Config.
type app struct {
	cfg      *config.Config
	log      *log.Logger
	store    store.Store
	auth     *services.AuthService
	posts    *services.PostService
	projects *services.ProjectService
	hub      *realtime.Hub
}

func newApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*app, error) {
	s, err := config.OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	auth, err := newAuthService(cfg, s)
	if err != nil {
		s.Close()
		return nil, err
	}

	ingester, err := newIngester(cfg, logger)
	if err != nil {
		s.Close()
		return nil, err
	}

	opts := services.ContentOptions{
		TrackAuthors:     cfg.TrackAuthors,
		EnforceOwnership: cfg.EnforceOwnership,
		ListLimit:        cfg.ListLimit,
	}
	hub := realtime.NewHub(cfg.AllowedOrigins, logger)
	posts := services.NewPostService(s.Posts(), ingester, opts, logger)
	posts.SetNotifier(hub)
	projects := services.NewProjectService(s.Projects(), ingester, opts, logger)
	projects.SetNotifier(hub)

	return &app{
		cfg:      cfg,
		log:      logger,
		store:    s,
		auth:     auth,
		posts:    posts,
		projects: projects,
		hub:      hub,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func newAuthService(cfg *config.Config, s store.Store) (*services.AuthService, error) {
	return services.NewAuthService(s.Users(), services.AuthConfig{
		Secret:     cfg.Secret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	})
}

func newIngester(cfg *config.Config, logger *log.Logger) (media.Ingester, error) {
	stager := media.Stager{Dir: cfg.TempDir, MaxBytes: cfg.MaxUploadBytes}

	switch cfg.MediaStrategy {
	case config.MediaLocal:
		return media.NewLocal(stager, cfg.UploadDir, "/uploads"), nil
	case config.MediaCloudinary:
		up, err := media.NewCloudinaryUploader(
			cfg.CloudinaryURL,
			cfg.CloudinaryCloudName,
			cfg.CloudinaryAPIKey,
			cfg.CloudinaryAPISecret,
			cfg.CloudinaryFolder,
		)
		if err != nil {
			return nil, err
		}
		return media.NewCloud(stager, up, logger), nil
	}
	return nil, fmt.Errorf("unknown media strategy %q", cfg.MediaStrategy)
}
