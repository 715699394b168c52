package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"go.uber.org/fx"

	"github.com/polkiloo/profilehub/internal/config"
	"github.com/polkiloo/profilehub/internal/domain/repository"
	"github.com/polkiloo/profilehub/internal/storage/disk"
	"github.com/polkiloo/profilehub/internal/storage/mongo"
	"github.com/polkiloo/profilehub/internal/storage/postgres"
	"github.com/polkiloo/profilehub/internal/storage/s3"
)

// Backend is a user store with its own connection lifecycle.
type Backend interface {
	Users() repository.UserRepository
	HealthCheck(ctx context.Context) error
	Close()
}

// Module wires the user store selected by DSN scheme and the attachment store.
var Module = moduleWith(newBackend)

// ModuleWithBackend wires the same graph around an already opened user store.
func ModuleWithBackend(b Backend) fx.Option {
	return moduleWith(func() Backend { return b })
}

func moduleWith(backend any) fx.Option {
	return fx.Options(
		fx.Provide(backend),
		fx.Provide(
			func(b Backend) repository.UserRepository { return b.Users() },
			func(b Backend) repository.HealthChecker { return b },
			newAttachmentStore,
		),
		fx.Invoke(registerLifecycle),
	)
}

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

var (
	openPostgres = func(ctx context.Context, dsn string, logger *slog.Logger) (Backend, error) {
		st, err := postgres.New(ctx, dsn, logger)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	openMongo = func(ctx context.Context, dsn string, logger *slog.Logger) (Backend, error) {
		st, err := mongo.New(ctx, dsn, logger)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
)

func newBackend(p storageParams) (Backend, error) {
	u, err := url.Parse(p.Config.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("parse database uri: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return openPostgres(p.Ctx, p.Config.DatabaseURI, p.Logger)
	case "mongodb", "mongodb+srv":
		return openMongo(p.Ctx, p.Config.DatabaseURI, p.Logger)
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

func newAttachmentStore(p storageParams) (repository.AttachmentStore, error) {
	if p.Config.S3.Enabled() {
		st, err := s3.New(p.Ctx, p.Config.S3, p.Logger)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	st, err := disk.New(p.Config.UploadDir)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("local attachment store ready", slog.String("dir", st.Root()))
	return st, nil
}

func registerLifecycle(lc fx.Lifecycle, backend Backend) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			backend.Close()
			return nil
		},
	})
}
