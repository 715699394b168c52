package handlers

import (
	"context"
	"io"

	"github.com/polkiloo/profilehub/internal/domain/model"
)

// RegistrationFacade runs the registration pipeline.
type RegistrationFacade interface {
	Register(ctx context.Context, reg model.Registration) (*model.User, error)
}

// AssetFacade exposes stored attachments.
type AssetFacade interface {
	OpenAttachment(ctx context.Context, name string) (io.ReadCloser, error)
}

// HealthFacade reports dependency health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// OnboardingFacade aggregates the operations used across handlers.
type OnboardingFacade interface {
	RegistrationFacade
	AssetFacade
	HealthFacade
}
