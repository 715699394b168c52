package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	domainErrors "github.com/polkiloo/profilehub/internal/domain/errors"
	"github.com/polkiloo/profilehub/internal/domain/model"
	"github.com/polkiloo/profilehub/internal/domain/repository"
	pkgAuth "github.com/polkiloo/profilehub/internal/pkg/auth"
	"github.com/polkiloo/profilehub/internal/usecase"
)

// OnboardingFacade runs the registration pipeline:
// receive attachment, validate and hash the credential, persist the user.
type OnboardingFacade struct {
	attachments *usecase.AttachmentUseCase
	registrar   *usecase.RegistrationUseCase
	hasher      pkgAuth.PasswordHasher
	health      repository.HealthChecker
	logger      *slog.Logger
}

func NewOnboardingFacade(
	attachments *usecase.AttachmentUseCase,
	registrar *usecase.RegistrationUseCase,
	hasher pkgAuth.PasswordHasher,
	health repository.HealthChecker,
	logger *slog.Logger,
) *OnboardingFacade {
	return &OnboardingFacade{
		attachments: attachments,
		registrar:   registrar,
		hasher:      hasher,
		health:      health,
		logger:      logger,
	}
}

// Register onboards a new user. Every failure is a *StageError.
// A picture stored before the failure is removed again.
func (f *OnboardingFacade) Register(ctx context.Context, reg model.Registration) (user *model.User, err error) {
	pictureRef, err := f.attachments.Receive(ctx, reg.Picture)
	if err != nil {
		return nil, &domainErrors.StageError{Stage: domainErrors.StageReceiving, Err: err}
	}
	if pictureRef != nil {
		defer func() {
			if err != nil {
				f.discard(context.WithoutCancel(ctx), *pictureRef)
			}
		}()
	}

	if verr := f.registrar.Validate(reg.Profile, reg.Password); verr != nil {
		return nil, &domainErrors.StageError{Stage: domainErrors.StageHashing, Err: verr}
	}

	hash, herr := f.hasher.Hash(reg.Password)
	if herr != nil {
		return nil, &domainErrors.StageError{Stage: domainErrors.StageHashing, Err: hashFailure(herr)}
	}

	user, err = f.registrar.Register(ctx, reg.Profile, hash, pictureRef)
	if err != nil {
		return nil, &domainErrors.StageError{Stage: domainErrors.StagePersisting, Err: err}
	}

	f.logger.Info("user registered",
		slog.String("user_id", user.ID),
		slog.Bool("picture", pictureRef != nil),
	)
	return user, nil
}

// OpenAttachment streams a stored picture.
func (f *OnboardingFacade) OpenAttachment(ctx context.Context, name string) (io.ReadCloser, error) {
	return f.attachments.Open(ctx, name)
}

// HealthCheck reports user store connectivity.
func (f *OnboardingFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

func (f *OnboardingFacade) discard(ctx context.Context, name string) {
	if err := f.attachments.Discard(ctx, name); err != nil {
		f.logger.Warn("attachment cleanup failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return
	}
	f.logger.Debug("attachment discarded", slog.String("name", name))
}

// Hasher input limits are reported as field errors, anything else is a crypto failure.
func hashFailure(err error) error {
	if errors.Is(err, pkgAuth.ErrPasswordTooLong) || errors.Is(err, pkgAuth.ErrEmptyPassword) {
		return &domainErrors.ValidationError{Fields: []string{"password"}}
	}
	return fmt.Errorf("%w: %w", domainErrors.ErrCrypto, err)
}
