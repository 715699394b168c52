package test

import (
	"bytes"
	"context"
	"io"
	"time"

	domainErrors "github.com/polkiloo/profilehub/internal/domain/errors"
	"github.com/polkiloo/profilehub/internal/domain/model"
)

// OnboardingFacadeStub implements handler facade for tests.
type OnboardingFacadeStub struct {
	RegisterFn func(context.Context, model.Registration) (*model.User, error)
	Assets     map[string][]byte
	OpenErr    error
	HealthErr  error
}

// Register echoes the profile back as a stored user unless RegisterFn is set.
func (s OnboardingFacadeStub) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, reg)
	}
	now := time.Unix(0, 0).UTC()
	friends := reg.Profile.Friends
	if friends == nil {
		friends = []string{}
	}
	return &model.User{
		ID:           "00000000-0000-0000-0000-000000000001",
		FirstName:    reg.Profile.FirstName,
		LastName:     reg.Profile.LastName,
		Email:        reg.Profile.Email,
		PasswordHash: "hash:" + reg.Password,
		Friends:      friends,
		Location:     reg.Profile.Location,
		Occupation:   reg.Profile.Occupation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// OpenAttachment serves content from Assets.
func (s OnboardingFacadeStub) OpenAttachment(_ context.Context, name string) (io.ReadCloser, error) {
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	data, ok := s.Assets[name]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// HealthCheck returns HealthErr.
func (s OnboardingFacadeStub) HealthCheck(context.Context) error {
	return s.HealthErr
}
