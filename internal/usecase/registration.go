package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	domainErrors "github.com/polkiloo/profilehub/internal/domain/errors"
	"github.com/polkiloo/profilehub/internal/domain/model"
	"github.com/polkiloo/profilehub/internal/domain/repository"
)

// Upper bound (exclusive) of the engagement counters seeded on registration.
const counterLimit = 10000

type profileInput struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Location   string `json:"location" validate:"required"`
	Occupation string `json:"occupation" validate:"required"`
}

type credentialInput struct {
	profileInput
	Password string `json:"password" validate:"required"`
}

// RegistrationUseCase validates and persists new users.
type RegistrationUseCase struct {
	users    repository.UserRepository
	validate *validator.Validate
	newID    func() string
	intn     func(int) int
	now      func() time.Time
}

// NewRegistrationUseCase constructs RegistrationUseCase.
func NewRegistrationUseCase(users repository.UserRepository) *RegistrationUseCase {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &RegistrationUseCase{
		users:    users,
		validate: v,
		newID:    uuid.NewString,
		intn:     rand.Intn,
		now:      time.Now,
	}
}

// Validate reports every missing or malformed field, password included.
func (u *RegistrationUseCase) Validate(profile model.Profile, password string) error {
	return u.check(credentialInput{profileInput: normalize(profile), Password: password})
}

// Register assembles a user from profile and persists it.
// The returned record carries the credential hash; callers must not expose it.
func (u *RegistrationUseCase) Register(ctx context.Context, profile model.Profile, passwordHash string, pictureRef *string) (*model.User, error) {
	in := normalize(profile)
	if err := u.check(in); err != nil {
		return nil, err
	}

	friends := make([]string, 0, len(profile.Friends))
	for _, f := range profile.Friends {
		if f = strings.TrimSpace(f); f != "" {
			friends = append(friends, f)
		}
	}

	now := u.now().UTC()
	user := &model.User{
		ID:            u.newID(),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		PasswordHash:  passwordHash,
		PicturePath:   pictureRef,
		Friends:       friends,
		Location:      in.Location,
		Occupation:    in.Occupation,
		ViewedProfile: u.intn(counterLimit),
		Impressions:   u.intn(counterLimit),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrStorage, err)
	}

	return user, nil
}

func (u *RegistrationUseCase) check(in any) error {
	err := u.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", domainErrors.ErrValidation, err)
	}

	seen := make(map[string]struct{}, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if _, ok := seen[fe.Field()]; ok {
			continue
		}
		seen[fe.Field()] = struct{}{}
		fields = append(fields, fe.Field())
	}
	sort.Strings(fields)

	return &domainErrors.ValidationError{Fields: fields}
}

func normalize(p model.Profile) profileInput {
	return profileInput{
		FirstName:  strings.TrimSpace(p.FirstName),
		LastName:   strings.TrimSpace(p.LastName),
		Email:      strings.ToLower(strings.TrimSpace(p.Email)),
		Location:   strings.TrimSpace(p.Location),
		Occupation: strings.TrimSpace(p.Occupation),
	}
}
