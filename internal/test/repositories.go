package test

import (
	"bytes"
	"context"
	"io"
	"sync"

	domainErrors "github.com/polkiloo/profilehub/internal/domain/errors"
	"github.com/polkiloo/profilehub/internal/domain/model"
	"github.com/polkiloo/profilehub/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
// Email uniqueness is enforced under a mutex like a unique index would.
type UserRepositoryStub struct {
	mu       sync.Mutex
	Users    map[string]*model.User
	Err      error
	CreateFn func(context.Context, *model.User) error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, user)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if _, exists := s.Users[user.Email]; exists {
		return domainErrors.ErrAlreadyExists
	}
	stored := *user
	s.Users[user.Email] = &stored
	return nil
}

// Stored returns the user saved under email.
func (s *UserRepositoryStub) Stored(email string) (*model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.Users[email]
	return user, ok
}

// Count returns the number of stored users.
func (s *UserRepositoryStub) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Users)
}

// HealthCheck returns the configured error.
func (s *UserRepositoryStub) HealthCheck(ctx context.Context) error {
	return s.Err
}

// AttachmentStoreStub keeps attachments in memory.
type AttachmentStoreStub struct {
	mu        sync.Mutex
	Files     map[string][]byte
	WriteErr  error
	RemoveErr error
	Removed   []string
}

// NewAttachmentStoreStub constructs an empty store.
func NewAttachmentStoreStub() *AttachmentStoreStub {
	return &AttachmentStoreStub{Files: make(map[string][]byte)}
}

// Write stores r under name, refusing to replace an existing file.
func (s *AttachmentStoreStub) Write(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Files == nil {
		s.Files = make(map[string][]byte)
	}
	if _, ok := s.Files[name]; ok {
		return domainErrors.ErrAlreadyExists
	}
	s.Files[name] = data
	return nil
}

// Open returns stored content or not found.
func (s *AttachmentStoreStub) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.Files[name]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Remove deletes name and records the call.
func (s *AttachmentStoreStub) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Removed = append(s.Removed, name)
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	delete(s.Files, name)
	return nil
}

// Len returns the number of stored files.
func (s *AttachmentStoreStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Files)
}

var (
	_ repository.UserRepository  = (*UserRepositoryStub)(nil)
	_ repository.HealthChecker   = (*UserRepositoryStub)(nil)
	_ repository.AttachmentStore = (*AttachmentStoreStub)(nil)
)
