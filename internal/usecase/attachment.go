package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/polkiloo/profilehub/internal/config"
	domainErrors "github.com/polkiloo/profilehub/internal/domain/errors"
	"github.com/polkiloo/profilehub/internal/domain/model"
	"github.com/polkiloo/profilehub/internal/domain/repository"
)

const maxExtensionLen = 8

// AttachmentUseCase stores uploaded pictures under a stable name.
type AttachmentUseCase struct {
	store   repository.AttachmentStore
	naming  string
	newName func() string
	logger  *slog.Logger
}

// NewAttachmentUseCase constructs AttachmentUseCase.
func NewAttachmentUseCase(store repository.AttachmentStore, cfg *config.Config, logger *slog.Logger) *AttachmentUseCase {
	naming := config.NamingRandom
	if cfg != nil && cfg.UploadNaming != "" {
		naming = cfg.UploadNaming
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AttachmentUseCase{
		store:   store,
		naming:  naming,
		newName: uuid.NewString,
		logger:  logger,
	}
}

// Receive writes the upload and returns its stored name.
// A nil upload is not an error and yields a nil reference.
func (u *AttachmentUseCase) Receive(ctx context.Context, upload *model.Upload) (*string, error) {
	if upload == nil {
		return nil, nil
	}
	if upload.Open == nil {
		return nil, fmt.Errorf("%w: upload has no content", domainErrors.ErrIO)
	}

	name := u.storedName(upload.Filename)
	err := u.write(ctx, name, upload)
	if errors.Is(err, domainErrors.ErrAlreadyExists) && u.naming == config.NamingOriginal {
		// Taken names belong to other users; never replace them.
		name = u.newName() + extension(upload.Filename)
		err = u.write(ctx, name, upload)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: write %s: %w", domainErrors.ErrIO, name, err)
	}

	u.logger.Debug("attachment stored", slog.String("name", name), slog.Int64("size", upload.Size))
	return &name, nil
}

func (u *AttachmentUseCase) write(ctx context.Context, name string, upload *model.Upload) error {
	src, err := upload.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()
	return u.store.Write(ctx, name, src, upload.Size, upload.ContentType)
}

// Discard removes a previously received attachment.
func (u *AttachmentUseCase) Discard(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	if err := u.store.Remove(ctx, name); err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		return fmt.Errorf("%w: remove %s: %w", domainErrors.ErrIO, name, err)
	}
	return nil
}

// Open streams a stored attachment; unknown names yield ErrNotFound.
func (u *AttachmentUseCase) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if baseName(name) != name {
		return nil, domainErrors.ErrNotFound
	}
	return u.store.Open(ctx, name)
}

func (u *AttachmentUseCase) storedName(filename string) string {
	if u.naming == config.NamingOriginal {
		if base := baseName(filename); base != "" {
			return base
		}
	}
	return u.newName() + extension(filename)
}

// baseName strips client supplied directories, including Windows ones.
func baseName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	switch base {
	case "", ".", "..", "/":
		return ""
	}
	return base
}

func extension(filename string) string {
	ext := strings.ToLower(path.Ext(baseName(filename)))
	if len(ext) < 2 {
		return ""
	}
	var b strings.Builder
	for _, r := range ext[1:] {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 || b.Len() > maxExtensionLen {
		return ""
	}
	return "." + b.String()
}
