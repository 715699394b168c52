package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/polkiloo/profilehub/internal/config"
	domainErrors "github.com/polkiloo/profilehub/internal/domain/errors"
	"github.com/polkiloo/profilehub/internal/domain/model"
	testhelpers "github.com/polkiloo/profilehub/internal/test"
)

func newAttachmentUseCase(store *testhelpers.AttachmentStoreStub, naming string) *AttachmentUseCase {
	uc := NewAttachmentUseCase(store, &config.Config{UploadNaming: naming}, nil)
	uc.newName = func() string { return "fixed-id" }
	return uc
}

func TestAttachmentReceiveNil(t *testing.T) {
	store := testhelpers.NewAttachmentStoreStub()
	uc := newAttachmentUseCase(store, config.NamingRandom)

	ref, err := uc.Receive(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != nil {
		t.Fatalf("expected nil reference, got %q", *ref)
	}
	if store.Len() != 0 {
		t.Fatalf("expected nothing written, got %d files", store.Len())
	}
}

func TestAttachmentReceiveRandomNaming(t *testing.T) {
	store := testhelpers.NewAttachmentStoreStub()
	uc := newAttachmentUseCase(store, config.NamingRandom)

	ref, err := uc.Receive(context.Background(), testhelpers.NewUpload("../../etc/Avatar.PNG", []byte("img")))
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if ref == nil || *ref != "fixed-id.png" {
		t.Fatalf("unexpected reference %v", ref)
	}

	rc, err := store.Open(context.Background(), *ref)
	if err != nil {
		t.Fatalf("stored file not found: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "img" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestAttachmentReceiveOriginalNaming(t *testing.T) {
	cases := map[string]string{
		"avatar.png":              "avatar.png",
		"C:\\Users\\me\\face.jpg": "face.jpg",
		"../../secret.txt":        "secret.txt",
		"..":                      "fixed-id",
		"":                        "fixed-id",
	}
	for in, want := range cases {
		store := testhelpers.NewAttachmentStoreStub()
		uc := newAttachmentUseCase(store, config.NamingOriginal)
		ref, err := uc.Receive(context.Background(), testhelpers.NewUpload(in, []byte("x")))
		if err != nil {
			t.Fatalf("receive %q: %v", in, err)
		}
		if *ref != want {
			t.Errorf("filename %q stored as %q, want %q", in, *ref, want)
		}
	}
}

func TestAttachmentReceiveOriginalNamingKeepsTakenName(t *testing.T) {
	store := testhelpers.NewAttachmentStoreStub()
	store.Files["avatar.png"] = []byte("first")
	uc := newAttachmentUseCase(store, config.NamingOriginal)

	ref, err := uc.Receive(context.Background(), testhelpers.NewUpload("avatar.png", []byte("second")))
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if *ref != "fixed-id.png" {
		t.Fatalf("expected fallback to generated name, got %q", *ref)
	}
	if string(store.Files["avatar.png"]) != "first" || string(store.Files["fixed-id.png"]) != "second" {
		t.Fatalf("unexpected store contents %v", store.Files)
	}

	// A generated name that is also taken is an io failure, not a conflict.
	_, err = uc.Receive(context.Background(), testhelpers.NewUpload("avatar.png", []byte("third")))
	if !errors.Is(err, domainErrors.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestExtensionSanitizing(t *testing.T) {
	cases := map[string]string{
		"a.JPG":          ".jpg",
		"a.tar.gz":       ".gz",
		"noext":          "",
		"a.":             "",
		"a.p$h%p":        ".php",
		"a.verylongext1": "",
		"dir.d/file":     "",
	}
	for in, want := range cases {
		if got := extension(in); got != want {
			t.Errorf("extension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAttachmentReceiveWriteError(t *testing.T) {
	store := testhelpers.NewAttachmentStoreStub()
	store.WriteErr = errors.New("disk full")
	uc := newAttachmentUseCase(store, config.NamingRandom)

	_, err := uc.Receive(context.Background(), testhelpers.NewUpload("a.png", []byte("x")))
	if !errors.Is(err, domainErrors.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected cause in error, got %v", err)
	}
}

func TestAttachmentReceiveOpenError(t *testing.T) {
	uc := newAttachmentUseCase(testhelpers.NewAttachmentStoreStub(), config.NamingRandom)

	upload := &model.Upload{Filename: "a.png", Open: func() (io.ReadCloser, error) {
		return nil, errors.New("tmp file vanished")
	}}
	if _, err := uc.Receive(context.Background(), upload); !errors.Is(err, domainErrors.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if _, err := uc.Receive(context.Background(), &model.Upload{Filename: "a.png"}); !errors.Is(err, domainErrors.ErrIO) {
		t.Fatalf("expected ErrIO for upload without content, got %v", err)
	}
}

func TestAttachmentDiscard(t *testing.T) {
	store := testhelpers.NewAttachmentStoreStub()
	uc := newAttachmentUseCase(store, config.NamingRandom)

	ref, err := uc.Receive(context.Background(), testhelpers.NewUpload("a.png", []byte("x")))
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if err := uc.Discard(context.Background(), *ref); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if store.Len() != 0 {
		t.Fatal("expected attachment removed")
	}
	if err := uc.Discard(context.Background(), ""); err != nil {
		t.Fatalf("discard of empty name: %v", err)
	}

	store.RemoveErr = domainErrors.ErrNotFound
	if err := uc.Discard(context.Background(), "gone.png"); err != nil {
		t.Fatalf("missing attachment must not fail discard: %v", err)
	}

	store.RemoveErr = errors.New("permission denied")
	if err := uc.Discard(context.Background(), "locked.png"); !errors.Is(err, domainErrors.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestNewAttachmentUseCaseDefaults(t *testing.T) {
	uc := NewAttachmentUseCase(testhelpers.NewAttachmentStoreStub(), nil, nil)
	if uc.naming != config.NamingRandom {
		t.Fatalf("expected random naming, got %q", uc.naming)
	}
	if uc.logger == nil || uc.newName == nil {
		t.Fatal("expected defaults to be set")
	}
}

func TestAttachmentOpen(t *testing.T) {
	store := testhelpers.NewAttachmentStoreStub()
	uc := newAttachmentUseCase(store, config.NamingRandom)

	ref, err := uc.Receive(context.Background(), testhelpers.NewUpload("a.gif", []byte("gif")))
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	rc, err := uc.Open(context.Background(), *ref)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	if data, _ := io.ReadAll(rc); string(data) != "gif" {
		t.Fatalf("unexpected content %q", data)
	}

	for _, name := range []string{"missing.png", "../a.gif", "", "x/y.png"} {
		if _, err := uc.Open(context.Background(), name); !errors.Is(err, domainErrors.ErrNotFound) {
			t.Errorf("Open(%q) = %v, want ErrNotFound", name, err)
		}
	}
}
