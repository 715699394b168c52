package mongo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	domainErrors "github.com/polkiloo/profilehub/internal/domain/errors"
	"github.com/polkiloo/profilehub/internal/domain/model"
)

type fakeCollection struct {
	mu       sync.Mutex
	docs     map[string]userDocument
	insertFn func(any) error
	indexErr error
	indexed  bool
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{docs: make(map[string]userDocument)}
}

func (c *fakeCollection) InsertOne(_ context.Context, doc any) error {
	if c.insertFn != nil {
		return c.insertFn(doc)
	}
	d := doc.(userDocument)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.docs {
		if existing.Email == d.Email {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
		}
	}
	c.docs[d.ID] = d
	return nil
}

func (c *fakeCollection) EnsureEmailIndex(context.Context) error {
	c.indexed = true
	return c.indexErr
}

type fakeClient struct {
	coll          *fakeCollection
	pingErr       error
	disconnectErr error
	database      string
	disconnected  bool
}

func (c *fakeClient) Ping(context.Context) error { return c.pingErr }

func (c *fakeClient) Disconnect(context.Context) error {
	c.disconnected = true
	return c.disconnectErr
}

func (c *fakeClient) Users(database string) collection {
	c.database = database
	return c.coll
}

func useFakeClient(t *testing.T, fc *fakeClient) {
	t.Helper()
	orig := connect
	t.Cleanup(func() { connect = orig })
	connect = func(string) (client, error) { return fc, nil }
}

func newTestStorage() (*Storage, *fakeCollection, *fakeClient) {
	coll := newFakeCollection()
	fc := &fakeClient{coll: coll}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return &Storage{client: fc, users: coll, logger: logger}, coll, fc
}

func sampleUser(id, email string) *model.User {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &model.User{
		ID:         id,
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      email,
		Location:   "London",
		Occupation: "Analyst",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestNew(t *testing.T) {
	t.Run("invalid uri", func(t *testing.T) {
		if _, err := New(context.Background(), "postgres://localhost/db", nil); err == nil {
			t.Fatal("expected scheme error")
		}
	})

	t.Run("connect error", func(t *testing.T) {
		orig := connect
		t.Cleanup(func() { connect = orig })
		connect = func(string) (client, error) { return nil, errors.New("dial") }
		if _, err := New(context.Background(), "mongodb://localhost", nil); err == nil {
			t.Fatal("expected connect error")
		}
	})

	t.Run("success", func(t *testing.T) {
		fc := &fakeClient{coll: newFakeCollection()}
		useFakeClient(t, fc)

		st, err := New(context.Background(), "mongodb://localhost:27017/social?retryWrites=true", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fc.database != "social" {
			t.Fatalf("unexpected database %q", fc.database)
		}
		if !fc.coll.indexed {
			t.Fatal("expected email index to be ensured")
		}
		st.Close()
		if !fc.disconnected {
			t.Fatal("expected disconnect on close")
		}
	})

	t.Run("ping failure disconnects", func(t *testing.T) {
		fc := &fakeClient{coll: newFakeCollection(), pingErr: errors.New("no primary")}
		useFakeClient(t, fc)
		if _, err := New(context.Background(), "mongodb://localhost", nil); err == nil {
			t.Fatal("expected ping error")
		}
		if !fc.disconnected {
			t.Fatal("expected disconnect after failed ping")
		}
	})

	t.Run("index failure disconnects", func(t *testing.T) {
		coll := newFakeCollection()
		coll.indexErr = errors.New("index conflict")
		fc := &fakeClient{coll: coll}
		useFakeClient(t, fc)
		if _, err := New(context.Background(), "mongodb://localhost", nil); err == nil {
			t.Fatal("expected index error")
		}
		if !fc.disconnected {
			t.Fatal("expected disconnect after failed index")
		}
	})
}

func TestDatabaseName(t *testing.T) {
	cases := map[string]string{
		"mongodb://localhost":                     defaultDatabase,
		"mongodb://localhost/":                    defaultDatabase,
		"mongodb://u:p@host:27017/app?authSource": "app",
		"mongodb+srv://cluster.example.net/prod":  "prod",
	}
	for uri, want := range cases {
		got, err := databaseName(uri)
		if err != nil {
			t.Fatalf("databaseName(%q): %v", uri, err)
		}
		if got != want {
			t.Errorf("databaseName(%q) = %q, want %q", uri, got, want)
		}
	}
	if _, err := databaseName("http://localhost/db"); err == nil {
		t.Fatal("expected error for non-mongo scheme")
	}
}

func TestUserRepository(t *testing.T) {
	st, coll, _ := newTestStorage()
	repo := st.Users()
	ctx := context.Background()

	pic := "face.png"
	u := sampleUser("id-1", "ada@example.com")
	u.PicturePath = &pic
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if coll.docs["id-1"].Friends == nil {
		t.Fatal("expected friends stored as empty array")
	}
	if stored := coll.docs["id-1"]; stored.PicturePath == nil || *stored.PicturePath != "face.png" || stored.PasswordHash != u.PasswordHash {
		t.Fatalf("unexpected stored document %+v", stored)
	}

	if err := repo.Create(ctx, sampleUser("id-2", "ada@example.com")); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	coll.insertFn = func(any) error { return errors.New("timeout") }
	if err := repo.Create(ctx, sampleUser("id-3", "x@example.com")); err == nil || errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected raw insert error, got %v", err)
	}
}

func TestHealthCheckAndClose(t *testing.T) {
	st, _, fc := newTestStorage()
	if err := st.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fc.pingErr = errors.New("down")
	if err := st.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}

	fc.disconnectErr = errors.New("already closed")
	st.Close()
	if !fc.disconnected {
		t.Fatal("expected disconnect")
	}

	(&Storage{}).Close()
}
