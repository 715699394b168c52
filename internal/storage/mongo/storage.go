package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	domainErrors "github.com/polkiloo/profilehub/internal/domain/errors"
	"github.com/polkiloo/profilehub/internal/domain/model"
	"github.com/polkiloo/profilehub/internal/domain/repository"
)

const (
	defaultDatabase   = "profilehub"
	usersCollection   = "users"
	disconnectTimeout = 5 * time.Second
)

// collection is the subset of *mongo.Collection used by the repository.
type collection interface {
	InsertOne(ctx context.Context, doc any) error
	EnsureEmailIndex(ctx context.Context) error
}

type client interface {
	Ping(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Users(database string) collection
}

var connect = func(uri string) (client, error) {
	c, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	return &driverClient{client: c}, nil
}

// Storage acts as repository facade backed by MongoDB.
type Storage struct {
	client client
	users  collection
	logger *slog.Logger
}

type userRepository struct {
	storage *Storage
}

// New connects to MongoDB and ensures the email index exists.
func New(ctx context.Context, uri string, logger *slog.Logger) (*Storage, error) {
	database, err := databaseName(uri)
	if err != nil {
		return nil, err
	}

	c, err := connect(uri)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	storage := &Storage{client: c, users: c.Users(database), logger: logger}
	if err := c.Ping(ctx); err != nil {
		storage.Close()
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if err := storage.users.EnsureEmailIndex(ctx); err != nil {
		storage.Close()
		return nil, fmt.Errorf("init indexes: %w", err)
	}

	logger.Info("mongo storage ready", slog.String("database", database))
	return storage, nil
}

// Close disconnects the client.
func (s *Storage) Close() {
	if s.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Warn("mongo disconnect failed", slog.String("error", err.Error()))
	}
}

// Users returns the user repository.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx)
}

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	err := r.storage.users.InsertOne(ctx, toDocument(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.storage.logger.Debug("duplicate email rejected")
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func databaseName(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse mongo uri: %w", err)
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return "", fmt.Errorf("unsupported mongo scheme %q", u.Scheme)
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name, nil
	}
	return defaultDatabase, nil
}

type driverClient struct {
	client *mongo.Client
}

func (c *driverClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *driverClient) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

func (c *driverClient) Users(database string) collection {
	return &driverCollection{coll: c.client.Database(database).Collection(usersCollection)}
}

type driverCollection struct {
	coll *mongo.Collection
}

func (c *driverCollection) InsertOne(ctx context.Context, doc any) error {
	_, err := c.coll.InsertOne(ctx, doc)
	return err
}

func (c *driverCollection) EnsureEmailIndex(ctx context.Context) error {
	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_users_email"),
	})
	return err
}
