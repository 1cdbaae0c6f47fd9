// Package mongostore implements the store contracts on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/multierr"

	"github.com/OluRemiFour/OctoOps-backend/internal/store"
)

// Collection names match the ones the original Node service created.
const (
	usersCollection    = "users"
	projectsCollection = "projects"
	invitesCollection  = "teaminvites"
	tasksCollection    = "tasks"
	settingsCollection = "settings"
)

// Config describes how to reach MongoDB.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store implements store.Store backed by a mongo.Database.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration

	users    *userRepository
	projects *projectRepository
	invites  *inviteRepository
	tasks    *taskRepository
	settings *settingsRepository
}

var _ store.Store = (*Store)(nil)

// Open connects, pings and ensures indexes.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongostore: uri is required")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongostore: database name is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout).
		// nested documents inside settings sections decode as maps, not bson.D
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}

	st := New(client, cfg.Database)
	st.timeout = cfg.Timeout

	if err := st.Ping(connectCtx); err != nil {
		return nil, multierr.Append(fmt.Errorf("mongostore: ping: %w", err), client.Disconnect(context.Background()))
	}
	if err := st.EnsureIndexes(connectCtx); err != nil {
		return nil, multierr.Append(err, client.Disconnect(context.Background()))
	}
	return st, nil
}

// New wraps an existing client.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:   client,
		db:       db,
		timeout:  10 * time.Second,
		users:    &userRepository{coll: db.Collection(usersCollection)},
		projects: &projectRepository{coll: db.Collection(projectsCollection)},
		invites:  &inviteRepository{coll: db.Collection(invitesCollection)},
		tasks:    &taskRepository{coll: db.Collection(tasksCollection)},
		settings: &settingsRepository{coll: db.Collection(settingsCollection)},
	}
}

func (s *Store) Users() store.UserRepository        { return s.users }
func (s *Store) Projects() store.ProjectRepository  { return s.projects }
func (s *Store) Invites() store.InviteRepository    { return s.invites }
func (s *Store) Tasks() store.TaskRepository        { return s.tasks }
func (s *Store) Settings() store.SettingsRepository { return s.settings }

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	var errs error
	for name, indexes := range indexModels() {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("mongostore: create indexes on %s: %w", name, err))
		}
	}
	return errs
}

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		projectsCollection: {
			{Keys: bson.D{{Key: "ownerId", Value: 1}}},
		},
		invitesCollection: {
			{Keys: bson.D{{Key: "inviteCode", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "status", Value: 1}}},
		},
		tasksCollection: {
			{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "dependencies", Value: 1}}},
		},
		settingsCollection: {
			{Keys: bson.D{{Key: "projectId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
}
