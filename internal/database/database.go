package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mx-space/portfolio/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	StateConnected    = "connected"
	StateDisconnected = "disconnected"
)

// ErrClosed is returned by Database after Close.
var ErrClosed = errors.New("database handle closed")

// Hook runs once against a freshly connected database.
type Hook func(ctx context.Context, db *mongo.Database) error

// Handle owns the process-wide MongoDB client. The connection is opened on
// first use and reused afterwards; a failed attempt is retried on the next call.
type Handle struct {
	cfg    config.MongoConfig
	log    *zap.Logger
	onOpen Hook

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
	closed bool

	connect func(ctx context.Context, opts ...*options.ClientOptions) (*mongo.Client, error)
}

// New returns a handle that has not connected yet.
func New(cfg config.MongoConfig, log *zap.Logger, onOpen Hook) *Handle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handle{
		cfg:     cfg,
		log:     log,
		onOpen:  onOpen,
		connect: mongo.Connect,
	}
}

func (h *Handle) clientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(h.cfg.URI).
		SetServerSelectionTimeout(h.cfg.ServerSelectionTimeout).
		SetSocketTimeout(h.cfg.SocketTimeout).
		SetConnectTimeout(h.cfg.ConnectTimeout).
		SetMaxPoolSize(h.cfg.MaxPoolSize).
		SetMinPoolSize(h.cfg.MinPoolSize).
		SetMaxConnIdleTime(h.cfg.MaxIdleTime).
		SetRetryReads(true).
		SetRetryWrites(true)
}

// Database returns the connected database, connecting on first use.
func (h *Handle) Database(ctx context.Context) (*mongo.Database, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}
	if h.db != nil {
		return h.db, nil
	}

	client, err := h.connect(ctx, h.clientOptions())
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(h.cfg.Database)
	if h.onOpen != nil {
		if err := h.onOpen(ctx, db); err != nil {
			// Index problems must not take reads down.
			h.log.Error("mongo on-connect hook failed", zap.Error(err))
		}
	}

	h.client = client
	h.db = db
	h.log.Info("mongo connected", zap.Strings("hosts", h.Hosts()), zap.String("database", h.cfg.Database))
	return db, nil
}

// State reports whether a live client is held.
func (h *Handle) State() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.client != nil {
		return StateConnected
	}
	return StateDisconnected
}

// Ping issues a primary ping, connecting first if needed.
func (h *Handle) Ping(ctx context.Context) error {
	db, err := h.Database(ctx)
	if err != nil {
		return err
	}
	return db.Client().Ping(ctx, readpref.Primary())
}

// Hosts lists the configured seed hosts.
func (h *Handle) Hosts() []string {
	return options.Client().ApplyURI(h.cfg.URI).Hosts
}

// Name is the configured database name.
func (h *Handle) Name() string { return h.cfg.Database }

// Close disconnects the client. Later calls to Database fail with ErrClosed.
func (h *Handle) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	if h.client == nil {
		return nil
	}
	err := h.client.Disconnect(ctx)
	h.client = nil
	h.db = nil
	return err
}
