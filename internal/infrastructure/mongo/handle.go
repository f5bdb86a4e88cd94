package mongostore

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DialFunc opens a client and verifies it can reach the deployment.
type DialFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// Handle is a lazily connected, memoized collection handle. It is created
// once by the process bootstrap and shared by reference; the first caller
// pays for the connection and later callers reuse it. A failed connect is
// not cached.
type Handle struct {
	uri        string
	database   string
	collection string
	dial       DialFunc

	mu     sync.Mutex
	client *mongo.Client
	coll   *mongo.Collection
}

func NewHandle(uri, database, collection string) *Handle {
	return &Handle{uri: uri, database: database, collection: collection, dial: Dial}
}

// WithDial replaces how the handle connects.
func (h *Handle) WithDial(d DialFunc) *Handle {
	h.dial = d
	return h
}

// Dial connects to uri and pings the primary.
func Dial(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping: %w", err)
	}
	return client, nil
}

// URI builds the Atlas SRV connection string with escaped credentials.
func URI(user, pass, host string) string {
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(user, pass),
		Host:     host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	return u.String()
}

func (h *Handle) connected(ctx context.Context) (*mongo.Client, *mongo.Collection, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.coll != nil {
		return h.client, h.coll, nil
	}

	client, err := h.dial(ctx, h.uri)
	if err != nil {
		return nil, nil, err
	}
	h.client = client
	h.coll = client.Database(h.database).Collection(h.collection)
	return h.client, h.coll, nil
}

func (h *Handle) Collection(ctx context.Context) (*mongo.Collection, error) {
	_, coll, err := h.connected(ctx)
	return coll, err
}

// Ping connects if needed and checks the primary is reachable.
func (h *Handle) Ping(ctx context.Context) error {
	client, _, err := h.connected(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

// Close disconnects a handle that was ever connected.
func (h *Handle) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.client == nil {
		return nil
	}
	err := h.client.Disconnect(ctx)
	h.client, h.coll = nil, nil
	return err
}
