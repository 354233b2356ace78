package main

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rulemakers-physics/rmleveltest/internal/config"
	"github.com/rulemakers-physics/rmleveltest/internal/db"
	"github.com/rulemakers-physics/rmleveltest/internal/results"
	syncx "github.com/rulemakers-physics/rmleveltest/internal/sync"
)

// openedStore pairs a results.Store with its backend's lifecycle hooks.
// events is set only for the SQL backends.
type openedStore struct {
	Store  results.Store
	events *syncx.EventRepo
	ping   func(context.Context) error
	close  func() error
}

func (o openedStore) Ping() error {
	if o.ping == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return o.ping(ctx)
}

func (o openedStore) Close() {
	if o.close != nil {
		_ = o.close()
	}
}

func openStore(ctx context.Context, cfg config.Config) (openedStore, error) {
	switch cfg.DBDriver {
	case "memory":
		return openedStore{Store: results.NewMemoryStore()}, nil

	case "mongo":
		uri := cfg.DBDSN
		if uri == "" {
			uri = "mongodb://localhost:27017"
		}
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return openedStore{}, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return openedStore{}, fmt.Errorf("mongo ping: %w", err)
		}
		st := results.NewMongoStore(client, cfg.MongoDB)
		if err := results.EnsureIndexes(ctx, st); err != nil {
			_ = client.Disconnect(context.Background())
			return openedStore{}, fmt.Errorf("mongo indexes: %w", err)
		}
		return openedStore{
			Store: st,
			ping:  func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close: func() error { return client.Disconnect(context.Background()) },
		}, nil

	default:
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			return openedStore{}, err
		}
		st := results.NewSQLStore(dbh, cfg.SiteID)
		return openedStore{
			Store:  st,
			events: st.Events(),
			ping:   dbh.PingContext,
			close:  dbh.Close,
		}, nil
	}
}
