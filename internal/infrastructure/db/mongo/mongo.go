package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const defaultConnectTimeout = 10 * time.Second

// Config selects the deployment and database holding the lodge collections.
type Config struct {
	URI      string
	Database string
	AppName  string
	// ConnectTimeout bounds the initial connect and ping.
	ConnectTimeout time.Duration
	// OperationTimeout is the driver's client-side timeout for every
	// operation. Zero keeps the driver defaults.
	OperationTimeout time.Duration
}

// Open connects to MongoDB, pings the primary and returns a Store bound to
// cfg.Database. Writes use majority acknowledgement so that a record read
// back after RecordStatus or Save is the one just written.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(connectTimeout).
		SetWriteConcern(writeconcern.Majority())
	if cfg.AppName != "" {
		opts.SetAppName(cfg.AppName)
	}
	if cfg.OperationTimeout > 0 {
		opts.SetTimeout(cfg.OperationTimeout)
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, storeError("connect", "", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, storeError("connect", "", err)
	}
	return NewStore(client.Database(cfg.Database)), nil
}
