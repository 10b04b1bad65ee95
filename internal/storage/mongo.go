package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/registration-bot/registration-api/internal/logger"
)

// maxPoolSize bounds the driver connection pool; a single logical replica
// of this service is expected.
const maxPoolSize = 4

// Variant is one transport-security configuration to try when connecting.
type Variant struct {
	Name  string
	Apply func(opts *options.ClientOptions)
}

// Variants returns the ordered connection configurations tried at startup:
// the URI as configured, then relaxed certificate checking, then TLS off.
// Managed Mongo deployments behind TLS-terminating proxies often reject the
// strict default, which is where the relaxed variant came from.
func Variants() []Variant {
	return []Variant{
		{
			Name:  "strict",
			Apply: func(opts *options.ClientOptions) {},
		},
		{
			Name: "insecure-tls",
			Apply: func(opts *options.ClientOptions) {
				opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
			},
		},
		{
			Name: "no-tls",
			Apply: func(opts *options.ClientOptions) {
				opts.TLSConfig = nil
			},
		},
	}
}

// Connect tries each connection variant in order with a short timeout and
// returns the first client that answers a ping. The result is final for the
// process lifetime: callers treat an error as "run without a datastore" and
// never retry.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	var lastErr error

	for _, v := range Variants() {
		opts := options.Client().
			ApplyURI(uri).
			SetServerSelectionTimeout(timeout).
			SetConnectTimeout(timeout).
			SetMaxPoolSize(maxPoolSize).
			SetRetryWrites(true)
		v.Apply(opts)

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			logger.Log.Infow("mongo connect failed", "variant", v.Name, "error", err)
			lastErr = err
			continue
		}

		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		err = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if err != nil {
			logger.Log.Infow("mongo ping failed", "variant", v.Name, "error", err)
			_ = client.Disconnect(ctx)
			lastErr = err
			continue
		}

		logger.Log.Infow("mongo connected", "variant", v.Name)
		return client, nil
	}

	return nil, fmt.Errorf("all connection variants failed: %w", lastErr)
}
