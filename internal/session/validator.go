package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ObjectStore reads and writes whole objects.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, body []byte) error
}

// Query selects sessions in the registry.
type Query struct {
	Stack    string
	Fleet    string
	User     string
	AuthType string
}

// SessionRegistry lists session ids matching a query, in registry order.
type SessionRegistry interface {
	Sessions(ctx context.Context, q Query) ([]string, error)
}

// URLIssuer mints a short-lived URL for a notebook instance.
type URLIssuer interface {
	Issue(ctx context.Context, notebook string, ttl time.Duration) (string, error)
}

// Notification names the object that triggered an invocation.
type Notification struct {
	Bucket string
	Key    string
}

// Outcome describes what Process wrote. Body holds the URL on success; keep it out of logs.
type Outcome struct {
	Request   Request
	Bucket    string
	OutputKey string
	Valid     bool
	Body      string
}

// Validator checks one descriptor per call. All collaborators are required.
type Validator struct {
	Store    ObjectStore
	Registry SessionRegistry
	Issuer   URLIssuer
	Notebook string
	TTL      time.Duration
	Logger   *slog.Logger
}

// Process reads the descriptor at n, checks the claimed session against the registry and
// writes exactly one answer object. Errors are returned unrecovered.
func (v *Validator) Process(ctx context.Context, n Notification) (Outcome, error) {
	log := v.logger().With("bucket", n.Bucket, "key", n.Key)

	raw, err := v.Store.Get(ctx, n.Bucket, n.Key)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: read s3://%s/%s: %v", ErrMalformedInput, n.Bucket, n.Key, err)
	}
	req, err := ParseRequest(raw)
	if err != nil {
		return Outcome{}, err
	}

	nc := Normalize(req)
	log = log.With("auth_type", req.AuthType, "stack", req.StackName, "fleet", req.FleetName, "output_prefix", nc.OutputPrefix)
	log.Debug("descriptor parsed", "home_bucket", req.BucketName, "prefix", req.PrefixName)

	out := Outcome{
		Request:   req,
		Bucket:    req.BucketName,
		OutputKey: OutputKey(nc.OutputPrefix),
	}

	current, err := v.Lookup(ctx, req, nc)
	switch {
	case errors.Is(err, ErrNoSession):
		log.Warn("no active session for user")
	case err != nil:
		return Outcome{}, err
	default:
		out.Valid = current == req.SessionID
	}

	if out.Valid {
		url, err := v.Issuer.Issue(ctx, v.Notebook, v.ttl())
		if err != nil {
			return Outcome{}, fmt.Errorf("issue notebook url for %s: %w", v.Notebook, err)
		}
		out.Body = url
		log.Info("session validated")
	} else {
		out.Body = InvalidSessionMessage
		log.Info("session invalid")
	}

	if err := v.Store.Put(ctx, out.Bucket, out.OutputKey, []byte(out.Body)); err != nil {
		return Outcome{}, fmt.Errorf("write s3://%s/%s: %w", out.Bucket, out.OutputKey, err)
	}
	return out, nil
}

// Lookup returns the id of the first session the registry reports for the request.
func (v *Validator) Lookup(ctx context.Context, req Request, nc Context) (string, error) {
	ids, err := v.Registry.Sessions(ctx, Query{
		Stack:    req.StackName,
		Fleet:    req.FleetName,
		User:     req.User,
		AuthType: nc.AuthTypeForQuery,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionLookup, err)
	}
	if len(ids) == 0 {
		return "", ErrNoSession
	}
	return ids[0], nil
}

func (v *Validator) ttl() time.Duration {
	if v.TTL <= 0 {
		return 1800 * time.Second
	}
	return v.TTL
}

func (v *Validator) logger() *slog.Logger {
	if v.Logger == nil {
		return slog.Default()
	}
	return v.Logger
}
