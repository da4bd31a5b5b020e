// Package storage resolves input and output locations for batch runs: local
// paths, "-" for the standard streams, and s3:// or gs:// object URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrUnsupportedScheme is returned for a location URL with an unknown scheme.
var ErrUnsupportedScheme = errors.New("unsupported location scheme")

// Backend abstracts blob storage for answer files and rendered results.
// Backends that also implement io.Closer are closed by Resolver.Close.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Location is a parsed input or output location.
type Location struct {
	Scheme string // "", "-", "s3" or "gs"; "" is a local path
	Bucket string
	Key    string
}

// Stdio is the location of the standard streams.
var Stdio = Location{Scheme: "-"}

func (l Location) String() string {
	switch l.Scheme {
	case "":
		return l.Key
	case "-":
		return "-"
	default:
		return l.Scheme + "://" + l.Bucket + "/" + l.Key
	}
}

// ParseLocation parses a path, "-", or a s3://bucket/key or gs://bucket/key URL.
func ParseLocation(s string) (Location, error) {
	if s == "" {
		return Location{}, errors.New("empty location")
	}
	if s == "-" {
		return Stdio, nil
	}
	if !strings.Contains(s, "://") {
		return Location{Key: s}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return Location{}, fmt.Errorf("parse location %q: %w", s, err)
	}
	switch u.Scheme {
	case "s3", "gs":
	case "file":
		return Location{Key: u.Path}, nil
	default:
		return Location{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return Location{}, fmt.Errorf("location %q must name a bucket and an object key", s)
	}
	return Location{Scheme: u.Scheme, Bucket: u.Host, Key: key}, nil
}

// BackendFactory creates a Backend for one bucket.
type BackendFactory func(ctx context.Context, bucket string) (Backend, error)

// Resolver reads and writes locations, creating remote backends on demand.
// A backend is created once per scheme and bucket and reused until Close.
type Resolver struct {
	Stdin  io.Reader
	Stdout io.Writer

	factories map[string]BackendFactory

	mu       sync.Mutex
	backends map[string]Backend
}

// NewResolver creates a Resolver wired to the process's standard streams and
// to S3 and GCS backends.
func NewResolver(s3cfg S3Config) *Resolver {
	return &Resolver{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		factories: map[string]BackendFactory{
			"s3": func(ctx context.Context, bucket string) (Backend, error) {
				cfg := s3cfg
				cfg.Bucket = bucket
				return NewS3Storage(ctx, cfg)
			},
			"gs": func(ctx context.Context, bucket string) (Backend, error) {
				return NewGCSStorage(ctx, bucket)
			},
		},
	}
}

// Register overrides the backend factory for a scheme.
func (r *Resolver) Register(scheme string, f BackendFactory) {
	if r.factories == nil {
		r.factories = make(map[string]BackendFactory)
	}
	r.factories[scheme] = f
}

// Read returns the full contents of a location.
func (r *Resolver) Read(ctx context.Context, loc Location) ([]byte, error) {
	switch loc.Scheme {
	case "":
		data, err := os.ReadFile(loc.Key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", loc.Key, err)
		}
		return data, nil
	case "-":
		data, err := io.ReadAll(r.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	b, err := r.backend(ctx, loc)
	if err != nil {
		return nil, err
	}
	return b.Get(ctx, loc.Key)
}

// Write stores data at a location, replacing any existing content.
func (r *Resolver) Write(ctx context.Context, loc Location, data []byte, contentType string) error {
	switch loc.Scheme {
	case "":
		return writeLocal(loc.Key, data)
	case "-":
		if _, err := r.Stdout.Write(data); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}

	b, err := r.backend(ctx, loc)
	if err != nil {
		return err
	}
	return b.Put(ctx, loc.Key, data, contentType)
}

func (r *Resolver) backend(ctx context.Context, loc Location) (Backend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := loc.Scheme + "://" + loc.Bucket
	if b, ok := r.backends[id]; ok {
		return b, nil
	}
	f, ok := r.factories[loc.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, loc.Scheme)
	}
	b, err := f(ctx, loc.Bucket)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", loc.Scheme, err)
	}
	if r.backends == nil {
		r.backends = make(map[string]Backend)
	}
	r.backends[id] = b
	return b, nil
}

// Close releases every backend that holds a client connection.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for id, b := range r.backends {
		if c, ok := b.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", id, err))
			}
		}
	}
	r.backends = nil
	return errors.Join(errs...)
}

func writeLocal(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
