package asyncfs

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mwantia/asyncfs/backend/s3"
	"github.com/mwantia/asyncfs/data"
)

var (
	ErrMalformedBackendAddress = errors.New("malformed backend address defined")
	ErrUnknownBackendAddress   = errors.New("unknown backend protocol address")
)

// Address is a parsed backend address.
type Address struct {
	Backend data.FileSystemTag

	// Root is the directory of a local backend.
	Root string
	// Ring overrides from the query; zero means unset.
	Workers    int
	QueueDepth int64
	IOLimit    int64

	S3 s3.Config
}

// ParseAddress understands
//
//	local:///abs/root?workers=N&queue=N&iolimit=BYTES
//	:memory: or memory://
//	s3://access:secret@host:port/bucket?ssl=true (also minio://)
func ParseAddress(address string) (*Address, error) {
	// Format address
	address = strings.TrimSpace(address)
	// Quick check to identify if we work with a possibly valid address
	if !strings.Contains(address, ":") {
		return nil, fmt.Errorf("failed to parse address '%s': %w", address, ErrMalformedBackendAddress)
	}
	// Special 'direct no address declarations'
	switch address {
	case ":memory:":
		return &Address{Backend: data.FileSystemMemory}, nil
	}
	// Protocol-based parsing
	switch {
	case strings.HasPrefix(address, "memory://"):
		return &Address{Backend: data.FileSystemMemory}, nil
	case strings.HasPrefix(address, "local://"):
		return parseLocalAddress(address)
	case strings.HasPrefix(address, "s3://"), strings.HasPrefix(address, "minio://"):
		return parseS3Address(address)
	}

	return nil, fmt.Errorf("failed to parse address '%s': %w", address, ErrUnknownBackendAddress)
}

func malformed(address, reason string) error {
	return fmt.Errorf("failed to parse address '%s': %s: %w", address, reason, ErrMalformedBackendAddress)
}

func parseLocalAddress(address string) (*Address, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("failed to parse address '%s': %w: %w", address, ErrMalformedBackendAddress, err)
	}
	if u.Host != "" {
		return nil, malformed(address, "local root must be absolute")
	}
	if u.Path == "" || !filepath.IsAbs(u.Path) {
		return nil, malformed(address, "local root must be absolute")
	}

	addr := &Address{
		Backend: data.FileSystemLocal,
		Root:    filepath.Clean(u.Path),
	}

	query := u.Query()
	if v := query.Get("workers"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil || workers <= 0 {
			return nil, malformed(address, "invalid workers")
		}
		addr.Workers = workers
	}
	if v := query.Get("queue"); v != "" {
		depth, err := strconv.ParseInt(v, 10, 64)
		if err != nil || depth <= 0 {
			return nil, malformed(address, "invalid queue")
		}
		addr.QueueDepth = depth
	}
	if v := query.Get("iolimit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil || limit < 0 {
			return nil, malformed(address, "invalid iolimit")
		}
		addr.IOLimit = limit
	}

	return addr, nil
}

func parseS3Address(address string) (*Address, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("failed to parse address '%s': %w: %w", address, ErrMalformedBackendAddress, err)
	}
	if u.Host == "" {
		return nil, malformed(address, "missing endpoint")
	}

	bucket := strings.Trim(u.Path, "/")
	if bucket == "" || strings.Contains(bucket, "/") {
		return nil, malformed(address, "missing or invalid bucket")
	}

	cfg := s3.Config{
		Endpoint: u.Host,
		Bucket:   bucket,
	}
	if u.User != nil {
		cfg.AccessKey = u.User.Username()
		cfg.SecretKey, _ = u.User.Password()
	}
	if v := u.Query().Get("ssl"); v != "" {
		ssl, err := strconv.ParseBool(v)
		if err != nil {
			return nil, malformed(address, "invalid ssl")
		}
		cfg.UseSSL = ssl
	}

	return &Address{
		Backend: data.FileSystemS3,
		S3:      cfg,
	}, nil
}
