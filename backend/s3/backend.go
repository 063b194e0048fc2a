// Package s3 implements backend.FileSystem on an S3 compatible bucket.
//
// Objects are keyed by the virtual path. Directories are zero-byte marker
// objects with a trailing delimiter, or implied by keys below them.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/mwantia/asyncfs/data"
	"github.com/mwantia/asyncfs/log"
)

var ErrBucketNotFound = errors.New("s3: bucket does not exist")

type Config struct {
	Endpoint  string `json:"endpoint"`
	Bucket    string `json:"bucket"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	UseSSL    bool   `json:"use_ssl"`
}

type FileSystem struct {
	client *minio.Client
	bucket string
	log    *log.Logger
}

type Option func(*FileSystem)

func WithLogger(logger *log.Logger) Option {
	return func(sb *FileSystem) {
		sb.log = logger
	}
}

// New creates the client without contacting the endpoint; Open does that.
func New(cfg Config, opts ...Option) (*FileSystem, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	sb := &FileSystem{
		client: client,
		bucket: cfg.Bucket,
		log:    log.Discard(),
	}
	for _, opt := range opts {
		opt(sb)
	}
	return sb, nil
}

// Returns the tag defined for this backend
func (*FileSystem) FileSystem() data.FileSystemTag {
	return data.FileSystemS3
}

// Open is part of the lifecycle behaviour and verifies the bucket exists.
func (sb *FileSystem) Open(ctx context.Context) error {
	exists, err := sb.client.BucketExists(ctx, sb.bucket)
	if err != nil {
		return data.IOError("open", sb.bucket, err)
	}
	if !exists {
		return data.IOError("open", sb.bucket, ErrBucketNotFound)
	}

	sb.log.Debug("using bucket '%s' at %s", sb.bucket, sb.client.EndpointURL().Host)
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (sb *FileSystem) Close(ctx context.Context) error {
	return nil
}

func objectKey(p data.Path) string {
	return p.String()
}

// markerKey is the key of the placeholder object for directory p.
func markerKey(p data.Path) string {
	return p.String() + data.Delimiter
}

// childPrefix is the listing prefix for the direct children of p.
func childPrefix(p data.Path) string {
	if p.IsRoot() {
		return ""
	}
	return markerKey(p)
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

// mapError keeps the minio error but makes missing keys match fs.ErrNotExist.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return fmt.Errorf("%w: %w", fs.ErrNotExist, err)
	}
	return err
}

// statFile returns the object at p; found is false if there is none.
func (sb *FileSystem) statFile(ctx context.Context, p data.Path) (info minio.ObjectInfo, found bool, err error) {
	if p.IsRoot() {
		return minio.ObjectInfo{}, false, nil
	}

	info, err = sb.client.StatObject(ctx, sb.bucket, objectKey(p), minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return minio.ObjectInfo{}, false, nil
		}
		return minio.ObjectInfo{}, false, err
	}
	return info, true, nil
}

// isDir reports whether p is the root, has a marker or has keys below it.
func (sb *FileSystem) isDir(ctx context.Context, p data.Path) (bool, error) {
	if p.IsRoot() {
		return true, nil
	}

	if _, err := sb.client.StatObject(ctx, sb.bucket, markerKey(p), minio.StatObjectOptions{}); err == nil {
		return true, nil
	} else if !isNotFound(err) {
		return false, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for object := range sb.client.ListObjects(ctx, sb.bucket, minio.ListObjectsOptions{
		Prefix:  markerKey(p),
		MaxKeys: 1,
	}) {
		if object.Err != nil {
			return false, object.Err
		}
		return true, nil
	}
	return false, nil
}

func (sb *FileSystem) put(ctx context.Context, key string, content []byte, contentType data.ContentType) error {
	_, err := sb.client.PutObject(ctx, sb.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: string(contentType),
	})
	return err
}

func trimKey(key, prefix string) string {
	return strings.TrimSuffix(strings.TrimPrefix(key, prefix), data.Delimiter)
}
