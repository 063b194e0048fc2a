package asyncfs

import (
	"testing"

	"github.com/mwantia/asyncfs/backend/s3"
	"github.com/mwantia/asyncfs/data"
	"github.com/mwantia/asyncfs/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    *Address
	}{
		{
			name:    "memory shorthand",
			address: " :memory: ",
			want:    &Address{Backend: data.FileSystemMemory},
		},
		{
			name:    "memory scheme",
			address: "memory://",
			want:    &Address{Backend: data.FileSystemMemory},
		},
		{
			name:    "local",
			address: "local:///var/lib/data/",
			want:    &Address{Backend: data.FileSystemLocal, Root: "/var/lib/data"},
		},
		{
			name:    "local with ring settings",
			address: "local:///srv?workers=8&queue=128&iolimit=1048576",
			want: &Address{
				Backend:    data.FileSystemLocal,
				Root:       "/srv",
				Workers:    8,
				QueueDepth: 128,
				IOLimit:    1048576,
			},
		},
		{
			name:    "s3",
			address: "s3://access:secret@localhost:9000/bucket?ssl=true",
			want: &Address{
				Backend: data.FileSystemS3,
				S3: s3.Config{
					Endpoint:  "localhost:9000",
					Bucket:    "bucket",
					AccessKey: "access",
					SecretKey: "secret",
					UseSSL:    true,
				},
			},
		},
		{
			name:    "minio",
			address: "minio://play.min.io/photos",
			want: &Address{
				Backend: data.FileSystemS3,
				S3:      s3.Config{Endpoint: "play.min.io", Bucket: "photos"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.address)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAddress_Errors(t *testing.T) {
	malformed := []string{
		"no-colon-here",
		"local://relative/path",
		"local://",
		"local:///srv?workers=none",
		"local:///srv?queue=0",
		"local:///srv?iolimit=-1",
		"s3://host:9000",
		"s3://host:9000/bucket/nested",
		"s3:///bucket",
		"s3://host/bucket?ssl=maybe",
	}
	for _, address := range malformed {
		_, err := ParseAddress(address)
		assert.ErrorIs(t, err, ErrMalformedBackendAddress, address)
	}

	_, err := ParseAddress("ftp://host/dir")
	assert.ErrorIs(t, err, ErrUnknownBackendAddress)
}

func TestOpen_LocalOwnsRing(t *testing.T) {
	ctx := t.Context()

	fs, err := Open(ctx, "local://"+t.TempDir(), WithLogger(log.Discard()), WithWorkers(1))
	require.NoError(t, err)
	assert.Equal(t, data.FileSystemLocal, fs.FileSystem())

	require.NoError(t, fs.CreateFile(ctx, data.MustParsePath("f")))
	require.NoError(t, fs.Close(ctx))

	// the ring is gone together with the backend
	err = fs.CreateFile(ctx, data.MustParsePath("g"))
	assert.ErrorIs(t, err, data.ErrIO)
}

func TestOpen_Errors(t *testing.T) {
	ctx := t.Context()

	_, err := Open(ctx, "local:///definitely/not/here", WithLogger(log.Discard()))
	assert.Error(t, err)

	_, err = Open(ctx, ":memory:", WithWorkers(-1))
	assert.Error(t, err)

	_, err = Open(ctx, "unknown://x")
	assert.ErrorIs(t, err, ErrUnknownBackendAddress)
}

func TestFirstNonZero(t *testing.T) {
	assert.Equal(t, 3, firstNonZero(0, 3, 4))
	assert.Equal(t, int64(0), firstNonZero[int64](0, 0))
}
