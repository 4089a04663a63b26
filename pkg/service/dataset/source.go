package dataset

import (
	"context"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/utils/safe"
)

const gcsScheme = "gs://"

// Loader reads datasets from local files or Cloud Storage objects.
type Loader struct {
	newStorage func(ctx context.Context) (*storage.Client, error)
}

// LoaderOption is a functional option for Loader
type LoaderOption func(*Loader)

// WithStorageClient makes the loader use an existing Cloud Storage client
func WithStorageClient(client *storage.Client) LoaderOption {
	return func(l *Loader) {
		l.newStorage = func(context.Context) (*storage.Client, error) {
			return client, nil
		}
	}
}

// NewLoader creates a dataset loader
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		newStorage: func(ctx context.Context) (*storage.Client, error) {
			return storage.NewClient(ctx)
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ParseGCSURL splits gs://bucket/object into its bucket and object names
func ParseGCSURL(source string) (bucket, object string, err error) {
	if !strings.HasPrefix(source, gcsScheme) {
		return "", "", goerr.New("not a Cloud Storage URL", goerr.V("source", source))
	}
	bucket, object, ok := strings.Cut(strings.TrimPrefix(source, gcsScheme), "/")
	if !ok || bucket == "" || object == "" {
		return "", "", goerr.New("Cloud Storage URL must be gs://bucket/object", goerr.V("source", source))
	}
	return bucket, object, nil
}

// Load reads and validates the dataset at source, a file path or gs:// URL
func (l *Loader) Load(ctx context.Context, source string) (*Dataset, error) {
	r, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer safe.Close(ctx, r)

	ds, err := Decode(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load dataset", goerr.V("source", source))
	}
	if err := ds.Validate(); err != nil {
		return nil, goerr.Wrap(err, "dataset is invalid", goerr.V("source", source))
	}
	return ds, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, gcsScheme) {
		f, err := os.Open(source)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open dataset file", goerr.V("path", source))
		}
		return f, nil
	}

	bucket, object, err := ParseGCSURL(source)
	if err != nil {
		return nil, err
	}

	client, err := l.newStorage(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read Cloud Storage object",
			goerr.V("bucket", bucket),
			goerr.V("object", object))
	}
	return r, nil
}
