package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-rpwrap/pkg/header"
)

// Loader implements header.Loader by delegating to file, fs.FS, or HTTP
// strategies. Construction helpers live in the top-level rpwrap package.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ header.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options header.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a header from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src header.Source) (header.Document, error) {
	if src == nil {
		return header.Document{}, errors.New("header loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case header.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case header.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case header.SourceKindURL:
		if !l.allowHTTP {
			return header.Document{}, errors.New("header loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("header loader: unsupported source kind")
	}
	if err != nil {
		return header.Document{}, err
	}

	return header.NewDocument(src, data)
}
