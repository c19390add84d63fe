package loader_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-rpwrap/internal/header/loader"
	"github.com/goliatone/go-rpwrap/pkg/header"
	"github.com/goliatone/go-rpwrap/pkg/testsupport"
)

const sample = "int rp_GenReset();\n"

func TestLoader_File(t *testing.T) {
	path := testsupport.WriteFile(t, t.TempDir(), "rp_gen.h", sample)

	doc, err := loader.New(header.NewLoaderOptions()).Load(context.Background(), header.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != sample {
		t.Fatalf("unexpected content %q", doc.Raw())
	}
	if doc.Name() != "rp_gen.h" {
		t.Fatalf("unexpected name %q", doc.Name())
	}
}

func TestLoader_FS(t *testing.T) {
	fsys := fstest.MapFS{"sources/rp.h": {Data: []byte(sample)}}
	l := loader.New(header.NewLoaderOptions(header.WithFileSystem(fsys)))

	doc, err := l.Load(context.Background(), header.SourceFromFS("sources/rp.h"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Name() != "rp.h" {
		t.Fatalf("unexpected name %q", doc.Name())
	}

	if _, err := loader.New(header.NewLoaderOptions()).Load(context.Background(), header.SourceFromFS("rp.h")); err == nil {
		t.Fatalf("expected error without filesystem")
	}
}

func TestLoader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rp_acq.h" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, sample)
	}))
	defer srv.Close()

	src, err := header.SourceFromURL(srv.URL + "/rp_acq.h")
	if err != nil {
		t.Fatalf("source: %v", err)
	}

	if _, err := loader.New(header.NewLoaderOptions()).Load(context.Background(), src); err == nil {
		t.Fatalf("expected http to be disabled by default")
	}

	l := loader.New(header.NewLoaderOptions(header.WithHTTPClient(srv.Client())))
	doc, err := l.Load(context.Background(), src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Name() != "rp_acq.h" {
		t.Fatalf("unexpected name %q", doc.Name())
	}

	missing, _ := header.SourceFromURL(srv.URL + "/missing.h")
	if _, err := l.Load(context.Background(), missing); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := testsupport.WriteFile(t, t.TempDir(), "rp.h", sample)
	if _, err := loader.New(header.NewLoaderOptions()).Load(ctx, header.SourceFromFile(path)); err == nil {
		t.Fatalf("expected context error")
	}
}
