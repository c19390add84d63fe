package rpwrap

import (
	internalLoader "github.com/goliatone/go-rpwrap/internal/header/loader"
	internalParser "github.com/goliatone/go-rpwrap/internal/header/parser"
	"github.com/goliatone/go-rpwrap/pkg/header"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...header.LoaderOption) header.Loader {
	cfg := header.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...header.ParserOption) header.Parser {
	cfg := header.NewParserOptions(options...)
	return internalParser.New(cfg)
}
