package header

import (
	"context"
	"fmt"
)

// Parser turns a header Document into the list of declared functions.
type Parser interface {
	Parse(ctx context.Context, doc Document) (File, error)
}

// ParserOptions tunes header parsing.
type ParserOptions struct {
	// Prefix restricts parsing to functions whose name starts with it.
	// Defaults to "rp_".
	Prefix string

	// Strict turns unparseable declarations into errors instead of
	// recording them in File.Unparsed.
	Strict bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithPrefix sets the function name prefix to keep. An empty prefix keeps
// every declaration.
func WithPrefix(prefix string) ParserOption {
	return func(opts *ParserOptions) {
		opts.Prefix = prefix
	}
}

// WithStrict toggles strict parsing.
func WithStrict(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.Strict = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the result.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		Prefix: "rp_",
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// ParseError reports a declaration the parser could not understand.
// Function is empty when no name could be recovered.
type ParseError struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function,omitempty"`
	Msg      string `json:"msg"`
}

func (e *ParseError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Function, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}
