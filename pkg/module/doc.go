// Package module implements the placeholder contract used to stamp out one
// wrapper module per native header. A module template receives exactly six
// named values (qualname, underline, msg, original_file, commit_id, content);
// every one of them, and every name the template body references, must be
// supplied or rendering fails with ErrMissingPlaceholder. Values are
// substituted verbatim.
package module
