package io

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"

	"github.com/matzehuels/cobuy/pkg/core/graph"
	"github.com/matzehuels/cobuy/pkg/errors"
	"github.com/matzehuels/cobuy/pkg/httputil"
)

// IsURL reports whether source names an http(s) document rather than a
// file.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// ImportURL downloads a document with f and decodes it with [ReadJSON].
// A nil f uses [httputil.DefaultFetcher]. A 404 is reported with
// [errors.ErrCodeFileNotFound] and a body over f.MaxBytes with
// [errors.ErrCodeTooLarge].
func ImportURL(ctx context.Context, f *httputil.Fetcher, url string) (*graph.Graph, error) {
	if f == nil {
		f = httputil.DefaultFetcher
	}
	data, err := f.Get(ctx, url)
	if err != nil {
		if stderrors.Is(err, httputil.ErrNotFound) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "fetch %s", url)
		}
		if stderrors.Is(err, httputil.ErrTooLarge) {
			return nil, errors.Wrap(errors.ErrCodeTooLarge, err, "fetch %s", url)
		}
		return nil, err
	}
	return ReadJSON(bytes.NewReader(data))
}

// Import reads source as a URL when [IsURL] says so, else as a file path.
func Import(ctx context.Context, source string) (*graph.Graph, error) {
	if IsURL(source) {
		return ImportURL(ctx, nil, source)
	}
	return ImportJSON(source)
}
