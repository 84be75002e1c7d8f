package api

import (
	"context"

	"github.com/lysyi3m/blog-content/app/content"
)

type CollectionInterface interface {
	Name() string
	Entries(ctx context.Context, filter func(*content.Entry) bool) ([]*content.Entry, error)
	Get(ctx context.Context, id string) (*content.Entry, error)
}

// entriesKey holds the number of entries a request served, for the request log.
const entriesKey = "entries"

var _ CollectionInterface = (*content.Collection)(nil)

type Handler struct {
	posts   CollectionInterface
	version string
}

type fileErrorResponse struct {
	Path   string               `json:"path"`
	Error  string               `json:"error"`
	Fields []fieldErrorResponse `json:"fields,omitempty"`
}

type fieldErrorResponse struct {
	Field    string `json:"field"`
	Kind     string `json:"kind"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message"`
}
