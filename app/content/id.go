package content

import (
	"path"
	"strings"

	"github.com/goliatone/go-slug"
	"golang.org/x/text/unicode/norm"
)

// entryID derives the collection id of a file. A string "slug" key in the
// front matter wins; otherwise the relative path without its extension is
// slugified segment by segment. Segments are NFC normalized first so the
// same file gets the same id on file systems that store decomposed names.
func entryID(relPath string, raw map[string]any) (string, error) {
	if value, ok := raw["slug"]; ok && value != nil {
		s, ok := value.(string)
		if !ok {
			return "", &ValidationError{Fields: []*FieldError{typeMismatch("slug", "string", value)}}
		}
		if s = strings.Trim(strings.TrimSpace(s), "/"); s != "" {
			return s, nil
		}
	}

	trimmed := strings.TrimSuffix(relPath, path.Ext(relPath))
	segments := strings.Split(trimmed, "/")
	for i, segment := range segments {
		segments[i] = slugSegment(segment)
	}
	return strings.Join(segments, "/"), nil
}

func slugSegment(segment string) string {
	segment = norm.NFC.String(segment)
	if normalized, err := slug.Normalize(segment); err == nil && normalized != "" {
		return normalized
	}
	return strings.ToLower(segment)
}
