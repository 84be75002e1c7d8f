package content

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate normalizes one front matter mapping into a Post. Every field is
// checked; when any fails the returned *ValidationError lists all failures
// in schema order. Absent optional fields take their defaults, present ones
// of the wrong type fail, including an explicit null.
func Validate(raw map[string]any) (*Post, error) {
	v := &recordValidator{raw: raw}
	post := &Post{}

	post.Title = v.requiredString("title")
	post.PubDate = v.date("pubDate")
	post.Description = v.requiredString("description")
	post.Author = v.optionalString("author", DefaultAuthor)
	post.Excerpt = v.optionalStringPtr("excerpt")
	post.Tags = v.stringList("tags")
	post.Draft = v.optionalBool(v.raw, "draft", "draft")
	post.Distributed = v.distribution("distributed")

	v.checkRecord(post)

	if len(v.errs) > 0 {
		return nil, &ValidationError{Fields: v.errs}
	}
	return post, nil
}

type recordValidator struct {
	raw  map[string]any
	errs []*FieldError
}

func (v *recordValidator) fail(err *FieldError) {
	v.errs = append(v.errs, err)
}

func (v *recordValidator) failed(field string) bool {
	for _, e := range v.errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func (v *recordValidator) lookup(key string) (any, bool) {
	value, ok := v.raw[key]
	return value, ok
}

func (v *recordValidator) requiredString(key string) string {
	value, ok := v.lookup(key)
	if !ok {
		v.fail(missingField(key))
		return ""
	}
	s, ok := value.(string)
	if !ok {
		v.fail(typeMismatch(key, "string", value))
		return ""
	}
	return s
}

func (v *recordValidator) optionalString(key, fallback string) string {
	value, ok := v.lookup(key)
	if !ok {
		return fallback
	}
	s, ok := value.(string)
	if !ok {
		v.fail(typeMismatch(key, "string", value))
		return fallback
	}
	return s
}

func (v *recordValidator) optionalStringPtr(key string) *string {
	value, ok := v.lookup(key)
	if !ok {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		v.fail(typeMismatch(key, "string", value))
		return nil
	}
	return &s
}

func (v *recordValidator) optionalBool(m map[string]any, key, field string) bool {
	value, ok := m[key]
	if !ok {
		return false
	}
	b, ok := value.(bool)
	if !ok {
		v.fail(typeMismatch(field, "boolean", value))
		return false
	}
	return b
}

func (v *recordValidator) stringList(key string) []string {
	value, ok := v.lookup(key)
	if !ok {
		return []string{}
	}

	switch list := value.(type) {
	case []string:
		return append([]string{}, list...)
	case []any:
		tags := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				v.fail(typeMismatch(fmt.Sprintf("%s[%d]", key, i), "string", item))
				continue
			}
			tags = append(tags, s)
		}
		return tags
	default:
		v.fail(typeMismatch(key, "array", value))
		return []string{}
	}
}

func (v *recordValidator) date(key string) time.Time {
	value, ok := v.lookup(key)
	if !ok {
		v.fail(missingField(key))
		return time.Time{}
	}
	t, err := coerceDate(value)
	if err != nil {
		v.fail(invalidDate(key, value))
		return time.Time{}
	}
	return t
}

func (v *recordValidator) distribution(key string) Distribution {
	value, ok := v.lookup(key)
	if !ok {
		return Distribution{}
	}

	m, ok := stringKeyed(value)
	if !ok {
		v.fail(typeMismatch(key, "object", value))
		return Distribution{}
	}

	// Sub-fields other than these three are ignored.
	return Distribution{
		Medium:   v.optionalBool(m, "medium", key+".medium"),
		Substack: v.optionalBool(m, "substack", key+".substack"),
		LinkedIn: v.optionalBool(m, "linkedin", key+".linkedin"),
	}
}

// checkRecord applies the record level rules that need the coerced values.
func (v *recordValidator) checkRecord(post *Post) {
	err := validation.ValidateStruct(post,
		validation.Field(&post.Title, validation.Required),
		validation.Field(&post.PubDate, validation.Required),
	)
	errs, ok := err.(validation.Errors)
	if !ok {
		return
	}
	for _, field := range []string{"title", "pubDate"} {
		if errs[field] == nil || v.failed(field) {
			continue
		}
		v.fail(&FieldError{Kind: KindEmptyField, Field: field})
	}
}

// coerceDate converts strings, epoch milliseconds and decoded timestamps
// into a time.Time. Strings without a zone are read as UTC.
func coerceDate(value any) (time.Time, error) {
	switch d := value.(type) {
	case time.Time:
		return d, nil
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, fmt.Errorf("empty date")
		}
		// Epoch values must be numbers; dateparse would accept them as digits.
		if strings.Trim(s, "0123456789") == "" {
			return time.Time{}, fmt.Errorf("numeric date string %q", s)
		}
		return dateparse.ParseIn(s, time.UTC)
	case int:
		return time.UnixMilli(int64(d)).UTC(), nil
	case int64:
		return time.UnixMilli(d).UTC(), nil
	case uint64:
		if d > math.MaxInt64 {
			return time.Time{}, fmt.Errorf("timestamp out of range")
		}
		return time.UnixMilli(int64(d)).UTC(), nil
	case float64:
		if math.IsNaN(d) || math.IsInf(d, 0) || math.Abs(d) > 8.64e15 {
			return time.Time{}, fmt.Errorf("timestamp out of range")
		}
		return time.UnixMilli(int64(d)).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", value)
	}
}

func stringKeyed(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				continue
			}
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}
