package content

import (
	"time"
)

const (
	// PostsCollection is the name the posts collection is registered under.
	PostsCollection = "posts"

	DefaultAuthor  = "Lucas"
	DefaultPattern = "**/*.md"
	DefaultWorkers = 4
)

// Post is the normalized front matter of one post file.
type Post struct {
	Title       string       `json:"title"`
	PubDate     time.Time    `json:"pubDate"`
	Description string       `json:"description"`
	Author      string       `json:"author"`
	Excerpt     *string      `json:"excerpt,omitempty"` // nil when the file sets none
	Tags        []string     `json:"tags"`
	Draft       bool         `json:"draft"`
	Distributed Distribution `json:"distributed"`
}

// Distribution records where a post has been syndicated. Passive metadata.
type Distribution struct {
	Medium   bool `json:"medium"`
	Substack bool `json:"substack"`
	LinkedIn bool `json:"linkedin"`
}

// Raw returns the post as an untyped front matter mapping. Validating the
// result yields a Post equal to p.
func (p *Post) Raw() map[string]any {
	tags := make([]any, len(p.Tags))
	for i, tag := range p.Tags {
		tags[i] = tag
	}

	raw := map[string]any{
		"title":       p.Title,
		"pubDate":     p.PubDate,
		"description": p.Description,
		"author":      p.Author,
		"tags":        tags,
		"draft":       p.Draft,
		"distributed": map[string]any{
			"medium":   p.Distributed.Medium,
			"substack": p.Distributed.Substack,
			"linkedin": p.Distributed.LinkedIn,
		},
	}
	if p.Excerpt != nil {
		raw["excerpt"] = *p.Excerpt
	}
	return raw
}

// HasTag reports whether tag is among the post tags.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Entry is one member of a collection.
type Entry struct {
	ID       string `json:"id"`
	FilePath string `json:"filePath"` // relative to the collection base, slash separated
	Data     Post   `json:"data"`
	Body     string `json:"body"`
}
