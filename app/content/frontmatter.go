package content

import (
	"bytes"
	"errors"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

var frontMatterFormats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
}

// ParseFrontMatter splits source into its front matter mapping and the
// markdown body. YAML ("---") and TOML ("+++") blocks are recognized. A
// source without front matter yields an empty mapping and the whole source
// as body.
func ParseFrontMatter(source []byte) (map[string]any, []byte, error) {
	var raw map[string]any

	body, err := frontmatter.Parse(bytes.NewReader(source), &raw, frontMatterFormats...)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return map[string]any{}, source, nil
		}
		return nil, nil, &ParseError{Err: err}
	}

	if raw == nil {
		raw = map[string]any{}
	}
	return raw, body, nil
}
