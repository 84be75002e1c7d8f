package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// Enumerate returns the paths under baseDir, relative to it and slash
// separated, that match pattern. Nothing is cached: every call walks the
// directory again. Paths come back in walk order.
func Enumerate(baseDir, pattern string) ([]string, error) {
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, &ConfigurationError{Dir: baseDir, Err: err}
	}
	if !info.IsDir() {
		return nil, &ConfigurationError{Dir: baseDir, Err: errors.New("not a directory")}
	}

	paths, err := EnumerateFS(os.DirFS(baseDir), pattern)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			cfgErr.Dir = baseDir
			return nil, cfgErr
		}
		return nil, &ConfigurationError{Dir: baseDir, Err: err}
	}
	return paths, nil
}

// EnumerateFS is Enumerate over an arbitrary file system rooted at the
// collection base.
func EnumerateFS(fsys fs.FS, pattern string) ([]string, error) {
	matcher, err := compilePattern(pattern)
	if err != nil {
		return nil, &ConfigurationError{Dir: ".", Err: err}
	}

	var paths []string
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if matcher.Match(p) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

type patternMatcher []glob.Glob

func (m patternMatcher) Match(p string) bool {
	for _, g := range m {
		if g.Match(p) {
			return true
		}
	}
	return false
}

// compilePattern compiles pattern with '/' as separator. A "**/" segment
// also matches zero directories, so "**/*.md" selects "hello.md" at the
// root as well as "2024/hello.md".
func compilePattern(pattern string) (patternMatcher, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = DefaultPattern
	}
	pattern = strings.TrimPrefix(path.Clean("/"+pattern), "/")

	var matcher patternMatcher
	for _, variant := range globstarVariants(pattern) {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		matcher = append(matcher, g)
	}
	return matcher, nil
}

func globstarVariants(pattern string) []string {
	idx := strings.Index(pattern, "**/")
	if idx < 0 {
		return []string{pattern}
	}
	if idx > 0 && pattern[idx-1] != '/' {
		// "a**/" is not a globstar segment; keep scanning after it.
		var out []string
		for _, rest := range globstarVariants(pattern[idx+3:]) {
			out = append(out, pattern[:idx+3]+rest)
		}
		return out
	}

	head := pattern[:idx]
	var out []string
	for _, rest := range globstarVariants(pattern[idx+3:]) {
		out = append(out, head+"**/"+rest, head+rest)
	}
	return out
}
