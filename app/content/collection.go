package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"sync"
)

// CollectionConfig describes where a collection finds its files.
type CollectionConfig struct {
	Name    string
	BaseDir string
	Pattern string
	Workers int
}

// Collection loads validated entries from the files matched under its base
// directory. It holds no entries itself: every call reads the current files.
type Collection struct {
	name    string
	baseDir string
	fsys    fs.FS
	pattern string
	workers int
}

func NewCollection(config CollectionConfig) *Collection {
	c := &Collection{
		name:    config.Name,
		baseDir: config.BaseDir,
		pattern: config.Pattern,
		workers: config.Workers,
	}
	if c.name == "" {
		c.name = PostsCollection
	}
	if c.pattern == "" {
		c.pattern = DefaultPattern
	}
	if c.workers <= 0 {
		c.workers = DefaultWorkers
	}
	return c
}

// NewCollectionFS builds a collection over fsys instead of a directory.
func NewCollectionFS(fsys fs.FS, config CollectionConfig) *Collection {
	c := NewCollection(config)
	c.fsys = fsys
	return c
}

// Collections returns the named collections served for the given posts
// directory.
func Collections(config CollectionConfig) map[string]*Collection {
	config.Name = PostsCollection
	return map[string]*Collection{PostsCollection: NewCollection(config)}
}

func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) BaseDir() string {
	return c.baseDir
}

// Load enumerates, parses and validates every matched file. Any failing file
// aborts the load; the returned error joins one *FileError per failing file,
// ordered by path.
func (c *Collection) Load(ctx context.Context) ([]*Entry, error) {
	paths, fsys, err := c.enumerate()
	if err != nil {
		return nil, err
	}

	slog.Debug("Post files enumerated", "collection", c.name, "dir", c.baseDir, "pattern", c.pattern, "count", len(paths))

	entries := make([]*Entry, len(paths))
	fileErrs := make([]error, len(paths))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := min(c.workers, len(paths))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				entry, err := loadEntry(fsys, paths[idx])
				if err != nil {
					fileErrs[idx] = &FileError{Path: paths[idx], Err: err}
					continue
				}
				entries[idx] = entry
			}
		}()
	}

feed:
	for idx := range paths {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	markDuplicateIDs(entries, fileErrs)

	if err := joinFileErrors(fileErrs); err != nil {
		return nil, err
	}

	slog.Debug("Collection loaded", "collection", c.name, "entries", len(entries))
	return entries, nil
}

// Entries loads the collection and keeps the entries filter accepts. A nil
// filter keeps everything.
func (c *Collection) Entries(ctx context.Context, filter func(*Entry) bool) ([]*Entry, error) {
	entries, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return entries, nil
	}

	filtered := make([]*Entry, 0, len(entries))
	for _, entry := range entries {
		if filter(entry) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

// Get loads the collection and returns the entry with the given id.
func (c *Collection) Get(ctx context.Context, id string) (*Entry, error) {
	entries, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, fmt.Errorf("%s collection: %q: %w", c.name, id, ErrEntryNotFound)
}

func (c *Collection) enumerate() ([]string, fs.FS, error) {
	if c.fsys != nil {
		paths, err := EnumerateFS(c.fsys, c.pattern)
		return paths, c.fsys, err
	}
	paths, err := Enumerate(c.baseDir, c.pattern)
	if err != nil {
		return nil, nil, err
	}
	return paths, os.DirFS(c.baseDir), nil
}

func loadEntry(fsys fs.FS, relPath string) (*Entry, error) {
	source, err := fs.ReadFile(fsys, relPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	raw, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	id, idErr := entryID(relPath, raw)

	post, err := Validate(raw)
	if err != nil {
		if idErr != nil {
			return nil, mergeValidationErrors(err, idErr)
		}
		return nil, err
	}
	if idErr != nil {
		return nil, idErr
	}

	slog.Debug("Post loaded", "path", relPath, "id", id, "title", post.Title, "draft", post.Draft)

	return &Entry{
		ID:       id,
		FilePath: relPath,
		Data:     *post,
		Body:     string(body),
	}, nil
}

func mergeValidationErrors(errs ...error) error {
	merged := &ValidationError{}
	for _, err := range errs {
		var verr *ValidationError
		if errors.As(err, &verr) {
			merged.Fields = append(merged.Fields, verr.Fields...)
		}
	}
	return merged
}

// markDuplicateIDs records a failure for every entry whose id an earlier
// path already took.
func markDuplicateIDs(entries []*Entry, fileErrs []error) {
	seen := make(map[string]string, len(entries))
	for idx, entry := range entries {
		if entry == nil {
			continue
		}
		if first, ok := seen[entry.ID]; ok {
			fileErrs[idx] = &FileError{
				Path: entry.FilePath,
				Err:  fmt.Errorf("%w %q, already used by %s", ErrDuplicateID, entry.ID, first),
			}
			continue
		}
		seen[entry.ID] = entry.FilePath
	}
}

func joinFileErrors(fileErrs []error) error {
	var failed []*FileError
	for _, err := range fileErrs {
		if err == nil {
			continue
		}
		var fe *FileError
		if errors.As(err, &fe) {
			failed = append(failed, fe)
		}
	}
	if len(failed) == 0 {
		return nil
	}

	sort.Slice(failed, func(i, j int) bool {
		return failed[i].Path < failed[j].Path
	})

	errs := make([]error, len(failed))
	for i, fe := range failed {
		errs[i] = fe
	}
	return errors.Join(errs...)
}
