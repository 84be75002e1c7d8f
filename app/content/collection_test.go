package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloPost = `---
title: "Hello"
pubDate: "2024-01-01"
description: "First post"
---
Hi there.
`

func TestCollectionLoadSinglePost(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hello.md", helloPost)

	posts := NewCollection(CollectionConfig{BaseDir: dir})
	assert.Equal(t, "posts", posts.Name())

	entries, err := posts.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "hello", entry.ID)
	assert.Equal(t, "hello.md", entry.FilePath)
	assert.Equal(t, "Hi there.", strings.TrimSpace(entry.Body))
	assert.Equal(t, Post{
		Title:       "Hello",
		PubDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Description: "First post",
		Author:      "Lucas",
		Excerpt:     nil,
		Tags:        []string{},
		Draft:       false,
		Distributed: Distribution{Medium: false, Substack: false, LinkedIn: false},
	}, entry.Data)
}

func TestCollectionLoadReportsFileAndFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "hello.md", "---\ntitle: \"Hello\"\n---\nHi there.\n")

	_, err := NewCollection(CollectionConfig{BaseDir: dir}).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hello.md")

	fileErrs := FileErrors(err)
	require.Len(t, fileErrs, 1)
	assert.Equal(t, "hello.md", fileErrs[0].Path)

	var verr *ValidationError
	require.True(t, errors.As(fileErrs[0], &verr))
	assert.True(t, verr.HasKind("pubDate", KindMissingField))
	assert.True(t, verr.HasKind("description", KindMissingField))
}

func TestCollectionLoadReportsEveryFailingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.md", helloPost)
	writeFile(t, dir, "b/bad.md", "---\ntitle: 1\npubDate: x\ndescription: d\n---\n")
	writeFile(t, dir, "a/worse.md", "no front matter\n")

	_, err := NewCollection(CollectionConfig{BaseDir: dir, Workers: 2}).Load(context.Background())
	require.Error(t, err)

	fileErrs := FileErrors(err)
	require.Len(t, fileErrs, 2)
	assert.Equal(t, "a/worse.md", fileErrs[0].Path)
	assert.Equal(t, "b/bad.md", fileErrs[1].Path)

	var verr *ValidationError
	require.True(t, errors.As(fileErrs[1], &verr))
	assert.True(t, verr.HasKind("title", KindTypeMismatch))
	assert.True(t, verr.HasKind("pubDate", KindInvalidDate))
}

func TestCollectionMissingBaseDirectory(t *testing.T) {
	_, err := NewCollection(CollectionConfig{BaseDir: "/does/not/exist"}).Load(context.Background())

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "/does/not/exist", cfgErr.Dir)
}

func TestCollectionNestedIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024/first-post.md", helloPost)
	writeFile(t, dir, "custom.md", "---\ntitle: T\npubDate: 2024-02-02\ndescription: D\nslug: my/custom-id\n---\n")

	posts := NewCollection(CollectionConfig{BaseDir: dir})

	entry, err := posts.Get(context.Background(), "2024/first-post")
	require.NoError(t, err)
	assert.Equal(t, "2024/first-post.md", entry.FilePath)

	entry, err = posts.Get(context.Background(), "my/custom-id")
	require.NoError(t, err)
	assert.Equal(t, "custom.md", entry.FilePath)

	_, err = posts.Get(context.Background(), "custom")
	assert.True(t, errors.Is(err, ErrEntryNotFound))
}

func TestCollectionDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "---\ntitle: T\npubDate: 2024-02-02\ndescription: D\nslug: same\n---\n")
	writeFile(t, dir, "b.md", "---\ntitle: T\npubDate: 2024-02-02\ndescription: D\nslug: same\n---\n")

	_, err := NewCollection(CollectionConfig{BaseDir: dir}).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))

	fileErrs := FileErrors(err)
	require.Len(t, fileErrs, 1)
	assert.Equal(t, "b.md", fileErrs[0].Path)
}

func TestCollectionSlugTypeMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "---\ntitle: T\npubDate: 2024-02-02\ndescription: D\nslug: 12\n---\n")

	_, err := NewCollection(CollectionConfig{BaseDir: dir}).Load(context.Background())

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.HasKind("slug", KindTypeMismatch))
}

func TestCollectionEntriesFilter(t *testing.T) {
	fsys := fstest.MapFS{
		"live.md":  {Data: []byte("---\ntitle: Live\npubDate: 2024-01-01\ndescription: D\ntags: [go]\n---\n")},
		"draft.md": {Data: []byte("---\ntitle: Draft\npubDate: 2024-01-02\ndescription: D\ndraft: true\n---\n")},
	}
	posts := NewCollectionFS(fsys, CollectionConfig{})

	all, err := posts.Entries(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	published, err := posts.Entries(context.Background(), func(e *Entry) bool { return !e.Data.Draft })
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "live", published[0].ID)
}

func TestCollectionManyFiles(t *testing.T) {
	fsys := fstest.MapFS{}
	for i := 0; i < 50; i++ {
		fsys[fmt.Sprintf("post-%02d.md", i)] = &fstest.MapFile{
			Data: []byte(fmt.Sprintf("---\ntitle: Post %d\npubDate: 2024-01-01\ndescription: D\n---\n", i)),
		}
	}

	entries, err := NewCollectionFS(fsys, CollectionConfig{Workers: 8}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 50)
	for _, entry := range entries {
		assert.NotNil(t, entry)
	}
}

func TestCollectionCancelledContext(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": {Data: []byte(helloPost)},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCollectionFS(fsys, CollectionConfig{}).Load(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCollectionsRegistry(t *testing.T) {
	collections := Collections(CollectionConfig{BaseDir: "./content/posts"})
	require.Contains(t, collections, "posts")
	assert.Equal(t, "./content/posts", collections["posts"].BaseDir())
}
