package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/blog-content/app/content"
)

func NewHandler(posts CollectionInterface, version string) *Handler {
	return &Handler{
		posts:   posts,
		version: version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":     "ok",
		"timestamp":  time.Now().In(time.Local).Format(time.RFC3339),
		"collection": h.posts.Name(),
		"version":    h.version,
	}

	entries, err := h.posts.Entries(c.Request.Context(), nil)
	if err != nil {
		health["status"] = "degraded"
		health["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	health["entries"] = len(entries)
	c.JSON(http.StatusOK, health)
}

// ListEntries returns the collection, optionally without drafts
// (?drafts=false) or narrowed to one tag (?tag=go).
func (h *Handler) ListEntries(c *gin.Context) {
	includeDrafts := true
	if raw := c.Query("drafts"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid drafts parameter"})
			return
		}
		includeDrafts = parsed
	}
	tag := c.Query("tag")

	entries, err := h.posts.Entries(c.Request.Context(), func(e *content.Entry) bool {
		if !includeDrafts && e.Data.Draft {
			return false
		}
		return tag == "" || e.Data.HasTag(tag)
	})
	if err != nil {
		h.writeLoadError(c, err)
		return
	}

	c.Set(entriesKey, len(entries))
	c.Header("X-Collection", h.posts.Name())
	c.JSON(http.StatusOK, gin.H{
		"collection": h.posts.Name(),
		"entries":    entries,
		"total":      len(entries),
	})
}

func (h *Handler) GetEntry(c *gin.Context) {
	id := strings.Trim(c.Param("id"), "/")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing entry id"})
		return
	}

	entry, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, content.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found", "id": id})
			return
		}
		h.writeLoadError(c, err)
		return
	}

	c.Set(entriesKey, 1)
	c.JSON(http.StatusOK, entry)
}

func (h *Handler) writeLoadError(c *gin.Context, err error) {
	var cfgErr *content.ConfigurationError
	if errors.As(err, &cfgErr) {
		slog.Error("Collection directory unavailable", "collection", h.posts.Name(), "dir", cfgErr.Dir, "error", cfgErr.Err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Collection directory unavailable",
			"details": err.Error(),
		})
		return
	}

	fileErrs := content.FileErrors(err)
	if len(fileErrs) == 0 {
		slog.Error("Collection load failed", "collection", h.posts.Name(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load collection",
			"details": err.Error(),
		})
		return
	}

	files := make([]fileErrorResponse, 0, len(fileErrs))
	for _, fe := range fileErrs {
		slog.Error("Invalid post", "collection", h.posts.Name(), "path", fe.Path, "error", fe.Err)
		files = append(files, newFileErrorResponse(fe))
	}

	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error": "Collection contains invalid entries",
		"files": files,
	})
}

func newFileErrorResponse(fe *content.FileError) fileErrorResponse {
	resp := fileErrorResponse{
		Path:  fe.Path,
		Error: fe.Err.Error(),
	}

	var verr *content.ValidationError
	if !errors.As(fe.Err, &verr) {
		return resp
	}
	for _, field := range verr.Fields {
		f := fieldErrorResponse{
			Field:    field.Field,
			Kind:     string(field.Kind),
			Expected: field.Expected,
			Message:  field.Error(),
		}
		if field.Actual != nil {
			f.Actual = fmt.Sprintf("%v", field.Actual)
		}
		resp.Fields = append(resp.Fields, f)
	}
	return resp
}
