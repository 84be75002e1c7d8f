package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(requestLogger(handler.posts.Name()))

	r.Use(gin.Recovery())

	// The collection is read only
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-API-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/health", handler.GetHealth)

	posts := r.Group("/" + handler.posts.Name())
	if apiAccessKey != "" {
		posts.Use(authMiddleware(apiAccessKey))
		slog.Info("Collection endpoints require authentication", "collection", handler.posts.Name())
	}
	{
		posts.GET("", handler.ListEntries)
		posts.GET("/*id", handler.GetEntry)
	}

	r.GET("/", func(c *gin.Context) {
		name := handler.posts.Name()
		c.JSON(http.StatusOK, gin.H{
			"service":     "blog-content",
			"version":     handler.version,
			"description": "Validated front matter of the blog post collection",
			"endpoints": map[string]string{
				"health":  "/health",
				"entries": "/" + name + "?drafts=false&tag=<tag>",
				"entry":   "/" + name + "/<id>",
			},
			"auth_required": apiAccessKey != "",
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// requestLogger logs one line per request with the entry id and the number
// of entries served, when the handler recorded them.
func requestLogger(collection string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"collection", collection,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if id := strings.Trim(c.Param("id"), "/"); id != "" {
			attrs = append(attrs, "id", id)
		}
		if n, ok := c.Get(entriesKey); ok {
			attrs = append(attrs, "entries", n)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}
		slog.Info("Request", attrs...)
	}
}

func requestAPIKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return token
}

// authMiddleware guards the collection routes with the configured key.
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := requestAPIKey(c)
		switch {
		case key == "":
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Send the key as X-API-Key or Authorization: Bearer <key>",
			})
		case subtle.ConstantTimeCompare([]byte(key), []byte(apiAccessKey)) != 1:
			slog.Warn("Rejected API key", "path", c.Request.URL.Path, "client_ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		default:
			c.Next()
		}
	}
}
