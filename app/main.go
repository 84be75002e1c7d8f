package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/blog-content/app/api"
	"github.com/lysyi3m/blog-content/app/cfg"
	"github.com/lysyi3m/blog-content/app/content"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(2)
	}
	if appConfig == nil {
		// Help was shown
		return
	}

	setupLogging(appConfig.Debug)

	posts := content.Collections(content.CollectionConfig{
		BaseDir: appConfig.ContentDir,
		Pattern: appConfig.ContentPattern,
		Workers: appConfig.WorkerCount,
	})[content.PostsCollection]

	slog.Info("Loading collection", "collection", posts.Name(), "dir", appConfig.ContentDir, "pattern", appConfig.ContentPattern, "workers", appConfig.WorkerCount, "version", appConfig.Version)

	if !appConfig.Serve {
		if err := check(posts); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := serve(posts, appConfig); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// check loads the collection once and reports every invalid file and field.
func check(posts *content.Collection) error {
	entries, err := posts.Load(context.Background())
	if err != nil {
		reportLoadError(err)
		return err
	}

	drafts := 0
	for _, entry := range entries {
		if entry.Data.Draft {
			drafts++
		}
		slog.Info("Post", "id", entry.ID, "path", entry.FilePath, "title", entry.Data.Title, "pub_date", entry.Data.PubDate.Format(time.DateOnly), "draft", entry.Data.Draft)
	}
	slog.Info("Collection is valid", "collection", posts.Name(), "entries", len(entries), "drafts", drafts)
	return nil
}

func reportLoadError(err error) {
	var cfgErr *content.ConfigurationError
	if errors.As(err, &cfgErr) {
		slog.Error("Content directory unavailable", "dir", cfgErr.Dir, "error", cfgErr.Err)
		return
	}

	fileErrs := content.FileErrors(err)
	if len(fileErrs) == 0 {
		slog.Error("Failed to load collection", "error", err)
		return
	}

	for _, fe := range fileErrs {
		var verr *content.ValidationError
		if !errors.As(fe.Err, &verr) {
			slog.Error("Invalid post", "path", fe.Path, "error", fe.Err)
			continue
		}
		for _, field := range verr.Fields {
			slog.Error("Invalid post", "path", fe.Path, "field", field.Field, "kind", string(field.Kind), "error", field.Error())
		}
	}
	slog.Error("Collection has invalid posts", "files", len(fileErrs))
}

func serve(posts *content.Collection, appConfig *cfg.Cfg) error {
	// Invalid content does not stop the server; requests report it until fixed
	if err := check(posts); err != nil {
		slog.Warn("Serving collection with invalid content")
	}

	handler := api.NewHandler(posts, appConfig.Version)
	server := api.NewServer(handler, appConfig.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appConfig.Port, "entries", fmt.Sprintf("http://localhost:%s/%s", appConfig.Port, posts.Name()))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		return err
	}

	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("HTTP server stopped")
	return nil
}
