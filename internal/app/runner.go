package app

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

	"github.com/podatlas/podatlas/internal/config"
	"github.com/podatlas/podatlas/internal/corpus"
	"github.com/podatlas/podatlas/internal/domain"
	"github.com/podatlas/podatlas/internal/server"
	"github.com/spf13/pflag"
)

// RunParams contains dependencies for the run functions
type RunParams struct {
	LoadSettings  func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings func(*config.Settings) error
	BuildCorpus   func(dir string) (*domain.CorpusIndex, error)
	WriteArtifact func(dir string, index *domain.CorpusIndex) error
}

// DefaultRunParams returns production dependencies
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:  config.LoadSettingsWithFlags,
		ValidSettings: config.ValidateSettings,
		BuildCorpus:   corpus.NewBuilder().BuildDir,
		WriteArtifact: corpus.WriteArtifacts,
	}
}

// setupLogging configures the default logger - always stderr to keep stdout
// clean for command output
func setupLogging() {
	handler := slog.NewTextHandler(os.Stderr, nil)
	slog.SetDefault(slog.New(handler))
}

// RunBuild executes the offline corpus build with the provided dependencies
func RunBuild(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if err := params.ValidSettings(settings); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogging()
	slog.Info("Starting corpus build", "version", version)
	config.Log(settings)

	lock := corpus.NewBuildLock(settings.Corpus.OutputDir)
	if err := lock.Acquire(); err != nil {
		return fmt.Errorf("failed to acquire build lock: %w", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			slog.Error("Failed to release build lock", "error", err)
		}
	}()

	index, err := params.BuildCorpus(settings.Corpus.Dir)
	if err != nil {
		return err
	}

	if err := params.WriteArtifact(settings.Corpus.OutputDir, index); err != nil {
		return err
	}

	slog.Info("Artifacts written", "dir", settings.Corpus.OutputDir, "episodes", index.TotalEpisodes)
	return nil
}

// RunServe starts the HTTP server over a previously built artifact. SIGHUP
// reloads the artifact wholesale; SIGINT/SIGTERM shut down gracefully.
func RunServe(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if err := params.ValidSettings(settings); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogging()
	slog.Info("Starting podatlas server", "version", version)
	config.Log(settings)

	library := server.NewLibrary(settings.Corpus.OutputDir, settings.Serve.MaxResults)
	if err := library.Reload(); err != nil {
		return err
	}
	defer func() {
		if err := library.Close(); err != nil {
			slog.Error("Failed to close library", "error", err)
		}
	}()

	srv := server.NewHTTPServer(library, &settings.Serve)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening (HTTP)", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	for {
		select {
		case <-reload:
			slog.Info("Reloading corpus snapshot")
			if err := library.Reload(); err != nil {
				slog.Error("Reload failed, keeping previous snapshot", "error", err)
			}
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
			slog.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	}
}
