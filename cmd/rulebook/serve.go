package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rulebookdev/rulebook/pkg/corpus"
	"github.com/rulebookdev/rulebook/pkg/httpapi"
	"github.com/rulebookdev/rulebook/pkg/logger"
	"github.com/rulebookdev/rulebook/pkg/presenter"
)

// ServeConfig holds configuration for the serve command.
type ServeConfig struct {
	Host  string
	Port  int
	Watch bool
}

// NewServeConfig returns serve defaults.
func NewServeConfig() *ServeConfig {
	return &ServeConfig{
		Host: "localhost",
		Port: 7317,
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve matcher queries over a REST API",
	Long: `Start an HTTP server answering match and intent queries against the
corpus. With --watch, document edits trigger an automatic reload; the
snapshot swap is atomic and requests in flight keep the corpus they
started with.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		config := getServeConfigFromFlags(cmd)

		store := corpus.NewStore(newLoader())
		snap, err := store.Load(ctx)
		if err != nil {
			presenter.Error(err, "failed to load corpus")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("loaded %d documents from %s", snap.Len(), corpusRoot()))

		if config.Watch {
			watcher, err := corpus.NewWatcher(store, corpusRoot())
			if err != nil {
				presenter.Error(err, "failed to watch corpus")
				os.Exit(1)
			}
			defer watcher.Close()
			watcher.Start(ctx)
			presenter.Info("watching corpus for changes")
		}

		server, err := httpapi.NewServer(store, &httpapi.Config{
			Host: config.Host,
			Port: config.Port,
		})
		if err != nil {
			presenter.Error(err, "failed to create server")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("serving on http://%s:%d", config.Host, config.Port))
		presenter.Info("Press Ctrl+C to stop the server")

		if err := server.Start(ctx); err != nil {
			logger.G(ctx).WithError(err).Error("http server error")
			presenter.Error(err, "server failed")
			os.Exit(1)
		}

		presenter.Info("server stopped")
	},
}

func init() {
	defaults := NewServeConfig()
	serveCmd.Flags().String("host", defaults.Host, "Host to bind the server to")
	serveCmd.Flags().Int("port", defaults.Port, "Port to bind the server to")
	serveCmd.Flags().Bool("watch", false, "Reload the corpus when documents change")
}

func getServeConfigFromFlags(cmd *cobra.Command) *ServeConfig {
	config := NewServeConfig()

	if host, err := cmd.Flags().GetString("host"); err == nil {
		config.Host = host
	}
	if port, err := cmd.Flags().GetInt("port"); err == nil {
		config.Port = port
	}
	if watch, err := cmd.Flags().GetBool("watch"); err == nil {
		config.Watch = watch
	}

	return config
}
