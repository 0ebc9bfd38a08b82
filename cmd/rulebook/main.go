package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rulebookdev/rulebook/pkg/corpus"
	"github.com/rulebookdev/rulebook/pkg/logger"
	"github.com/rulebookdev/rulebook/pkg/presenter"
)

var rootCmd = &cobra.Command{
	Use:   "rulebook",
	Short: "Rulebook manages a corpus of guidance documents for coding assistants",
	Long: `Rulebook loads a directory of markdown guidance documents (rules, skills,
and commands with YAML frontmatter) and answers which documents apply to a
file path or task description.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return logger.Init(viper.GetString("log_level"), viper.GetString("log_format"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func init() {
	// Environment variables
	viper.SetEnvPrefix("RULEBOOK")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.rulebook")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()

	rootCmd.PersistentFlags().String("corpus", ".rulebook", "Corpus root directory (contains rules/, skills/, commands/)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().Bool("allow-duplicates", false, "Keep duplicate-name documents in the corpus instead of failing the load")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress non-error output")

	viper.BindPFlag("corpus", rootCmd.PersistentFlags().Lookup("corpus"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("allow_duplicates", rootCmd.PersistentFlags().Lookup("allow-duplicates"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// corpusRoot returns the configured corpus root directory.
func corpusRoot() string {
	return viper.GetString("corpus")
}

// newLoader builds a loader from the global flags.
func newLoader() *corpus.Loader {
	var opts []corpus.Option
	if viper.GetBool("allow_duplicates") {
		opts = append(opts, corpus.WithAllowDuplicates())
	}
	return corpus.NewLoader(corpusRoot(), opts...)
}

// loadCorpus loads the corpus and exits with a presented error on
// failure, the shared preamble of the query commands.
func loadCorpus(ctx context.Context) *corpus.Corpus {
	c, err := newLoader().Load(ctx)
	if err != nil {
		presenter.Error(err, "failed to load corpus")
		os.Exit(1)
	}
	return c
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdown, err := initTracing(ctx)
	if err != nil {
		presenter.Error(err, "failed to initialize tracing")
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.G(ctx).WithError(err).Warn("tracing shutdown failed")
		}
	}()

	cobra.OnInitialize(func() {
		presenter.SetQuiet(viper.GetBool("quiet"))
	})

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
