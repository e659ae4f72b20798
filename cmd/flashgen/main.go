// Command flashgen generates flashcards from files or stdin and serves the
// generator as an MCP tool.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"flash-gen/internal/config"
	"flash-gen/internal/flashcards"
	"flash-gen/internal/keywords"
	"flash-gen/internal/logging"
	"flash-gen/internal/nlp"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	noNLP bool
	cfg   config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "flashgen",
		Short:        "Rule-based flashcard generation",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&opts.noNLP, "no-nlp", false, "disable sentence segmentation and tagging models")

	root.AddCommand(newGenerateCmd(opts), newMCPCmd(opts))
	return root
}

// generator builds a generator from the loaded configuration. Logs go to
// stderr so stdout stays machine readable.
func (o *rootOptions) generator() *flashcards.Generator {
	logger := logging.Setup(o.cfg.LogLevel, os.Stderr)
	genCfg := flashcards.GeneratorConfig{
		Language: flashcards.Language(o.cfg.Language),
		Keywords: keywords.NewTFIDF(),
		Logger:   logger,
	}
	if o.cfg.NLPEnabled && !o.noNLP {
		genCfg.Analyzer = nlp.New(logger, o.cfg.PunktModelDir)
	}
	return flashcards.NewGenerator(genCfg)
}
