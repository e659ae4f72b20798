package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"flash-gen/internal/flashcards"
	"flash-gen/internal/services"
)

type generateOptions struct {
	mode         string
	language     string
	maxCards     int
	noDifficulty bool
	format       string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Generate flashcards from a text, markdown, HTML or PDF file, or from stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			genOpts, err := opts.options(root.cfg.MaxCards)
			if err != nil {
				return err
			}
			result := root.generator().GenerateWithMeta(text, genOpts)
			return writeResult(cmd.OutOrStdout(), result, opts.format)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.mode, "mode", string(flashcards.ModeAuto), "generation mode: auto, comprehension, vocabulary, vocabulary_pairs, structured_list or definitions")
	flags.StringVar(&opts.language, "language", "", "question language, french or english (defaults to the configured language)")
	flags.IntVar(&opts.maxCards, "max-cards", 0, "maximum number of cards (defaults to the configured value)")
	flags.BoolVar(&opts.noDifficulty, "no-difficulty", false, "omit easy/medium/hard labels")
	flags.StringVar(&opts.format, "format", "json", "output format: json or yaml")
	return cmd
}

func (o *generateOptions) options(defaultMax int) (flashcards.Options, error) {
	opts := flashcards.DefaultOptions()
	opts.MaxCards = defaultMax
	if o.maxCards != 0 {
		opts.MaxCards = o.maxCards
	}
	opts.DifficultyLevels = !o.noDifficulty
	opts.Language = flashcards.Language(strings.ToLower(o.language))
	opts.Mode = flashcards.Mode(o.mode)
	if err := opts.Validate(); err != nil {
		return flashcards.Options{}, fmt.Errorf("invalid flags: %w", err)
	}
	return opts, nil
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	extraction, err := services.NewTextService(nil).ExtractFile(args[0], "")
	if err != nil {
		return "", err
	}
	return extraction.Text, nil
}

func writeResult(w io.Writer, result flashcards.Result, format string) error {
	switch strings.ToLower(format) {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(result)
	case "yaml", "yml":
		out, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
