package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/AttrExtract/internal/logging"
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "attrextract",
		Short: "Extract product attributes from descriptions using keyword rules",
		Long: `attrextract fills attribute columns of a product spreadsheet by matching
each description against the patterns of a configuration spreadsheet.

The configuration has the columns "Atributo", "Valor" and "Padrões". For every
attribute, the first rule with a pattern found in the description wins.`,
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupWriter(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
		},
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", level, "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	cmd.AddCommand(newExtractCmd())
	cmd.AddCommand(newTemplatesCmd())
	return cmd
}
