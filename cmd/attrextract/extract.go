package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/AttrExtract/internal/core"
	"github.com/JonMunkholm/AttrExtract/internal/service"
)

type extractOptions struct {
	data     string
	config   string
	out      string
	interval time.Duration
	quiet    bool
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Run the extraction over a data and a configuration file",
		Long: `Run the extraction over a data file and a configuration file and write
the result workbook.

Examples:
  # Extract with the default output name
  attrextract extract --data produtos.xlsx --config configuracao.xlsx

  # CSV input, custom output, no progress lines
  attrextract extract --data produtos.csv --config regras.csv --out saida.xlsx --quiet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.data, "data", "", "data spreadsheet with a description column (.xlsx, .xlsm, .csv)")
	cmd.Flags().StringVar(&opts.config, "config", "", "configuration spreadsheet (.xlsx, .xlsm, .csv)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "resultado.xlsx", "result workbook path")
	cmd.Flags().DurationVar(&opts.interval, "interval", 200*time.Millisecond, "progress reporting interval")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print progress")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runExtract(ctx context.Context, out io.Writer, opts *extractOptions) error {
	coord := core.NewCoordinator(core.WithLogger(slog.Default()))
	job := core.Job{
		ID: uuid.NewString(),
		Load: service.LoadFiles(
			service.Input{Path: opts.data},
			service.Input{Path: opts.config},
		),
		Persist: service.PersistFile(opts.out),
	}
	if err := coord.Start(ctx, job); err != nil {
		return err
	}

	interval := opts.interval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := -1
	for {
		st := coord.Status()
		if !opts.quiet && st.Progress != last {
			fmt.Fprintf(out, "progress: %d%%\n", st.Progress)
			last = st.Progress
		}
		if !st.Running() {
			return report(out, opts.out, st)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("interrupted: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// report prints the outcome of a finished job. A failed job is returned as
// an error carrying the user message and its code.
func report(out io.Writer, path string, st core.Status) error {
	if st.State == core.StateFailed && st.Failure != nil {
		msg := st.Failure.UserMessage()
		return fmt.Errorf("%s (%s): %w", msg.Message, msg.Code, st.Failure)
	}
	if st.State != core.StateDone {
		return errors.New("job ended without a result")
	}
	fmt.Fprintf(out, "wrote %s: %d rows, %d attributes\n", path, st.Rows, st.Attributes)
	return nil
}
