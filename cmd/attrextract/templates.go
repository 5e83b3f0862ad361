package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/AttrExtract/internal/service"
)

func newTemplatesCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Write the sample data and configuration workbooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeTemplates(cmd.OutOrStdout(), dir)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	return cmd
}

func writeTemplates(out io.Writer, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, t := range []service.Template{service.TemplateProducts, service.TemplateConfig} {
		path := filepath.Join(dir, t.Filename())
		if err := writeTemplate(path, t); err != nil {
			return err
		}
		fmt.Fprintln(out, path)
	}
	return nil
}

func writeTemplate(path string, t service.Template) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := service.WriteTemplate(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
