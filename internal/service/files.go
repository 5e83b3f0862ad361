package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/AttrExtract/internal/core"
	"github.com/JonMunkholm/AttrExtract/internal/logging"
	"github.com/JonMunkholm/AttrExtract/internal/sheet"
)

// Input is a spreadsheet on disk. Name is the file name the format is
// detected from; it defaults to the base of Path.
type Input struct {
	Path string
	Name string
}

func (in Input) name() string {
	if in.Name != "" {
		return in.Name
	}
	return filepath.Base(in.Path)
}

func (in Input) read(ctx context.Context) (*core.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(in.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sheet.Read(in.name(), f)
}

// LoadFiles returns the parse stage of a job: both spreadsheets are read
// concurrently and the first error wins.
func LoadFiles(data, config Input) core.LoadFunc {
	return func(ctx context.Context) (*core.Table, *core.Table, error) {
		var dataTable, configTable *core.Table

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			t, err := data.read(gctx)
			if err != nil {
				return fmt.Errorf("data file %s: %w", data.name(), err)
			}
			dataTable = t
			return nil
		})
		g.Go(func() error {
			t, err := config.read(gctx)
			if err != nil {
				return fmt.Errorf("config file %s: %w", config.name(), err)
			}
			configTable = t
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}

		logging.FromContext(ctx).Debug("inputs loaded",
			"data_rows", dataTable.Len(),
			"config_rows", configTable.Len(),
		)
		return dataTable, configTable, nil
	}
}

// PersistFile returns a persist stage that writes the result workbook to
// path. The file is written under a temporary name and renamed into place,
// so a download never sees a partial workbook.
func PersistFile(path string) core.PersistFunc {
	return func(ctx context.Context, result *core.Table) error {
		tmp, err := os.CreateTemp(filepath.Dir(path), ".result-*.xlsx")
		if err != nil {
			return fmt.Errorf("create result file: %w", err)
		}
		tmpName := tmp.Name()
		defer os.Remove(tmpName)

		if err := sheet.WriteExcel(tmp, result, "Resultados"); err != nil {
			tmp.Close()
			return err
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("close result file: %w", err)
		}
		if err := os.Rename(tmpName, path); err != nil {
			return fmt.Errorf("store result file: %w", err)
		}

		logging.FromContext(ctx).Debug("result written", "path", path, "rows", result.Len())
		return nil
	}
}

// Template identifies a downloadable sample workbook.
type Template int

const (
	TemplateProducts Template = iota
	TemplateConfig
)

// Filename is the download name of the template.
func (t Template) Filename() string {
	if t == TemplateConfig {
		return sheet.ConfigTemplateName
	}
	return sheet.ProductsTemplateName
}

// WriteTemplate writes the sample workbook t to w.
func WriteTemplate(w io.Writer, t Template) error {
	switch t {
	case TemplateConfig:
		return sheet.WriteExcel(w, sheet.ConfigTemplate(), "Configuração")
	default:
		return sheet.WriteExcel(w, sheet.ProductsTemplate(), "Produtos")
	}
}
