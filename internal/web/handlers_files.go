package web

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/AttrExtract/internal/service"
	"github.com/JonMunkholm/AttrExtract/internal/sheet"
	"github.com/JonMunkholm/AttrExtract/internal/web/templates"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := templates.IndexPage{
		MaxUpload: formatBytes(s.cfg.Upload.MaxFileSize),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Index(page).Render(r.Context(), w); err != nil {
		respondError(w, r, fmt.Errorf("render index: %w", err), http.StatusInternalServerError)
	}
}

// handleDownloadResult sends the workbook of the last successful job.
func (s *Server) handleDownloadResult(w http.ResponseWriter, r *http.Request) {
	path, err := s.service.ResultPath()
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	setAttachment(w, sheet.ResultDownloadName)
	http.ServeFile(w, r, path)
}

// handleDownloadTemplate returns a handler sending a sample workbook.
func (s *Server) handleDownloadTemplate(t service.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := service.WriteTemplate(&buf, t); err != nil {
			respondError(w, r, fmt.Errorf("build template: %w", err), http.StatusInternalServerError)
			return
		}

		setAttachment(w, t.Filename())
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.Write(buf.Bytes())
	}
}

func setAttachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

// formatBytes renders a byte count with a binary unit, e.g. "1 GiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	value := float64(n) / float64(div)
	if value == float64(int64(value)) {
		return fmt.Sprintf("%d %ciB", int64(value), "KMGTPE"[exp])
	}
	return fmt.Sprintf("%.1f %ciB", value, "KMGTPE"[exp])
}
