package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/JonMunkholm/AttrExtract/internal/logging"
	"github.com/JonMunkholm/AttrExtract/internal/service"
	"github.com/JonMunkholm/AttrExtract/internal/session"
)

// multipartMemory is the part of a multipart form kept in memory; larger
// files spill to temporary files.
const multipartMemory = 32 << 20

// Form field names of the two files, current name first.
var (
	dataFileFields   = []string{"data_file", "arquivo_dados"}
	configFileFields = []string{"config_file", "arquivo_config"}
)

// handleStartJob accepts the data and configuration spreadsheets and starts
// an extraction job. The job runs in the background; clients follow it via
// the progress endpoints.
func (s *Server) handleStartJob(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	if r.ContentLength > maxSize {
		err := fmt.Errorf("%w: request of %d bytes exceeds %d", session.ErrFileTooLarge, r.ContentLength, maxSize)
		respondError(w, r, err, http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondError(w, r, fmt.Errorf("%w: %w", session.ErrFileTooLarge, err), http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, r, fmt.Errorf("%w: invalid form: %w", service.ErrNoFile, err), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	data, closeData := formFile(r, dataFileFields...)
	defer closeData()
	config, closeConfig := formFile(r, configFileFields...)
	defer closeConfig()

	jobID, err := s.service.StartJob(r.Context(), data, config)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if isLegacy(r) {
		_ = render.Render(w, r, LegacyStartJobReply{Mensagem: "Processamento iniciado", JobID: jobID})
		return
	}
	render.Status(r, http.StatusAccepted)
	_ = render.Render(w, r, StartJobReply{JobID: jobID, Message: "Processing started"})
}

// formFile returns the first of the named multipart files that is present.
// A missing file yields an empty Upload, which the service rejects.
func formFile(r *http.Request, names ...string) (service.Upload, func()) {
	for _, name := range names {
		file, header, err := r.FormFile(name)
		if err != nil {
			continue
		}
		return service.Upload{Filename: header.Filename, Reader: file}, func() { file.Close() }
	}
	return service.Upload{}, func() {}
}

// handleJobProgress reports the state of the current or last job.
func (s *Server) handleJobProgress(w http.ResponseWriter, r *http.Request) {
	st := s.service.Status()
	if isLegacy(r) {
		_ = render.Render(w, r, newLegacyProgressReply(st))
		return
	}
	_ = render.Render(w, r, newProgressReply(st))
}

// handleJobProgressStream streams job progress via Server-Sent Events.
// An event is sent whenever the reported state changes; the stream ends
// with a "complete" event once no job is running.
func (s *Server) handleJobProgressStream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ticker := time.NewTicker(s.cfg.Job.ProgressPollInterval)
	defer ticker.Stop()

	logger := logging.FromContext(r.Context())
	var last *ProgressReply
	for {
		reply := newProgressReply(s.service.Status())

		event := "progress"
		if !reply.Running {
			event = "complete"
		}
		if last == nil || reply != *last || event == "complete" {
			if err := writeEvent(w, event, reply.Progress, reply); err != nil {
				logger.Debug("progress stream closed", "error", err)
				return
			}
			if err := rc.Flush(); err != nil {
				logger.Error("progress stream cannot flush", "error", err)
				return
			}
			last = &reply
		}
		if event == "complete" {
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// writeEvent writes one SSE frame. The event id is the progress percentage.
func writeEvent(w io.Writer, event string, id int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, event, data)
	return err
}
