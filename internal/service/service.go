// Package service wires uploads, session storage and the job coordinator
// into the operations offered by the HTTP server.
//
// A submission saves both spreadsheets into a fresh session directory and
// hands a job to the coordinator. The job id is the session id, so the
// result workbook of the current job is always found at
// <upload dir>/<job id>/resultado.xlsx.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JonMunkholm/AttrExtract/internal/core"
	"github.com/JonMunkholm/AttrExtract/internal/logging"
	"github.com/JonMunkholm/AttrExtract/internal/session"
	"github.com/JonMunkholm/AttrExtract/internal/sheet"
)

// ErrNoFile is returned when a submission lacks one of its files.
var ErrNoFile = errors.New("no file provided")

// Upload is one uploaded spreadsheet.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// Service runs extraction jobs over uploaded files.
type Service struct {
	coord       *core.Coordinator
	store       *session.Store
	maxFileSize int64
}

// New returns a service. maxFileSize bounds each stored file; 0 disables the check.
func New(coord *core.Coordinator, store *session.Store, maxFileSize int64) *Service {
	return &Service{
		coord:       coord,
		store:       store,
		maxFileSize: maxFileSize,
	}
}

// StartJob stores the data and configuration files and starts an
// extraction job over them. It returns the job id, or core.ErrJobInProgress
// when another job is running. Files of a rejected submission are removed.
func (s *Service) StartJob(ctx context.Context, data, config Upload) (string, error) {
	if err := checkUpload("data", data); err != nil {
		return "", err
	}
	if err := checkUpload("config", config); err != nil {
		return "", err
	}

	// Cheap early rejection; Start below is the authoritative check.
	if s.coord.Status().Running() {
		return "", core.ErrJobInProgress
	}

	sess, err := s.store.Create()
	if err != nil {
		return "", err
	}
	ctx, logger := logging.ForJob(ctx, sess.ID)

	dataIn, err := s.save(sess, "data_", data)
	if err != nil {
		s.discard(ctx, sess)
		return "", fmt.Errorf("save data file: %w", err)
	}
	configIn, err := s.save(sess, "config_", config)
	if err != nil {
		s.discard(ctx, sess)
		return "", fmt.Errorf("save config file: %w", err)
	}

	job := core.Job{
		ID:      sess.ID,
		Load:    LoadFiles(dataIn, configIn),
		Persist: PersistFile(sess.ResultPath()),
	}
	if err := s.coord.Start(ctx, job); err != nil {
		s.discard(ctx, sess)
		return "", err
	}

	logger.Info("job submitted",
		"data_file", dataIn.Name,
		"config_file", configIn.Name,
	)
	return sess.ID, nil
}

func checkUpload(role string, u Upload) error {
	if u.Reader == nil || u.Filename == "" {
		return fmt.Errorf("%w: %s file", ErrNoFile, role)
	}
	if _, err := sheet.DetectFormat(u.Filename); err != nil {
		return fmt.Errorf("%s file: %w", role, err)
	}
	return nil
}

func (s *Service) save(sess *session.Session, prefix string, u Upload) (Input, error) {
	path, err := sess.Save(prefix+u.Filename, u.Reader, s.maxFileSize)
	if err != nil {
		return Input{}, err
	}
	return Input{Path: path, Name: u.Filename}, nil
}

func (s *Service) discard(ctx context.Context, sess *session.Session) {
	if err := s.store.Remove(sess.ID); err != nil {
		logging.FromContext(ctx).Warn("failed to remove session", "error", err)
	}
}

// Status returns the state of the current or last job.
func (s *Service) Status() core.Status {
	return s.coord.Status()
}

// ResultPath returns the location of the last successful job's workbook,
// or core.ErrNoResult.
func (s *Service) ResultPath() (string, error) {
	st := s.coord.Status()
	if st.State != core.StateDone {
		return "", core.ErrNoResult
	}
	sess, err := s.store.Open(st.JobID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrNoResult, err)
	}
	path := sess.ResultPath()
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrNoResult, err)
	}
	return path, nil
}

// Wait blocks until the running job, if any, has finished or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	return s.coord.Wait(ctx)
}

// StartSessionSweeper removes expired sessions until ctx is cancelled.
// The session of the current or last job is kept so its result stays
// downloadable.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	s.store.StartSweeper(ctx, interval, s.inUse)
}

func (s *Service) inUse(id string) bool {
	return s.coord.Status().JobID == id
}
