package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fadilmartias/esg-dashboard/internal/config"
	"github.com/fadilmartias/esg-dashboard/internal/dto"
	"github.com/fadilmartias/esg-dashboard/internal/metrics"
	"github.com/fadilmartias/esg-dashboard/internal/model"
	"github.com/fadilmartias/esg-dashboard/internal/service"
	"github.com/fadilmartias/esg-dashboard/internal/util"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

type UploadState string

const (
	UploadIdle      UploadState = "idle"
	UploadSelected  UploadState = "selected"
	UploadUploading UploadState = "uploading"
	UploadSucceeded UploadState = "succeeded"
	UploadFailed    UploadState = "failed"
)

const invalidZipMessage = "Please select a valid ZIP file"

var (
	ErrInvalidFileType  = errors.New("only .zip files are accepted")
	ErrNothingSelected  = errors.New("no file selected")
	ErrUploadInProgress = errors.New("an upload is already in progress")
	ErrUploadNotFound   = errors.New("upload session not found")
	ErrFileTooLarge     = errors.New("file exceeds the upload limit")
)

// ValidateZipName accepts only names ending in ".zip".
func ValidateZipName(name string) error {
	if !strings.HasSuffix(name, ".zip") {
		return ErrInvalidFileType
	}
	return nil
}

// UploadSession is one user's upload attempt(s). A file that failed to
// upload stays selected so it can be retried without reselecting it.
type UploadSession struct {
	ID string

	mu       sync.Mutex
	state    UploadState
	fileName string
	fileSize int64
	tempPath string
	progress int
	err      string
	result   *model.UploadSummary
}

func newUploadSession(id string) *UploadSession {
	return &UploadSession{ID: id, state: UploadIdle}
}

// Select records a received file. A non-zip name sets the error and leaves
// no file selected. It returns the path of a previously retained file that
// the caller should discard.
func (s *UploadSession) Select(name string, size int64, tempPath string) (stale string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == UploadUploading {
		return "", ErrUploadInProgress
	}
	stale = s.tempPath
	if err := ValidateZipName(name); err != nil {
		s.clearFile()
		s.state = UploadIdle
		s.err = invalidZipMessage
		return stale, err
	}
	if stale == tempPath {
		stale = ""
	}
	s.fileName = name
	s.fileSize = size
	s.tempPath = tempPath
	s.state = UploadSelected
	s.err = ""
	s.result = nil
	return stale, nil
}

// Begin moves a selected (or previously failed) file into uploading and
// returns what should be sent.
func (s *UploadSession) Begin() (name, path string, size int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == UploadUploading {
		return "", "", 0, ErrUploadInProgress
	}
	if s.tempPath == "" {
		return "", "", 0, ErrNothingSelected
	}
	s.state = UploadUploading
	s.progress = 0
	s.err = ""
	s.result = nil
	return s.fileName, s.tempPath, s.fileSize, nil
}

// Reject drops any selection and shows msg. It returns the retained temp
// path, if any, for the caller to remove.
func (s *UploadSession) Reject(msg string) (stale string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == UploadUploading {
		return "", ErrUploadInProgress
	}
	stale = s.tempPath
	s.clearFile()
	s.state = UploadIdle
	s.err = msg
	s.result = nil
	return stale, nil
}

// Clear removes the selection and returns to idle with no message.
func (s *UploadSession) Clear() (stale string, err error) {
	return s.Reject("")
}

func (s *UploadSession) SetProgress(p int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == UploadUploading {
		s.progress = max(0, min(100, p))
	}
}

// Succeed clears the selection and returns the temp path to remove.
func (s *UploadSession) Succeed(summary *model.UploadSummary) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.tempPath
	s.clearFile()
	s.state = UploadSucceeded
	s.progress = 0
	s.result = summary
	s.err = ""
	return path
}

// Fail keeps the selection so the same file can be retried.
func (s *UploadSession) Fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = UploadFailed
	s.progress = 0
	s.err = msg
}

func (s *UploadSession) clearFile() {
	s.fileName = ""
	s.fileSize = 0
	s.tempPath = ""
}

// Snapshot is a consistent copy of the session for rendering.
type UploadSnapshot struct {
	ID        string
	State     UploadState
	FileName  string
	FileSize  int64
	HasFile   bool
	Uploading bool
	Progress  int
	Error     string
	Result    *model.UploadSummary
}

func (s *UploadSession) Snapshot() UploadSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return UploadSnapshot{
		ID:        s.ID,
		State:     s.state,
		FileName:  s.fileName,
		FileSize:  s.fileSize,
		HasFile:   s.tempPath != "",
		Uploading: s.state == UploadUploading,
		Progress:  s.progress,
		Error:     s.err,
		Result:    s.result,
	}
}

func (s *UploadSession) discardFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.tempPath
	s.clearFile()
	return path
}

// UploadTracker keeps upload sessions in memory until they go idle for ttl.
// Evicted sessions have their retained temp file removed.
type UploadTracker struct {
	sessions *cache.Cache
	log      *logrus.Logger
}

func NewUploadTracker(ttl time.Duration, log *logrus.Logger) *UploadTracker {
	t := &UploadTracker{
		sessions: cache.New(ttl, time.Minute),
		log:      log,
	}
	t.sessions.OnEvicted(func(id string, v any) {
		s, ok := v.(*UploadSession)
		if !ok {
			return
		}
		if path := s.discardFile(); path != "" {
			removeFile(path, log)
		}
	})
	return t
}

func (t *UploadTracker) New() *UploadSession {
	s := newUploadSession(uuid.NewString())
	t.sessions.Set(s.ID, s, cache.DefaultExpiration)
	return s
}

// Get returns the session and extends its lifetime.
func (t *UploadTracker) Get(id string) (*UploadSession, bool) {
	v, ok := t.sessions.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*UploadSession)
	// re-key with the session's own id; callers may pass request-scoped strings
	t.sessions.Set(s.ID, s, cache.DefaultExpiration)
	return s, true
}

// GetOrNew returns the session for id, or a fresh one when id is unknown.
func (t *UploadTracker) GetOrNew(id string) *UploadSession {
	if id != "" {
		if s, ok := t.Get(id); ok {
			return s
		}
	}
	return t.New()
}

func (t *UploadTracker) Delete(id string) {
	t.sessions.Delete(id)
}

type UploadUsecase struct {
	esg     service.ESGServiceInterface
	tracker *UploadTracker
	tmpDir  string
	maxMB   int
	timeout time.Duration
	metrics *metrics.Metrics
	log     *logrus.Logger
	wg      sync.WaitGroup
}

// NewUploadUsecase builds the usecase. cfg.Timeout bounds uploads started
// in the background with Start; zero means no bound.
func NewUploadUsecase(esg service.ESGServiceInterface, tracker *UploadTracker, cfg *config.UploadConfig, m *metrics.Metrics, log *logrus.Logger) *UploadUsecase {
	return &UploadUsecase{
		esg:     esg,
		tracker: tracker,
		tmpDir:  cfg.TmpDir,
		maxMB:   cfg.MaxMB,
		timeout: cfg.Timeout,
		metrics: m,
		log:     log,
	}
}

func (uc *UploadUsecase) Tracker() *UploadTracker {
	return uc.tracker
}

// Accept validates the file name and size, stores the file through save,
// and selects it on the session. Rejected files are never written.
func (uc *UploadUsecase) Accept(s *UploadSession, name string, size int64, save func(dst string) error) error {
	if err := ValidateZipName(name); err != nil {
		stale, _ := s.Select(name, size, "")
		removeFile(stale, uc.log)
		return err
	}
	if limit := uc.maxBytes(); limit > 0 && size > limit {
		stale, err := s.Reject("File is larger than " + util.FormatFileSize(limit))
		if err != nil {
			return err
		}
		removeFile(stale, uc.log)
		return ErrFileTooLarge
	}
	if s.Snapshot().Uploading {
		return ErrUploadInProgress
	}

	dst := filepath.Join(uc.tmpDir, "esg-upload-"+uuid.NewString()+".zip")
	if err := save(dst); err != nil {
		removeFile(dst, uc.log)
		return fmt.Errorf("save upload: %w", err)
	}
	stale, err := s.Select(name, size, dst)
	if err != nil {
		// an upload began while the file was being saved
		removeFile(dst, uc.log)
		return err
	}
	removeFile(stale, uc.log)
	return nil
}

// Remove drops the session's selected file.
func (uc *UploadUsecase) Remove(s *UploadSession) error {
	stale, err := s.Clear()
	if err != nil {
		return err
	}
	removeFile(stale, uc.log)
	return nil
}

func (uc *UploadUsecase) maxBytes() int64 {
	return int64(uc.maxMB) * 1024 * 1024
}

// Send uploads the session's selected file to the backend and waits for
// the outcome.
func (uc *UploadUsecase) Send(ctx context.Context, s *UploadSession) error {
	run, err := uc.begin(s)
	if err != nil {
		return err
	}
	return run(ctx)
}

// Start moves the session into uploading and transfers the file in the
// background. Progress and the outcome are read from the session.
func (uc *UploadUsecase) Start(ctx context.Context, s *UploadSession) error {
	run, err := uc.begin(s)
	if err != nil {
		return err
	}
	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		if uc.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, uc.timeout)
			defer cancel()
		}
		_ = run(ctx)
	}()
	return nil
}

// Wait blocks until every upload started with Start has finished.
func (uc *UploadUsecase) Wait() {
	uc.wg.Wait()
}

func (uc *UploadUsecase) begin(s *UploadSession) (func(context.Context) error, error) {
	name, path, size, err := s.Begin()
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		f, err := os.Open(path)
		if err != nil {
			s.Fail("Failed to upload file")
			return fmt.Errorf("open upload: %w", err)
		}
		summary, err := uc.esg.UploadZip(ctx, name, f, size, s.SetProgress)
		f.Close()

		if err != nil {
			s.Fail(service.ErrorMessage(err))
			uc.metrics.ObserveUpload(false, size)
			uc.log.WithError(err).WithFields(logrus.Fields{"upload_id": s.ID, "file": name}).Warn("upload: backend rejected file")
			return err
		}

		removeFile(s.Succeed(summary), uc.log)
		uc.metrics.ObserveUpload(true, size)
		uc.log.WithFields(logrus.Fields{"upload_id": s.ID, "file": name, "bytes": size}).Info("upload: completed")
		return nil
	}, nil
}

func (uc *UploadUsecase) View(s *UploadSession) dto.UploadView {
	snap := s.Snapshot()
	view := dto.UploadView{
		SessionID:    snap.ID,
		State:        string(snap.State),
		FileName:     snap.FileName,
		HasFile:      snap.HasFile,
		Uploading:    snap.Uploading,
		Progress:     snap.Progress,
		Error:        snap.Error,
		Succeeded:    snap.State == UploadSucceeded,
		MaxSizeLabel: util.FormatFileSize(uc.maxBytes()),
	}
	if snap.HasFile {
		view.FileSizeLabel = util.FormatFileSize(snap.FileSize)
	}
	if snap.Result != nil {
		view.Summary = &dto.UploadSummaryView{
			Status:    snap.Result.Status,
			Companies: optionalCount(snap.Result.CompaniesInserted),
			News:      optionalCount(snap.Result.NewsInserted),
			Reports:   optionalCount(snap.Result.ReportsInserted),
		}
	}
	return view
}

func (uc *UploadUsecase) Progress(s *UploadSession) dto.UploadProgressDTO {
	snap := s.Snapshot()
	return dto.UploadProgressDTO{
		ID:        snap.ID,
		State:     string(snap.State),
		Uploading: snap.Uploading,
		Progress:  snap.Progress,
		FileName:  snap.FileName,
		Error:     snap.Error,
	}
}

func optionalCount(n *int) string {
	if n == nil {
		return ""
	}
	return util.FormatCount(*n)
}

func removeFile(path string, log *logrus.Logger) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).WithField("path", path).Warn("upload: failed to remove temp file")
	}
}
