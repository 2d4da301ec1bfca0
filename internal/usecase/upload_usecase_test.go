package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fadilmartias/esg-dashboard/internal/config"
	"github.com/fadilmartias/esg-dashboard/internal/logger"
	"github.com/fadilmartias/esg-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUpload(t *testing.T, svc *mockESGService) *UploadUsecase {
	t.Helper()
	log := logger.Discard()
	cfg := &config.UploadConfig{MaxMB: 500, TmpDir: t.TempDir(), Timeout: time.Minute}
	return NewUploadUsecase(svc, NewUploadTracker(time.Minute, log), cfg, nil, log)
}

func writeTo(content string) func(string) error {
	return func(dst string) error {
		return os.WriteFile(dst, []byte(content), 0o600)
	}
}

func intPtr(v int) *int { return &v }

func TestValidateZipName(t *testing.T) {
	assert.NoError(t, ValidateZipName("data.zip"))
	assert.ErrorIs(t, ValidateZipName("data.csv"), ErrInvalidFileType)
	assert.ErrorIs(t, ValidateZipName("zip"), ErrInvalidFileType)
	assert.ErrorIs(t, ValidateZipName("data.ZIP"), ErrInvalidFileType)
}

func TestUploadUsecase_RejectsNonZip(t *testing.T) {
	uc := newTestUpload(t, &mockESGService{})
	s := uc.Tracker().New()
	saved := false

	err := uc.Accept(s, "data.csv", 10, func(string) error {
		saved = true
		return nil
	})

	assert.ErrorIs(t, err, ErrInvalidFileType)
	assert.False(t, saved, "rejected files are never written")
	snap := s.Snapshot()
	assert.False(t, snap.HasFile)
	assert.Empty(t, snap.FileName)
	assert.Equal(t, "Please select a valid ZIP file", snap.Error)
}

func TestUploadUsecase_NonZipReplacesPreviousSelection(t *testing.T) {
	uc := newTestUpload(t, &mockESGService{})
	s := uc.Tracker().New()
	require.NoError(t, uc.Accept(s, "data.zip", 5, writeTo("hello")))
	_, path, _, err := s.Begin()
	require.NoError(t, err)
	s.Fail("x")

	require.ErrorIs(t, uc.Accept(s, "notes.txt", 3, writeTo("abc")), ErrInvalidFileType)

	assert.False(t, s.Snapshot().HasFile)
	assert.NoFileExists(t, path)
}

func TestUploadUsecase_Success(t *testing.T) {
	svc := &mockESGService{summary: &model.UploadSummary{
		Status:            "success",
		CompaniesInserted: intPtr(1200),
		NewsInserted:      intPtr(4),
	}}
	uc := newTestUpload(t, svc)
	s := uc.Tracker().New()
	require.NoError(t, uc.Accept(s, "data.zip", 5, writeTo("hello")))
	assert.Equal(t, UploadSelected, s.Snapshot().State)

	require.NoError(t, uc.Send(context.Background(), s))

	assert.Equal(t, "hello", string(svc.uploaded))
	assert.Equal(t, "data.zip", svc.uploadName)

	snap := s.Snapshot()
	assert.Equal(t, UploadSucceeded, snap.State)
	assert.False(t, snap.HasFile, "selection is cleared on success")
	assert.False(t, snap.Uploading)
	assert.Equal(t, 0, snap.Progress)

	view := uc.View(s)
	require.NotNil(t, view.Summary)
	assert.Equal(t, "1,200", view.Summary.Companies)
	assert.Equal(t, "4", view.Summary.News)
	assert.Empty(t, view.Summary.Reports, "missing counts render as empty")
	assert.Equal(t, "500 MB", view.MaxSizeLabel)

	entries, err := os.ReadDir(uc.tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file is removed after success")
}

func TestUploadUsecase_FailureRetainsFileForRetry(t *testing.T) {
	svc := &mockESGService{uploadErr: errors.New("ZIP archive is corrupt.")}
	uc := newTestUpload(t, svc)
	s := uc.Tracker().New()
	require.NoError(t, uc.Accept(s, "data.zip", 5, writeTo("hello")))

	require.Error(t, uc.Send(context.Background(), s))

	snap := s.Snapshot()
	assert.Equal(t, UploadFailed, snap.State)
	assert.Equal(t, "ZIP archive is corrupt.", snap.Error)
	assert.True(t, snap.HasFile, "file is retained on failure")
	assert.Equal(t, "data.zip", snap.FileName)
	assert.False(t, snap.Uploading)
	assert.Equal(t, 0, snap.Progress)

	svc.uploadErr = nil
	svc.summary = &model.UploadSummary{Status: "success"}
	require.NoError(t, uc.Send(context.Background(), s), "retry uses the retained file")
	assert.Equal(t, 2, svc.uploadCalls)
	assert.Equal(t, "hello", string(svc.uploaded))
	assert.Equal(t, UploadSucceeded, s.Snapshot().State)
}

func TestUploadSession_BeginGuards(t *testing.T) {
	s := newUploadSession("id")

	_, _, _, err := s.Begin()
	assert.ErrorIs(t, err, ErrNothingSelected)

	_, err = s.Select("a.zip", 1, filepath.Join(t.TempDir(), "a.zip"))
	require.NoError(t, err)
	_, _, _, err = s.Begin()
	require.NoError(t, err)

	_, _, _, err = s.Begin()
	assert.ErrorIs(t, err, ErrUploadInProgress)
	_, err = s.Select("b.zip", 1, "other")
	assert.ErrorIs(t, err, ErrUploadInProgress)

	s.SetProgress(140)
	assert.Equal(t, 100, s.Snapshot().Progress)
}

func TestUploadTracker(t *testing.T) {
	tracker := NewUploadTracker(time.Minute, logger.Discard())
	s := tracker.New()

	got, ok := tracker.Get(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)

	assert.Same(t, s, tracker.GetOrNew(s.ID))
	assert.NotEqual(t, s.ID, tracker.GetOrNew("unknown").ID)

	_, ok = tracker.Get("missing")
	assert.False(t, ok)
}

func TestUploadTracker_EvictionRemovesRetainedFile(t *testing.T) {
	tracker := NewUploadTracker(time.Minute, logger.Discard())
	s := tracker.New()
	path := filepath.Join(t.TempDir(), "kept.zip")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	_, err := s.Select("kept.zip", 1, path)
	require.NoError(t, err)

	tracker.Delete(s.ID)

	assert.NoFileExists(t, path)
}

func TestUploadUsecase_StartRunsInBackground(t *testing.T) {
	svc := &mockESGService{summary: &model.UploadSummary{Status: "success"}}
	uc := newTestUpload(t, svc)
	s := uc.Tracker().New()
	require.NoError(t, uc.Accept(s, "data.zip", 5, writeTo("hello")))

	require.NoError(t, uc.Start(context.Background(), s))
	// either still uploading or already finished with the file cleared
	assert.Error(t, uc.Start(context.Background(), s))
	uc.Wait()

	assert.Equal(t, UploadSucceeded, s.Snapshot().State)
	assert.Equal(t, 1, svc.uploadCalls)
}

func TestUploadUsecase_RejectsOversizedFile(t *testing.T) {
	uc := newTestUpload(t, &mockESGService{})
	s := uc.Tracker().New()
	saved := false

	err := uc.Accept(s, "huge.zip", 501*1024*1024, func(string) error {
		saved = true
		return nil
	})

	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.False(t, saved)
	snap := s.Snapshot()
	assert.False(t, snap.HasFile)
	assert.Equal(t, "File is larger than 500 MB", snap.Error)
}

func TestUploadUsecase_SavedFileRemovedWhenUploadStartsMeanwhile(t *testing.T) {
	uc := newTestUpload(t, &mockESGService{})
	s := uc.Tracker().New()
	require.NoError(t, uc.Accept(s, "first.zip", 5, writeTo("first")))
	first := s.tempPath

	var second string
	err := uc.Accept(s, "second.zip", 6, func(dst string) error {
		second = dst
		// a retry of the first file starts while this one is written
		_, _, _, beginErr := s.Begin()
		require.NoError(t, beginErr)
		return os.WriteFile(dst, []byte("second"), 0o600)
	})

	assert.ErrorIs(t, err, ErrUploadInProgress)
	assert.NoFileExists(t, second)
	assert.FileExists(t, first, "the file being uploaded is untouched")
	assert.Equal(t, "first.zip", s.Snapshot().FileName)
}

func TestUploadUsecase_Remove(t *testing.T) {
	uc := newTestUpload(t, &mockESGService{uploadErr: errors.New("boom")})
	s := uc.Tracker().New()
	require.NoError(t, uc.Accept(s, "data.zip", 5, writeTo("hello")))
	path := s.tempPath
	require.Error(t, uc.Send(context.Background(), s))

	require.NoError(t, uc.Remove(s))

	snap := s.Snapshot()
	assert.Equal(t, UploadIdle, snap.State)
	assert.False(t, snap.HasFile)
	assert.Empty(t, snap.Error)
	assert.NoFileExists(t, path)
	_, _, _, err := s.Begin()
	assert.ErrorIs(t, err, ErrNothingSelected)
}
