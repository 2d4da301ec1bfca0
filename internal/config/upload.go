package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"
)

type UploadConfig struct {
	// MaxMB is the largest accepted archive; bigger files are rejected
	// before they are copied to TmpDir.
	MaxMB      int
	SessionTTL time.Duration
	TmpDir     string
	// Timeout bounds one upload to the backend.
	Timeout    time.Duration
}

var (
	uploadConfig *UploadConfig
	uploadOnce   sync.Once
)

func LoadUploadConfig() *UploadConfig {
	uploadOnce.Do(func() {
		maxMB := 500
		if raw := os.Getenv("UPLOAD_MAX_MB"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v > 0 {
				maxMB = v
			} else {
				log.Printf("Warning: invalid UPLOAD_MAX_MB %q, using %d", raw, maxMB)
			}
		}
		ttl := 15 * time.Minute
		if raw := os.Getenv("UPLOAD_SESSION_TTL"); raw != "" {
			if d, err := time.ParseDuration(raw); err == nil && d > 0 {
				ttl = d
			} else {
				log.Printf("Warning: invalid UPLOAD_SESSION_TTL %q, using %s", raw, ttl)
			}
		}
		timeout := 30 * time.Minute
		if raw := os.Getenv("UPLOAD_TIMEOUT"); raw != "" {
			if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
				timeout = d
			} else {
				log.Printf("Warning: invalid UPLOAD_TIMEOUT %q, using %s", raw, timeout)
			}
		}
		tmpDir := os.Getenv("UPLOAD_TMP_DIR")
		if tmpDir == "" {
			tmpDir = os.TempDir()
		}
		uploadConfig = &UploadConfig{
			MaxMB:      maxMB,
			SessionTTL: ttl,
			TmpDir:     tmpDir,
			Timeout:    timeout,
		}
	})
	return uploadConfig
}
