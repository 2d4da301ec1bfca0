package config

import (
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	defaultAPIBaseURL    = "/api"
	defaultBackendOrigin = "http://localhost:8000"
	defaultAPITimeout    = 60 * time.Second
)

// BackendConfig describes how to reach the ESG REST backend.
type BackendConfig struct {
	// BaseURL is the absolute API root, e.g. http://localhost:8000/api.
	BaseURL string
	Timeout time.Duration
}

var (
	backendConfig *BackendConfig
	backendOnce   sync.Once
)

func LoadBackendConfig() *BackendConfig {
	backendOnce.Do(func() {
		timeout := defaultAPITimeout
		if raw := os.Getenv("API_TIMEOUT"); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				log.Printf("Warning: invalid API_TIMEOUT %q, using %s", raw, defaultAPITimeout)
			} else {
				timeout = d
			}
		}
		backendConfig = &BackendConfig{
			BaseURL: ResolveBaseURL(os.Getenv("API_BASE_URL"), os.Getenv("BACKEND_ORIGIN")),
			Timeout: timeout,
		}
	})
	return backendConfig
}

// ResolveBaseURL trims trailing slashes from base and, when base is a path
// rather than an absolute URL, prefixes it with origin.
func ResolveBaseURL(base, origin string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = defaultAPIBaseURL
	}
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return base
	}
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		origin = defaultBackendOrigin
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return origin + base
}
