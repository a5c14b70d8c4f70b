package app

import (
	"bytes"
	"sync"
	"testing"

	"github.com/vk/gdmcv/internal/command"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance for system testing. Log output
// is captured in the returned buffer.
func SetupAppTest(t *testing.T, cfg Config, executor command.Executor) (*App, *SafeBuffer) {
	t.Helper()

	if cfg.Threads == 0 {
		cfg.Threads = 8
	}
	if cfg.Length == 0 {
		cfg.Length = 2000
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}

	appConfig, err := NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	buf := &SafeBuffer{}
	return NewApp(buf, appConfig, executor), buf
}
