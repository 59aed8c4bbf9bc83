// Package logger holds the process-wide zerolog instance for the
// scholarship platform. cmd/server calls Init once with the configured
// level; everything constructed afterwards receives the logger by value,
// so Get exists mainly for code that runs before wiring completes.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger at startup.
type Options struct {
	// Level is the minimum level emitted: trace, debug, info, warn or
	// error. Anything unrecognised falls back to info.
	Level string
	// Pretty switches to the coloured console writer for local
	// development. Production keeps JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu       sync.Mutex
	instance *zerolog.Logger
)

// Init builds the shared logger. The first call wins; later calls
// return the existing instance unchanged.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		return *instance
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl := levelOrInfo(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	l := zerolog.New(out).Level(lvl).With().Timestamp().Caller().Logger()
	instance = &l
	return l
}

// Get returns the shared logger. Panics when Init has not run yet; that
// is a wiring bug, not a runtime condition.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		panic("logger: Get() called before Init()")
	}
	return *instance
}

// Reset discards the shared instance so tests can re-Init with their
// own options.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}

func levelOrInfo(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
