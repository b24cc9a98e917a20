package cubism

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cubism-go/cubism-core-go/pkg/cubism/internal/backend"
	"github.com/cubism-go/cubism-core-go/pkg/cubism/logging"
)

// Library is a loaded Cubism core. Mocs revived through it keep it in use
// until they are closed.
type Library struct {
	core    backend.Core
	logger  logging.Logger
	cfg     Config
	version CoreVersion

	mu     sync.Mutex
	closed bool
	mocs   int
}

// Open loads the native core described by cfg.
func Open(cfg Config) (*Library, error) {
	core, err := backend.Load(cfg.LibraryPath)
	if err != nil {
		return nil, err
	}
	return newLibrary(cfg, core), nil
}

// logOwner is the Library whose handler the core currently calls. The core
// keeps one log function per process, so ownership is process-wide too.
var logOwner atomic.Pointer[Library]

func newLibrary(cfg Config, core backend.Core) *Library {
	l := &Library{
		core:    core,
		logger:  cfg.logger().With("component", "cubism"),
		cfg:     cfg,
		version: CoreVersion(core.Version()),
	}
	if cfg.ForwardCoreLog {
		core.SetLogFunction(l.forwardCoreLog)
		logOwner.Store(l)
	}
	l.logger.Debug(context.Background(), "core loaded",
		"core_version", l.version.String(),
		"latest_moc_version", core.LatestMocVersion())
	return l
}

func (l *Library) forwardCoreLog(message string) {
	l.logger.Warn(context.Background(), strings.TrimSpace(message), "source", "core")
}

// CoreVersion reports the version of the loaded core. It is read once at
// load time and stays available after Close.
func (l *Library) CoreVersion() CoreVersion {
	return l.version
}

// LatestMocVersion reports the newest moc format the core can revive.
func (l *Library) LatestMocVersion() (MocVersion, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return MocVersionUnknown, ErrLibraryClosed
	}
	return mocVersionFromNative(l.core.LatestMocVersion())
}

// SetLogHandler routes messages from the core to fn; nil removes the handler.
// The core keeps a single handler per process, so this replaces whatever
// handler any other Library installed.
func (l *Library) SetLogHandler(fn func(message string)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLibraryClosed
	}
	l.core.SetLogFunction(fn)
	if fn == nil {
		logOwner.Store(nil)
	} else {
		logOwner.Store(l)
	}
	return nil
}

// HasLogHandler reports whether the core currently has a log handler.
func (l *Library) HasLogHandler() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	return l.core.HasLogFunction()
}

// Close unloads the core. It fails with ErrLibraryInUse while mocs revived
// through the library are still open and with ErrLibraryClosed when called
// twice. A log handler installed through this library is removed; one that
// another Library installed since is left alone.
func (l *Library) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLibraryClosed
	}
	if l.mocs > 0 {
		return ErrLibraryInUse
	}
	if logOwner.CompareAndSwap(l, nil) {
		l.core.SetLogFunction(nil)
	}
	l.closed = true
	l.logger.Debug(context.Background(), "core unloaded")
	return l.core.Close()
}

func (l *Library) acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLibraryClosed
	}
	l.mocs++
	return nil
}

func (l *Library) release() {
	l.mu.Lock()
	l.mocs--
	l.mu.Unlock()
}
