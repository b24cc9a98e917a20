// Package logging provides a minimal logging facade for the cubism wrapper.
//
// The Logger interface wraps the context-aware subset of log/slog so that
// applications can plug in their own sink:
//
//	logger := logging.New(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
//	lib, err := cubism.Open(cubism.Config{Logger: logger, ForwardCoreLog: true})
//
// The wrapper logs handle lifecycle events at Debug. Messages emitted by the
// native core through its log callback are forwarded at Warn with
// source=core when Config.ForwardCoreLog is set.
//
// Discard returns a Logger that drops everything; it is the default when no
// Logger is configured.
package logging
