package backend

import "sync/atomic"

// The core has a single process-wide log function, so the Go side keeps a
// single process-wide handler that the native trampolines dispatch to.
var logHandler atomic.Pointer[func(string)]

func setLogHandler(fn func(string)) {
	if fn == nil {
		logHandler.Store(nil)
		return
	}
	logHandler.Store(&fn)
}

func dispatchLog(message string) {
	if fn := logHandler.Load(); fn != nil {
		(*fn)(message)
	}
}
