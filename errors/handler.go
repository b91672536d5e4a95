package errors

import (
	"log/slog"
	"sync"
)

// Handler receives errors the core cannot return to a caller.
type Handler interface {
	HandleError(err error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(error)

func (f HandlerFunc) HandleError(err error) { f(err) }

// LogHandler logs errors with slog.
type LogHandler struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Verbose includes stack traces of recovered panics.
	Verbose bool
}

// HandleError logs err at error level.
func (h *LogHandler) HandleError(err error) {
	if err == nil {
		return
	}
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{slog.String("kind", KindOf(err).String())}
	var ue *UIError
	if As(err, &ue) {
		attrs = append(attrs, slog.String("op", ue.Op))
		if ue.Tree != "" {
			attrs = append(attrs, slog.String("tree", ue.Tree))
		}
	}
	var pe *PanicError
	if h.Verbose && As(err, &pe) {
		attrs = append(attrs, slog.String("stack", pe.Stack))
	}
	logger.Error(err.Error(), attrs...)
}

var (
	handlerMu      sync.RWMutex
	defaultHandler Handler = &LogHandler{}
)

// SetHandler replaces the global handler. Nil restores the LogHandler.
func SetHandler(h Handler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		h = &LogHandler{}
	}
	defaultHandler = h
}

// Report sends err to the global handler.
func Report(err error) {
	if err == nil {
		return
	}
	handlerMu.RLock()
	h := defaultHandler
	handlerMu.RUnlock()
	h.HandleError(err)
}

// Log reports err if non-nil and returns it, for one-line call sites.
func Log(err error) error {
	Report(err)
	return err
}
