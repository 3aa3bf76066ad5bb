package gateway

import (
	"context"
	"sync"
)

// AuthorizedHandler is implemented by business document services that react
// to a captured payment. The returned URL, when non-empty, replaces the
// caller-supplied redirect target.
type AuthorizedHandler interface {
	OnPaymentAuthorized(ctx context.Context, docname, status string) (string, error)
}

// HookRunner routes post-authorization callbacks to the service owning the
// referenced document type.
type HookRunner struct {
	mu       sync.RWMutex
	handlers map[string]AuthorizedHandler
}

func NewHookRunner() *HookRunner {
	return &HookRunner{
		handlers: make(map[string]AuthorizedHandler),
	}
}

func (hr *HookRunner) RegisterDoctype(doctype string, h AuthorizedHandler) {
	hr.mu.Lock()
	defer hr.mu.Unlock()

	hr.handlers[doctype] = h
}

// Run invokes the handler for doctype. Document types with no registered
// handler are a no-op, mirroring documents that simply have no
// post-authorization behavior. Errors are returned to the caller, which is
// expected to swallow them: by the time the hook runs the funds have moved.
func (hr *HookRunner) Run(ctx context.Context, doctype, docname, status string) (string, error) {
	hr.mu.RLock()
	h, ok := hr.handlers[doctype]
	hr.mu.RUnlock()

	if !ok {
		return "", nil
	}
	return h.OnPaymentAuthorized(ctx, docname, status)
}
