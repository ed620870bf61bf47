package service

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/beercounter/internal/workflow"
	"github.com/mmynk/beercounter/pkg/api/apiconnect"
)

// Handlers builds every Connect service over wf, keyed by the path prefix to mount
// them on. opts are applied to all services, typically the interceptor chain.
func Handlers(wf *workflow.Service, opts ...connect.HandlerOption) map[string]http.Handler {
	handlers := make(map[string]http.Handler, 3)

	path, h := apiconnect.NewGroupServiceHandler(NewGroupService(wf), opts...)
	handlers[path] = h

	path, h = apiconnect.NewLedgerServiceHandler(NewLedgerService(wf), opts...)
	handlers[path] = h

	path, h = apiconnect.NewNotificationServiceHandler(NewNotificationService(wf), opts...)
	handlers[path] = h

	return handlers
}
