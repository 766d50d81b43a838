package server

import (
	"net/http"
	"strings"

	"github.com/iota-uz/ipr/pkg/composables"
	"github.com/iota-uz/ipr/pkg/httpapi"
	"github.com/iota-uz/ipr/pkg/shared"
)

type ErrorHandlersOptions struct {
	// Entrypoint is where requests for "/" are redirected.
	Entrypoint string
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code string) {
	meta := map[string]string{"path": r.URL.Path}
	if requestID, ok := composables.UseRequestID(r.Context()); ok {
		meta["request_id"] = requestID
	}
	if err := httpapi.WriteError(w, status, code, strings.ToLower(http.StatusText(status)), meta); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to encode error response")
	}
}

func NotFound(opts ErrorHandlersOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && opts.Entrypoint != "" && r.Method == http.MethodGet {
			shared.Redirect(w, r, opts.Entrypoint)
			return
		}
		if composables.IsAPIRequest(r) {
			writeAPIError(w, r, http.StatusNotFound, httpapi.CodeNotFound)
			return
		}
		http.NotFound(w, r)
	}
}

func MethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if composables.IsAPIRequest(r) {
			writeAPIError(w, r, http.StatusMethodNotAllowed, httpapi.CodeMethodNotAllowed)
			return
		}
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}
