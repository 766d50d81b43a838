package shared

import (
	"net/http"

	"github.com/go-playground/form"
)

var Decoder = form.NewDecoder()

// Redirect issues an HX-Redirect for htmx requests and a 302 otherwise.
func Redirect(w http.ResponseWriter, r *http.Request, path string) {
	if len(r.Header.Get("Hx-Request")) > 0 {
		w.Header().Set("Hx-Redirect", path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusFound)
}

// IsHxRequest reports whether the request was issued by htmx.
func IsHxRequest(r *http.Request) bool {
	return len(r.Header.Get("Hx-Request")) > 0
}

// Retarget makes htmx swap the response into target instead of the requested element.
func Retarget(w http.ResponseWriter, target string) {
	w.Header().Set("HX-Retarget", target)
}

// Reswap overrides the htmx swap strategy of the response.
func Reswap(w http.ResponseWriter, swap string) {
	w.Header().Set("HX-Reswap", swap)
}
