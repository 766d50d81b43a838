package composables

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/ipr/pkg/constants"
	"github.com/iota-uz/ipr/pkg/shared"
)

// multipartMemory bounds the part of a multipart form kept in memory; the rest
// spills to temporary files.
const multipartMemory = 1 << 20

// Params describes the client of the current request.
type Params struct {
	IP        string
	UserAgent string
	Request   *http.Request
	Writer    http.ResponseWriter
}

func UseParams(ctx context.Context) (*Params, bool) {
	params, ok := ctx.Value(constants.ParamsKey).(*Params)
	return params, ok
}

func WithParams(ctx context.Context, params *Params) context.Context {
	return context.WithValue(ctx, constants.ParamsKey, params)
}

// UseLogger returns the request logger from the context.
// Outside of a request (CLI, tests) it falls back to the standard logrus logger.
func UseLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, entry)
}

// UseIP returns the client address. Exports from the CLI have none.
func UseIP(ctx context.Context) (string, bool) {
	params, ok := UseParams(ctx)
	if !ok || params.IP == "" {
		return "", false
	}
	return params.IP, true
}

// UseRequestID returns the id the logging middleware assigned to the request.
func UseRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(constants.RequestIDKey).(string)
	return id, ok && id != ""
}

// IsAPIRequest reports whether r targets the JSON API and so expects JSON
// envelopes rather than pages.
func IsAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, constants.APIPrefix)
}

func UseQuery[T comparable](v T, r *http.Request) (T, error) {
	return v, shared.Decoder.Decode(v, r.URL.Query())
}

// UseForm decodes url-encoded and multipart form posts into v. Query values
// are ignored so a ?lang= switch never leaks into plan fields.
func UseForm[T comparable](v T, r *http.Request) (T, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return v, err
		}
	} else if err := r.ParseForm(); err != nil {
		return v, err
	}
	return v, shared.Decoder.Decode(v, r.PostForm)
}
