package constants

type ContextKey string

const (
	AppKey       ContextKey = "app"
	LoggerKey    ContextKey = "logger"
	ParamsKey    ContextKey = "params"
	RequestStart ContextKey = "requestStart"
	LocalizerKey ContextKey = "localizer"
	LocaleKey    ContextKey = "locale"
	RequestIDKey ContextKey = "requestID"
)

// APIPrefix marks routes that answer with JSON envelopes, errors included.
const APIPrefix = "/api/"
