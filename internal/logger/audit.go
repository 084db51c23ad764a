package logger

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// AuditLog is the structured, zap-backed request/auth audit trail. It is
// kept separate from the slog service logger: "what happened" goes to
// slog, "who did it, from where" goes here.
var AuditLog, _ = zap.NewProduction()

var sensitiveHeaders = map[string]struct{}{
	"authorization":    {},
	"x-api-key":        {},
	"x-user-signature": {},
}

func redactHeader(k, v string) string {
	if v == "" {
		return ""
	}
	if _, ok := sensitiveHeaders[strings.ToLower(k)]; ok {
		return "<redacted>"
	}
	return v
}

// SafeHeaders renders request headers with sensitive values redacted.
func SafeHeaders(r *http.Request) string {
	parts := make([]string, 0, len(r.Header))
	for k, v := range r.Header {
		if len(v) == 0 {
			continue
		}
		parts = append(parts, k+"="+redactHeader(k, v[0]))
	}
	return strings.Join(parts, "; ")
}

// LogRequest emits a concise, redacted audit record for an inbound request.
func LogRequest(r *http.Request) {
	if AuditLog == nil {
		return
	}
	AuditLog.Info("incoming_request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("remote", r.RemoteAddr),
		zap.String("headers", SafeHeaders(r)),
	)
}
