// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the global error handler, the single point where
// failures become HTTP responses. Handlers, services, and other middleware
// record errors on the Gin context and abort; nothing below this layer is
// allowed to translate or swallow a typed failure.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-task-backend/internal/apperr"
)

// ErrorHandler returns the terminal translation middleware.
//
// Behavior:
//   - Typed failures (apperr.Error) render their fixed status with the
//     uniform envelope {"msg": <message>}.
//   - Anything else renders 500. In production the body carries only a
//     generic message; outside production it includes the raw error and a
//     stack trace. This verbosity toggle is a deliberate safety vs.
//     debuggability trade-off.
//   - Every failure is logged with the correlation id, error kind and
//     message, and request metadata; client failures (sub-500) log at warn,
//     server failures at error.
//
// Install it early (right after the loggers) so that errors recorded by any
// downstream middleware or handler are translated here and nowhere else.
func ErrorHandler(prod bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		kind := "error"
		status := http.StatusInternalServerError
		if e, ok := apperr.As(err); ok {
			kind = string(e.Kind())
			status = e.HTTPStatus()
		}

		// Client failures are warn; only server-side ones are errors.
		ev := log.Error()
		if status < http.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.
			Str("request_id", RequestIDFrom(c)).
			Str("kind", kind).
			Str("message", err.Error()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Time("timestamp", time.Now().UTC()).
			Msg("request failed")

		// A handler may have already produced a response (e.g. a partial
		// write); never clobber it.
		if c.Writer.Written() {
			return
		}

		if e, ok := apperr.As(err); ok {
			c.AbortWithStatusJSON(e.HTTPStatus(), gin.H{"msg": e.Message()})
			return
		}

		body := gin.H{
			"error":     "Internal server error",
			"type":      "InternalServerError",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		if !prod {
			body["error"] = err.Error()
			body["stack"] = string(debug.Stack())
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	}
}
