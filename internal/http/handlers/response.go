// Package handlers provides the HTTP handler implementations for the public
// API.
//
// This file defines the shared response vocabulary. Success responses carry
// a human-readable "message" plus the resource under a named key, matching
// what API clients already parse:
//
//	HTTP/1.1 201 Created
//	{ "message": "User registered successfully", "user": { ... } }
//
// Failure responses are produced in one place only: handlers and middleware
// record errors on the Gin context (c.Error) and the terminal ErrorHandler
// middleware translates them. Handlers in this package never write error
// bodies themselves. The two envelope shapes are:
//
//	HTTP/1.1 409 Conflict
//	{ "msg": "Email already registered" }
//
//	HTTP/1.1 500 Internal Server Error
//	{ "error": "Internal server error", "type": "InternalServerError",
//	  "timestamp": "2025-01-02T03:04:05Z" }
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// startTime anchors the uptime figure reported by Health.
var startTime = time.Now()

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// fail records err on the context and stops the handler chain. The actual
// status code and body are chosen by the ErrorHandler middleware.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Health reports service liveness with the process uptime in seconds.
func Health(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startTime).Seconds(),
	})
}

// NoRoute is the 404 handler for unmatched paths. The envelope includes the
// offending path and method so clients can spot typos in their integration.
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":     "Route not found",
		"type":      "NotFoundError",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"path":      c.Request.URL.Path,
		"method":    c.Request.Method,
	})
}

// NoMethod is the 405 handler for known paths hit with the wrong verb.
// Same envelope shape as NoRoute so clients parse one format.
func NoMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{
		"error":     "Method not allowed",
		"type":      "MethodNotAllowedError",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"path":      c.Request.URL.Path,
		"method":    c.Request.Method,
	})
}
