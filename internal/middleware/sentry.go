package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"clinic-server/internal/monitoring"
)

// SentryMiddleware wraps each request in a sentry transaction.
func SentryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.CurrentHub()
		if hub == nil {
			c.Next()
			return
		}

		transactionName := fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path)
		transaction := sentry.StartTransaction(
			c.Request.Context(),
			transactionName,
			sentry.ContinueFromRequest(c.Request),
		)
		defer func() {
			if c.Writer != nil {
				transaction.Status = sentry.HTTPtoSpanStatus(c.Writer.Status())
			}
			transaction.Finish()
		}()

		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetContext("Request", map[string]interface{}{
				"Method":  c.Request.Method,
				"URL":     c.Request.URL.String(),
				"Headers": getSafeHeaders(c.Request.Header),
			})
			scope.SetTag("http.method", c.Request.Method)
			scope.SetTag("http.route", c.Request.URL.Path)
		})

		c.Request = c.Request.WithContext(transaction.Context())
		c.Next()
	}
}

// ErrorReporter forwards handler errors to sentry after the chain ran.
func ErrorReporter() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			for _, ginErr := range c.Errors {
				monitoring.CaptureError(ginErr.Err, map[string]interface{}{
					"endpoint": c.Request.URL.Path,
					"method":   c.Request.Method,
					"status":   c.Writer.Status(),
				})
			}
		}
	}
}

func getSafeHeaders(h http.Header) map[string]interface{} {
	safe := make(map[string]interface{})
	for k, v := range h {
		if strings.EqualFold(k, "Authorization") || strings.EqualFold(k, "Cookie") {
			safe[k] = "[FILTERED]"
		} else {
			safe[k] = v
		}
	}
	return safe
}
