package monitoring

import (
	"fmt"

	"github.com/getsentry/sentry-go"
)

// InitSentry configures error reporting; callers should sentry.Flush on
// shutdown.
func InitSentry(dsn, environment string) error {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	return nil
}

// CaptureError reports an error with extra context attached.
func CaptureError(err error, context map[string]interface{}) {
	if hub := sentry.CurrentHub(); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			for k, v := range context {
				scope.SetExtra(k, v)
			}
			hub.CaptureException(err)
		})
	}
}
