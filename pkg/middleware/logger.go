package middleware

import (
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/context"
	"github.com/labstack/echo/v4"
)

// Logger emits one structured access line per request after the handler
// chain finishes. Request identity fields come from the values the Context
// middleware stashed, so access lines and handler logs agree. Handler errors
// are rendered by the error handler here so the logged status reflects the
// response actually sent.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			ctx := req.Context()
			logger.WithContext(ctx).WithFields(map[string]interface{}{
				"request_id":     context.GetRequestID(ctx),
				"method":         context.GetMethod(ctx),
				"route":          context.GetRoute(ctx),
				"remote_ip":      context.GetRemoteIP(ctx),
				"referer":        context.GetReferer(ctx),
				"status":         res.Status,
				"user_agent":     req.UserAgent(),
				"duration_ms":    time.Since(start).Milliseconds(),
				"response_bytes": res.Size,
			}).Info("request")

			return nil
		}
	}
}
