package middleware

import (
	"context"
	"errors"
	"time"

	aws_pkg "github.com/ayoogunade/AyoZon/pkg/aws"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestTimeout bounds every request context.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CORS allows the storefront frontends to send the session cookie.
func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// Metrics records request count, latency and errors to CloudWatch off the request path.
// Failed writes are logged at warn level.
func Metrics(metrics *aws_pkg.MetricsClient, service string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !metrics.IsEnabled() {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		go func(method string, status int, dur time.Duration) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			dims := map[string]string{"Service": service, "Method": method, "Path": path}
			errs := []error{
				metrics.RecordCount(ctx, aws_pkg.MetricHTTPRequests, dims),
				metrics.RecordLatency(ctx, aws_pkg.MetricHTTPLatency, dur, dims),
			}
			if status >= 400 {
				errs = append(errs, metrics.RecordCount(ctx, aws_pkg.MetricHTTPErrors, dims))
			}
			if err := errors.Join(errs...); err != nil {
				log.Warn("Failed to record request metrics",
					zap.String("method", method),
					zap.String("path", path),
					zap.Error(err),
				)
			}
		}(c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
