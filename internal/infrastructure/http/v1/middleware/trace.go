package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	appctx "breadroute/internal/core/context"
	"breadroute/internal/core/id"
)

const requestIDHeader = "X-Request-ID"

var tracer = otel.Tracer("breadroute/http")

// Trace opens a span per request and stores trace identifiers in the
// request context for the logger.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = id.New().String()
		}

		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.FullPath())
		defer span.End()

		tc := &appctx.TraceContext{RequestID: requestID}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			tc.TraceID = sc.TraceID().String()
			tc.SpanID = sc.SpanID().String()
		}

		c.Request = c.Request.WithContext(appctx.WithTrace(ctx, tc))
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}
