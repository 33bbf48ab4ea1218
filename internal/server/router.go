package server

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/go-ziptrip/internal/app/middleware"
	"github.com/FACorreiaa/go-ziptrip/internal/pkg/config"
	"github.com/FACorreiaa/go-ziptrip/internal/routes"
)

// SetupRouter configures the Gin engine with the middleware chain and routes.
func SetupRouter(cfg *config.Config, h *routes.AppHandlers, limiter *middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
		SkipPaths:  []string{"/health"},
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.OTELGinMiddleware(cfg.Observability.ServiceName))
	r.Use(middleware.MetricsMiddleware())
	// CORS first among the app middleware so preflights short-circuit.
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())

	routes.Setup(r, h, routes.ChatGuards(cfg.Auth, limiter, logger)...)

	return r
}

// zapContextFunc adds request and trace ids to access log lines. Bodies are
// never logged since they carry user prompts.
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.GetHeader("X-Request-Id"); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		if claims := middleware.GetClaims(c); claims != nil {
			fields = append(fields, zap.String("subject", claims.Subject))
		}

		return fields
	}
}
