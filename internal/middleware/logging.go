package middleware

import (
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"bankguard/internal/metrics"
	"bankguard/internal/utils"
)

type RequestLogger struct {
	metrics *metrics.Collector
}

// NewRequestLogger accepts a nil collector; requests are then only logged.
func NewRequestLogger(collector *metrics.Collector) *RequestLogger {
	return &RequestLogger{metrics: collector}
}

// Wrap logs every request and its outcome and records the request duration.
// A panicking handler is answered with 500 instead of tearing down the
// connection.
func (m *RequestLogger) Wrap(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		startTime := time.Now()
		method := string(ctx.Method())
		path := string(ctx.Path())

		utils.LogRequest(method, path)

		defer func() {
			if r := recover(); r != nil {
				utils.LogError("Middleware", "Handler panicked", fmt.Errorf("%v", r))
				ctx.ResetBody()
				ctx.SetStatusCode(fasthttp.StatusInternalServerError)
				ctx.SetContentType("application/json")
				ctx.SetBodyString(`{"error":"internal error"}`)
			}

			status := ctx.Response.StatusCode()
			duration := time.Since(startTime)
			utils.LogResponse(path, status, duration)
			m.metrics.ObserveRequest(method, status, duration)
		}()

		next(ctx)
	}
}
