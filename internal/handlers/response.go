package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"bankguard/internal/services"
	"bankguard/internal/utils"
)

var errBadRequest = errors.New("bad request")

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		utils.LogError("Handler", "Failed to encode response", err)
	}
}

func writeMessage(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, map[string]string{"message": message})
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, map[string]string{"error": message})
}

// writeServiceError maps a service error class onto an HTTP status. Storage
// details are logged but not exposed.
func writeServiceError(ctx *fasthttp.RequestCtx, component string, err error) {
	status := statusFor(err)
	if status == fasthttp.StatusInternalServerError {
		utils.LogError(component, "Request failed", err)
		writeError(ctx, status, "internal error")
		return
	}
	writeError(ctx, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, errBadRequest):
		return fasthttp.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fasthttp.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fasthttp.StatusConflict
	default:
		return fasthttp.StatusInternalServerError
	}
}

func decodeBody(ctx *fasthttp.RequestCtx, dst interface{}) error {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func pathParam(ctx *fasthttp.RequestCtx, name string) string {
	value, _ := ctx.UserValue(name).(string)
	return value
}

func queryString(ctx *fasthttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func queryFloat(ctx *fasthttp.RequestCtx, key string, fallback float64) (float64, error) {
	raw := queryString(ctx, key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: query parameter %s=%q", errBadRequest, key, raw)
	}
	return v, nil
}

func queryInt(ctx *fasthttp.RequestCtx, key string, fallback int) (int, error) {
	raw := queryString(ctx, key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: query parameter %s=%q", errBadRequest, key, raw)
	}
	return v, nil
}

func queryTime(ctx *fasthttp.RequestCtx, key string) (time.Time, bool, error) {
	raw := queryString(ctx, key)
	if raw == "" {
		return time.Time{}, false, nil
	}
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: query parameter %s=%q", errBadRequest, key, raw)
	}
	return v, true, nil
}
