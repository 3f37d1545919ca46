package web

import (
	"context"
	"crypto/subtle"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/failure"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/log"
	"github.com/juliagomezg/seo-decision-engine-sub000/pkg/ratelimit"
)

const (
	HeaderRequestID          = "X-Request-Id"
	HeaderAPIKey             = "X-API-Key"
	HeaderRetryAfter         = "Retry-After"
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// RequestID honours an incoming X-Request-Id or generates one, and echoes
// it on the response.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{Header: HeaderRequestID})
}

func requestID(c fiber.Ctx) string {
	return c.GetRespHeader(HeaderRequestID)
}

// requestContext returns the handler context carrying the request id.
func requestContext(c fiber.Ctx) context.Context {
	return log.ContextWithRequestID(c.Context(), requestID(c))
}

// ClientKey identifies the caller for admission control.
func ClientKey(c fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if realIP := strings.TrimSpace(c.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	if ip := c.IP(); ip != "" {
		return ip
	}

	return "unknown"
}

// RequireAPIKey rejects requests whose X-API-Key does not match secret.
// An empty secret disables the check.
func (h *APIHandlers) RequireAPIKey(secret string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		key := c.Get(HeaderAPIKey)
		if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) == 1 {
			return c.Next()
		}

		h.record(c, c.Path(), failure.CodeUnauthorized, fiber.StatusUnauthorized)

		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:     "Missing or invalid API key",
			Code:      failure.CodeUnauthorized,
			RequestID: requestID(c),
		})
	}
}

// RateLimit admits each request through limiter, keyed by ClientKey. A
// limiter fault admits the request.
func (h *APIHandlers) RateLimit(limiter ratelimit.Limiter) fiber.Handler {
	return func(c fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}

		ctx := requestContext(c)
		key := ClientKey(c)

		decision, err := limiter.Admit(ctx, key)
		if err != nil {
			log.WithRequestID(ctx, h.logger).WarnContext(ctx, "rate limiter unavailable, admitting request",
				"backend", limiter.Backend(), "error", err)

			return c.Next()
		}

		c.Set(HeaderRateLimitLimit, strconv.Itoa(decision.Limit))
		c.Set(HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
		c.Set(HeaderRateLimitReset, strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if decision.Allowed {
			return c.Next()
		}

		retryAfter := decision.RetryAfter(time.Now())
		c.Set(HeaderRetryAfter, strconv.Itoa(int(retryAfter/time.Second)))

		return h.respondError(c, c.Path(), failure.Denied("web.RateLimit", retryAfter))
	}
}
