package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"pastebin/internal/metrics"
	"pastebin/internal/ratelimit"
)

// ClientIP resolves the originating client address, preferring forwarding
// headers when a proxy sits in front.
func ClientIP(c *fiber.Ctx) string {
	if ips := c.IPs(); len(ips) > 0 {
		return ips[0]
	}
	if ip := c.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return c.IP()
}

// RateLimit enforces the per-action budget for the client address. Allowed or
// not, every response carries the X-RateLimit headers so clients can pace
// themselves.
func RateLimit(limiter ratelimit.Limiter, action ratelimit.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := limiter.Allow(c.UserContext(), ClientIP(c), action)

		c.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(res.Reset.Unix(), 10))

		if !res.Allowed {
			metrics.RateLimitRejections.WithLabelValues(string(action)).Inc()
			return fiber.NewError(fiber.StatusTooManyRequests, "too many requests")
		}
		return c.Next()
	}
}
