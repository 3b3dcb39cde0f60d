package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mikeychann-hash/Evies-Epoxy/ratelimit"
)

// RateLimit gates a route on the given rule. Responses always carry the
// RateLimit-* headers; rejections add Retry-After in seconds. Place it after
// RequireAuth on authenticated routes so the bucket is keyed by user id
// rather than by client address.
func RateLimit(limiter *ratelimit.Limiter, rule ratelimit.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := ClientIdentifier(c)
		res := limiter.Check(identifier, rule.MaxRequests, rule.Window)

		c.Header("RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("RateLimit-Reset", res.Reset.UTC().Format(time.RFC3339))

		if !res.Allowed {
			retryAfter := int(math.Ceil(time.Until(res.Reset).Seconds()))
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

// ClientIdentifier derives the rate-limit bucket key for the caller: the
// authenticated user id when present, otherwise the client address from
// proxy headers in precedence order. Callers with no signal at all share the
// "unknown" bucket.
func ClientIdentifier(c *gin.Context) string {
	if id, err := GetUserID(c); err == nil {
		return "user:" + id
	}

	if ip := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); ip != "" {
		return "ip:" + ip
	}
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return "ip:" + ip
	}
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return "ip:" + ip
		}
	}
	return "ip:unknown"
}
