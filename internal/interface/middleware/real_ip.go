package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP resolves the client IP behind proxies into the gin context under
// "real_ip". X-Real-IP wins, then the left-most X-Forwarded-For hop, then
// gin's own resolution.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if xr := strings.TrimSpace(c.GetHeader("X-Real-IP")); xr != "" {
			if ip := net.ParseIP(xr); ip != nil {
				c.Set("real_ip", ip.String())
				c.Next()
				return
			}
		}
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
			if ip := net.ParseIP(first); ip != nil {
				c.Set("real_ip", ip.String())
				c.Next()
				return
			}
		}
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}
