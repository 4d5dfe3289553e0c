package middlewares

import (
	"github.com/gin-gonic/gin"
)

const (
	defaultCSP = "default-src 'none'; frame-ancestors 'none'"
	// sign-in page: Google Identity Services script, iframe and styles, plus its own inline bootstrap.
	pageCSP = "default-src 'self'; base-uri 'none'; frame-ancestors 'none'; object-src 'none'; " +
		"connect-src 'self' https://accounts.google.com/gsi/; frame-src https://accounts.google.com/gsi/; " +
		"script-src 'self' 'unsafe-inline' https://accounts.google.com/gsi/client; " +
		"style-src 'self' 'unsafe-inline' https://accounts.google.com/gsi/style; img-src 'self' data: https:"
)

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer-when-downgrade")
		c.Header("X-XSS-Protection", "0")
		if c.Request.URL.Path == "/" {
			c.Header("Content-Security-Policy", pageCSP)
			// the Google popup needs to post back to us
			c.Header("Cross-Origin-Opener-Policy", "same-origin-allow-popups")
		} else {
			c.Header("Content-Security-Policy", defaultCSP)
		}
		c.Next()
	}
}
