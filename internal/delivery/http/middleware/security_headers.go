package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware sets transport, framing and content-type hardening
// headers. imgSrc is added to the CSP so stored photo URLs render.
func SecurityHeadersMiddleware(imgSrc string) gin.HandlerFunc {
	csp := "default-src 'self'; " +
		"script-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:"
	if imgSrc != "" {
		csp += " " + imgSrc
	}
	csp += "; font-src 'self'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'"

	return func(c *gin.Context) {
		c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")
		c.Header("Content-Security-Policy", csp)

		// Profiles hold contact details; never cache authenticated responses.
		if c.GetHeader("Authorization") != "" {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
		}

		c.Next()
	}
}
