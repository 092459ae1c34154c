package middleware

import (
	"net/http"

	"hierviz/domain/core"
	"hierviz/internal"
	"hierviz/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "hierviz.session"

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	MaxAge int
	Secure bool
}

// EnsureSession attaches the caller's session to the request, creating one
// and setting the cookie on first visit or when the cookie is unknown.
func EnsureSession(sessions *session.Manager, opts CookieOptions, logger *internal.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return func(c *gin.Context) {
		var id core.SessionID
		if raw, err := c.Cookie(opts.Name); err == nil {
			if parsed, err := core.ParseSessionID(raw); err == nil {
				id = parsed
			} else {
				logger.Debug("ignoring malformed session cookie", "error", err)
			}
		}

		entry, created := sessions.GetOrCreate(id)
		if created || entry.ID != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(opts.Name, entry.ID.String(), opts.MaxAge, "/", "", opts.Secure, true)
		}

		c.Set(sessionKey, entry)
		c.Next()
	}
}

// Session returns the entry attached by EnsureSession, or nil.
func Session(c *gin.Context) *session.Entry {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	entry, _ := v.(*session.Entry)
	return entry
}
