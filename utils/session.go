package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var guestIDRegex = regexp.MustCompile(`^[A-Za-z0-9-]{8,64}$`)

// GuestSessionID returns the guest cart id from the header, falling back to the cookie session
func GuestSessionID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(GuestSessionHeader)); id != "" {
		if guestIDRegex.MatchString(id) {
			return id
		}
		return ""
	}
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	if id, ok := sessions.Default(c).Get(GuestSessionKey).(string); ok && guestIDRegex.MatchString(id) {
		return id
	}
	return ""
}

// IssueGuestSession creates a new guest id and remembers it in the cookie session
func IssueGuestSession(c *gin.Context) (string, error) {
	id := uuid.New().String()
	if _, ok := c.Get(sessions.DefaultKey); ok {
		session := sessions.Default(c)
		session.Set(GuestSessionKey, id)
		if err := session.Save(); err != nil {
			return "", fmt.Errorf("failed to save guest session: %v", err)
		}
	}
	return id, nil
}

// ForgetGuestSession drops the guest id from the cookie session after it was merged
func ForgetGuestSession(c *gin.Context) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return
	}
	session := sessions.Default(c)
	session.Delete(GuestSessionKey)
	_ = session.Save()
}
