package auth

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/logger"
	"github.com/pressroom/internal/repository"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	identityContextKey = "__identity"

	// LoginPath is where unauthenticated users are sent.
	LoginPath = "/login/"
)

// Middleware loads the session user on every request. Sessions pointing at a
// deleted user are cleared and the request continues anonymously.
func Middleware(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := Anonymous()

		session := sessions.Default(c)
		if userID, ok := sessionUserID(session.Get(sessionUserIDKey)); ok {
			user, err := users.FindByID(userID)
			switch {
			case err != nil:
				c.Error(err)
			case user == nil:
				session.Clear()
				if saveErr := session.Save(); saveErr != nil {
					logger.Warnw("session_clear_failed", "error", saveErr)
				}
			default:
				identity = FromUser(user)
			}
		}

		Set(c, identity)
		c.Next()
	}
}

// Set stores the identity of the current request.
func Set(c *gin.Context, identity Identity) {
	c.Set(identityContextKey, identity)
}

// Current returns the identity resolved by Middleware.
func Current(c *gin.Context) Identity {
	if value, exists := c.Get(identityContextKey); exists {
		if identity, ok := value.(Identity); ok {
			return identity
		}
	}
	return Anonymous()
}

// LoginRequired redirects anonymous visitors to the login page, keeping the
// requested path in ?next=.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Current(c).Authenticated {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// LoginURL builds the login link returning to next.
func LoginURL(next string) string {
	if SafeNext(next) == "/" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SignIn 设置会话
func SignIn(c *gin.Context, user *db.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		return err
	}
	Set(c, FromUser(user))
	return nil
}

// SignOut 清除会话
func SignOut(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	Set(c, Anonymous())
	return session.Save()
}

// SafeNext only accepts local absolute paths; anything else becomes "/".
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "/"
	}
	return next
}

func sessionUserID(value interface{}) (uint, bool) {
	switch v := value.(type) {
	case uint:
		return v, v != 0
	case int:
		return uint(v), v > 0
	case int64:
		return uint(v), v > 0
	case uint64:
		return uint(v), v != 0
	default:
		return 0, false
	}
}
