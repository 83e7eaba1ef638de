package tokenstore

import (
	"net/http"
	"time"
)

// Cookie stores the token in a browser cookie. It is bound to a single
// request/response pair; writes are visible to later reads in the same request.
type Cookie struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
	maxAge time.Duration

	written bool
	value   string
}

// NewCookie binds a cookie store to the current request
func NewCookie(w http.ResponseWriter, r *http.Request, secure bool) *Cookie {
	return &Cookie{w: w, r: r, secure: secure, maxAge: 30 * 24 * time.Hour}
}

func (c *Cookie) Get() (string, bool) {
	if c.written {
		return c.value, c.value != ""
	}
	cookie, err := c.r.Cookie(Key)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (c *Cookie) Set(token string) {
	c.written, c.value = true, token
	http.SetCookie(c.w, c.cookie(token, int(c.maxAge.Seconds())))
}

func (c *Cookie) Remove() {
	if c.written && c.value == "" {
		return
	}
	c.written, c.value = true, ""
	http.SetCookie(c.w, c.cookie("", -1))
}

func (c *Cookie) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     Key,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
