package gin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mockupstudio/server/internal/domain/account"
	"github.com/mockupstudio/server/internal/port/inbound"
	"github.com/mockupstudio/server/internal/utils/middleware"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	// Secure restricts the cookie to HTTPS.
	Secure bool
}

// authAdapter implements inbound.AuthHttpPort.
type authAdapter struct {
	accounts *account.Domain
	cookie   CookieConfig
	resp     *Responder
}

// NewAuthAdapter creates a new auth HTTP adapter.
func NewAuthAdapter(accounts *account.Domain, cookie CookieConfig, resp *Responder) *authAdapter {
	return &authAdapter{accounts: accounts, cookie: cookie, resp: resp}
}

// RegisterRoutes registers auth routes. authRequired guards /auth/me.
func (a *authAdapter) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	g := r.Group("/auth")
	{
		g.POST("/signup", a.Signup)
		g.POST("/login", a.Login)
		g.POST("/logout", a.Logout)
		g.GET("/me", authRequired, a.Me)
	}
}

func (a *authAdapter) Signup(c *gin.Context) {
	var in account.SignupInput
	if !bindJSON(c, &in) {
		return
	}

	session, err := a.accounts.Signup(c.Request.Context(), &in)
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	a.setSession(c, session.Token, a.accounts.TokenExpiry())
	ok(c, gin.H{"user": session.Profile})
}

func (a *authAdapter) Login(c *gin.Context) {
	var in account.LoginInput
	if !bindJSON(c, &in) {
		return
	}

	session, err := a.accounts.Login(c.Request.Context(), &in)
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	a.setSession(c, session.Token, a.accounts.TokenExpiry())
	ok(c, gin.H{"user": session.Profile})
}

func (a *authAdapter) Logout(c *gin.Context) {
	a.setSession(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (a *authAdapter) Me(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}

	profile, err := a.accounts.Me(c.Request.Context(), id)
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	ok(c, gin.H{"user": profile})
}

// setSession writes the session cookie; a negative maxAge clears it.
func (a *authAdapter) setSession(c *gin.Context, token string, maxAge time.Duration) {
	seconds := int(maxAge.Seconds())
	if maxAge < 0 {
		seconds = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, seconds, "/", "", a.cookie.Secure, true)
}

// Compile-time check
var _ inbound.AuthHttpPort = (*authAdapter)(nil)
