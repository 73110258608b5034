package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/mockupstudio/server/internal/domain/account"
	"github.com/mockupstudio/server/internal/port/inbound"
)

const historyCacheControl = "private, s-maxage=30, stale-while-revalidate=120"

// userAdapter implements inbound.UserHttpPort.
type userAdapter struct {
	accounts *account.Domain
	resp     *Responder
}

// NewUserAdapter creates a new user HTTP adapter.
func NewUserAdapter(accounts *account.Domain, resp *Responder) *userAdapter {
	return &userAdapter{accounts: accounts, resp: resp}
}

// RegisterRoutes registers user routes. The group must be authenticated.
func (a *userAdapter) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/user/history", a.History)
}

func (a *userAdapter) History(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}

	history, err := a.accounts.History(c.Request.Context(), id)
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	c.Header("Cache-Control", historyCacheControl)
	ok(c, gin.H{"history": history})
}

// Compile-time check
var _ inbound.UserHttpPort = (*userAdapter)(nil)
