package gin

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mockupstudio/server/internal/domain/account"
	"github.com/mockupstudio/server/internal/port/inbound"
)

const msgUserNotFound = "User not found"

// adminAdapter implements inbound.AdminHttpPort.
type adminAdapter struct {
	accounts *account.Domain
	resp     *Responder
}

// NewAdminAdapter creates a new admin HTTP adapter.
func NewAdminAdapter(accounts *account.Domain, resp *Responder) *adminAdapter {
	return &adminAdapter{accounts: accounts, resp: resp}
}

// RegisterRoutes registers admin routes. The group must already require
// an admin session.
func (a *adminAdapter) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/admin/users")
	{
		users.GET("", a.ListUsers)
		users.POST("", a.CreateUser)
		users.GET("/export", a.ExportUsers)
		users.PATCH("/:id", a.UpdateUser)
		users.DELETE("/:id", a.DeleteUser)
		users.GET("/:id/transactions", a.UserTransactions)
	}
}

func (a *adminAdapter) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))

	list, err := a.accounts.ListAccounts(c.Request.Context(), &account.ListInput{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	ok(c, list)
}

func (a *adminAdapter) CreateUser(c *gin.Context) {
	var in account.CreateInput
	if !bindJSON(c, &in) {
		return
	}

	user, err := a.accounts.CreateAccount(c.Request.Context(), &in)
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	created(c, gin.H{"user": user})
}

func (a *adminAdapter) UpdateUser(c *gin.Context) {
	id, valid := pathID(c, msgUserNotFound)
	if !valid {
		return
	}
	var in account.UpdateInput
	if !bindJSON(c, &in) {
		return
	}

	updated, err := a.accounts.UpdateAccount(c.Request.Context(), id, &in)
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	ok(c, gin.H{"user": updated})
}

func (a *adminAdapter) DeleteUser(c *gin.Context) {
	id, valid := pathID(c, msgUserNotFound)
	if !valid {
		return
	}

	if err := a.accounts.DeleteAccount(c.Request.Context(), id); err != nil {
		a.resp.Error(c, err)
		return
	}
	ok(c, gin.H{"message": "User deleted successfully"})
}

func (a *adminAdapter) UserTransactions(c *gin.Context) {
	id, valid := pathID(c, msgUserNotFound)
	if !valid {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	txs, err := a.accounts.AccountTransactions(c.Request.Context(), id, limit)
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	ok(c, gin.H{"transactions": txs})
}

func (a *adminAdapter) ExportUsers(c *gin.Context) {
	var buf bytes.Buffer
	if err := a.accounts.ExportAccounts(c.Request.Context(), &buf); err != nil {
		a.resp.Error(c, err)
		return
	}

	filename := fmt.Sprintf("users-export-%s.csv", time.Now().UTC().Format(time.DateOnly))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Compile-time check
var _ inbound.AdminHttpPort = (*adminAdapter)(nil)
