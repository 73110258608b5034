package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/mockupstudio/server/internal/domain/billing"
	"github.com/mockupstudio/server/internal/port/inbound"
)

type checkoutRequest struct {
	PlanID string `json:"planId"`
}

// billingAdapter implements inbound.BillingHttpPort.
type billingAdapter struct {
	billing *billing.Domain
	resp    *Responder
}

// NewBillingAdapter creates a new billing HTTP adapter.
func NewBillingAdapter(b *billing.Domain, resp *Responder) *billingAdapter {
	return &billingAdapter{billing: b, resp: resp}
}

// RegisterRoutes registers billing routes. authRequired guards checkout
// and verification.
func (a *billingAdapter) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	g := r.Group("/billing")
	{
		g.GET("/plans", a.Plans)
		g.POST("/checkout", authRequired, a.Checkout)
		g.GET("/verify", authRequired, a.Verify)
	}
}

func (a *billingAdapter) Plans(c *gin.Context) {
	ok(c, gin.H{"plans": billing.Plans})
}

func (a *billingAdapter) Checkout(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}
	var req checkoutRequest
	if !bindJSON(c, &req) {
		return
	}

	checkout, err := a.billing.StartCheckout(c.Request.Context(), id, req.PlanID)
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	ok(c, checkout)
}

func (a *billingAdapter) Verify(c *gin.Context) {
	id, valid := userID(c)
	if !valid {
		return
	}

	v, err := a.billing.Verify(c.Request.Context(), id, c.Query("reference"))
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	ok(c, v)
}

// Compile-time check
var _ inbound.BillingHttpPort = (*billingAdapter)(nil)
