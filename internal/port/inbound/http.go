package inbound

import "github.com/gin-gonic/gin"

// AuthHttpPort defines HTTP handlers for sessions.
type AuthHttpPort interface {
	// Signup handles POST /auth/signup
	Signup(c *gin.Context)

	// Login handles POST /auth/login
	Login(c *gin.Context)

	// Logout handles POST /auth/logout
	Logout(c *gin.Context)

	// Me handles GET /auth/me
	Me(c *gin.Context)
}

// ImageHttpPort defines HTTP handlers for credit-priced image operations.
type ImageHttpPort interface {
	// Enhance handles POST /image/enhance
	Enhance(c *gin.Context)

	// Generate handles POST /image/generate
	Generate(c *gin.Context)

	// Upscale handles POST /image/upscale
	Upscale(c *gin.Context)

	// StyleTransfer handles POST /image/style-transfer
	StyleTransfer(c *gin.Context)
}

// StyleHttpPort defines HTTP handlers for the style catalogue.
type StyleHttpPort interface {
	// ListStyles handles GET /styles
	ListStyles(c *gin.Context)

	// GetStyle handles GET /styles/:id
	GetStyle(c *gin.Context)

	// CreateStyle handles POST /styles (admin)
	CreateStyle(c *gin.Context)

	// UpdateStyle handles PUT /styles/:id (admin)
	UpdateStyle(c *gin.Context)

	// DeleteStyle handles DELETE /styles/:id (admin)
	DeleteStyle(c *gin.Context)
}

// EnhanceStyleHttpPort defines HTTP handlers for the enhance preset catalogue.
type EnhanceStyleHttpPort interface {
	// ListEnhanceStyles handles GET /enhance-styles
	ListEnhanceStyles(c *gin.Context)

	// CreateEnhanceStyle handles POST /enhance-styles (admin)
	CreateEnhanceStyle(c *gin.Context)

	// UpdateEnhanceStyle handles PUT /enhance-styles/:id (admin)
	UpdateEnhanceStyle(c *gin.Context)

	// DeleteEnhanceStyle handles DELETE /enhance-styles/:id (admin)
	DeleteEnhanceStyle(c *gin.Context)
}

// BillingHttpPort defines HTTP handlers for credit purchases.
type BillingHttpPort interface {
	// Plans handles GET /billing/plans
	Plans(c *gin.Context)

	// Checkout handles POST /billing/checkout
	Checkout(c *gin.Context)

	// Verify handles GET /billing/verify
	Verify(c *gin.Context)
}

// UserHttpPort defines HTTP handlers for the caller's own data.
type UserHttpPort interface {
	// History handles GET /user/history
	History(c *gin.Context)
}

// AdminHttpPort defines HTTP handlers for account administration.
type AdminHttpPort interface {
	// ListUsers handles GET /admin/users
	ListUsers(c *gin.Context)

	// CreateUser handles POST /admin/users
	CreateUser(c *gin.Context)

	// UpdateUser handles PATCH /admin/users/:id
	UpdateUser(c *gin.Context)

	// DeleteUser handles DELETE /admin/users/:id
	DeleteUser(c *gin.Context)

	// UserTransactions handles GET /admin/users/:id/transactions
	UserTransactions(c *gin.Context)

	// ExportUsers handles GET /admin/users/export
	ExportUsers(c *gin.Context)
}
