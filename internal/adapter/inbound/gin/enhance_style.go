package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/mockupstudio/server/internal/domain/style"
	"github.com/mockupstudio/server/internal/port/inbound"
)

const msgEnhanceStyleNotFound = "Enhance style not found"

// enhanceStyleAdapter implements inbound.EnhanceStyleHttpPort.
type enhanceStyleAdapter struct {
	presets *style.EnhanceDomain
	resp    *Responder
}

// NewEnhanceStyleAdapter creates a new enhance preset HTTP adapter.
func NewEnhanceStyleAdapter(presets *style.EnhanceDomain, resp *Responder) *enhanceStyleAdapter {
	return &enhanceStyleAdapter{presets: presets, resp: resp}
}

// RegisterRoutes registers enhance preset routes. The listing is public;
// writes go through the given admin chain.
func (a *enhanceStyleAdapter) RegisterRoutes(r *gin.RouterGroup, admin ...gin.HandlerFunc) {
	g := r.Group("/enhance-styles")
	{
		g.GET("", a.ListEnhanceStyles)

		w := g.Group("", admin...)
		w.POST("", a.CreateEnhanceStyle)
		w.PUT("/:id", a.UpdateEnhanceStyle)
		w.DELETE("/:id", a.DeleteEnhanceStyle)
	}
}

func (a *enhanceStyleAdapter) ListEnhanceStyles(c *gin.Context) {
	presets, err := a.presets.List(c.Request.Context())
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	ok(c, presets)
}

func (a *enhanceStyleAdapter) CreateEnhanceStyle(c *gin.Context) {
	var in style.EnhanceInput
	if !bindJSON(c, &in) {
		return
	}

	p, err := a.presets.Create(c.Request.Context(), &in)
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	created(c, p)
}

func (a *enhanceStyleAdapter) UpdateEnhanceStyle(c *gin.Context) {
	id, valid := pathID(c, msgEnhanceStyleNotFound)
	if !valid {
		return
	}
	var in style.EnhanceInput
	if !bindJSON(c, &in) {
		return
	}

	p, err := a.presets.Update(c.Request.Context(), id, &in)
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	ok(c, p)
}

func (a *enhanceStyleAdapter) DeleteEnhanceStyle(c *gin.Context) {
	id, valid := pathID(c, msgEnhanceStyleNotFound)
	if !valid {
		return
	}

	if err := a.presets.Delete(c.Request.Context(), id); err != nil {
		a.resp.Error(c, err)
		return
	}
	ok(c, gin.H{"message": "Enhance style deleted"})
}

// Compile-time check
var _ inbound.EnhanceStyleHttpPort = (*enhanceStyleAdapter)(nil)
