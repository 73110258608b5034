package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mockupstudio/server/internal/domain/style"
	"github.com/mockupstudio/server/internal/port/inbound"
)

const (
	styleListCacheControl = "public, s-maxage=60, stale-while-revalidate=300"
	msgStyleNotFound      = "Style not found"
)

// styleAdapter implements inbound.StyleHttpPort.
type styleAdapter struct {
	styles *style.Domain
	resp   *Responder
}

// NewStyleAdapter creates a new style HTTP adapter.
func NewStyleAdapter(styles *style.Domain, resp *Responder) *styleAdapter {
	return &styleAdapter{styles: styles, resp: resp}
}

// RegisterRoutes registers style routes. Listing and lookup are public;
// writes go through the given admin chain.
func (a *styleAdapter) RegisterRoutes(r *gin.RouterGroup, admin ...gin.HandlerFunc) {
	g := r.Group("/styles")
	{
		g.GET("", a.ListStyles)
		g.GET("/:id", a.GetStyle)

		w := g.Group("", admin...)
		w.POST("", a.CreateStyle)
		w.PUT("/:id", a.UpdateStyle)
		w.DELETE("/:id", a.DeleteStyle)
	}
}

func (a *styleAdapter) ListStyles(c *gin.Context) {
	full := c.Query("full") == "1" || c.Query("full") == "true"

	listing, err := a.styles.List(c.Request.Context(), full)
	if err != nil {
		a.resp.Error(c, err)
		return
	}

	cache := "MISS"
	if listing.Cached {
		cache = "HIT"
	}
	c.Header("X-Cache", cache)
	c.Header("Cache-Control", styleListCacheControl)
	ok(c, listing.Data)
}

func (a *styleAdapter) GetStyle(c *gin.Context) {
	id, valid := pathID(c, msgStyleNotFound)
	if !valid {
		return
	}

	s, err := a.styles.Get(c.Request.Context(), id)
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	ok(c, s)
}

func (a *styleAdapter) CreateStyle(c *gin.Context) {
	var in style.Input
	if !bindJSON(c, &in) {
		return
	}

	s, err := a.styles.Create(c.Request.Context(), &in)
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	created(c, s)
}

func (a *styleAdapter) UpdateStyle(c *gin.Context) {
	id, valid := pathID(c, msgStyleNotFound)
	if !valid {
		return
	}
	var in style.Input
	if !bindJSON(c, &in) {
		return
	}

	s, err := a.styles.Update(c.Request.Context(), id, &in)
	if err != nil {
		a.resp.Error(c, err)
		return
	}
	ok(c, s)
}

func (a *styleAdapter) DeleteStyle(c *gin.Context) {
	id, valid := pathID(c, msgStyleNotFound)
	if !valid {
		return
	}

	if err := a.styles.Delete(c.Request.Context(), id); err != nil {
		a.resp.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Compile-time check
var _ inbound.StyleHttpPort = (*styleAdapter)(nil)
