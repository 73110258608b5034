package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/domain/generation"
	"github.com/mockupstudio/server/internal/port/inbound"
)

// imageAdapter implements inbound.ImageHttpPort.
type imageAdapter struct {
	generation *generation.Domain
	resp       *Responder
}

// NewImageAdapter creates a new image HTTP adapter.
func NewImageAdapter(gen *generation.Domain, resp *Responder) *imageAdapter {
	return &imageAdapter{generation: gen, resp: resp}
}

// RegisterRoutes registers image routes. The group must be authenticated.
func (a *imageAdapter) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/image")
	{
		g.POST("/enhance", a.Enhance)
		g.POST("/generate", a.Generate)
		g.POST("/upscale", a.Upscale)
		g.POST("/style-transfer", a.StyleTransfer)
	}
}

func (a *imageAdapter) Enhance(c *gin.Context) {
	var req generation.EnhanceRequest
	if !bindJSON(c, &req) {
		return
	}
	a.run(c, func(id uuid.UUID) (*generation.Result, error) {
		return a.generation.Enhance(c.Request.Context(), id, &req)
	})
}

func (a *imageAdapter) Generate(c *gin.Context) {
	var req generation.GenerateRequest
	if !bindJSON(c, &req) {
		return
	}
	a.run(c, func(id uuid.UUID) (*generation.Result, error) {
		return a.generation.Generate(c.Request.Context(), id, &req)
	})
}

func (a *imageAdapter) Upscale(c *gin.Context) {
	var req generation.UpscaleRequest
	if !bindJSON(c, &req) {
		return
	}
	a.run(c, func(id uuid.UUID) (*generation.Result, error) {
		return a.generation.Upscale(c.Request.Context(), id, &req)
	})
}

func (a *imageAdapter) StyleTransfer(c *gin.Context) {
	var req generation.StyleTransferRequest
	if !bindJSON(c, &req) {
		return
	}
	a.run(c, func(id uuid.UUID) (*generation.Result, error) {
		return a.generation.StyleTransfer(c.Request.Context(), id, &req)
	})
}

func (a *imageAdapter) run(c *gin.Context, fn func(id uuid.UUID) (*generation.Result, error)) {
	id, valid := userID(c)
	if !valid {
		return
	}

	res, err := fn(id)
	if err != nil {
		a.resp.Error(c, err)
		return
	}

	body := gin.H{"image": res.Image}
	if res.Kind == generation.KindEnhance {
		body = gin.H{"enhancedImage": res.Image}
	}
	if res.Credits != nil {
		body["credits"] = *res.Credits
	}
	ok(c, body)
}

// Compile-time check
var _ inbound.ImageHttpPort = (*imageAdapter)(nil)
