package handlers

import (
	"embed"
	"html/template"
	"net/http"

	portssvc "github.com/SscSPs/procurement_agent/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

func loadTemplates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}

// homeHandler renders the landing page.
type homeHandler struct {
	apiStatus map[string]bool
	policy    portssvc.PolicyReaderSvc
}

func registerHomeRoutes(r gin.IRoutes, apiStatus map[string]bool, policy portssvc.PolicyReaderSvc) {
	h := &homeHandler{apiStatus: apiStatus, policy: policy}
	r.GET("/", h.getHome)
}

// getHome godoc
// @Summary Landing page
// @Description Renders the UI with which integrations are configured. Secrets are never shown.
// @Tags root
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (h *homeHandler) getHome(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"APIStatus":    h.apiStatus,
		"PolicyLoaded": h.policy.Loaded(),
	})
}
