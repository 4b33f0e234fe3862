package server

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html
var webUIAssets embed.FS

// registerWebUI serves the embedded browsing page at the site root. The page
// talks to the REST API under /api/v1; it carries no server-side state.
func registerWebUI(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		page, err := webUIAssets.ReadFile("static/index.html")
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
}
