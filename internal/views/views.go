// Package views holds the embedded HTML templates.
package views

import (
	"embed"
	"fmt"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed *.html layouts/*.html partials/*.html
var files embed.FS

// NewEngine returns a template engine over the embedded views.
func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(files), ".html")
	engine.AddFunc("score", func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	})
	engine.AddFunc("width", func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	})
	return engine
}
