// Package views holds the server-rendered pages. Templates are embedded so the
// binary carries its own UI.
package views

import (
	"embed"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yashrajoria/storefront/middleware"
	"github.com/yashrajoria/storefront/models"
)

//go:embed templates/*.html
var files embed.FS

// Page is the data every template receives. Data carries the page's own values.
type Page struct {
	Title         string
	Authenticated bool
	IsAdmin       bool
	DisplayName   string
	CartCount     int
	Flashes       []middleware.Flash
	Data          map[string]interface{}
}

// NewPage fills the navbar fields from viewer.
func NewPage(title string, viewer *models.Viewer, cartCount int, flashes []middleware.Flash, data map[string]interface{}) Page {
	return Page{
		Title:         title,
		Authenticated: viewer.Authenticated(),
		IsAdmin:       viewer.IsAdmin(),
		DisplayName:   viewer.DisplayName(),
		CartCount:     cartCount,
		Flashes:       flashes,
		Data:          data,
	}
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"subtotal": func(it models.CartItem) decimal.Decimal { return it.Subtotal() },
}

// Templates parses every page. Each file is addressable by its base name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}
