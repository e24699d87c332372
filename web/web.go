// Package web holds the server-rendered admin pages.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	html "github.com/gofiber/template/html/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templates embed.FS

var printer = message.NewPrinter(language.German)

// Money renders an amount the way German customers read it, e.g. "1.234,50 €".
func Money(v float64) string {
	return printer.Sprintf("%.2f €", v)
}

// Engine returns the template engine. With reloadFrom set, templates are read
// from that directory on every render instead of the embedded copies.
func Engine(reloadFrom string) *html.Engine {
	var engine *html.Engine
	if reloadFrom != "" {
		engine = html.New(reloadFrom, ".html")
		engine.Reload(true)
	} else {
		sub, err := fs.Sub(templates, "templates")
		if err != nil {
			panic(err)
		}
		engine = html.NewFileSystem(http.FS(sub), ".html")
	}
	engine.AddFunc("money", Money)
	return engine
}
