// Package web bundles the HTML templates and static assets served by the page handlers.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/url"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page template with the helper funcs the pages rely on.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Static returns the asset tree mounted under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Funcs returns the template helpers.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		// studentsURL builds a /students link that keeps the current listing state.
		"studentsURL": func(search, sortBy string, page, perPage int) string {
			q := url.Values{}
			if search != "" {
				q.Set("search", search)
			}
			q.Set("sort_by", sortBy)
			q.Set("page", strconv.Itoa(page))
			q.Set("per_page", strconv.Itoa(perPage))
			return "/students?" + q.Encode()
		},
	}
}
