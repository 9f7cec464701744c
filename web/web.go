// Package web embeds the HTML templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"time"

	"blogicum/internal/utils"

	"github.com/gin-contrib/multitemplate"
)

//go:embed templates static
var files embed.FS

// Views lists every page template by the name handlers render it under.
var Views = []string{
	"blog/index.html",
	"blog/category.html",
	"blog/profile.html",
	"blog/detail.html",
	"blog/create.html",
	"blog/comment.html",
	"blog/user.html",
	"registration/login.html",
	"registration/registration_form.html",
	"pages/error.html",
}

// Static returns the embedded static asset tree.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// FuncMap returns the helpers available in every template.
func FuncMap(siteName string) template.FuncMap {
	return template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"add": func(a, b int) int {
			return a + b
		},
		"siteName": func() string {
			return siteName
		},
		"markdown": utils.RenderMarkdown,
		"excerpt":  utils.Excerpt,
		"date": func(t time.Time) string {
			return t.UTC().Format("02.01.2006 15:04")
		},
		"media": func(rel string) string {
			return "/media/" + rel
		},
		"urlquery": func(s string) string {
			return url.QueryEscape(s)
		},
	}
}

// Templates parses each view together with the layout and includes.
func Templates(siteName string) (multitemplate.Render, error) {
	r := multitemplate.New()
	funcs := FuncMap(siteName)
	for _, view := range Views {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(files,
			"templates/layouts/base.html",
			"templates/includes/*.html",
			"templates/views/"+view,
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", view, err)
		}
		r.Add(view, tmpl)
	}
	return r, nil
}
