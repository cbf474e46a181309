// Package web holds the console's HTML templates and the gin renderer serving them.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"

	"github.com/noah-isme/sma-admin-console/internal/models"
)

//go:embed templates
var files embed.FS

const (
	layoutFile = "templates/layout.html"
	pagesDir   = "templates/pages"
)

// Renderer renders a page template inside the shared layout. Every page is parsed into
// its own set so each can define its own "content".
type Renderer struct {
	pages map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

// NewRenderer parses every page under templates/pages. Page names are their paths
// relative to that directory without the extension, e.g. "schedules/assign".
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	err := fs.WalkDir(files, pagesDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".html" {
			return err
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, pagesDir+"/"), ".html")
		tmpl, err := template.New(name).Funcs(Funcs()).ParseFS(files, layoutFile, p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// MustRenderer is NewRenderer that panics on a broken template.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Has reports whether a page exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Instance implements render.HTMLRender.
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		tmpl = template.Must(template.New(name).Parse(`missing page {{.}}`))
		return render.HTML{Template: tmpl, Name: name, Data: name}
	}
	return render.HTML{Template: tmpl, Name: "layout", Data: data}
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"hasRole": func(user *models.SessionUser, roles ...string) bool {
			if user == nil {
				return false
			}
			for _, role := range roles {
				if string(user.UserType) == role {
					return true
				}
			}
			return false
		},
		"withQuery": withQuery,
		"fixed2":    func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
		"datetime": func(t interface{}) string {
			switch v := t.(type) {
			case time.Time:
				if v.IsZero() {
					return ""
				}
				return v.Local().Format("2006-01-02 15:04")
			case *time.Time:
				if v == nil || v.IsZero() {
					return ""
				}
				return v.Local().Format("2006-01-02 15:04")
			}
			return ""
		},
		"join":     strings.Join,
		"selected": func(a, b interface{}) template.HTMLAttr { return attrIf(fmt.Sprint(a) == fmt.Sprint(b), "selected") },
		"checked":  func(ok bool) template.HTMLAttr { return attrIf(ok, "checked") },
	}
}

// withQuery returns "?query" with key set to value, keeping the other parameters.
func withQuery(query url.Values, key string, value interface{}) string {
	next := url.Values{}
	for k, v := range query {
		next[k] = append([]string(nil), v...)
	}
	next.Set(key, fmt.Sprint(value))
	return "?" + next.Encode()
}

func attrIf(ok bool, attr string) template.HTMLAttr {
	if ok {
		return template.HTMLAttr(attr)
	}
	return ""
}
