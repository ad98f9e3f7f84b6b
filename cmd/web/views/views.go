package views

import (
	"embed"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	dateLayout   = "02/01/2006"
	editedLayout = "* editado em 02/01/2006, às 15:04"
)

// Templates parses every page template with helpers that format dates in loc.
func Templates(loc *time.Location) (*template.Template, error) {
	return template.New("").Funcs(Funcs(loc)).ParseFS(templateFS, "templates/*.tmpl")
}

// Static is served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func Funcs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.In(loc).Format(dateLayout)
		},
		"formatEdited": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.In(loc).Format(editedLayout)
		},
		// trusted marks renderer output. Never pass store text through it.
		"trusted": func(s string) template.HTML {
			return template.HTML(s)
		},
	}
}
