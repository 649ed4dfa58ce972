// Package web embeds the admin page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
)

//go:embed templates static
var files embed.FS

// Pages every handler renders, checked at startup.
var Pages = []string{
	"error",
	"auth/login",
	"dashboard",
	"students/list",
	"students/form",
	"classes/list",
	"classes/form",
	"school_years/list",
	"school_years/form",
	"school_years/holidays",
	"attendance/list",
	"monitoring",
	"settings",
	"logs/list",
	"subscriptions/list",
	"users/list",
	"users/form",
}

// Funcs available to every template
var Funcs = template.FuncMap{
	"hasRole": func(u *dto.SessionUser, roles ...string) bool {
		if u == nil {
			return false
		}
		for _, r := range roles {
			if u.Role == r {
				return true
			}
		}
		return false
	},
	"humanize": func(s string) string {
		s = strings.ReplaceAll(s, "_", " ")
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
	"badge": func(status string) string {
		switch status {
		case "present", "confirmed", "success":
			return "badge-ok"
		case "late", "pending", "warn":
			return "badge-warn"
		case "absent", "no_scan", "error", "dpanic", "panic", "fatal":
			return "badge-bad"
		default:
			return "badge-muted"
		}
	},
	"summaryCount": func(m map[string]int, key string) int {
		return m[key]
	},
}

// Templates parses every page and fails if one of Pages is missing.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs).ParseFS(files, "templates/*.html", "templates/*/*.html")
	if err != nil {
		return nil, err
	}
	for _, name := range Pages {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("web: template %q is not defined", name)
		}
	}
	return tmpl, nil
}

// Static serves the stylesheet and scripts under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
