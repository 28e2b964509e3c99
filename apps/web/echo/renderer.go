package echoweb

import (
	"html/template"
	"io"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/gradegator/dashboard/core"
)

type renderer struct {
	templates *template.Template
}

func newRenderer(conf *core.Config) *renderer {
	dir := conf.Server.TemplatesDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(core.Getwd(), dir)
	}
	return &renderer{
		templates: template.Must(template.ParseGlob(filepath.Join(dir, "*.html"))),
	}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// render executes a page template, folding the session identity into the
// template data so every view can switch on role.
func render(ctx echo.Context, code int, name string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	sess := contextSession(ctx)
	data["IsAuthenticated"] = sess.IsAuthenticated()
	data["IsStaff"] = sess.IsStaff()
	data["IsInstructor"] = sess.IsInstructor()
	data["IsStudent"] = sess.IsStudent()
	if sess.IsAuthenticated() {
		data["User"] = sess.User
	}
	return ctx.Render(code, name, data)
}
