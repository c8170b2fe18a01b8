// Package templates renders email bodies to strings.
package templates

import (
	"context"
	"html/template"
	"strings"

	"github.com/a-h/templ"
)

// Render takes a templ.Component and renders it to a string.
func Render(ctx context.Context, tpl templ.Component) (string, error) {
	var sb strings.Builder
	if err := tpl.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderHTML executes an html/template through templ so both template
// flavours share one rendering path. Values are escaped by html/template.
func RenderHTML(ctx context.Context, t *template.Template, data any) (string, error) {
	return Render(ctx, templ.FromGoHTML(t, data))
}
