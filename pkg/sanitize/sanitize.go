// Package sanitize limpia texto libre que llega de formularios o de perfiles
// OAuth antes de persistirlo.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text elimina cualquier etiqueta HTML y espacios sobrantes.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Email aplica Text y normaliza a minúsculas.
func Email(s string) string {
	return strings.ToLower(Text(s))
}
