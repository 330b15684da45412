// Package slug genera identificadores legibles para URLs a partir de nombres
// con acentos (español, vietnamita): "Thuốc kháng sinh" -> "thuoc-khang-sinh".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make descompone el texto (NFD), elimina las marcas diacríticas y une las
// palabras alfanuméricas con guiones.
func Make(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}
	// đ/Đ no se descomponen en NFD
	plain = strings.NewReplacer("đ", "d", "Đ", "D").Replace(plain)

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
