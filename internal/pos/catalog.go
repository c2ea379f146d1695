package pos

import (
	"strings"
	"unicode"

	"minimercado/internal/dto"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// plegar lowercases s and strips diacritics so "Azúcar" matches "azucar".
func plegar(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// FiltrarCatalogo returns the sellable products (stock > 0) whose name
// contains texto, ignoring case and accents. Blank texto keeps every
// sellable product.
func FiltrarCatalogo(productos []dto.ProductoResponse, texto string) []dto.ProductoResponse {
	aguja := plegar(strings.TrimSpace(texto))
	out := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		if p.Stock <= 0 {
			continue
		}
		if aguja != "" && !strings.Contains(plegar(p.Nombre), aguja) {
			continue
		}
		out = append(out, p)
	}
	return out
}
