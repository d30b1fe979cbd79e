package utils

import "strings"

// ShortName reduces a CamelCase name to its upper-case letters, e.g.
// "UniformGridSelectorRandomOffset" -> "UGSRO".
func ShortName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
