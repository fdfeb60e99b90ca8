package repository

import "strings"

// parseTextArray convierte el literal de array de texto de PostgreSQL
// ({a,b,c}) en un slice de Go. Los UID no contienen comas ni comillas,
// así que basta con separar por comas.
func parseTextArray(raw []byte) []string {
	s := strings.Trim(string(raw), "{}")
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(p, `"`)
	}
	return parts
}
