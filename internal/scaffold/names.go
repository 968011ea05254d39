package scaffold

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	upperWordPattern  = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	lowerUpperPattern = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	nonWordPattern    = regexp.MustCompile(`[^a-z0-9_]`)
	underscoreRuns    = regexp.MustCompile(`_{2,}`)
)

// ToSnake converts a user supplied name ("CreateUser", "create-user",
// "HTTP server") to snake_case. It never returns an empty string.
func ToSnake(name string) string {
	s := strings.TrimSpace(name)
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	s = upperWordPattern.ReplaceAllString(s, "${1}_${2}")
	s = lowerUpperPattern.ReplaceAllString(s, "${1}_${2}")
	s = strings.ToLower(s)
	s = nonWordPattern.ReplaceAllString(s, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "name"
	}
	return s
}

// ToCamel converts a name to an exported Go identifier ("create_user" ->
// "CreateUser").
func ToCamel(name string) string {
	title := cases.Title(language.English)
	var b strings.Builder
	for _, part := range strings.Split(ToSnake(name), "_") {
		if part == "" {
			continue
		}
		b.WriteString(title.String(part))
	}
	if b.Len() == 0 {
		return "Name"
	}
	return b.String()
}

// ToLowerCamel converts a name to an unexported Go identifier.
func ToLowerCamel(name string) string {
	camel := []rune(ToCamel(name))
	camel[0] = unicode.ToLower(camel[0])
	return string(camel)
}

// ValidName reports whether name produces a usable Go identifier: it must
// start with a letter once converted.
func ValidName(name string) bool {
	snake := ToSnake(name)
	if strings.TrimSpace(name) == "" {
		return false
	}
	r := rune(snake[0])
	return r >= 'a' && r <= 'z'
}

// PackageName derives a Go package name from a path's last element.
func PackageName(dir string) string {
	dir = strings.TrimRight(dir, "/")
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		dir = dir[i+1:]
	}
	return strings.ReplaceAll(ToSnake(dir), "_", "")
}
