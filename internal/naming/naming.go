// Package naming converts identifiers between the casings used in Angular-style
// TypeScript projects and builds module specifiers between files.
package naming

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits an identifier on separators (-, _, ., space) and on case
// boundaries. "HTTPClientService" becomes [HTTP Client Service].
func Words(s string) []string {
	var words []string
	for _, part := range strings.FieldsFunc(s, isSeparator) {
		words = append(words, splitCase(part)...)
	}
	return words
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
}

func splitCase(s string) []string {
	runes := []rune(s)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := unicode.IsLower(prev) && unicode.IsUpper(cur) ||
			unicode.IsDigit(prev) && unicode.IsUpper(cur) ||
			unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if boundary {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

// Classify returns the UpperCamelCase form used for class names.
func Classify(s string) string {
	// Casers are stateful and cannot be shared between goroutines.
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// Camelize returns the lowerCamelCase form used for fields and parameters.
func Camelize(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// Dasherize returns the kebab-case form used for file and folder names.
func Dasherize(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "-")
}

// Join joins path elements using the host separator.
func Join(elem ...string) string {
	return filepath.Join(elem...)
}

// RelativeModule returns the module specifier that imports target from a file
// living in fromDir: forward slashes, a leading ./ or ../, and no .ts/.tsx
// extension.
func RelativeModule(fromDir, target string) (string, error) {
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	switch ext := path.Ext(rel); ext {
	case ".ts", ".tsx":
		rel = strings.TrimSuffix(rel, ext)
	}
	if !strings.HasPrefix(rel, "../") && !strings.HasPrefix(rel, "./") {
		rel = "./" + rel
	}
	return rel, nil
}
