package detector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// ErrUnsupportedLanguage is returned for files the injector cannot patch.
var ErrUnsupportedLanguage = errors.New("unsupported language for modification")

var patchableLanguages = map[string]bool{
	"TypeScript": true,
	"TSX":        true,
}

var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	".angular":     true,
}

// DetectFileLanguage returns the linguist language name for a file. content
// may be nil, in which case it is read from disk when the extension alone is
// ambiguous.
func DetectFileLanguage(path string, content []byte) string {
	lang, safe := enry.GetLanguageByExtension(path)
	if safe && lang != "" {
		return lang
	}

	if content == nil {
		var err error
		content, err = os.ReadFile(path)
		if err != nil {
			return ""
		}
	}

	return enry.GetLanguage(filepath.Base(path), content)
}

// RequireTypeScript fails unless path holds TypeScript or TSX source.
func RequireTypeScript(path string, content []byte) error {
	lang := DetectFileLanguage(path, content)
	if !patchableLanguages[lang] {
		if lang == "" {
			lang = "unknown"
		}
		return fmt.Errorf("%w: %s (%s)", ErrUnsupportedLanguage, path, lang)
	}
	return nil
}

// FindSources walks rootPath and returns the TypeScript files whose name ends
// with suffix (e.g. ".component.ts"), sorted. Declaration files, specs and
// the usual dependency/build directories are skipped.
func FindSources(rootPath, suffix string) ([]string, error) {
	var files []string
	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != rootPath && (skipDirs[info.Name()] || strings.HasPrefix(info.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		if shouldSkipFile(info.Name(), suffix) {
			return nil
		}
		if RequireTypeScript(path, nil) != nil {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", rootPath, err)
	}

	sort.Strings(files)
	return files, nil
}

func shouldSkipFile(name, suffix string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	if strings.HasSuffix(name, ".d.ts") || strings.Contains(name, ".spec.") || strings.Contains(name, ".test.") {
		return true
	}
	if suffix != "" && !strings.HasSuffix(name, suffix) {
		return true
	}
	ext := filepath.Ext(name)
	return ext != ".ts" && ext != ".tsx"
}
