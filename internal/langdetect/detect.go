// Package langdetect decides the language id of an opened document. The
// configured file types win; after that go-enry looks at the file name, the
// shebang and finally the content.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/kobzarvs/smartkeys/internal/config"
)

const (
	langText  = "text"
	langJSON  = "json"
	langJSONC = "jsonc"
	langBash  = "bash"
)

// classifierCandidates bounds the content classifier to languages the editor
// does something with.
var classifierCandidates = []string{
	"Go", "Shell", "JavaScript", "TypeScript", "JSON", "JSON with Comments",
	"YAML", "TOML", "HTML", "Makefile",
}

type Detector struct {
	langs config.Languages
}

func New(langs config.Languages) *Detector {
	return &Detector{langs: langs}
}

// Detect returns a lower-case language id, or "text".
func (d *Detector) Detect(path string, content []byte) string {
	if path != "" {
		if lang := d.langs.Match(path); lang != nil {
			return lang.Name
		}
		if lang, safe := enry.GetLanguageByFilename(path); safe {
			return normalize(lang)
		}
		if lang, safe := enry.GetLanguageByExtension(path); safe {
			return normalize(lang)
		}
	}
	return DetectContent(content)
}

// DetectContent guesses from the text alone.
func DetectContent(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return langText
	}
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}
	if lang := detectJSON(content); lang != "" {
		return lang
	}
	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}
	return langText
}

// detectJSON recognizes an object or array document. Line comments make it
// JSONC.
func detectJSON(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if !bytes.HasPrefix(trimmed, []byte("{")) && !bytes.HasPrefix(trimmed, []byte("[")) {
		return ""
	}
	if !bytes.Contains(trimmed, []byte(`"`)) {
		return ""
	}
	for _, line := range bytes.Split(trimmed, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if bytes.HasPrefix(line, []byte("//")) || bytes.HasPrefix(line, []byte("/*")) {
			return langJSONC
		}
	}
	return langJSON
}

// normalize maps go-enry language names to the ids used in languages.toml.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return langBash
	case "JSON with Comments":
		return langJSONC
	}
	return strings.ToLower(lang)
}
