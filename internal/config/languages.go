package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Language struct {
	Name      string   `toml:"name"`
	FileTypes []string `toml:"file-types"`
	// Optional indentation override for the language.
	TabWidth     int   `toml:"tab-width"`
	InsertSpaces *bool `toml:"insert-spaces"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

// Match finds the language for a file. Whole file names are tried before
// extensions, so "tsconfig.json" can be jsonc while "*.json" is json.
func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		for _, ft := range l.Languages[i].FileTypes {
			if strings.ToLower(ft) == baseLower {
				return &l.Languages[i]
			}
		}
	}
	if ext == "" {
		return nil
	}
	for i := range l.Languages {
		for _, ft := range l.Languages[i].FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || strings.TrimPrefix(ftLower, ".") == ext {
				return &l.Languages[i]
			}
		}
	}
	return nil
}

// ByName finds a language by its id.
func (l Languages) ByName(name string) *Language {
	for i := range l.Languages {
		if strings.EqualFold(l.Languages[i].Name, name) {
			return &l.Languages[i]
		}
	}
	return nil
}

func DefaultLanguages() Languages {
	tabs := false
	return Languages{Languages: []Language{
		{Name: "json", FileTypes: []string{"json", ".babelrc", ".prettierrc", "composer.lock"}},
		{Name: "jsonc", FileTypes: []string{"jsonc", "code-workspace", "tsconfig.json", "jsconfig.json", ".eslintrc"}},
		{Name: "go", FileTypes: []string{"go"}, InsertSpaces: &tabs},
		{Name: "javascript", FileTypes: []string{"js", "mjs", "cjs", "jsx"}},
		{Name: "typescript", FileTypes: []string{"ts", "tsx"}},
		{Name: "yaml", FileTypes: []string{"yaml", "yml"}, TabWidth: 2},
		{Name: "toml", FileTypes: []string{"toml"}},
		{Name: "bash", FileTypes: []string{"sh", "bash", ".bashrc", ".zshrc"}},
		{Name: "html", FileTypes: []string{"html", "htm", "xml", "svg"}, TabWidth: 2},
		{Name: "make", FileTypes: []string{"Makefile", "mk"}, InsertSpaces: &tabs},
	}}
}

// LoadLanguages reads languages.toml. User entries are matched before the
// built-in ones, so a user entry can claim a file type.
func LoadLanguages() (Languages, error) {
	langs := DefaultLanguages()
	path, err := LanguagesPath()
	if err != nil {
		return langs, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return langs, nil
		}
		return langs, err
	}

	var cfg Languages
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return langs, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Languages = append(cfg.Languages, langs.Languages...)
	return cfg, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
