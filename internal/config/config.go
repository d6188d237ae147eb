package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/kobzarvs/smartkeys/internal/indent"
	"github.com/kobzarvs/smartkeys/internal/smart"
)

type EditorOptions struct {
	TabWidth     int    `toml:"tab-width" yaml:"tab-width"`
	InsertSpaces bool   `toml:"insert-spaces" yaml:"insert-spaces"`
	DetectIndent bool   `toml:"detect-indent" yaml:"detect-indent"`
	LineNumbers  string `toml:"line-numbers" yaml:"line-numbers"`
}

type SmartEnd struct {
	IndentEmptyLine  bool `toml:"indent-empty-line" yaml:"indent-empty-line"`
	ToggleTrimmedEnd bool `toml:"toggle-trimmed-end" yaml:"toggle-trimmed-end"`
}

type SmartBackspace struct {
	HandleEmptyLine  bool `toml:"handle-empty-line" yaml:"handle-empty-line"`
	HandleIndentZone bool `toml:"handle-indent-zone" yaml:"handle-indent-zone"`
}

type SmartEnter struct {
	AutoInsertClosingBrace bool `toml:"auto-insert-closing-brace" yaml:"auto-insert-closing-brace"`
}

type StructuredValue struct {
	InsertTerminatorOnEnter     bool `toml:"insert-terminator-on-enter" yaml:"insert-terminator-on-enter"`
	AddWhitespaceAfterSeparator bool `toml:"add-whitespace-after-separator" yaml:"add-whitespace-after-separator"`
	AddQuotesToKeys             bool `toml:"add-quotes-to-keys" yaml:"add-quotes-to-keys"`
}

type Theme struct {
	Theme                      string `toml:"theme" yaml:"theme"`
	Foreground                 string `toml:"foreground" yaml:"foreground"`
	Background                 string `toml:"background" yaml:"background"`
	StatuslineForeground       string `toml:"statusline-foreground" yaml:"statusline-foreground"`
	StatuslineBackground       string `toml:"statusline-background" yaml:"statusline-background"`
	LineNumberForeground       string `toml:"line-number-foreground" yaml:"line-number-foreground"`
	LineNumberActiveForeground string `toml:"line-number-active-foreground" yaml:"line-number-active-foreground"`
	CursorForeground           string `toml:"cursor-foreground" yaml:"cursor-foreground"`
	CursorBackground           string `toml:"cursor-background" yaml:"cursor-background"`
	SyntaxKeyword              string `toml:"syntax-keyword" yaml:"syntax-keyword"`
	SyntaxString               string `toml:"syntax-string" yaml:"syntax-string"`
	SyntaxComment              string `toml:"syntax-comment" yaml:"syntax-comment"`
	SyntaxType                 string `toml:"syntax-type" yaml:"syntax-type"`
	SyntaxFunction             string `toml:"syntax-function" yaml:"syntax-function"`
	SyntaxNumber               string `toml:"syntax-number" yaml:"syntax-number"`
	SyntaxConstant             string `toml:"syntax-constant" yaml:"syntax-constant"`
	SyntaxField                string `toml:"syntax-field" yaml:"syntax-field"`
	SyntaxPunctuation          string `toml:"syntax-punctuation" yaml:"syntax-punctuation"`
}

// Keymap maps key names ("enter", "ctrl+s", ":") to editor actions.
type Keymap map[string]string

type Config struct {
	Editor          EditorOptions   `toml:"editor" yaml:"editor"`
	SmartEnd        SmartEnd        `toml:"smart-end" yaml:"smart-end"`
	SmartBackspace  SmartBackspace  `toml:"smart-backspace" yaml:"smart-backspace"`
	SmartEnter      SmartEnter      `toml:"smart-enter" yaml:"smart-enter"`
	StructuredValue StructuredValue `toml:"structured-value" yaml:"structured-value"`
	Theme           Theme           `toml:"theme" yaml:"theme"`
	Keymap          Keymap          `toml:"keymap" yaml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:     indent.DefaultTabSize,
			InsertSpaces: indent.DefaultInsertSpaces,
			DetectIndent: true,
			LineNumbers:  "absolute",
		},
		SmartEnd: SmartEnd{
			IndentEmptyLine:  true,
			ToggleTrimmedEnd: true,
		},
		SmartBackspace: SmartBackspace{
			HandleEmptyLine:  true,
			HandleIndentZone: true,
		},
		SmartEnter: SmartEnter{
			AutoInsertClosingBrace: true,
		},
		StructuredValue: StructuredValue{
			InsertTerminatorOnEnter:     true,
			AddWhitespaceAfterSeparator: true,
			AddQuotesToKeys:             true,
		},
		Theme: Theme{
			Foreground:                 "#B3B1AD",
			Background:                 "#0A0E14",
			StatuslineForeground:       "#B3B1AD",
			StatuslineBackground:       "#0F1419",
			LineNumberForeground:       "#3E4B59",
			LineNumberActiveForeground: "#B3B1AD",
			CursorForeground:           "#0A0E14",
			CursorBackground:           "#E6B450",
			SyntaxKeyword:              "#FFA759",
			SyntaxString:               "#BAE67E",
			SyntaxComment:              "#5C6773",
			SyntaxType:                 "#5CCFE6",
			SyntaxFunction:             "#FFD173",
			SyntaxNumber:               "#D4BFFF",
			SyntaxConstant:             "#FFDD8E",
			SyntaxField:                "#E6B673",
			SyntaxPunctuation:          "#C0C0C0",
		},
		Keymap: Keymap{
			"left":      "move_left",
			"right":     "move_right",
			"up":        "move_up",
			"down":      "move_down",
			"home":      "line_start",
			"end":       "smart_end",
			"ctrl+home": "file_start",
			"ctrl+end":  "file_end",
			"pgup":      "page_up",
			"pgdn":      "page_down",
			"enter":     "smart_enter",
			"backspace": "smart_backspace",
			"del":       "delete_char",
			"tab":       "indent",
			":":         "smart_separator",
			"alt+down":  "add_cursor_below",
			"alt+up":    "add_cursor_above",
			"esc":       "collapse_cursors",
			"ctrl+l":    "toggle_line_numbers",
			"ctrl+s":    "save",
			"ctrl+q":    "quit",
		},
	}
}

// Settings converts the feature switches for the key handlers.
func (c Config) Settings() smart.Settings {
	return smart.Settings{
		IndentEmptyLine:             c.SmartEnd.IndentEmptyLine,
		ToggleTrimmedEnd:            c.SmartEnd.ToggleTrimmedEnd,
		HandleEmptyLine:             c.SmartBackspace.HandleEmptyLine,
		HandleIndentZone:            c.SmartBackspace.HandleIndentZone,
		AutoInsertClosingBrace:      c.SmartEnter.AutoInsertClosingBrace,
		InsertTerminatorOnEnter:     c.StructuredValue.InsertTerminatorOnEnter,
		AddWhitespaceAfterSeparator: c.StructuredValue.AddWhitespaceAfterSeparator,
		AddQuotesToKeys:             c.StructuredValue.AddQuotesToKeys,
	}
}

// Indent is the configured formatting, used until a file's own style is
// detected.
func (c Config) Indent() indent.Options {
	return indent.Options{TabSize: c.Editor.TabWidth, InsertSpaces: c.Editor.InsertSpaces}
}

// Load reads config.toml from the config directory, or config.yaml when there
// is no TOML file. A missing file yields the defaults.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		dir := filepath.Dir(path)
		if alt := filepath.Join(dir, "config.yaml"); fileExists(alt) {
			path = alt
		}
	}
	cfg, err := LoadFrom(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFrom reads one config file. The format follows the extension. Keys the
// file leaves out keep their defaults.
func LoadFrom(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}

	for k, v := range Default().Keymap {
		if _, ok := cfg.Keymap[k]; !ok {
			if cfg.Keymap == nil {
				cfg.Keymap = Keymap{}
			}
			cfg.Keymap[k] = v
		}
	}
	if cfg.Editor.TabWidth < 1 {
		cfg.Editor.TabWidth = indent.DefaultTabSize
	}

	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		// Colors set in the config file win over the named theme.
		var own Theme
		if err := decodeTheme(path, data, &own); err == nil {
			mergeTheme(&theme, own)
		}
		mergeTheme(&cfg.Theme, theme)
	}
	return cfg, nil
}

func decodeTheme(path string, data []byte, t *Theme) error {
	var wrap struct {
		Theme Theme `toml:"theme" yaml:"theme"`
	}
	var err error
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &wrap)
	default:
		_, err = toml.Decode(string(data), &wrap)
	}
	*t = wrap.Theme
	return err
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.StatuslineForeground, src.StatuslineForeground)
	set(&dst.StatuslineBackground, src.StatuslineBackground)
	set(&dst.LineNumberForeground, src.LineNumberForeground)
	set(&dst.LineNumberActiveForeground, src.LineNumberActiveForeground)
	set(&dst.CursorForeground, src.CursorForeground)
	set(&dst.CursorBackground, src.CursorBackground)
	set(&dst.SyntaxKeyword, src.SyntaxKeyword)
	set(&dst.SyntaxString, src.SyntaxString)
	set(&dst.SyntaxComment, src.SyntaxComment)
	set(&dst.SyntaxType, src.SyntaxType)
	set(&dst.SyntaxFunction, src.SyntaxFunction)
	set(&dst.SyntaxNumber, src.SyntaxNumber)
	set(&dst.SyntaxConstant, src.SyntaxConstant)
	set(&dst.SyntaxField, src.SyntaxField)
	set(&dst.SyntaxPunctuation, src.SyntaxPunctuation)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme %q: %w", name, err)
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil && t != (Theme{}) {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, fmt.Errorf("theme %q: %w", name, err)
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("SMARTKEYS_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "smartkeys"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "smartkeys"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
