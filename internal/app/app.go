// Package app wires configuration, logging, the terminal screen and the
// editor into one event loop.
package app

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/smartkeys/internal/config"
	"github.com/kobzarvs/smartkeys/internal/editor"
	"github.com/kobzarvs/smartkeys/internal/langdetect"
	"github.com/kobzarvs/smartkeys/internal/logger"
	"github.com/kobzarvs/smartkeys/internal/treesitter"
)

// Files larger than this are edited without highlighting.
const maxHighlightBytes = 8 << 20

type Options struct {
	// ConfigPath overrides the config file location.
	ConfigPath string
	Debug      bool
	// Language forces a language id instead of detecting one.
	Language string
}

// App is the top-level runtime for smartkeys.
type App struct {
	args []string
	opts Options
}

func New(args []string, opts Options) *App {
	return &App{args: args, opts: opts}
}

func (a *App) loadConfig() (config.Config, error) {
	if a.opts.ConfigPath != "" {
		return config.LoadFrom(a.opts.ConfigPath)
	}
	return config.Load()
}

func (a *App) Run() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return fmt.Errorf("load languages: %w", err)
	}
	if err := logger.Init(a.opts.Debug); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ed := editor.New(cfg)
	var openPath, lang string
	if len(a.args) > 0 {
		openPath = a.args[0]
		if err := ed.OpenFile(openPath); err != nil {
			return err
		}
		lang = a.opts.Language
		if lang == "" {
			lang = langdetect.New(langs).Detect(openPath, []byte(ed.Content()))
		}
		ed.SetLanguage(lang, langs.ByName(lang))
		logger.Info("opened", "path", openPath, "lang", lang, "lines", ed.LineCount())
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	if openPath != "" {
		stop, err := watchFile(openPath, func(ev tcell.Event) { _ = s.PostEvent(ev) })
		if err != nil {
			logger.Warn("app: not watching file", "path", openPath, "err", err)
		} else {
			defer func() { _ = stop() }()
		}
	}

	hl := newHighlights(treesitter.New(), ed, lang, len(ed.Content()) <= maxHighlightBytes)
	defer hl.close()

	hl.refresh()
	ed.Render(s)
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		case *FileChangedEvent:
			data, err := os.ReadFile(ev.Path)
			if err != nil {
				ed.SetStatusMessage(err.Error())
				break
			}
			if ed.Reload(string(data)) {
				logger.Debug("reloaded from disk", "path", ev.Path)
			}
		}
		hl.refresh()
		ed.Render(s)
	}
}
