package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
	"github.com/Lin-Jiong-HDU/jarvis/internal/core/security"
	"github.com/Lin-Jiong-HDU/jarvis/internal/display"
	"github.com/Lin-Jiong-HDU/jarvis/internal/logger"
	"github.com/Lin-Jiong-HDU/jarvis/internal/lookup"
	"github.com/Lin-Jiong-HDU/jarvis/internal/storage"
	"github.com/Lin-Jiong-HDU/jarvis/internal/sysinfo"
	"github.com/Lin-Jiong-HDU/jarvis/internal/terminal"
	"github.com/spf13/cobra"
)

// cpuSampleInterval is how long CPU usage is measured for
const cpuSampleInterval = time.Second

// options holds the persistent flags
type options struct {
	configFile string
	debug      bool
	logLevel   string
	logJSON    bool
}

// app carries state shared by every subcommand
type app struct {
	opts       options
	configPath string
	configDir  string
	cfg        *storage.Config
	log        logger.Logger
	logFile    *os.File
}

// load reads the config and sets up logging
func (a *app) load(cmd *cobra.Command) error {
	path := a.opts.configFile
	if path == "" {
		dir, err := storage.GetConfigDir()
		if err != nil {
			return err
		}
		path = storage.ConfigPath(dir)
	}
	a.configPath = path
	a.configDir = filepath.Dir(path)

	if err := os.MkdirAll(a.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg, err := storage.InitConfig(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.setupLogger(cmd.ErrOrStderr())
	a.log.Debug("config loaded", "path", path)
	return nil
}

func (a *app) setupLogger(stderr io.Writer) {
	debug := a.opts.debug || a.cfg.General.Debug

	level := logger.LogLevel(a.cfg.Log.Level)
	if debug {
		level = logger.DebugLevel
	}
	if a.opts.logLevel != "" {
		level = logger.LogLevel(a.opts.logLevel)
	}

	var out io.Writer = io.Discard
	f, err := logger.OpenDailyFile(a.configDir, time.Now())
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	} else {
		a.logFile = f
		out = f
	}
	if debug {
		out = io.MultiWriter(out, stderr)
	}

	a.log = logger.NewLogger(&logger.Config{
		Level:      level,
		Output:     out,
		JSON:       a.opts.logJSON || a.cfg.Log.JSON,
		TimeFormat: "2006-01-02 15:04:05",
	})
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func (a *app) sessionsDir() string {
	return filepath.Join(a.configDir, storage.SessionDirName)
}

// newEngine wires an engine to the configured collaborators
func (a *app) newEngine(policies *security.PolicyStore, recorder core.Recorder) (*core.Engine, error) {
	executor, err := core.NewExecutor(a.cfg.Security.WorkDir, a.log)
	if err != nil {
		return nil, err
	}

	opts := core.Options{
		WakeWord:   a.cfg.General.WakeWord,
		Policies:   policies,
		Executor:   executor,
		SystemInfo: sysinfo.NewCollector(cpuSampleInterval, a.log),
		Recorder:   recorder,
		Features: core.Features{
			WebSearch: a.cfg.Features.WebSearch,
			Wikipedia: a.cfg.Features.Wikipedia,
		},
		Log: a.log,
	}

	lookupCfg := lookup.Config{
		SearchURL:    a.cfg.Lookup.SearchURL,
		WikipediaURL: a.cfg.Lookup.WikipediaURL,
		Timeout:      a.cfg.Lookup.Timeout,
		Results:      a.cfg.Lookup.Results,
		CacheSize:    a.cfg.Lookup.CacheSize,
		CacheTTL:     a.cfg.Lookup.CacheTTL,
		UserAgent:    a.cfg.Lookup.UserAgent,
	}
	if opts.Features.WebSearch {
		opts.Search = lookup.NewDuckDuckGo(lookupCfg, a.log)
	}
	if opts.Features.Wikipedia {
		opts.Encyclopedia = lookup.NewWikipedia(lookupCfg, a.log)
	}

	return core.NewEngine(opts), nil
}

func (a *app) newDisplay(out io.Writer) *display.Display {
	colors := a.cfg.UI.Colors
	return display.New(out, display.Options{
		Width:          a.cfg.UI.Width,
		RenderMarkdown: a.cfg.UI.RenderMarkdown,
		Palette: display.Palette{
			Primary:   colors.Primary,
			Secondary: colors.Secondary,
			Accent:    colors.Accent,
			Text:      colors.Text,
		},
		Log: a.log,
	})
}

func (a *app) newSpeaker() *terminal.Speaker {
	voice := a.cfg.Voice.Output
	return terminal.NewSpeaker(terminal.SpeakerConfig{
		Enabled:  voice.Enabled,
		Command:  strings.Fields(voice.Command),
		MaxChars: voice.MaxChars,
	}, a.log)
}
