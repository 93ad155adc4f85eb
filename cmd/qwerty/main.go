// Package main provides the CLI entrypoint for qwerty.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/qwerty/internal/audio"
	"github.com/verte-zerg/qwerty/internal/config"
	"github.com/verte-zerg/qwerty/internal/dictionary"
	"github.com/verte-zerg/qwerty/internal/feed"
	"github.com/verte-zerg/qwerty/internal/logging"
	"github.com/verte-zerg/qwerty/internal/model"
	"github.com/verte-zerg/qwerty/internal/session"
	"github.com/verte-zerg/qwerty/internal/store"
	"github.com/verte-zerg/qwerty/internal/tui"
)

var (
	practiceDict            string
	practiceChapter         int
	practiceChapterLength   int
	practicePlaceholder     string
	practiceWrongDelayMs    int
	practiceHideWord        bool
	practiceReadOnly        bool
	practicePlaceholderFill bool
	practiceMute            bool
	practicePronounce       bool
	practiceRemoteURL       string
	practiceRemoteSubject   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "qwerty",
		Short:         "Vocabulary typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&practiceDict, "dict", dictionary.DefaultID, "dictionary id (see: qwerty dicts)")
	flags.IntVar(&practiceChapter, "chapter", 1, "chapter to start from (1-based)")
	flags.IntVar(&practiceChapterLength, "chapter-length", config.DefaultChapterLength, "words per chapter")
	flags.StringVar(&practicePlaceholder, "placeholder", config.DefaultPlaceholder, "placeholder for hidden letters")
	flags.IntVar(&practiceWrongDelayMs, "wrong-delay", config.DefaultWrongDelayMs, "hold after a wrong character, in milliseconds")
	flags.BoolVar(&practiceHideWord, "hide-word", false, "hide the word being typed")
	flags.BoolVar(&practiceReadOnly, "read-only", false, "advance with enter instead of typing")
	flags.BoolVar(&practicePlaceholderFill, "placeholder-fill", false, "pad untyped letters with the placeholder")
	flags.BoolVar(&practiceMute, "mute", false, "disable key and result cues")
	flags.BoolVar(&practicePronounce, "pronounce", false, "pronounce each new word")
	flags.StringVar(&practiceRemoteURL, "remote-url", "", "NATS server to receive remote keystrokes from")
	flags.StringVar(&practiceRemoteSubject, "remote-subject", config.DefaultRemoteSubject, "NATS subject for remote keystrokes")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDictsCmd())
	rootCmd.AddCommand(newChaptersCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("qwerty needs an interactive terminal")
	}
	configPath := config.DefaultConfigPath()
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dict", &practiceDict, fileCfg.Practice.Dict)
	applyIntConfig(cmd, "chapter", &practiceChapter, fileCfg.Practice.Chapter)
	applyBoolConfig(cmd, "hide-word", &practiceHideWord, fileCfg.Practice.HideWord)
	applyBoolConfig(cmd, "read-only", &practiceReadOnly, fileCfg.Practice.ReadOnly)
	applyBoolConfig(cmd, "placeholder-fill", &practicePlaceholderFill, fileCfg.Practice.PlaceholderFill)
	applyBoolConfig(cmd, "pronounce", &practicePronounce, fileCfg.Audio.Pronounce)
	applyStringConfig(cmd, "remote-url", &practiceRemoteURL, fileCfg.Remote.URL)
	applyStringConfig(cmd, "remote-subject", &practiceRemoteSubject, fileCfg.Remote.Subject)
	if !cmd.Flags().Changed("mute") && fileCfg.Audio.Cues != nil {
		practiceMute = !*fileCfg.Audio.Cues
	}

	logger, closeLog := openLogger(fileCfg.Log)
	defer closeLog()

	catalog, err := dictionary.New(config.DefaultDictDir())
	if err != nil {
		return err
	}

	settingsFor := practiceSettings(cmd)
	cues := audio.NewCuePlayer(!practiceMute, cueCommands(fileCfg.Audio), os.Stderr, nil, func(err error) {
		logger.Warn("cue failed", "err", err)
	})
	sess, err := session.New(catalog, cues, startupSettings(settingsFor, fileCfg, logger), session.Options{
		DictID:          practiceDict,
		Chapter:         practiceChapter - 1,
		HideWord:        practiceHideWord,
		ReadOnly:        practiceReadOnly,
		PlaceholderFill: practicePlaceholderFill,
	})
	if err != nil {
		if errors.Is(err, session.ErrOutOfRange) {
			return fmt.Errorf("%w (run: qwerty dicts)", err)
		}
		return err
	}

	var pronouncer *audio.Pronouncer
	if practicePronounce {
		pronouncer = audio.NewPronouncer(pronounceTemplate(fileCfg.Audio), nil, func(word string, err error) {
			if err != nil {
				logger.Warn("pronunciation failed", "word", word, "err", err)
			}
		})
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logger.Error("practice log unavailable", "err", err)
		logErrf("practice history disabled: %v\n", err)
		st = nil
	} else {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logger.Error("failed to close db", "err", cerr)
			}
		}()
	}

	m := tui.NewModel(tui.Deps{
		Session:     sess,
		Catalog:     catalog,
		Store:       st,
		Pronouncer:  pronouncer,
		Watcher:     config.NewWatcher(configPath),
		Logger:      logger,
		SettingsFor: settingsFor,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())

	if practiceRemoteURL != "" {
		sub, err := feed.Subscribe(practiceRemoteURL, practiceRemoteSubject, func(ev feed.Event) {
			program.Send(tui.RemoteMsg{Event: ev})
		}, func(err error) {
			logger.Warn("remote event dropped", "err", err)
		})
		if err != nil {
			return fmt.Errorf("failed to start remote feed: %w", err)
		}
		logger.Info("remote feed connected", "url", practiceRemoteURL, "subject", practiceRemoteSubject)
		defer func() {
			if cerr := sub.Close(); cerr != nil {
				logger.Warn("failed to close remote feed", "err", cerr)
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// practiceSettings builds settings from a config file with changed flags
// taking precedence. It is reused for every config reload.
func practiceSettings(cmd *cobra.Command) func(config.FileConfig) model.Settings {
	return func(fileCfg config.FileConfig) model.Settings {
		settings := fileCfg.Settings(config.DefaultSettings())
		if cmd.Flags().Changed("chapter-length") {
			settings.ChapterLength = practiceChapterLength
		}
		if cmd.Flags().Changed("placeholder") {
			settings.Placeholder = practicePlaceholder
		}
		if cmd.Flags().Changed("wrong-delay") {
			settings.WrongDelay = time.Duration(practiceWrongDelayMs) * time.Millisecond
		}
		return settings
	}
}

// startupSettings applies the config file like a reload does: rejected
// values fall back to the defaults instead of aborting. Flags still apply
// unless they are out of range themselves.
func startupSettings(settingsFor func(config.FileConfig) model.Settings, fileCfg config.FileConfig, logger *log.Logger) model.Settings {
	settings := settingsFor(fileCfg)
	err := session.ValidateSettings(settings)
	if err == nil {
		return settings
	}
	logger.Warn("config rejected, using defaults", "err", err)
	logErrf("ignoring practice settings: %v\n", err)
	settings = settingsFor(config.FileConfig{})
	if session.ValidateSettings(settings) != nil {
		return config.DefaultSettings()
	}
	return settings
}

func cueCommands(cfg config.AudioConfig) map[model.Cue]string {
	commands := map[model.Cue]string{}
	if cfg.ClickCmd != nil {
		commands[model.CueClick] = *cfg.ClickCmd
	}
	if cfg.SuccessCmd != nil {
		commands[model.CueSuccess] = *cfg.SuccessCmd
	}
	if cfg.WrongCmd != nil {
		commands[model.CueWrong] = *cfg.WrongCmd
	}
	return commands
}

func pronounceTemplate(cfg config.AudioConfig) string {
	if cfg.PronounceCmd != nil {
		return *cfg.PronounceCmd
	}
	if runtime.GOOS == "darwin" {
		return "say {word}"
	}
	return "espeak {word}"
}

func openLogger(cfg config.LogConfig) (*log.Logger, func()) {
	level := config.DefaultLogLevel
	if cfg.Level != nil {
		level = *cfg.Level
	}
	path := config.DefaultLogPath()
	if cfg.File != nil && *cfg.File != "" {
		path = *cfg.File
	}
	logger, closer, err := logging.OpenFile(path, level)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		return logging.Discard(), func() {}
	}
	return logger, func() {
		_ = closer.Close()
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func writeLine(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format+"\n", args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
