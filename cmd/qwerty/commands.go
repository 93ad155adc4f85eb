package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/qwerty/internal/chapter"
	"github.com/verte-zerg/qwerty/internal/config"
	"github.com/verte-zerg/qwerty/internal/dictionary"
	"github.com/verte-zerg/qwerty/internal/model"
	"github.com/verte-zerg/qwerty/internal/stats"
	"github.com/verte-zerg/qwerty/internal/statsui"
	"github.com/verte-zerg/qwerty/internal/store"
)

const (
	defaultCurveWindow = 5
	weakCharCount      = 5
)

var (
	chaptersDict string

	historyDict        string
	historySince       string
	historyLast        int
	historyCurveWindow int
	historyPlain       bool
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newDictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dicts",
		Short: "List available dictionaries",
		Args:  cobra.NoArgs,
		RunE:  runDictsCmd,
	}
}

func runDictsCmd(cmd *cobra.Command, _ []string) error {
	catalog, err := dictionary.New(config.DefaultDictDir())
	if err != nil {
		return err
	}
	length := configuredChapterLength()
	out := cmd.OutOrStdout()
	for _, desc := range catalog.List() {
		words, err := catalog.Resolve(desc.ID)
		if err != nil {
			logErrf("skipping %s: %v\n", desc.ID, err)
			continue
		}
		if err := writeLine(out, "%-12s %-12s %5d words %4d chapters  %s",
			desc.ID, desc.Name, len(words), chapter.Count(len(words), length), desc.Description); err != nil {
			return err
		}
	}
	return nil
}

func newChaptersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chapters",
		Short: "Show the chapters of a dictionary",
		Args:  cobra.NoArgs,
		RunE:  runChaptersCmd,
	}
	cmd.Flags().StringVar(&chaptersDict, "dict", dictionary.DefaultID, "dictionary id")
	return cmd
}

func runChaptersCmd(cmd *cobra.Command, _ []string) error {
	catalog, err := dictionary.New(config.DefaultDictDir())
	if err != nil {
		return err
	}
	words, err := catalog.Resolve(chaptersDict)
	if err != nil {
		return err
	}
	return writeChapters(cmd.OutOrStdout(), words, configuredChapterLength())
}

func writeChapters(w io.Writer, words []model.WordEntry, length int) error {
	for i, part := range chapter.Partition(words, length) {
		start, end := chapter.Bounds(len(words), length, i)
		if err := writeLine(w, "Chapter %3d  words %d-%d  %s … %s",
			i+1, start+1, end, part[0].Headword, part[len(part)-1].Headword); err != nil {
			return err
		}
	}
	return nil
}

// configuredChapterLength reads chapter-length from the config file for the
// listing commands, falling back to the default on any problem.
func configuredChapterLength() int {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		logErrf("ignoring config: %v\n", err)
		return config.DefaultChapterLength
	}
	length := fileCfg.Settings(config.DefaultSettings()).ChapterLength
	if length <= 0 {
		return config.DefaultChapterLength
	}
	return length
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show practice history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyDict, "dict", "", "dictionary filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a text report instead of the browser")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	filter := model.HistoryFilter{
		DictID:      historyDict,
		Since:       sinceTime,
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return writeHistory(cmd.Context(), cmd.OutOrStdout(), st, filter)
	}
	program := tea.NewProgram(statsui.NewModel(st, filter), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func writeHistory(ctx context.Context, w io.Writer, st *store.Store, filter model.HistoryFilter) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, filter)
	if err != nil {
		return err
	}
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := stats.RenderCurve(w, report.Sessions, filter.CurveWindow); err != nil {
		return err
	}
	if err := stats.RenderChapters(w, report.Chapters); err != nil {
		return err
	}
	if err := stats.RenderWeakChars(w, report.CharAggsWindow, weakCharCount); err != nil {
		return err
	}
	return stats.RenderCharTable(w, report.CharAggsWindow)
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# qwerty configuration
# Uncomment a value to enable it. CLI flags override config values.
# Changes under [practice] are picked up while practicing.

[practice]
# dict = %q               # Dictionary id (see: qwerty dicts)
# chapter = 1              # Chapter to start from
# chapter-length = %d      # Words per chapter
# placeholder = %q          # Placeholder for hidden letters
# wrong-delay-ms = %d     # Hold after a wrong character
# hide-word = false
# read-only = false
# placeholder-fill = false

[audio]
# cues = true
# click-cmd = "aplay -q click.wav"
# success-cmd = "aplay -q success.wav"
# wrong-cmd = "aplay -q wrong.wav"
# pronounce = false
# pronounce-cmd = "espeak {word}"

[log]
# level = %q
# file = "%s"

[remote]
# url = "nats://127.0.0.1:4222"
# subject = %q
`,
		dictionary.DefaultID,
		config.DefaultChapterLength,
		config.DefaultPlaceholder,
		config.DefaultWrongDelayMs,
		config.DefaultLogLevel,
		config.DefaultLogPath(),
		config.DefaultRemoteSubject,
	)
}
