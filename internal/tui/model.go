// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/qwerty/internal/audio"
	"github.com/verte-zerg/qwerty/internal/config"
	"github.com/verte-zerg/qwerty/internal/dictionary"
	"github.com/verte-zerg/qwerty/internal/display"
	"github.com/verte-zerg/qwerty/internal/feed"
	"github.com/verte-zerg/qwerty/internal/logging"
	"github.com/verte-zerg/qwerty/internal/model"
	"github.com/verte-zerg/qwerty/internal/session"
	statsPkg "github.com/verte-zerg/qwerty/internal/stats"
	"github.com/verte-zerg/qwerty/internal/store"
)

// ConfigPollInterval is how often the config file is checked for changes.
const ConfigPollInterval = 2 * time.Second

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cursorStyle      = pendingStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pickerTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#C89A3A")).Padding(0, 1)
)

// RemoteMsg carries an event from the remote feed into the update loop.
type RemoteMsg struct {
	Event feed.Event
}

type cooldownMsg struct {
	token uint64
}

type configTickMsg struct{}

// Deps are the collaborators of the practice UI. Store, Pronouncer and
// Watcher are optional.
type Deps struct {
	Session    *session.Session
	Catalog    *dictionary.Catalog
	Store      *store.Store
	Pronouncer *audio.Pronouncer
	Watcher    *config.Watcher
	Logger     *log.Logger
	// SettingsFor turns a reloaded config file into a settings snapshot,
	// with command line overrides applied.
	SettingsFor func(config.FileConfig) model.Settings
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	session     *session.Session
	catalog     *dictionary.Catalog
	store       *store.Store
	pronouncer  *audio.Pronouncer
	watcher     *config.Watcher
	logger      *log.Logger
	settingsFor func(config.FileConfig) model.Settings

	keys keyMap
	help help.Model

	picker     list.Model
	pickerKind pickerKind

	width  int
	height int
	status string

	lastSpoken string

	lastWPM float64
	lastAcc float64
	hasLast bool

	allWPM       float64
	allAcc       float64
	allCorrect   int
	allIncorrect int
	allDuration  int64
}

// NewModel constructs a practice UI model.
func NewModel(deps Deps) *Model {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	m := &Model{
		session:     deps.Session,
		catalog:     deps.Catalog,
		store:       deps.Store,
		pronouncer:  deps.Pronouncer,
		watcher:     deps.Watcher,
		logger:      logger,
		settingsFor: deps.SettingsFor,
		keys:        defaultKeyMap(),
		help:        help.New(),
	}
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.watcher == nil || m.settingsFor == nil {
		return nil
	}
	return configTick()
}

func configTick() tea.Cmd {
	return tea.Tick(ConfigPollInterval, func(time.Time) tea.Msg {
		return configTickMsg{}
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.pickerKind != 0 {
			m.picker.SetSize(msg.Width, msg.Height-1)
		}
		return m, nil
	case cooldownMsg:
		m.session.ExpireCooldown(msg.token)
		return m, nil
	case configTickMsg:
		m.reloadConfig()
		return m, configTick()
	case RemoteMsg:
		return m, m.handleRemote(msg.Event)
	case tea.KeyMsg:
		if m.pickerKind != 0 {
			return m.updatePicker(msg)
		}
		return m, m.handleKey(msg)
	}
	if m.pickerKind != 0 {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.recordRun()
		return tea.Quit
	case key.Matches(msg, m.keys.Start):
		m.toggleStart()
		return nil
	case key.Matches(msg, m.keys.Dictionary):
		items, selected := m.dictionaryItems()
		m.openPicker(pickDictionary, "Dictionary", items, selected)
		return nil
	case key.Matches(msg, m.keys.Chapter):
		items, err := m.chapterItems()
		if err != nil {
			m.fail("failed to list chapters", err)
			return nil
		}
		m.openPicker(pickChapter, "Chapter", items, m.session.Chapter())
		return nil
	case key.Matches(msg, m.keys.Visibility):
		m.session.ToggleWordVisibility()
		return nil
	case key.Matches(msg, m.keys.Fill):
		m.session.TogglePlaceholder()
		return nil
	case key.Matches(msg, m.keys.ReadOnly):
		m.session.ToggleReadOnlyMode()
		return nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}
	if m.session.ReadOnly() {
		switch {
		case key.Matches(msg, m.keys.Next):
			return m.apply(m.session.HandleTrigger(session.TriggerLine))
		case key.Matches(msg, m.keys.Reveal):
			return m.apply(m.session.HandleTrigger(session.TriggerSpace))
		}
		return nil
	}
	switch msg.Type {
	case tea.KeySpace:
		return m.apply(m.session.ReceiveCharacter(' '))
	case tea.KeyRunes:
		// Pastes arrive as one multi-rune event and are dropped.
		if len(msg.Runes) != 1 || msg.Paste {
			return nil
		}
		return m.apply(m.session.ReceiveCharacter(msg.Runes[0]))
	}
	return nil
}

func (m *Model) handleRemote(ev feed.Event) tea.Cmd {
	switch ev.Kind {
	case feed.KindChar:
		return m.apply(m.session.ReceiveCharacter(ev.Char))
	case feed.KindLine:
		return m.apply(m.session.HandleTrigger(session.TriggerLine))
	case feed.KindSpace:
		return m.apply(m.session.HandleTrigger(session.TriggerSpace))
	}
	return nil
}

// apply turns a session outcome into follow-up commands.
func (m *Model) apply(out session.Outcome) tea.Cmd {
	if !out.Handled {
		if out.Err != nil {
			m.logger.Debug("input ignored", "reason", out.Err)
		}
		return nil
	}
	m.status = ""
	if out.Advanced {
		m.pronounce()
	}
	if out.Cooldown == nil {
		return nil
	}
	token := out.Cooldown.Token
	return tea.Tick(out.Cooldown.Delay, func(time.Time) tea.Msg {
		return cooldownMsg{token: token}
	})
}

func (m *Model) toggleStart() {
	if m.session.Started() {
		m.recordRun()
		m.session.Stop()
		m.lastSpoken = ""
		m.logger.Info("session stopped", "dict", m.session.DictID(), "chapter", m.session.Chapter())
		return
	}
	if err := m.session.Start(); err != nil {
		m.fail("failed to start", err)
		return
	}
	m.status = ""
	m.logger.Info("session started", "dict", m.session.DictID(), "chapter", m.session.Chapter())
	m.pronounce()
}

func (m *Model) openPicker(kind pickerKind, title string, items []list.Item, selected int) {
	m.picker = newPicker(title, items, selected, m.width, m.height-1)
	m.pickerKind = kind
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.recordRun()
		return m, tea.Quit
	}
	if m.picker.FilterState() != list.Filtering {
		switch msg.Type {
		case tea.KeyEsc:
			m.pickerKind = 0
			return m, nil
		case tea.KeyEnter:
			m.choose(m.picker.SelectedItem())
			m.pickerKind = 0
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) choose(item list.Item) {
	switch it := item.(type) {
	case dictItem:
		// The run so far is logged under the dictionary it was typed in.
		stats, chars := m.session.Tally()
		started := m.session.Started()
		if err := m.session.ChangeDictionary(it.desc.ID); err != nil {
			m.fail("failed to change dictionary", err)
			return
		}
		if started {
			m.saveRun(stats, chars)
		}
		m.logger.Info("dictionary changed", "dict", it.desc.ID)
	case chapterItem:
		got := m.session.ChangeChapter(it.index)
		m.logger.Info("chapter changed", "chapter", got)
	default:
		return
	}
	m.status = ""
	m.pronounce()
}

func (m *Model) reloadConfig() {
	cfg, changed, err := m.watcher.Poll()
	if !changed {
		return
	}
	if err != nil {
		m.fail("config reload failed", err)
		return
	}
	if err := m.session.ApplySettings(m.settingsFor(cfg)); err != nil {
		if errors.Is(err, session.ErrConfigRejected) {
			m.logger.Warn("config rejected", "path", m.watcher.Path(), "err", err)
			m.status = err.Error()
			return
		}
		m.fail("config reload failed", err)
		return
	}
	m.logger.Info("config reloaded", "path", m.watcher.Path())
	m.pronounce()
}

// pronounce asks for the current word once per word change. Requests made
// while a pronunciation is playing are dropped by the player.
func (m *Model) pronounce() {
	word, ok := m.session.CurrentWord()
	if !ok {
		return
	}
	snap := m.session.Snapshot()
	id := fmt.Sprintf("%s/%d/%d/%s", snap.DictID, snap.Chapter, snap.WordIndex, word.Headword)
	if id == m.lastSpoken {
		return
	}
	m.lastSpoken = id
	m.pronouncer.Request(word.Headword)
}

func (m *Model) fail(msg string, err error) {
	m.logger.Error(msg, "err", err)
	m.status = fmt.Sprintf("%s: %v", msg, err)
}

// recordRun stores the finished run if anything was typed.
func (m *Model) recordRun() {
	if !m.session.Started() {
		return
	}
	stats, chars := m.session.Tally()
	m.saveRun(stats, chars)
}

func (m *Model) saveRun(stats model.PracticeStats, chars []model.CharStats) {
	if m.store == nil {
		return
	}
	if stats.Correct+stats.Incorrect == 0 && stats.WordsCompleted == 0 {
		return
	}
	if _, err := m.store.InsertSession(context.Background(), stats, chars); err != nil {
		m.fail("failed to save practice run", err)
		return
	}
	last := statsPkg.Measure(stats.Correct, stats.Incorrect, stats.WordsCompleted, stats.DurationMs)
	m.lastWPM = last.WPM
	m.lastAcc = last.Accuracy
	m.hasLast = true
	m.allCorrect += stats.Correct
	m.allIncorrect += stats.Incorrect
	m.allDuration += stats.DurationMs
	m.recomputeAllTime()
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	sessions, err := m.store.ListSessions(context.Background(), model.HistoryFilter{})
	if err != nil {
		m.logger.Warn("failed to load practice history", "err", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := statsPkg.RunMetrics(sessions[len(sessions)-1])
	m.lastWPM, m.lastAcc = last.WPM, last.Accuracy
	m.hasLast = true
	for _, s := range sessions {
		m.allCorrect += s.Correct
		m.allIncorrect += s.Incorrect
		m.allDuration += s.DurationMs
	}
	m.recomputeAllTime()
}

func (m *Model) recomputeAllTime() {
	all := statsPkg.Measure(m.allCorrect, m.allIncorrect, 0, m.allDuration)
	m.allWPM, m.allAcc = all.WPM, all.Accuracy
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.pickerKind != 0 {
		return m.picker.View()
	}
	content := m.renderSlots()
	footer := m.renderFooter()
	helpView := m.help.View(m.keys)
	if m.width == 0 || m.height == 0 {
		return strings.Join([]string{content, footer, helpView}, "\n")
	}
	bottom := lipgloss.JoinVertical(lipgloss.Center, footer, helpView)
	bodyHeight := m.height - lipgloss.Height(bottom)
	if bodyHeight < 1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, bottom)
}

func (m *Model) renderSlots() string {
	snap := m.session.Snapshot()
	if !snap.HasWord {
		if snap.Phase == session.Idle {
			return pendingStyle.Render(fmt.Sprintf("%s · press ctrl+s to start", snap.DictName))
		}
		return pendingStyle.Render("no words")
	}
	f := display.Format(snap)
	width := int(float64(m.width) * 0.70)
	if m.width == 0 {
		width = 0
	} else if width < 1 {
		width = 1
	}
	lines := []string{
		wrapStyledRunes(buildPlainRunes(f.Word, currentWordStyle), width),
		wrapStyledRunes(buildInputRunes(f, snap.Typed), width),
	}
	if f.Translation != "" {
		lines = append(lines, wrapStyledRunes(buildPlainRunes(f.Translation, pendingStyle), width))
	} else {
		lines = append(lines, "")
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderFooter() string {
	snap := m.session.Snapshot()
	segments := []string{snap.DictName}
	if snap.ChapterCount > 0 {
		segments = append(segments, fmt.Sprintf("Chapter %d/%d", snap.Chapter+1, snap.ChapterCount))
	}
	if snap.HasWord {
		segments = append(segments, fmt.Sprintf("Word %d/%d", snap.WordIndex+1, snap.ChapterSize))
	}
	if snap.ReadOnly {
		segments = append(segments, "read-only")
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc*100))
	}
	if m.allDuration > 0 {
		segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc*100))
	}
	footer := footerStyle.Render(display.Fit(strings.Join(segments, "  "), m.width))
	if m.status != "" {
		footer += "\n" + statusStyle.Render(display.Fit(m.status, m.width))
	}
	return footer
}
