package tui

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/qwerty/internal/audio"
	"github.com/verte-zerg/qwerty/internal/config"
	"github.com/verte-zerg/qwerty/internal/dictionary"
	"github.com/verte-zerg/qwerty/internal/feed"
	"github.com/verte-zerg/qwerty/internal/model"
	"github.com/verte-zerg/qwerty/internal/session"
	"github.com/verte-zerg/qwerty/internal/store"
)

func newTestModel(t *testing.T, readOnly bool, st *store.Store) *Model {
	t.Helper()
	catalog, err := dictionary.New("")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	sess, err := session.New(catalog, nil, config.DefaultSettings(), session.Options{
		DictID:   "cet4",
		ReadOnly: readOnly,
	})
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return NewModel(Deps{Session: sess, Catalog: catalog, Store: st})
}

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartAndType(t *testing.T) {
	m := newTestModel(t, false, nil)
	m.Update(keyMsg(tea.KeyCtrlS))
	if !m.session.Started() {
		t.Fatalf("expected session started: %s", m.status)
	}
	for _, r := range "cancel" {
		m.Update(typed(string(r)))
	}
	word, _ := m.session.CurrentWord()
	if word.Headword != "explosive" {
		t.Fatalf("expected second word, got %q", word.Headword)
	}
}

func TestWrongInputSchedulesCooldown(t *testing.T) {
	m := newTestModel(t, false, nil)
	m.Update(keyMsg(tea.KeyCtrlS))
	_, cmd := m.Update(typed("x"))
	if cmd == nil {
		t.Fatalf("expected cooldown command")
	}
	if m.session.Phase() != session.WrongHold {
		t.Fatalf("expected wrong hold, got %s", m.session.Phase())
	}
	snap := m.session.Snapshot()
	if !strings.Contains(m.View(), "✗") || !snap.Wrong() {
		t.Fatalf("expected wrong marker in view")
	}
	// Input during the hold is dropped.
	m.Update(typed("c"))
	if m.session.Snapshot().Typed != 0 {
		t.Fatalf("expected input discarded during cooldown")
	}
}

func TestStaleCooldownIgnored(t *testing.T) {
	m := newTestModel(t, false, nil)
	m.Update(keyMsg(tea.KeyCtrlS))
	m.Update(typed("x"))
	m.Update(cooldownMsg{token: 0})
	if m.session.Phase() != session.WrongHold {
		t.Fatalf("expected stale token to be ignored")
	}
}

func TestPasteDropped(t *testing.T) {
	m := newTestModel(t, false, nil)
	m.Update(keyMsg(tea.KeyCtrlS))
	m.Update(typed("ca"))
	if m.session.Snapshot().Typed != 0 {
		t.Fatalf("expected multi-rune event to be dropped")
	}
}

func TestReadOnlyKeys(t *testing.T) {
	m := newTestModel(t, true, nil)
	m.Update(keyMsg(tea.KeyCtrlS))
	if strings.Contains(m.View(), "取消") {
		t.Fatalf("expected translation hidden before reveal")
	}
	m.Update(keyMsg(tea.KeySpace))
	if !strings.Contains(m.View(), "取消") {
		t.Fatalf("expected translation after space trigger")
	}
	m.Update(typed("c"))
	if m.session.Snapshot().Typed != 0 {
		t.Fatalf("expected typing ignored in read-only mode")
	}
	m.Update(keyMsg(tea.KeyEnter))
	word, _ := m.session.CurrentWord()
	if word.Headword != "explosive" {
		t.Fatalf("expected line trigger to advance, got %q", word.Headword)
	}
}

func TestRemoteEvents(t *testing.T) {
	m := newTestModel(t, false, nil)
	m.Update(keyMsg(tea.KeyCtrlS))
	m.Update(RemoteMsg{Event: feed.Event{Kind: feed.KindChar, Char: 'c'}})
	if m.session.Snapshot().Typed != 1 {
		t.Fatalf("expected remote char to be typed")
	}
	m.Update(RemoteMsg{Event: feed.Event{Kind: feed.KindLine}})
	if m.session.Snapshot().WordIndex != 0 {
		t.Fatalf("expected line trigger ignored outside read-only mode")
	}
}

func TestDictionaryPicker(t *testing.T) {
	m := newTestModel(t, false, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(keyMsg(tea.KeyCtrlD))
	if m.pickerKind != pickDictionary {
		t.Fatalf("expected dictionary picker")
	}
	m.Update(keyMsg(tea.KeyDown))
	m.Update(keyMsg(tea.KeyEnter))
	if m.pickerKind != 0 {
		t.Fatalf("expected picker closed")
	}
	if m.session.DictID() != "code" {
		t.Fatalf("expected code dictionary, got %s", m.session.DictID())
	}
}

func TestChapterPicker(t *testing.T) {
	m := newTestModel(t, false, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(keyMsg(tea.KeyCtrlG))
	if m.pickerKind != pickChapter {
		t.Fatalf("expected chapter picker: %s", m.status)
	}
	m.Update(keyMsg(tea.KeyDown))
	m.Update(keyMsg(tea.KeyEnter))
	if m.session.Chapter() != 1 {
		t.Fatalf("expected chapter 1, got %d", m.session.Chapter())
	}
}

func TestRecordRunOnStop(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "qwerty.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	m := newTestModel(t, false, st)
	m.Update(keyMsg(tea.KeyCtrlS))
	m.Update(typed("c"))
	m.Update(keyMsg(tea.KeyCtrlS))
	if m.session.Started() {
		t.Fatalf("expected session stopped")
	}
	if !m.hasLast {
		t.Fatalf("expected run recorded: %s", m.status)
	}

	again := newTestModel(t, false, st)
	if !again.hasLast {
		t.Fatalf("expected footer stats loaded from store")
	}
}

func TestConfigReloadRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	m := newTestModel(t, false, nil)
	m.watcher = config.NewWatcher(path)
	m.settingsFor = func(cfg config.FileConfig) model.Settings {
		return cfg.Settings(config.DefaultSettings())
	}
	writeConfig(t, path, "[practice]\nchapter-length = 0\n")
	m.Update(configTickMsg{})
	if m.session.Settings().ChapterLength != config.DefaultChapterLength {
		t.Fatalf("expected rejected settings to keep previous snapshot")
	}
	if m.status == "" {
		t.Fatalf("expected status message for rejected config")
	}

	writeConfig(t, path, "[practice]\nchapter-length = 10\n")
	m.Update(configTickMsg{})
	if m.session.Settings().ChapterLength != 10 {
		t.Fatalf("expected reloaded chapter length, got %d", m.session.Settings().ChapterLength)
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(t, true, nil)
	m.Update(keyMsg(tea.KeyCtrlS))
	m.hasLast = true
	m.lastWPM = 72.4
	m.lastAcc = 0.978
	m.allWPM = 68.1
	m.allAcc = 0.969
	m.allDuration = 1000
	out := m.renderFooter()
	for _, want := range []string{"CET-4", "Chapter 1/3", "Word 1/20", "read-only", "Last 72.4 WPM", "97.8%", "All-time 68.1 WPM", "96.9%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}

func TestQuestionMarkIsTyped(t *testing.T) {
	dir := t.TempDir()
	raw, err := json.Marshal([]map[string]any{
		{"name": "why?", "trans": []string{"为什么"}},
		{"name": "ok", "trans": []string{"好"}},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "asks.json"), raw, 0o644); err != nil {
		t.Fatalf("write dict: %v", err)
	}
	catalog, err := dictionary.New(dir)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	sess, err := session.New(catalog, nil, config.DefaultSettings(), session.Options{DictID: "asks"})
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	m := NewModel(Deps{Session: sess, Catalog: catalog})
	m.Update(keyMsg(tea.KeyCtrlS))
	for _, r := range "why?" {
		m.Update(typed(string(r)))
	}
	if m.help.ShowAll {
		t.Fatalf("expected ? to be typed, not to toggle help")
	}
	word, _ := m.session.CurrentWord()
	if word.Headword != "ok" {
		t.Fatalf("expected why? completed, got %q", word.Headword)
	}

	m.Update(keyMsg(tea.KeyF1))
	if !m.help.ShowAll {
		t.Fatalf("expected f1 to toggle help")
	}
}

func TestDictionaryChangeRecordsRun(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "qwerty.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	m := newTestModel(t, false, st)
	m.Update(keyMsg(tea.KeyCtrlS))
	m.Update(typed("c"))
	m.choose(dictItem{desc: model.DictionaryDescriptor{ID: "code"}})
	if m.session.DictID() != "code" {
		t.Fatalf("expected code dictionary, got %s: %s", m.session.DictID(), m.status)
	}
	m.Update(typed("x"))
	m.recordRun()

	cet4, err := st.ListSessions(context.Background(), model.HistoryFilter{DictID: "cet4"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	code, err := st.ListSessions(context.Background(), model.HistoryFilter{DictID: "code"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cet4) != 1 || cet4[0].Correct != 1 || cet4[0].Incorrect != 0 {
		t.Fatalf("expected one cet4 run with one correct char, got %+v", cet4)
	}
	if len(code) != 1 || code[0].Correct != 0 || code[0].Incorrect != 1 {
		t.Fatalf("expected one code run with one wrong char, got %+v", code)
	}
}

func TestPronounceOncePerWord(t *testing.T) {
	spoken := make(chan string, 8)
	finished := make(chan struct{}, 8)
	run := func(_ context.Context, _ string, args ...string) error {
		spoken <- args[len(args)-1]
		return nil
	}
	m := newTestModel(t, false, nil)
	m.pronouncer = audio.NewPronouncer("say {word}", run, func(string, error) {
		finished <- struct{}{}
	})
	next := func() string {
		t.Helper()
		select {
		case word := <-spoken:
			<-finished
			return word
		case <-time.After(2 * time.Second):
			t.Fatalf("expected a pronunciation")
		}
		return ""
	}

	m.Update(keyMsg(tea.KeyCtrlS))
	if got := next(); got != "cancel" {
		t.Fatalf("expected cancel, got %q", got)
	}
	m.Update(keyMsg(tea.KeyCtrlV))
	m.pronounce()
	for _, r := range "canc" {
		m.Update(typed(string(r)))
	}
	select {
	case word := <-spoken:
		t.Fatalf("unexpected repeat pronunciation of %q", word)
	default:
	}

	for _, r := range "el" {
		m.Update(typed(string(r)))
	}
	if got := next(); got != "explosive" {
		t.Fatalf("expected explosive, got %q", got)
	}

	m.Update(keyMsg(tea.KeyCtrlS))
	m.Update(keyMsg(tea.KeyCtrlS))
	if got := next(); got != "cancel" {
		t.Fatalf("expected restart to pronounce the first word again, got %q", got)
	}
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	writes++
	stamp := time.Now().Add(time.Duration(writes) * time.Minute)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
}

var writes int
