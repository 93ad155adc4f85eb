package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/verte-zerg/qwerty/internal/chapter"
	"github.com/verte-zerg/qwerty/internal/model"
)

type pickerKind int

const (
	pickDictionary pickerKind = iota + 1
	pickChapter
)

type dictItem struct {
	desc  model.DictionaryDescriptor
	words int
}

func (i dictItem) Title() string {
	return fmt.Sprintf("%s (%s)", i.desc.Name, i.desc.ID)
}

func (i dictItem) Description() string {
	if i.words < 0 {
		return i.desc.Description
	}
	return fmt.Sprintf("%d words · %s", i.words, i.desc.Description)
}

func (i dictItem) FilterValue() string {
	return i.desc.ID + " " + i.desc.Name
}

type chapterItem struct {
	index int
	start int
	end   int
}

func (i chapterItem) Title() string {
	return fmt.Sprintf("Chapter %d", i.index+1)
}

func (i chapterItem) Description() string {
	return fmt.Sprintf("words %d-%d", i.start+1, i.end)
}

func (i chapterItem) FilterValue() string {
	return fmt.Sprintf("%d", i.index+1)
}

func newPicker(title string, items []list.Item, selected, width, height int) list.Model {
	if width <= 0 {
		width = 60
	}
	if height <= 0 {
		height = 20
	}
	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = pickerTitleStyle
	if selected >= 0 && selected < len(items) {
		l.Select(selected)
	}
	return l
}

func (m *Model) dictionaryItems() ([]list.Item, int) {
	descs := m.catalog.List()
	items := make([]list.Item, 0, len(descs))
	selected := 0
	for i, desc := range descs {
		count := -1
		if words, err := m.catalog.Resolve(desc.ID); err == nil {
			count = len(words)
		}
		if desc.ID == m.session.DictID() {
			selected = i
		}
		items = append(items, dictItem{desc: desc, words: count})
	}
	return items, selected
}

func (m *Model) chapterItems() ([]list.Item, error) {
	words, err := m.catalog.Resolve(m.session.DictID())
	if err != nil {
		return nil, err
	}
	length := m.session.Settings().ChapterLength
	count := chapter.Count(len(words), length)
	items := make([]list.Item, 0, count)
	for i := 0; i < count; i++ {
		start, end := chapter.Bounds(len(words), length, i)
		items = append(items, chapterItem{index: i, start: start, end: end})
	}
	return items, nil
}
