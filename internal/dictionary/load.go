package dictionary

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/qwerty/internal/model"
)

const translationSep = "；"

type rawEntry struct {
	Name    string   `json:"name"`
	Trans   []string `json:"trans"`
	USPhone string   `json:"usphone"`
	UKPhone string   `json:"ukphone"`
}

// ParseEntries decodes a JSON word list and drops unusable entries.
func ParseEntries(r io.Reader, filter FilterFunc) ([]model.WordEntry, error) {
	var raw []rawEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode word list: %w", err)
	}
	if filter == nil {
		filter = KeepHeadword
	}
	words := make([]model.WordEntry, 0, len(raw))
	for _, entry := range raw {
		headword := strings.TrimSpace(entry.Name)
		if !filter(headword) {
			continue
		}
		words = append(words, model.WordEntry{
			Headword:    headword,
			Translation: joinTranslations(entry.Trans),
			USPhone:     strings.TrimSpace(entry.USPhone),
			UKPhone:     strings.TrimSpace(entry.UKPhone),
		})
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}

// LoadFile reads a JSON word list from path.
func LoadFile(path string) ([]model.WordEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ParseEntries(file, KeepHeadword)
}

func joinTranslations(trans []string) string {
	parts := make([]string, 0, len(trans))
	for _, t := range trans {
		t = strings.TrimSpace(t)
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, translationSep)
}
