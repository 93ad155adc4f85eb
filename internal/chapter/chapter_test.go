package chapter

import (
	"fmt"
	"testing"

	"github.com/verte-zerg/qwerty/internal/model"
)

func makeWords(n int) []model.WordEntry {
	words := make([]model.WordEntry, n)
	for i := range words {
		words[i] = model.WordEntry{Headword: fmt.Sprintf("w%d", i)}
	}
	return words
}

func TestCount(t *testing.T) {
	cases := []struct {
		total, length, want int
	}{
		{50, 20, 3},
		{40, 20, 2},
		{1, 20, 1},
		{0, 20, 0},
		{10, 0, 0},
	}
	for _, tc := range cases {
		if got := Count(tc.total, tc.length); got != tc.want {
			t.Fatalf("Count(%d, %d) = %d, want %d", tc.total, tc.length, got, tc.want)
		}
	}
}

func TestPartitionLastChapterShorter(t *testing.T) {
	chapters := Partition(makeWords(50), 20)
	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(chapters))
	}
	if len(chapters[0]) != 20 || len(chapters[1]) != 20 || len(chapters[2]) != 10 {
		t.Fatalf("unexpected chapter sizes: %d %d %d", len(chapters[0]), len(chapters[1]), len(chapters[2]))
	}
	if chapters[2][9].Headword != "w49" {
		t.Fatalf("expected last word w49, got %s", chapters[2][9].Headword)
	}
}

func TestWordsClampsIndex(t *testing.T) {
	words := makeWords(50)
	got := Words(words, 20, 7)
	if len(got) != 10 || got[0].Headword != "w40" {
		t.Fatalf("expected clamp to last chapter, got %d words starting %s", len(got), got[0].Headword)
	}
	got = Words(words, 20, -3)
	if got[0].Headword != "w0" {
		t.Fatalf("expected clamp to first chapter, got %s", got[0].Headword)
	}
	if len(Words(nil, 20, 0)) != 0 {
		t.Fatalf("expected empty chapter for empty list")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 3) != 2 || Clamp(-1, 3) != 0 || Clamp(1, 3) != 1 || Clamp(4, 0) != 0 {
		t.Fatalf("unexpected clamp results")
	}
}
