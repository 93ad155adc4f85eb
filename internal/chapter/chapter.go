// Package chapter splits word lists into fixed-size chapters.
package chapter

import "github.com/verte-zerg/qwerty/internal/model"

// Count returns the number of chapters for total words, ceil(total/length).
func Count(total, length int) int {
	if total <= 0 || length <= 0 {
		return 0
	}
	return (total + length - 1) / length
}

// Clamp forces index into [0, count). A zero count clamps to 0.
func Clamp(index, count int) int {
	if index < 0 || count <= 0 {
		return 0
	}
	if index >= count {
		return count - 1
	}
	return index
}

// Bounds returns the half-open word range of a chapter after clamping index.
func Bounds(total, length, index int) (start, end int) {
	count := Count(total, length)
	if count == 0 {
		return 0, 0
	}
	index = Clamp(index, count)
	start = index * length
	end = start + length
	if end > total {
		end = total
	}
	return start, end
}

// Words returns the words of one chapter. The last chapter may be shorter.
func Words(words []model.WordEntry, length, index int) []model.WordEntry {
	start, end := Bounds(len(words), length, index)
	return words[start:end]
}

// Partition splits words into all chapters.
func Partition(words []model.WordEntry, length int) [][]model.WordEntry {
	count := Count(len(words), length)
	out := make([][]model.WordEntry, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, Words(words, length, i))
	}
	return out
}
