package nlp

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractOrderingHint(t *testing.T) {
	tests := []struct {
		title string
		index int
		valid bool
		kind  NumberingKind
	}{
		{"Part 1 - Intro", 1, true, NumberingWord},
		{"Episode 12: The Heap", 12, true, NumberingWord},
		{"Lecture 3 Pointers", 3, true, NumberingWord},
		{"Day 10 Review", 10, true, NumberingWord},
		{"#42 Interfaces", 42, true, NumberingHash},
		{"07 Goroutines", 7, true, NumberingArabic},
		{"IV. Advanced Topics", 4, true, NumberingRoman},
		{"Understanding Channels", 0, false, NumberingNone},
		{"Top 10 Mistakes", 0, false, NumberingNone}, // number is neither leading nor cued
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			h := ExtractOrderingHint(tt.title)
			assert.Equal(t, tt.valid, h.Valid)
			if tt.valid {
				assert.Equal(t, tt.index, h.Index)
				assert.Equal(t, tt.kind, h.Kind)
			}
		})
	}
}

func TestNormalizeTitle_StripsNoise(t *testing.T) {
	stems := NormalizeTitle("Part 3 - The Introduction to Goroutines")
	assert.NotContains(t, stems, "part")
	assert.NotContains(t, stems, "the")
	assert.NotContains(t, stems, "to")
	assert.NotContains(t, stems, "3")
	assert.Contains(t, stems, "goroutin")
}

func TestNormalizeTitle_Stemming(t *testing.T) {
	stems := NormalizeTitle("Testing Sorted Structures Quickly")
	assert.Contains(t, stems, "test")
	assert.Contains(t, stems, "sort")
	assert.Contains(t, stems, "structur")
	assert.Contains(t, stems, "quick")
}

func TestNormalizeTitle_UnicodeFolding(t *testing.T) {
	a := NormalizeTitle("Café Configuration")
	b := NormalizeTitle("cafe configuration")
	assert.Equal(t, b, a)
}

func TestNormalizeTitle_Deterministic(t *testing.T) {
	title := "Lecture 5: Advanced Rust Ownership Patterns"
	first := NormalizeTitle(title)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, NormalizeTitle(title))
	}
}

func TestAnalyze_VocabularyInsertionOrder(t *testing.T) {
	features, vocab := Analyze([]string{
		"Rust Ownership Basics",
		"Rust Borrowing Rules",
	})
	require.Len(t, features, 2)

	// First title's stems claim the first ids.
	id, ok := vocab.Lookup("rust")
	require.True(t, ok)
	assert.Equal(t, 0, id)
	assert.Equal(t, "rust", vocab.Term(0))
	assert.True(t, vocab.Size() >= 4)
}

func TestRomanToInt(t *testing.T) {
	cases := map[string]int{"I": 1, "IV": 4, "IX": 9, "XII": 12, "XL": 40}
	for s, want := range cases {
		got, ok := romanToInt(s)
		require.True(t, ok, s)
		assert.Equal(t, want, got, s)
	}
	_, ok := romanToInt("ABC")
	assert.False(t, ok)
}

func seqTitles(n int) []string {
	titles := make([]string, n)
	for i := range titles {
		titles[i] = fmt.Sprintf("Part %d - Topic", i+1)
	}
	return titles
}
