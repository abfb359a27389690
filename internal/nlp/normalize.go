// Package nlp holds the pure text analysis pipeline: title normalization,
// TF-IDF feature extraction, and content-type classification. Everything in
// this package is deterministic and free of I/O.
package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NumberingKind tags where an ordering cue was found in a title.
type NumberingKind string

const (
	NumberingNone   NumberingKind = "none"
	NumberingArabic NumberingKind = "arabic"
	NumberingRoman  NumberingKind = "roman"
	NumberingHash   NumberingKind = "hash"
	NumberingWord   NumberingKind = "word" // Part N, Episode N, Lecture N, ...
)

// OrderingHint is the numbering cue extracted from a title before stopword
// removal. Valid is false when no cue was found.
type OrderingHint struct {
	Index int
	Valid bool
	Kind  NumberingKind
}

// TitleFeatures is the per-title output of normalization.
type TitleFeatures struct {
	Stems []string
	Hint  OrderingHint
}

// Vocabulary maps stems to ids in insertion order.
type Vocabulary struct {
	index map[string]int
	terms []string
}

func NewVocabulary() *Vocabulary {
	return &Vocabulary{index: make(map[string]int)}
}

// ID returns the id for a term, adding it on first sight.
func (v *Vocabulary) ID(term string) int {
	if id, ok := v.index[term]; ok {
		return id
	}
	id := len(v.terms)
	v.index[term] = id
	v.terms = append(v.terms, term)
	return id
}

// Lookup returns the id for a term without inserting.
func (v *Vocabulary) Lookup(term string) (int, bool) {
	id, ok := v.index[term]
	return id, ok
}

// Term returns the term for an id.
func (v *Vocabulary) Term(id int) string { return v.terms[id] }

// Size returns the number of distinct terms.
func (v *Vocabulary) Size() int { return len(v.terms) }

var (
	wordNumberPattern = regexp.MustCompile(`(?i)\b(part|episode|ep|lecture|lesson|day|session|chapter|module)\s*#?\s*(\d{1,4})\b`)
	hashNumberPattern = regexp.MustCompile(`#(\d{1,4})\b`)
	leadingNumber     = regexp.MustCompile(`^\s*(\d{1,4})\b`)
	leadingRoman      = regexp.MustCompile(`^\s*([IVXLCDM]{1,7})\b[.:)\s]`)
)

// ExtractOrderingHint finds the strongest numbering cue in a title. Word
// patterns ("Part 3") win over hash ("#3"), which wins over a bare leading
// number, which wins over a leading roman numeral.
func ExtractOrderingHint(title string) OrderingHint {
	if m := wordNumberPattern.FindStringSubmatch(title); m != nil {
		if n, err := strconv.Atoi(m[2]); err == nil {
			return OrderingHint{Index: n, Valid: true, Kind: NumberingWord}
		}
	}
	if m := hashNumberPattern.FindStringSubmatch(title); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return OrderingHint{Index: n, Valid: true, Kind: NumberingHash}
		}
	}
	if m := leadingNumber.FindStringSubmatch(title); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return OrderingHint{Index: n, Valid: true, Kind: NumberingArabic}
		}
	}
	if m := leadingRoman.FindStringSubmatch(title); m != nil {
		if n, ok := romanToInt(m[1]); ok {
			return OrderingHint{Index: n, Valid: true, Kind: NumberingRoman}
		}
	}
	return OrderingHint{Kind: NumberingNone}
}

var romanValues = map[byte]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000}

func romanToInt(s string) (int, bool) {
	total := 0
	for i := 0; i < len(s); i++ {
		v, ok := romanValues[s[i]]
		if !ok {
			return 0, false
		}
		if i+1 < len(s) && romanValues[s[i+1]] > v {
			total -= v
		} else {
			total += v
		}
	}
	if total <= 0 || total > 3999 {
		return 0, false
	}
	return total, true
}

// fold lowercases, applies compatibility normalization, and strips
// combining marks.
func fold(s string) string {
	decomposed := norm.NFKD.String(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// tokenize splits folded text on non-alphanumeric boundaries.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isNumeric(tok string) bool {
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(tok) > 0
}

var suffixes = []string{"ment", "tion", "ing", "es", "ed", "ly", "s"}

// stem strips one common English suffix, keeping at least three characters
// of root.
func stem(tok string) string {
	for _, suf := range suffixes {
		if strings.HasSuffix(tok, suf) && len(tok)-len(suf) >= 3 {
			return tok[:len(tok)-len(suf)]
		}
	}
	return tok
}

// NormalizeTitle produces the bag of stems for one title: fold, tokenize,
// drop stopwords and stray numerics, stem, drop short tokens.
func NormalizeTitle(title string) []string {
	tokens := tokenize(fold(title))
	stems := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if isNumeric(tok) {
			// Numerics survive only next to a non-numeric token.
			prevNumeric := i == 0 || isNumeric(tokens[i-1])
			nextNumeric := i == len(tokens)-1 || isNumeric(tokens[i+1])
			if prevNumeric && nextNumeric {
				continue
			}
		}
		if len(tok) < 2 {
			continue
		}
		if stopwords[tok] {
			continue
		}
		s := stem(tok)
		if len(s) < 2 {
			continue
		}
		stems = append(stems, s)
	}
	return stems
}

// Analyze runs normalization over all titles, building the shared
// vocabulary in insertion order. Ordering hints are extracted from the raw
// titles before any token filtering.
func Analyze(titles []string) ([]TitleFeatures, *Vocabulary) {
	features := make([]TitleFeatures, len(titles))
	vocab := NewVocabulary()
	for i, title := range titles {
		features[i].Hint = ExtractOrderingHint(title)
		features[i].Stems = NormalizeTitle(title)
		for _, s := range features[i].Stems {
			vocab.ID(s)
		}
	}
	return features, vocab
}
