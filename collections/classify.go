package collections

import (
	"cmp"
	"slices"
)

const (
	LargeCollectionCutoff = 10000
	SmallCollectionCutoff = 500

	defaultLanguage = "eng"
)

// LanguageCount is the number of works a library holds in one language.
type LanguageCount struct {
	Language string `yaml:"language"`
	Count    int    `yaml:"count"`
}

// Histogram lists works per language. Order matters only for ties.
type Histogram []LanguageCount

// Size is the collection bucket of a language.
type Size string

const (
	SizeLarge Size = "large"
	SizeSmall Size = "small"
	SizeTiny  Size = "tiny"
	SizeNone  Size = ""
)

type Classification struct {
	Large []string
	Small []string
	Tiny  []string
}

// SizeOf returns the bucket holding the language, or SizeNone.
func (c Classification) SizeOf(lang string) Size {
	switch {
	case slices.Contains(c.Large, lang):
		return SizeLarge
	case slices.Contains(c.Small, lang):
		return SizeSmall
	case slices.Contains(c.Tiny, lang):
		return SizeTiny
	default:
		return SizeNone
	}
}

// Classify walks the languages by descending count. The most common language is always large,
// every other one is large above LargeCollectionCutoff, small above SmallCollectionCutoff and
// tiny otherwise. Without any holdings the library is assumed to have an English collection.
func Classify(h Histogram) Classification {
	c := Classification{Large: []string{}, Small: []string{}, Tiny: []string{}}

	for i, lc := range byDescendingCount(h) {
		switch {
		case i == 0:
			c.Large = append(c.Large, lc.Language)
		case lc.Count > LargeCollectionCutoff:
			c.Large = append(c.Large, lc.Language)
		case lc.Count > SmallCollectionCutoff:
			c.Small = append(c.Small, lc.Language)
		default:
			c.Tiny = append(c.Tiny, lc.Language)
		}
	}

	if len(c.Large) == 0 {
		c.Large = append(c.Large, defaultLanguage)
	}

	return c
}

// byDescendingCount merges repeated languages and sorts stably by count.
func byDescendingCount(h Histogram) Histogram {
	merged := make(Histogram, 0, len(h))
	index := make(map[string]int, len(h))

	for _, lc := range h {
		if i, ok := index[lc.Language]; ok {
			merged[i].Count += lc.Count
			continue
		}

		index[lc.Language] = len(merged)
		merged = append(merged, lc)
	}

	slices.SortStableFunc(merged, func(a, b LanguageCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	return merged
}
