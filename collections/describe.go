package collections

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LanguageName returns the English name of a language code, or the code itself when unknown.
func LanguageName(code string) string {
	base, err := language.ParseBase(code)
	if err != nil {
		return code
	}

	if name := display.English.Languages().Name(base); name != "" {
		return name
	}

	return code
}

// Describe renders the classification with English language names, one line per bucket.
func (c Classification) Describe() string {
	var b strings.Builder

	for _, bucket := range []struct {
		size      Size
		languages []string
	}{
		{SizeLarge, c.Large},
		{SizeSmall, c.Small},
		{SizeTiny, c.Tiny},
	} {
		names := make([]string, 0, len(bucket.languages))
		for _, code := range bucket.languages {
			names = append(names, fmt.Sprintf("%s (%s)", LanguageName(code), code))
		}

		fmt.Fprintf(&b, "%s: %s\n", bucket.size, strings.Join(names, ", "))
	}

	return b.String()
}
