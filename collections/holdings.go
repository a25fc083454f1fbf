package collections

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownLibrary = errors.New("no holdings for library")
	ErrNegativeCount  = errors.New("language count must not be negative")
)

// HoldingsSource estimates how many works a library holds per language.
type HoldingsSource interface {
	HoldingsByLanguage(ctx context.Context, library string) (Histogram, error)
}

// StaticHoldings serves histograms from memory, keyed by library.
type StaticHoldings map[string]Histogram

func (s StaticHoldings) HoldingsByLanguage(ctx context.Context, library string) (Histogram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h, ok := s[library]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLibrary, library)
	}

	return h, nil
}

type holdingsFile struct {
	Libraries map[string]Histogram `yaml:"libraries"`
}

// ParseHoldings reads a YAML document of the form
//
//	libraries:
//	  main:
//	    - language: eng
//	      count: 20000
func ParseHoldings(data []byte) (StaticHoldings, error) {
	var file holdingsFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse holdings: %w", err)
	}

	for library, h := range file.Libraries {
		for _, lc := range h {
			if lc.Count < 0 {
				return nil, fmt.Errorf("%w: %s/%s", ErrNegativeCount, library, lc.Language)
			}
		}
	}

	return file.Libraries, nil
}

// LoadHoldingsFile reads a holdings YAML file, see ParseHoldings.
func LoadHoldingsFile(path string) (StaticHoldings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings file: %w", err)
	}

	return ParseHoldings(data)
}
