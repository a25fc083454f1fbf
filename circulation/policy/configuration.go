package policy

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
)

var (
	// ErrInvalidHoldPolicy is returned for hold policies other than allow and hide.
	ErrInvalidHoldPolicy = errors.New("invalid hold policy")

	// ErrInvalidExternalTypeRegexp is returned when the external type regular expression does not compile.
	ErrInvalidExternalTypeRegexp = errors.New("invalid external type regular expression")

	// ErrInvalidLendingPolicy is returned when the lending policy JSON is malformed.
	ErrInvalidLendingPolicy = errors.New("invalid lending policy")

	// ErrNegativeFinesThreshold is returned for a fines threshold below zero.
	ErrNegativeFinesThreshold = errors.New("fines threshold must not be negative")
)

// HoldPolicy controls whether patrons can place holds.
type HoldPolicy string

const (
	HoldPolicyAllow HoldPolicy = "allow"
	HoldPolicyHide  HoldPolicy = "hide"
)

// LendingPolicy maps a patron classification key to the audiences that patron may borrow.
type LendingPolicy map[string][]string

// Configuration is the immutable policy snapshot of one library.
type Configuration struct {
	holdPolicy          HoldPolicy
	externalTypeRegexp  *regexp.Regexp
	lendingPolicy       LendingPolicy
	maxOutstandingFines *core.Money
}

// Option configures a Configuration.
type Option func(*Configuration) error

// WithHoldPolicy sets the hold policy; the default is HoldPolicyAllow.
func WithHoldPolicy(holdPolicy HoldPolicy) Option {
	return func(c *Configuration) error {
		switch holdPolicy {
		case HoldPolicyAllow, HoldPolicyHide:
			c.holdPolicy = holdPolicy
			return nil
		case "":
			c.holdPolicy = HoldPolicyAllow
			return nil
		}

		return fmt.Errorf("%w: %q", ErrInvalidHoldPolicy, holdPolicy)
	}
}

// WithExternalTypeRegexp sets the expression that extracts a classification key from a patron's external type.
// An empty pattern disables extraction.
func WithExternalTypeRegexp(pattern string) Option {
	return func(c *Configuration) error {
		if pattern == "" {
			c.externalTypeRegexp = nil
			return nil
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			return errors.Join(ErrInvalidExternalTypeRegexp, err)
		}

		c.externalTypeRegexp = re

		return nil
	}
}

// WithLendingPolicy sets the lending policy. Audiences are normalized.
func WithLendingPolicy(lendingPolicy LendingPolicy) Option {
	return func(c *Configuration) error {
		c.lendingPolicy = make(LendingPolicy, len(lendingPolicy))

		for key, audiences := range lendingPolicy {
			normalized := make([]string, 0, len(audiences))
			for _, audience := range audiences {
				normalized = append(normalized, core.NormalizeAudience(audience))
			}

			c.lendingPolicy[key] = normalized
		}

		return nil
	}
}

// WithMaxOutstandingFines sets the fines threshold. Without it fines never block borrowing.
func WithMaxOutstandingFines(threshold core.Money) Option {
	return func(c *Configuration) error {
		if threshold < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeFinesThreshold, threshold)
		}

		c.maxOutstandingFines = &threshold
		return nil
	}
}

// NewConfiguration builds a Configuration, failing fast on invalid options.
func NewConfiguration(options ...Option) (Configuration, error) {
	c := Configuration{holdPolicy: HoldPolicyAllow, lendingPolicy: LendingPolicy{}}

	for _, option := range options {
		if err := option(&c); err != nil {
			return Configuration{}, err
		}
	}

	return c, nil
}

func (c Configuration) HoldPolicy() HoldPolicy {
	return c.holdPolicy
}

// HoldsHidden reports whether patrons are not allowed to place holds.
func (c Configuration) HoldsHidden() bool {
	return c.holdPolicy == HoldPolicyHide
}

// MaxOutstandingFines returns the fines threshold, if one is configured.
func (c Configuration) MaxOutstandingFines() (core.Money, bool) {
	if c.maxOutstandingFines == nil {
		return 0, false
	}

	return *c.maxOutstandingFines, true
}

// LendingPolicy returns a copy of the lending policy.
func (c Configuration) LendingPolicy() LendingPolicy {
	out := make(LendingPolicy, len(c.lendingPolicy))
	for key, audiences := range c.lendingPolicy {
		out[key] = slices.Clone(audiences)
	}

	return out
}

// ClassificationKey extracts the key the lending policy is looked up with.
// It is the first submatch of the external type expression, else its whole match,
// else the external type itself.
func (c Configuration) ClassificationKey(externalType string) string {
	if c.externalTypeRegexp == nil {
		return externalType
	}

	match := c.externalTypeRegexp.FindStringSubmatch(externalType)
	switch {
	case len(match) > 1 && match[1] != "":
		return match[1]
	case len(match) > 0:
		return match[0]
	}

	return externalType
}

// AllowedAudiences returns the audiences the key may borrow; false means the key is unrestricted.
func (c Configuration) AllowedAudiences(key string) ([]string, bool) {
	audiences, ok := c.lendingPolicy[key]

	return audiences, ok
}

type lendingPolicyEntry struct {
	Audiences []string `json:"audiences"`
}

// ParseLendingPolicy parses the stored JSON form, e.g. {"152": {"audiences": ["Children"]}}.
func ParseLendingPolicy(raw []byte) (LendingPolicy, error) {
	var entries map[string]lendingPolicyEntry
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Join(ErrInvalidLendingPolicy, err)
	}

	lendingPolicy := make(LendingPolicy, len(entries))
	for _, key := range slices.Sorted(maps.Keys(entries)) {
		if entries[key].Audiences == nil {
			return nil, fmt.Errorf("%w: %q has no audiences", ErrInvalidLendingPolicy, key)
		}

		lendingPolicy[key] = entries[key].Audiences
	}

	return lendingPolicy, nil
}
