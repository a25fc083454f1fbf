package core

import (
	"regexp"
	"strings"
)

// Patron as projected from enrollment and fine events.
type Patron struct {
	ID                      PatronIDString
	AuthorizationIdentifier string
	ExternalType            string
	Fines                   Money
}

// DeliveryMechanism is a content type plus DRM scheme a pool can be fulfilled with.
type DeliveryMechanism struct {
	ContentType string
	DRMScheme   string
}

// NoDRM is the DRM scheme of unprotected content.
const NoDRM = "DRM-free"

// NewDeliveryMechanism builds a mechanism; an empty drmScheme means NoDRM.
func NewDeliveryMechanism(contentType, drmScheme string) DeliveryMechanism {
	return DeliveryMechanism{ContentType: contentType, DRMScheme: drmScheme}.Normalized()
}

// Normalized replaces an empty DRM scheme with NoDRM. The zero mechanism stays zero.
func (m DeliveryMechanism) Normalized() DeliveryMechanism {
	if m.IsZero() || m.DRMScheme != "" {
		return m
	}

	m.DRMScheme = NoDRM

	return m
}

// Equal compares mechanisms after normalization.
func (m DeliveryMechanism) Equal(other DeliveryMechanism) bool {
	return m.Normalized() == other.Normalized()
}

// Name renders e.g. "application/epub+zip (DRM-free)".
func (m DeliveryMechanism) Name() string {
	return m.ContentType + " (" + m.Normalized().DRMScheme + ")"
}

// IsZero reports whether no mechanism is set.
func (m DeliveryMechanism) IsZero() bool {
	return m == DeliveryMechanism{}
}

// LicensePool is the vendor's offer of one title. It is referenced, not owned, by circulation.
type LicensePool struct {
	ID                 PoolIDString
	DataSource         string
	Identifier         string
	LicensesAvailable  int
	LicensesOwned      int
	OpenAccess         bool
	Audience           string
	DeliveryMechanisms []DeliveryMechanism
}

// Offers reports whether the pool can be fulfilled with m.
func (p LicensePool) Offers(m DeliveryMechanism) bool {
	for _, offered := range p.DeliveryMechanisms {
		if offered.Equal(m) {
			return true
		}
	}

	return false
}

// Audiences known to lending policies.
const (
	AudienceAdult      = "Adult"
	AudienceYoungAdult = "Young Adult"
	AudienceChildren   = "Children"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeAudience trims and collapses whitespace so " Young  Adult" and "Young Adult" compare equal.
func NormalizeAudience(audience string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(audience), " ")
}
