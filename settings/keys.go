package settings

// Sitewide keys.
const (
	KeyBaseURL                  = "base_url"
	KeySecretKey                = "secret_key"
	KeyBearerTokenSigningSecret = "bearer_token_signing_secret"
	KeyPatronWebClientURL       = "Patron Web Client"
	KeyGroupedMaxAge            = "default_grouped_feed_max_age"
	KeyNongroupedMaxAge         = "default_nongrouped_feed_max_age"
	KeyStaticFileCacheTime      = "static_file_cache_time"
	KeyHoldPolicy               = "hold_policy"
	KeyLendingPolicy            = "lending_policy"
	KeyExternalTypeRegexp       = "external_type_regular_expression"
)

// Per-library keys.
const (
	KeyMaxOutstandingFines = "max_outstanding_fines"
	KeyLargeCollections    = "large_collections"
	KeySmallCollections    = "small_collections"
	KeyTinyCollections     = "tiny_collections"
)

type valueFormat int

const (
	formatText valueFormat = iota
	formatURL
	formatNumber
	formatPositiveNumber
	formatJSON
)

// Definition describes a sitewide setting an administrator may edit.
type Definition struct {
	Key    string
	Label  string
	format valueFormat
}

var sitewideDefinitions = []Definition{
	{Key: KeyBaseURL, Label: "Base URL of the application", format: formatURL},
	{Key: KeySecretKey, Label: "Internal secret key for admin interface cookies", format: formatText},
	{Key: KeyBearerTokenSigningSecret, Label: "Internal signing secret for OAuth bearer tokens", format: formatText},
	{Key: KeyPatronWebClientURL, Label: "URL of the web catalog for patrons", format: formatURL},
	{Key: KeyGroupedMaxAge, Label: "Cache time for grouped OPDS feeds", format: formatNumber},
	{Key: KeyNongroupedMaxAge, Label: "Cache time for paginated OPDS feeds", format: formatNumber},
	{Key: KeyStaticFileCacheTime, Label: "Cache time for static images and JS and CSS files (in seconds)", format: formatPositiveNumber},
	{Key: KeyHoldPolicy, Label: "Holds prohibited or allowed (hide, allow)", format: formatText},
	{Key: KeyLendingPolicy, Label: "Audiences each patron classification may borrow", format: formatJSON},
	{Key: KeyExternalTypeRegexp, Label: "Regular expression extracting the classification key from a patron's external type", format: formatText},
}

// SitewideDefinitions lists the known sitewide settings.
func SitewideDefinitions() []Definition {
	return append([]Definition(nil), sitewideDefinitions...)
}

func definitionOf(key string) (Definition, bool) {
	for _, d := range sitewideDefinitions {
		if d.Key == key {
			return d, true
		}
	}

	return Definition{}, false
}
