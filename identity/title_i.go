package identity

import (
	"errors"
	"os"

	jsoniter "github.com/json-iterator/go"
)

// ErrInvalidTitleISchools is returned when the allow-list is not a JSON array of NCES ids.
var ErrInvalidTitleISchools = errors.New("invalid Title I school list")

// TitleISchools is the set of NCES ids of Title I schools. It is loaded once at startup and never refreshed.
type TitleISchools map[string]struct{}

// ParseTitleISchools parses a JSON array of NCES ids.
func ParseTitleISchools(raw []byte) (TitleISchools, error) {
	var ids []string
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &ids); err != nil {
		return nil, errors.Join(ErrInvalidTitleISchools, err)
	}

	schools := make(TitleISchools, len(ids))
	for _, id := range ids {
		schools[id] = struct{}{}
	}

	return schools, nil
}

// LoadTitleISchools reads the allow-list from path.
func LoadTitleISchools(path string) (TitleISchools, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidTitleISchools, err)
	}

	return ParseTitleISchools(raw)
}

// Contains reports whether ncesID is a Title I school. An empty id never is.
func (s TitleISchools) Contains(ncesID string) bool {
	if ncesID == "" {
		return false
	}

	_, ok := s[ncesID]

	return ok
}
