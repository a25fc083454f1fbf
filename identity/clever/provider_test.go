package clever_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/identity"
	"github.com/AntonStoeckl/circulation-manager-go/identity/clever"
)

const titleISchool = "360007702877"

// fakeClever serves the Clever endpoints used by the provider. Zero values answer like a
// middle school student of a Title I school.
type fakeClever struct {
	tokenStatus  int
	accessToken  string
	meStatus     int
	userType     string
	userID       string
	noCanonical  bool
	grade        string
	ncesID       string
	malformedMe  bool
	tokenRequest map[string]string
	tokenAuth    string
}

func (f *fakeClever) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /oauth/tokens", func(w http.ResponseWriter, r *http.Request) {
		f.tokenAuth = r.Header.Get("Authorization")
		require.NoError(t, jsoniter.NewDecoder(r.Body).Decode(&f.tokenRequest))

		if f.tokenStatus != 0 {
			w.WriteHeader(f.tokenStatus)
			return
		}

		writeJSON(t, w, map[string]any{"access_token": f.accessToken})
	})

	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.accessToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if f.meStatus != 0 {
			w.WriteHeader(f.meStatus)
			return
		}

		if f.malformedMe {
			_, _ = w.Write([]byte(`{"data": `))
			return
		}

		links := []map[string]string{{"rel": "self", "uri": "/me"}}
		if !f.noCanonical {
			links = append(links, map[string]string{"rel": "canonical", "uri": "/v1.1/" + f.userType + "s/" + f.userID})
		}

		writeJSON(t, w, map[string]any{
			"type":  f.userType,
			"data":  map[string]any{"id": f.userID},
			"links": links,
		})
	})

	mux.HandleFunc("GET /v1.1/students/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"data": map[string]any{
			"school": "school-1",
			"grade":  f.grade,
			"name":   map[string]string{"first": "Ada", "last": "Lovelace"},
		}})
	})

	mux.HandleFunc("GET /v1.1/teachers/{id}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"data": map[string]any{"school": "school-1"}})
	})

	mux.HandleFunc("GET /v1.1/schools/school-1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"data": map[string]any{"nces_id": f.ncesID}})
	})

	return mux
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, jsoniter.NewEncoder(w).Encode(v))
}

func givenFakeClever() *fakeClever {
	return &fakeClever{
		accessToken: "clever-bearer",
		userType:    "student",
		userID:      "5b2ad81a",
		grade:       "6",
		ncesID:      titleISchool,
	}
}

func givenProvider(t *testing.T, fake *fakeClever) *clever.Provider {
	t.Helper()

	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	schools, err := identity.ParseTitleISchools([]byte(`["` + titleISchool + `"]`))
	require.NoError(t, err)

	provider, err := clever.NewProvider(
		"client-id",
		"client-secret",
		"https://circulation.example/oauth_callback",
		schools,
		clever.WithEndpoints(server.URL+"/oauth/authorize", server.URL+"/oauth/tokens", server.URL),
		clever.WithTimeout(2*time.Second),
	)
	require.NoError(t, err)

	return provider
}

func Test_Provider_AuthorizeURL(t *testing.T) {
	// arrange
	provider, err := clever.NewProvider("client-id", "secret", "https://circulation.example/oauth_callback", nil)
	require.NoError(t, err)

	// act
	raw := provider.AuthorizeURL("library=default&x=1")

	// assert
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "https://clever.com/oauth/authorize", parsed.Scheme+"://"+parsed.Host+parsed.Path)
	assert.Equal(t, "code", parsed.Query().Get("response_type"))
	assert.Equal(t, "client-id", parsed.Query().Get("client_id"))
	assert.Equal(t, "https://circulation.example/oauth_callback", parsed.Query().Get("redirect_uri"))
	assert.Equal(t, "library=default&x=1", parsed.Query().Get("state"))
}

func Test_Provider_ExchangeCodeForToken(t *testing.T) {
	// arrange
	fake := givenFakeClever()
	provider := givenProvider(t, fake)

	// act
	token, err := provider.ExchangeCodeForToken(context.Background(), "auth-code")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "clever-bearer", token)
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("client-id:client-secret")), fake.tokenAuth)
	assert.Equal(t, map[string]string{
		"code":         "auth-code",
		"grant_type":   "authorization_code",
		"redirect_uri": "https://circulation.example/oauth_callback",
	}, fake.tokenRequest)
}

func Test_Provider_ExchangeCodeForToken_FailsClosed(t *testing.T) {
	testCases := []struct {
		name    string
		arrange func(f *fakeClever)
	}{
		{name: "no access token", arrange: func(f *fakeClever) { f.accessToken = "" }},
		{name: "error status", arrange: func(f *fakeClever) { f.tokenStatus = http.StatusBadRequest }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			fake := givenFakeClever()
			tc.arrange(fake)
			provider := givenProvider(t, fake)

			// act
			_, err := provider.ExchangeCodeForToken(context.Background(), "auth-code")

			// assert
			p, ok := problem.As(err)
			require.True(t, ok)
			assert.Equal(t, problem.InvalidCredentials, p.Kind)
			assert.Equal(t, "A valid Clever login is required.", p.Detail)
		})
	}
}

func Test_Provider_ExchangeCodeForToken_Unreachable(t *testing.T) {
	// arrange
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	provider, err := clever.NewProvider("id", "secret", "", nil, clever.WithEndpoints("", server.URL, server.URL))
	require.NoError(t, err)

	// act
	_, err = provider.ExchangeCodeForToken(context.Background(), "code")

	// assert
	assert.Equal(t, problem.InvalidCredentials, problem.KindOf(err))
}

func Test_Provider_LookupPatron_ExternalTypes(t *testing.T) {
	testCases := []struct {
		name         string
		userType     string
		grade        string
		externalType string
	}{
		{name: "kindergarten student", userType: "student", grade: "Kindergarten", externalType: "E"},
		{name: "third grade student", userType: "student", grade: "3", externalType: "E"},
		{name: "middle school student", userType: "student", grade: "8", externalType: "M"},
		{name: "high school student", userType: "student", grade: "9", externalType: "H"},
		{name: "ungraded student", userType: "student", grade: "Other", externalType: ""},
		{name: "teacher", userType: "teacher", externalType: "A"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			fake := givenFakeClever()
			fake.userType = tc.userType
			fake.grade = tc.grade
			provider := givenProvider(t, fake)

			// act
			patron, err := provider.LookupPatron(context.Background(), "clever-bearer")

			// assert
			require.NoError(t, err)
			assert.Equal(t, "5b2ad81a", patron.PermanentID)
			assert.Equal(t, "5b2ad81a", patron.AuthorizationIdentifier)
			assert.Equal(t, tc.externalType, patron.ExternalType)
			assert.True(t, patron.Complete)
		})
	}
}

func Test_Provider_LookupPatron_Problems(t *testing.T) {
	testCases := []struct {
		name     string
		arrange  func(f *fakeClever)
		token    string
		expected problem.Kind
	}{
		{name: "no user id", arrange: func(f *fakeClever) { f.userID = "" }, expected: problem.InvalidCredentials},
		{name: "district admin", arrange: func(f *fakeClever) { f.userType = "district_admin" }, expected: problem.UnsupportedUserType},
		{name: "not a Title I school", arrange: func(f *fakeClever) { f.ncesID = "000000000000" }, expected: problem.NotEligible},
		{name: "school without NCES id", arrange: func(f *fakeClever) { f.ncesID = "" }, expected: problem.NotEligible},
		{name: "no canonical link", arrange: func(f *fakeClever) { f.noCanonical = true }, expected: problem.InvalidCredentials},
		{name: "server error", arrange: func(f *fakeClever) { f.meStatus = http.StatusBadGateway }, expected: problem.InvalidCredentials},
		{name: "malformed JSON", arrange: func(f *fakeClever) { f.malformedMe = true }, expected: problem.InvalidCredentials},
		{name: "wrong token", arrange: func(*fakeClever) {}, token: "stolen", expected: problem.InvalidCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			fake := givenFakeClever()
			tc.arrange(fake)
			provider := givenProvider(t, fake)
			token := tc.token
			if token == "" {
				token = fake.accessToken
			}

			// act
			_, err := provider.LookupPatron(context.Background(), token)

			// assert
			assert.Equal(t, tc.expected, problem.KindOf(err))
		})
	}
}

func Test_Provider_OAuthCallback(t *testing.T) {
	// arrange
	provider := givenProvider(t, givenFakeClever())

	// act
	patron, token, err := provider.OAuthCallback(context.Background(), "auth-code")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "clever-bearer", token)
	assert.Equal(t, "M", patron.ExternalType)
	assert.Equal(t, "Ada Lovelace", patron.PersonalName)
}

func Test_NewProvider_RequiresClientCredentials(t *testing.T) {
	_, err := clever.NewProvider("", "secret", "", nil)

	assert.ErrorIs(t, err, clever.ErrMissingClientCredentials)
}
