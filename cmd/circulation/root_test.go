package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/policy"
	"github.com/AntonStoeckl/circulation-manager-go/circulation/shared/core"
	"github.com/AntonStoeckl/circulation-manager-go/collections"
	"github.com/AntonStoeckl/circulation-manager-go/identity/clever"
	"github.com/AntonStoeckl/circulation-manager-go/settings"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

// givenConfigFile writes a config with sqlite settings in a temp dir and in-memory events.
func givenConfigFile(t *testing.T, cleverURL string) string {
	t.Helper()

	dir := t.TempDir()

	titleI, err := filepath.Abs("../../identity/testdata/title_i.json")
	require.NoError(t, err)

	if cleverURL == "" {
		cleverURL = "https://clever.example.org"
	}

	document := fmt.Sprintf(`library: main
event_store:
  in_memory: true
settings:
  driver: sqlite3
  dsn: %s
clever:
  client_id: client
  client_secret: secret
  redirect_uri: https://circulation.example.org/oauth_callback
  title_i_schools_path: %s
  authorize_url: %s/oauth/authorize
  token_url: %s/oauth/tokens
  api_base_url: %s
holdings:
  path: testdata/holdings.yaml
`, filepath.Join(dir, "settings.db"), titleI, cleverURL, cleverURL, cleverURL)

	path := filepath.Join(dir, "circulation.yaml")
	require.NoError(t, os.WriteFile(path, []byte(document), 0o600))

	return path
}

func Test_CommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, path := range [][]string{
		{"classify"},
		{"settings", "get"},
		{"settings", "set"},
		{"settings", "delete"},
		{"settings", "list"},
		{"authorize-url"},
		{"oauth-callback"},
		{"activity"},
		{"policy", "show"},
	} {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func Test_InvalidFormat(t *testing.T) {
	// act
	_, err := runCommand(t, "classify", "--format", "xml")

	// assert
	assert.ErrorContains(t, err, `invalid format "xml"`)
}

func Test_Classify(t *testing.T) {
	// arrange
	configPath := givenConfigFile(t, "")

	// act
	out, err := runCommand(t, "classify", "--config", configPath, "--format", "json")

	// assert
	require.NoError(t, err)

	var classification collections.Classification
	require.NoError(t, jsoniter.UnmarshalFromString(out, &classification))
	assert.Equal(t, collections.Classification{Large: []string{"eng"}, Small: []string{"spa"}, Tiny: []string{"fre"}}, classification)
}

func Test_Classify_StoresLanguageLists(t *testing.T) {
	// arrange
	configPath := givenConfigFile(t, "")

	// act
	_, classifyErr := runCommand(t, "classify", "--config", configPath, "--store", "--library", "branch")
	out, getErr := runCommand(t, "settings", "get", settings.KeyLargeCollections, "--config", configPath, "--library", "branch")

	// assert
	require.NoError(t, classifyErr)
	require.NoError(t, getErr)
	assert.Equal(t, "[\"spa\"]\n", out)
}

func Test_Classify_WithoutHoldings(t *testing.T) {
	// act
	_, err := runCommand(t, "classify")

	// assert
	assert.ErrorIs(t, err, errNoHoldingsFile)
}

func Test_Settings_SitewideRoundTrip(t *testing.T) {
	// arrange
	configPath := givenConfigFile(t, "")

	// act
	_, setErr := runCommand(t, "settings", "set", settings.KeyBaseURL, "https://circulation.example.org", "--sitewide", "--config", configPath)
	_, invalidErr := runCommand(t, "settings", "set", settings.KeyBaseURL, "not a url", "--sitewide", "--config", configPath)
	listed, listErr := runCommand(t, "settings", "list", "--sitewide", "--config", configPath)
	_, deleteErr := runCommand(t, "settings", "delete", settings.KeyBaseURL, "--sitewide", "--config", configPath)
	_, getErr := runCommand(t, "settings", "get", settings.KeyBaseURL, "--sitewide", "--config", configPath)

	// assert
	require.NoError(t, setErr)
	assert.ErrorIs(t, invalidErr, settings.ErrInvalidURL)
	require.NoError(t, listErr)
	assert.Equal(t, "base_url=https://circulation.example.org\n", listed)
	require.NoError(t, deleteErr)
	assert.ErrorContains(t, getErr, "is not set")
}

func Test_Settings_ListJSON(t *testing.T) {
	// arrange
	configPath := givenConfigFile(t, "")
	_, err := runCommand(t, "settings", "set", settings.KeyMaxOutstandingFines, "$5.00", "--config", configPath)
	require.NoError(t, err)

	// act
	out, err := runCommand(t, "settings", "list", "--format", "json", "--config", configPath)

	// assert
	require.NoError(t, err)

	var listed []settings.Setting
	require.NoError(t, jsoniter.UnmarshalFromString(out, &listed))
	assert.Equal(t, []settings.Setting{{Key: settings.KeyMaxOutstandingFines, Value: "$5.00"}}, listed)
}

func Test_PolicyShow(t *testing.T) {
	// arrange
	configPath := givenConfigFile(t, "")
	for _, args := range [][]string{
		{"settings", "set", settings.KeyHoldPolicy, "hide", "--sitewide"},
		{"settings", "set", settings.KeyLendingPolicy, `{"152": {"audiences": ["Children"]}}`, "--sitewide"},
		{"settings", "set", settings.KeyExternalTypeRegexp, `^(\d+)`, "--sitewide"},
		{"settings", "set", settings.KeyMaxOutstandingFines, "$5.00"},
	} {
		_, err := runCommand(t, append(args, "--config", configPath)...)
		require.NoError(t, err)
	}

	// act
	text, textErr := runCommand(t, "policy", "show", "--config", configPath, "--external-type", "152 Elementary")
	encoded, jsonErr := runCommand(t, "policy", "show", "--config", configPath, "--format", "json")

	// assert
	require.NoError(t, textErr)
	assert.Equal(t, "library: main\n"+
		"hold policy: hide\n"+
		"max outstanding fines: $5.00\n"+
		"lending policy 152: Children\n"+
		"external type 152 Elementary: key 152, audiences Children\n", text)

	require.NoError(t, jsonErr)

	var view policyView
	require.NoError(t, jsoniter.UnmarshalFromString(encoded, &view))
	assert.Equal(t, policy.HoldPolicyHide, view.HoldPolicy)
	assert.Equal(t, "$5.00", view.MaxOutstandingFines)
	assert.Equal(t, policy.LendingPolicy{"152": {"Children"}}, view.LendingPolicy)
}

func Test_PolicyShow_RejectsNegativeFines(t *testing.T) {
	// arrange
	configPath := givenConfigFile(t, "")
	_, err := runCommand(t, "settings", "set", "--config", configPath, "--", settings.KeyMaxOutstandingFines, "-1")
	require.NoError(t, err)

	// act
	_, err = runCommand(t, "policy", "show", "--config", configPath)

	// assert
	assert.ErrorIs(t, err, policy.ErrNegativeFinesThreshold)
}

func Test_AuthorizeURL(t *testing.T) {
	// arrange
	configPath := givenConfigFile(t, "https://clever.example.org")

	// act
	out, err := runCommand(t, "authorize-url", "--state", "xyz", "--config", configPath)

	// assert
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "https://clever.example.org/oauth/authorize?"))
	assert.Contains(t, out, "client_id=client")
	assert.Contains(t, out, "state=xyz")
}

func fakeCleverServer(t *testing.T) *httptest.Server {
	t.Helper()

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, jsoniter.NewEncoder(w).Encode(v))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/tokens", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"access_token": "clever-bearer"})
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"type":  "student",
			"data":  map[string]any{"id": "5b2ad81a"},
			"links": []map[string]string{{"rel": "canonical", "uri": "/v1.1/students/5b2ad81a"}},
		})
	})
	mux.HandleFunc("GET /v1.1/students/5b2ad81a", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"data": map[string]any{"school": "school-1", "grade": "6"}})
	})
	mux.HandleFunc("GET /v1.1/schools/school-1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"data": map[string]any{"nces_id": "360007702877"}})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func Test_OAuthCallback(t *testing.T) {
	// arrange
	server := fakeCleverServer(t)
	configPath := givenConfigFile(t, server.URL)

	_, err := runCommand(t, "settings", "set", settings.KeyBearerTokenSigningSecret, "signing-secret", "--sitewide", "--config", configPath)
	require.NoError(t, err)

	// act
	out, err := runCommand(t, "oauth-callback", "--code", "auth-code", "--format", "json", "--config", configPath)

	// assert
	require.NoError(t, err)

	var result callbackResult
	require.NoError(t, jsoniter.UnmarshalFromString(out, &result))
	assert.Equal(t, core.PatronIDFor(clever.Name, "5b2ad81a").String(), result.PatronID)
	assert.Equal(t, "M", result.ExternalType)
	assert.True(t, result.NewPatron)
	assert.NotEmpty(t, result.BearerToken)
}

func Test_OAuthCallback_WithoutSigningSecret(t *testing.T) {
	// arrange
	configPath := givenConfigFile(t, fakeCleverServer(t).URL)

	// act
	_, err := runCommand(t, "oauth-callback", "--code", "auth-code", "--config", configPath)

	// assert
	assert.ErrorIs(t, err, errNoSigningSecret)
}

func Test_Activity_UnknownPatron(t *testing.T) {
	// act
	out, err := runCommand(t, "activity", "--patron", core.PatronIDFor(clever.Name, "nobody").String())

	// assert
	require.NoError(t, err)
	assert.Equal(t, "patron is not enrolled\n", out)
}

func Test_Activity_InvalidPatronID(t *testing.T) {
	// act
	_, err := runCommand(t, "activity", "--patron", "42")

	// assert
	assert.ErrorContains(t, err, "invalid patron id")
}
