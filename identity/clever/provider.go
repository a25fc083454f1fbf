package clever

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/circulation-manager-go/circulation/problem"
	"github.com/AntonStoeckl/circulation-manager-go/identity"
)

// Name is the provider name patrons verified by Clever are enrolled with.
const Name = "Clever"

const (
	defaultAuthorizeURL = "https://clever.com/oauth/authorize"
	defaultTokenURL     = "https://clever.com/oauth/tokens"
	defaultAPIBaseURL   = "https://api.clever.com"
	defaultTimeout      = 10 * time.Second
	maxResponseBytes    = 1 << 20
)

var (
	// ErrMissingClientCredentials is returned when client id or secret are empty.
	ErrMissingClientCredentials = errors.New("clever client id and secret must not be empty")

	errUnexpectedStatus = errors.New("unexpected status")
)

var supportedUserTypes = map[string]bool{"student": true, "teacher": true}

// Provider talks to Clever. It is safe for concurrent use.
type Provider struct {
	clientID      string
	clientSecret  string
	redirectURI   string
	authorizeURL  string
	tokenURL      string
	apiBaseURL    string
	httpClient    *http.Client
	titleISchools identity.TitleISchools
	logger        *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithEndpoints overrides the Clever URLs, e.g. to point at a test server.
func WithEndpoints(authorizeURL, tokenURL, apiBaseURL string) Option {
	return func(p *Provider) {
		p.authorizeURL = authorizeURL
		p.tokenURL = tokenURL
		p.apiBaseURL = strings.TrimSuffix(apiBaseURL, "/")
	}
}

// WithTimeout bounds every remote call. There are no retries.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Provider) {
		p.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.httpClient = client }
}

// WithLogger sets the logger for eligibility decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

func NewProvider(
	clientID string,
	clientSecret string,
	redirectURI string,
	titleISchools identity.TitleISchools,
	options ...Option,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingClientCredentials
	}

	p := &Provider{
		clientID:      clientID,
		clientSecret:  clientSecret,
		redirectURI:   redirectURI,
		authorizeURL:  defaultAuthorizeURL,
		tokenURL:      defaultTokenURL,
		apiBaseURL:    defaultAPIBaseURL,
		httpClient:    &http.Client{Timeout: defaultTimeout},
		titleISchools: titleISchools,
		logger:        slog.New(slog.DiscardHandler),
	}

	for _, option := range options {
		option(p)
	}

	return p, nil
}

// AuthorizeURL is where the patron logs in with Clever. state is passed through to the callback.
func (p *Provider) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", p.clientID)
	q.Set("redirect_uri", p.redirectURI)
	q.Set("state", state)

	return p.authorizeURL + "?" + q.Encode()
}

// OAuthCallback verifies code and returns the patron plus Clever's bearer token.
func (p *Provider) OAuthCallback(ctx context.Context, code string) (identity.PatronData, string, error) {
	token, err := p.ExchangeCodeForToken(ctx, code)
	if err != nil {
		return identity.PatronData{}, "", err
	}

	patron, err := p.LookupPatron(ctx, token)
	if err != nil {
		return identity.PatronData{}, "", err
	}

	return patron, token, nil
}

func invalidLogin() *problem.Problem {
	return problem.Detailed(problem.InvalidCredentials, "A valid Clever login is required.")
}

type tokenRequest struct {
	Code        string `json:"code"`
	GrantType   string `json:"grant_type"`
	RedirectURI string `json:"redirect_uri"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// ExchangeCodeForToken asks Clever to turn an authorization code into a bearer token.
func (p *Provider) ExchangeCodeForToken(ctx context.Context, code string) (string, error) {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(tokenRequest{
		Code:        code,
		GrantType:   "authorization_code",
		RedirectURI: p.redirectURI,
	})
	if err != nil {
		return "", invalidLogin()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", invalidLogin()
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(p.clientID + ":" + p.clientSecret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/json")

	var response tokenResponse
	if err := p.do(req, &response); err != nil {
		p.logger.WarnContext(ctx, "clever token exchange failed", "error", err.Error())
		return "", invalidLogin()
	}

	if response.AccessToken == "" {
		return "", invalidLogin()
	}

	return response.AccessToken, nil
}

type link struct {
	Rel string `json:"rel"`
	URI string `json:"uri"`
}

type meResponse struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
	Links []link `json:"links"`
}

type userResponse struct {
	Data struct {
		School string   `json:"school"`
		Grade  string   `json:"grade"`
		Name   userName `json:"name"`
	} `json:"data"`
}

type userName struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

type schoolResponse struct {
	Data struct {
		NCESID string `json:"nces_id"`
	} `json:"data"`
}

// LookupPatron uses a Clever bearer token to look up the patron and check eligibility.
func (p *Provider) LookupPatron(ctx context.Context, token string) (identity.PatronData, error) {
	var me meResponse
	if err := p.get(ctx, "/me", token, &me); err != nil {
		return identity.PatronData{}, err
	}

	if me.Data.ID == "" {
		return identity.PatronData{}, invalidLogin()
	}

	if !supportedUserTypes[me.Type] {
		return identity.PatronData{}, problem.New(problem.UnsupportedUserType)
	}

	canonical := ""
	for _, l := range me.Links {
		if l.Rel == "canonical" {
			canonical = l.URI
			break
		}
	}

	if canonical == "" {
		return identity.PatronData{}, invalidLogin()
	}

	var user userResponse
	if err := p.get(ctx, canonical, token, &user); err != nil {
		return identity.PatronData{}, err
	}

	var school schoolResponse
	if err := p.get(ctx, "/v1.1/schools/"+url.PathEscape(user.Data.School), token, &school); err != nil {
		return identity.PatronData{}, err
	}

	if !p.titleISchools.Contains(school.Data.NCESID) {
		p.logger.InfoContext(ctx, fmt.Sprintf("%s didn't match a Title I NCES ID", school.Data.NCESID))
		return identity.PatronData{}, problem.New(problem.NotEligible)
	}

	externalType := identity.CategoryAdult
	if me.Type == "student" {
		externalType = identity.ClassifyGrade(user.Data.Grade)
	}

	return identity.PatronData{
		PermanentID:             me.Data.ID,
		AuthorizationIdentifier: me.Data.ID,
		ExternalType:            externalType,
		PersonalName:            strings.TrimSpace(user.Data.Name.First + " " + user.Data.Name.Last),
		Complete:                true,
	}, nil
}

func (p *Provider) get(ctx context.Context, path string, token string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBaseURL+path, nil)
	if err != nil {
		return invalidLogin()
	}

	req.Header.Set("Authorization", "Bearer "+token)

	if err := p.do(req, target); err != nil {
		p.logger.WarnContext(ctx, "clever lookup failed", "path", path, "error", err.Error())
		return invalidLogin()
	}

	return nil
}

func (p *Provider) do(req *http.Request, target any) error {
	res, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w: %d", errUnexpectedStatus, res.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return err
	}

	return jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, target)
}
