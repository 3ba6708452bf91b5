package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"alumni-scraper/models"
	"alumni-scraper/utils"
)

const authPath = "/uas/authenticate"

// Authenticator exchanges credentials for an authenticated Session.
// Implementations make a single attempt per call.
type Authenticator interface {
	Authenticate(ctx context.Context, creds models.Credentials) (*Session, error)
}

// APIAuthenticator performs the Voyager username/password handshake over
// plain HTTP.
type APIAuthenticator struct {
	baseURL *url.URL
	http    *http.Client
	logger  *utils.Logger
}

// NewAPIAuthenticator creates an APIAuthenticator. httpClient must carry a
// cookie jar; NewHTTPClient returns a suitable one.
func NewAPIAuthenticator(baseURL string, httpClient *http.Client, logger *utils.Logger) (*APIAuthenticator, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("linkedin: parse base url: %w", err)
	}
	if httpClient == nil || httpClient.Jar == nil {
		return nil, errors.New("linkedin: http client must have a cookie jar")
	}
	return &APIAuthenticator{baseURL: u, http: httpClient, logger: logger}, nil
}

type authResponse struct {
	LoginResult   string `json:"login_result"`
	ChallengeURL  string `json:"challenge_url"`
	FailureReason string `json:"failure_reason"`
}

// Authenticate logs in with creds. The secret is never logged.
func (a *APIAuthenticator) Authenticate(ctx context.Context, creds models.Credentials) (*Session, error) {
	if creds.Identifier == "" || creds.Secret == "" {
		return nil, authFailure(a.logger, "validate-credentials", errors.New("identifier and secret are required"))
	}

	// The first request only seeds the JSESSIONID cookie.
	if err := a.seedSession(ctx); err != nil {
		return nil, authFailure(a.logger, "seed-session", err)
	}

	endpoint := a.baseURL.String() + authPath
	form := url.Values{
		"session_key":      {creds.Identifier},
		"session_password": {creds.Secret},
		"JSESSIONID":       {csrfFromJar(a.http.Jar, a.baseURL)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, authFailure(a.logger, "build-request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Li-User-Agent", "LIAuthLibrary:3.2.4 com.linkedin.LinkedIn:8.8.1 iPhone:8.3")
	req.Header.Set("X-User-Language", "en")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, authFailure(a.logger, "login", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, authFailure(a.logger, "login", errors.New("credentials rejected (401)"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, authFailure(a.logger, "login",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var ar authResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return nil, authFailure(a.logger, "decode-login", err)
	}
	if ar.LoginResult != "PASS" {
		reason := ar.LoginResult
		if reason == "" {
			reason = "missing login_result"
		}
		if ar.FailureReason != "" {
			reason += ": " + ar.FailureReason
		}
		if ar.ChallengeURL != "" {
			reason += " (challenge required)"
		}
		return nil, authFailure(a.logger, "login", fmt.Errorf("login rejected: %s", reason))
	}

	session := newSession(a.baseURL, a.http, a.logger)
	if session.csrfToken == "" {
		return nil, authFailure(a.logger, "login", errors.New("no JSESSIONID cookie after login"))
	}

	a.logger.Info("[linkedin] Authenticated as %s", creds.Identifier)
	return session, nil
}

func (a *APIAuthenticator) seedSession(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL.String()+authPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if !hasCookie(a.http.Jar, a.baseURL, jsessionCookie) {
		return errors.New("upstream did not issue a JSESSIONID cookie")
	}
	return nil
}

// authFailure logs the cause and wraps it as an AuthenticationError.
func authFailure(logger *utils.Logger, op string, err error) error {
	logger.Error("[linkedin] Authentication failed during %s: %v", op, err)
	return &models.AuthenticationError{Op: op, Err: err}
}
