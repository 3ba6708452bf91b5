package linkedin

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"alumni-scraper/utils"
)

const (
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	jsessionCookie = "JSESSIONID"
	liAtCookie     = "li_at"
)

// Session is an authenticated handle to the Voyager API. It can only be
// obtained from an Authenticator.
type Session struct {
	baseURL   *url.URL
	http      *http.Client
	csrfToken string
	logger    *utils.Logger

	// MaxPageSize caps the page size of a single search request.
	MaxPageSize int
}

func newSession(base *url.URL, client *http.Client, logger *utils.Logger) *Session {
	return &Session{
		baseURL:     base,
		http:        client,
		csrfToken:   csrfFromJar(client.Jar, base),
		logger:      logger,
		MaxPageSize: defaultPageSize,
	}
}

// NewHTTPClient returns an HTTP client with a cookie jar and reasonable
// defaults for scraping.
func NewHTTPClient(timeout time.Duration) *http.Client {
	jar, _ := cookiejar.New(nil)

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
		Jar:       jar,
	}
}

// csrfFromJar derives the CSRF token Voyager expects from the JSESSIONID
// cookie, which is stored quoted.
func csrfFromJar(jar http.CookieJar, u *url.URL) string {
	if jar == nil {
		return ""
	}
	for _, c := range jar.Cookies(u) {
		if c.Name == jsessionCookie {
			return strings.Trim(c.Value, `"`)
		}
	}
	return ""
}

func hasCookie(jar http.CookieJar, u *url.URL, name string) bool {
	if jar == nil {
		return false
	}
	for _, c := range jar.Cookies(u) {
		if c.Name == name && c.Value != "" {
			return true
		}
	}
	return false
}
