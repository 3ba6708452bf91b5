package linkedin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"alumni-scraper/models"
	"alumni-scraper/utils"
)

// BrowserAuthenticator logs in through a headless Chrome and copies the
// resulting session cookies into an HTTP client. It handles accounts for
// which the plain HTTP handshake keeps returning CHALLENGE.
type BrowserAuthenticator struct {
	baseURL   *url.URL
	http      *http.Client
	logger    *utils.Logger
	chromeBin string
	timeout   time.Duration
}

// NewBrowserAuthenticator creates a BrowserAuthenticator. chromeBin may be
// empty, in which case common install locations are searched.
func NewBrowserAuthenticator(baseURL, chromeBin string, httpClient *http.Client, logger *utils.Logger) (*BrowserAuthenticator, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("linkedin: parse base url: %w", err)
	}
	if httpClient == nil || httpClient.Jar == nil {
		return nil, errors.New("linkedin: http client must have a cookie jar")
	}
	return &BrowserAuthenticator{
		baseURL:   u,
		http:      httpClient,
		logger:    logger,
		chromeBin: chromeBin,
		timeout:   90 * time.Second,
	}, nil
}

// Authenticate fills in the login form and waits until the feed loads.
func (b *BrowserAuthenticator) Authenticate(ctx context.Context, creds models.Credentials) (*Session, error) {
	if creds.Identifier == "" || creds.Secret == "" {
		return nil, authFailure(b.logger, "validate-credentials", errors.New("identifier and secret are required"))
	}

	chromeBin := b.chromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	b.logger.Debug("[linkedin] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancelTimeout := context.WithTimeout(browserCtx, b.timeout)
	defer cancelTimeout()

	var cookies []*network.Cookie
	err := chromedp.Run(runCtx,
		chromedp.Navigate(b.baseURL.String()+"/login"),
		chromedp.WaitVisible(`#username`, chromedp.ByQuery),
		chromedp.SendKeys(`#username`, creds.Identifier, chromedp.ByQuery),
		chromedp.SendKeys(`#password`, creds.Secret, chromedp.ByQuery),
		chromedp.Click(`button[type="submit"]`, chromedp.ByQuery),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		waitForFeed(),
		// Cookies for the current page, which is the feed by now.
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			cookies, err = network.GetCookies().Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, authFailure(b.logger, "browser-login", err)
	}

	jarCookies := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		jarCookies = append(jarCookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path})
	}
	b.http.Jar.SetCookies(b.baseURL, jarCookies)

	if !hasCookie(b.http.Jar, b.baseURL, liAtCookie) {
		return nil, authFailure(b.logger, "browser-login", errors.New("no li_at cookie after login"))
	}

	session := newSession(b.baseURL, b.http, b.logger)
	if session.csrfToken == "" {
		return nil, authFailure(b.logger, "browser-login", errors.New("no JSESSIONID cookie after login"))
	}

	b.logger.Info("[linkedin] Authenticated as %s (browser)", creds.Identifier)
	return session, nil
}

// waitForFeed polls the page location until the login redirect lands on the
// feed, or fails early on a checkpoint page.
func waitForFeed() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for {
			var loc string
			if err := chromedp.Location(&loc).Do(ctx); err != nil {
				return err
			}
			switch {
			case strings.Contains(loc, "/feed"):
				return nil
			case strings.Contains(loc, "/checkpoint/"):
				return fmt.Errorf("security checkpoint at %s", loc)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(500 * time.Millisecond):
			}
		}
	})
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
