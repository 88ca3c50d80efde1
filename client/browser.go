package client

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// BrowserLogin drives a real Chrome/Chromium instance through the B2C login
// page and exchanges the captured authorization code for tokens. It is the
// sturdier alternative to HeadlessLogin when the HTTP-level flow breaks.
func (m *AuthManager) BrowserLogin(ctx context.Context, email, password string, headless bool) error {
	if email == "" || password == "" {
		return &AuthError{Message: "email and password cannot be empty"}
	}

	browserCtx, cancel, err := createChromeContext(headless)
	if err != nil {
		return &AuthError{Message: "failed to start browser", Err: err}
	}
	defer cancel()

	log.Info().Msg("Trying to login via browser")
	finalURL, err := performBrowserLogin(browserCtx, m.LoginURL(), email, password, headless)
	if err != nil {
		return &AuthError{Message: "browser login failed", Err: err}
	}

	code, err := ExtractAuthCode(finalURL)
	if err != nil {
		return &AuthError{Message: "authorization code not found after login", Err: err}
	}
	return m.ExchangeCode(ctx, code)
}

// createChromeContext creates a ChromeDP context with or without headless mode.
func createChromeContext(headless bool) (context.Context, context.CancelFunc, error) {
	var execPath string
	if p, err := exec.LookPath("google-chrome"); err == nil {
		execPath = p
	} else if p, err := exec.LookPath("chromium"); err == nil {
		execPath = p
	} else if p, err := exec.LookPath("chrome"); err == nil {
		execPath = p
	} else {
		return nil, nil, fmt.Errorf("no Chrome or Chromium executable found in PATH")
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.ExecPath(execPath))
	if !headless {
		opts = append(opts, chromedp.Flag("headless", false), chromedp.Flag("disable-gpu", false),
			chromedp.Flag("start-maximized", true))
	}

	allocatorCtx, cancelAllocator := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelContext := chromedp.NewContext(allocatorCtx, chromedp.WithLogf(log.Debug().Msgf))
	return ctx, func() {
		cancelContext()
		cancelAllocator()
	}, nil
}

// performBrowserLogin fills in the B2C login form and polls the location
// until the redirect carrying the authorization code shows up. The final
// navigation targets the app's custom URI scheme and never completes, but
// the URL itself is still observable.
func performBrowserLogin(ctx context.Context, loginURL, email, password string, headlessMode bool) (string, error) {
	var timeoutCtx context.Context
	var cancel context.CancelFunc
	if headlessMode {
		timeoutCtx, cancel = context.WithTimeout(ctx, 30*time.Second)
	} else {
		timeoutCtx, cancel = context.WithTimeout(ctx, 4*time.Minute)
	}
	defer cancel()

	var finalURL string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible(`#email`, chromedp.ByID),
		chromedp.SendKeys(`#email`, email, chromedp.ByID),
		chromedp.SendKeys(`#password`, password, chromedp.ByID),
		chromedp.Click(`#next`, chromedp.ByID),
		chromedp.ActionFunc(func(ctx context.Context) error {
			maxAttempts := 120 // 60 seconds (120 * 500ms)
			for attempt := 0; attempt < maxAttempts; attempt++ {
				var currentURL string
				if err := chromedp.Location(&currentURL).Do(ctx); err != nil {
					return err
				}
				if strings.Contains(currentURL, "code=") {
					finalURL = currentURL
					return nil
				}
				if strings.Contains(currentURL, "error=") {
					return fmt.Errorf("login failed: detected error in URL: %s", currentURL)
				}
				time.Sleep(500 * time.Millisecond)
			}
			return fmt.Errorf("login timed out after waiting for %d seconds", maxAttempts/2)
		}),
	)
	return finalURL, err
}
