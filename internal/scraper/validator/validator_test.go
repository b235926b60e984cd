package validator

import (
	"fmt"
	"strings"
	"testing"
)

func doc(body string) string {
	return "<!DOCTYPE html><html><head><title>BETesporte</title></head><body>" +
		body + strings.Repeat(" ", 100) + "</body></html>"
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		invalid bool
		blocked bool
	}{
		{name: "valid page", html: doc(`<div class="super-odds">2.50</div>`)},
		{name: "empty", html: "", invalid: true},
		{name: "too small", html: "<html><body>2.50</body></html>", invalid: true},
		{name: "too large", html: "<html>" + strings.Repeat("a", MaxHTMLSize), invalid: true},
		{name: "not a document", html: strings.Repeat("<div>2.50</div>", 20), invalid: true},
		{name: "uppercase root", html: strings.ToUpper(doc("ok"))},
		{name: "captcha", html: doc(`<div id="captcha-box">Please solve the CAPTCHA</div>`), blocked: true},
		{name: "cloudflare challenge", html: doc(`<h1>Checking your browser before accessing</h1>`), blocked: true},
		{name: "rate limited", html: doc(`<p>Too Many Requests</p>`), blocked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.html)
			if got := IsInvalid(err); got != tt.invalid {
				t.Errorf("IsInvalid = %v, want %v (err=%v)", got, tt.invalid, err)
			}
			if got := IsBlocked(err); got != tt.blocked {
				t.Errorf("IsBlocked = %v, want %v (err=%v)", got, tt.blocked, err)
			}
			if !tt.invalid && !tt.blocked && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSmallInputRejectedRegardlessOfContent(t *testing.T) {
	err := Validate("<html>captcha</html>")
	if !IsInvalid(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if IsBlocked(err) {
		t.Error("size check must run before the block check")
	}
}

func TestHelpersSeeWrappedErrors(t *testing.T) {
	err := fmt.Errorf("fetch page: %w", &BlockedError{Indicator: "captcha"})
	if !IsBlocked(err) {
		t.Error("IsBlocked should unwrap")
	}
	err = fmt.Errorf("manual input: %w", &ValidationError{Reason: "empty html"})
	if !IsInvalid(err) {
		t.Error("IsInvalid should unwrap")
	}
	if IsBlocked(nil) || IsInvalid(nil) {
		t.Error("nil is neither blocked nor invalid")
	}
}
