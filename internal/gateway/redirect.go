package gateway

import (
	"fmt"
	"net/url"
	"strings"
)

// RedirectDescriptor is what the charge flow hands back to the caller: a
// navigable URL plus the audit record's status at the time it was built.
type RedirectDescriptor struct {
	RedirectTo string `json:"redirect_to"`
	Status     string `json:"status"`
}

// RedirectParams are the inputs to the post-charge redirect computation.
// Hook dispatch happens before this step, so RedirectTo already reflects any
// override a business document returned.
type RedirectParams struct {
	StatusChangedToCompleted bool
	RedirectTo               string
	RedirectMessage          string
	ReferenceDoctype         string
	ReferenceDocname         string
	RedirectOverrideURL      string
}

// BuildRedirectURL computes the URL the payer's browser is sent to after a
// charge attempt.
//
// The query-string join rules are deliberately odd and load-bearing:
// checkout pages and downstream redirect handlers parse these URLs as-is, so
// the exact output must not be "cleaned up".
//   - redirect_to is always appended, with an empty value when no target was
//     supplied.
//   - the joiner is "&" only when a redirect target is present and the base
//     already carries a query string; in every other case it is "?", even
//     when that produces a second "?" in the URL.
//   - redirect_message, when present, is always joined with "&".
//
// The success base interpolates doctype and docname raw, while appended
// parameters use form encoding. That asymmetry is part of the contract too.
func BuildRedirectURL(p RedirectParams) string {
	redirectTo := p.RedirectTo
	var redirectURL string

	if p.StatusChangedToCompleted {
		if p.ReferenceDoctype != "" && p.ReferenceDocname != "" {
			redirectURL = fmt.Sprintf("payment-success?doctype=%s&docname=%s",
				p.ReferenceDoctype, p.ReferenceDocname)
		}
		if p.RedirectOverrideURL != "" {
			redirectURL = p.RedirectOverrideURL
			redirectTo = ""
		}
		if redirectURL == "" {
			// Completed attempt with no reference document and no override:
			// land on the bare success page.
			redirectURL = "payment-success"
		}
	} else {
		redirectURL = "payment-failed"
	}

	if redirectTo != "" && strings.Contains(redirectURL, "?") {
		redirectURL += "&" + url.Values{"redirect_to": {redirectTo}}.Encode()
	} else {
		redirectURL += "?" + url.Values{"redirect_to": {redirectTo}}.Encode()
	}

	if p.RedirectMessage != "" {
		redirectURL += "&" + url.Values{"redirect_message": {p.RedirectMessage}}.Encode()
	}

	return redirectURL
}
