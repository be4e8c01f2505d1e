package siteconfig

import "strings"

// AccountLinks are the product account URLs shown on the site.
type AccountLinks struct {
	SignInURL    string `json:"signInUrl"`
	SignUpURL    string `json:"signUpUrl"`
	DashboardURL string `json:"dashboardUrl"`
	SupportURL   string `json:"supportUrl"`
}

// DefaultAccountLinks is used when no remote document is configured or it
// cannot be fetched.
func DefaultAccountLinks() AccountLinks {
	return AccountLinks{
		SignInURL:    "https://app.dentaldirectory.ph/login",
		SignUpURL:    "https://app.dentaldirectory.ph/signup",
		DashboardURL: "https://app.dentaldirectory.ph/dashboard",
		SupportURL:   "https://dentaldirectory.ph/support",
	}
}

// merge fills empty fields of l from fallback.
func (l AccountLinks) merge(fallback AccountLinks) AccountLinks {
	pick := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}
	return AccountLinks{
		SignInURL:    pick(l.SignInURL, fallback.SignInURL),
		SignUpURL:    pick(l.SignUpURL, fallback.SignUpURL),
		DashboardURL: pick(l.DashboardURL, fallback.DashboardURL),
		SupportURL:   pick(l.SupportURL, fallback.SupportURL),
	}
}
