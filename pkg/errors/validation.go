package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// tenantNameRegex matches names that are safe as file names, cache key
// segments, URL path segments and Mongo document IDs.
var tenantNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// ValidateTenantName validates a tenant name.
//
// Names start with a letter or digit, contain only letters, digits, '.',
// '_' and '-', are at most 64 characters and never contain "..".
func ValidateTenantName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTenant, "tenant name cannot be empty")
	}
	if strings.Contains(name, "..") || !tenantNameRegex.MatchString(name) {
		return New(ErrCodeInvalidTenant, "invalid tenant name: %q", name)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "URL contains invalid characters")
		}
	}

	return nil
}

// ValidateLogoURL validates an optional logo URL. Empty is allowed; anything
// else must be an http(s) URL or a root-relative path served by the portal.
func ValidateLogoURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}
	if strings.HasPrefix(rawURL, "/") && !strings.HasPrefix(rawURL, "//") {
		if strings.Contains(rawURL, "..") {
			return New(ErrCodeInvalidInput, "logo path cannot contain path traversal sequences (..)")
		}
		return nil
	}
	return ValidateURL(rawURL)
}
