package transform

import (
	"strings"
)

// servicePatterns are the naming heuristics that mark non-human accounts.
var servicePatterns = []string{
	"-admin",
	"-service",
	"-cluster",
	"-sync",
	"-bot",
	"-svc",
	"system-",
	"service-",
	"noreply",
	"no-reply",
	"automated",
}

// IsServiceAccount reports whether either the username or the display
// name matches a known service-account naming pattern.
func IsServiceAccount(username, displayName string) bool {
	usernameLower := strings.ToLower(username)
	displayLower := strings.ToLower(displayName)
	for _, p := range servicePatterns {
		if strings.Contains(usernameLower, p) || strings.Contains(displayLower, p) {
			return true
		}
	}
	return false
}
