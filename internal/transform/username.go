package transform

import (
	"regexp"
	"strings"

	"github.com/arctica-ti/xone-sync/internal/msgraph"
	"github.com/arctica-ti/xone-sync/tools"
)

// MaxUsernameLen is the hard limit the XoneCloud API places on usernames.
const MaxUsernameLen = 32

var disallowedUsernameRE = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// NormalizeUsername strips every character outside [A-Za-z0-9._-] and
// truncates the result to MaxUsernameLen. Idempotent.
func NormalizeUsername(raw string) string {
	if raw == "" {
		return ""
	}
	u := disallowedUsernameRE.ReplaceAllString(raw, "")
	if len(u) > MaxUsernameLen {
		u = u[:MaxUsernameLen]
	}
	return u
}

// BuildUsername derives the canonical username for a directory user:
// the employee ID when it normalizes to something non-empty, otherwise
// the local part of the principal email.
func BuildUsername(user msgraph.GraphUser) string {
	if empID := strings.TrimSpace(user.EmployeeID); empID != "" {
		if candidate := NormalizeUsername(empID); candidate != "" {
			return candidate
		}
	}
	return NormalizeUsername(tools.LocalPart(user.UserPrincipalName))
}
