package transform

import (
	"fmt"

	"github.com/arctica-ti/xone-sync/internal/msgraph"
)

// Department sentinels and workingday tags expected by XoneCloud.
const (
	DeptNoDepartment   = "Sem Departamento"
	DeptServiceAccount = "Conta de Serviço"
	WorkingDayDefault  = "Jornada padrão"
	WorkingDayNone     = "N/A"
)

// Collaborator is one record of the XoneCloud collaborators payload.
type Collaborator struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayname"`
	Status      bool   `json:"status"`
	Department  string `json:"department"`
	WorkingDay  string `json:"workingday"`
	Email       string `json:"email"`
}

// CollaboratorOptions holds the exclusion filters for the transform.
type CollaboratorOptions struct {
	ExcludeServiceAccounts   bool
	ExcludeWithoutDepartment bool
}

// Collaborators maps directory users into XoneCloud collaborator records,
// preserving input order. Usernames are made unique with a "-N" suffix;
// records dropped by a filter are not emitted at all, but their username
// still counts as taken so re-runs produce stable suffixes.
func Collaborators(users []msgraph.GraphUser, opts CollaboratorOptions) []Collaborator {
	out := make([]Collaborator, 0, len(users))
	seen := make(map[string]struct{}, len(users))

	for _, u := range users {
		username := uniqueUsername(BuildUsername(u), seen)

		service := IsServiceAccount(u.UserPrincipalName, u.DisplayName)

		if opts.ExcludeServiceAccounts && service {
			continue
		}
		if opts.ExcludeWithoutDepartment && u.Department == "" {
			continue
		}

		department := u.Department
		if department == "" {
			if service {
				department = DeptServiceAccount
			} else {
				department = DeptNoDepartment
			}
		}

		workingDay := WorkingDayDefault
		if service {
			workingDay = WorkingDayNone
		}

		out = append(out, Collaborator{
			Username:    username,
			DisplayName: u.DisplayName,
			Status:      u.AccountEnabled,
			Department:  department,
			WorkingDay:  workingDay,
			Email:       u.UserPrincipalName,
		})
	}

	return out
}

// uniqueUsername resolves collisions (and empty names) by suffixing with
// an incrementing counter, keeping the result within MaxUsernameLen.
func uniqueUsername(username string, seen map[string]struct{}) string {
	base := username
	if base == "" {
		base = "user"
	}
	if len(base) > MaxUsernameLen-3 {
		base = base[:MaxUsernameLen-3]
	}

	suffix := 1
	for {
		if username != "" {
			if _, taken := seen[username]; !taken {
				break
			}
		}
		username = fmt.Sprintf("%s-%d", base, suffix)
		if len(username) > MaxUsernameLen {
			username = username[:MaxUsernameLen]
		}
		suffix++
	}

	seen[username] = struct{}{}
	return username
}

// CountWithoutDepartment reports how many collaborators landed in the
// "no department" bucket, for the post-transform summary.
func CountWithoutDepartment(collabs []Collaborator) int {
	n := 0
	for _, c := range collabs {
		if c.Department == DeptNoDepartment {
			n++
		}
	}
	return n
}
