package transform

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/arctica-ti/xone-sync/internal/msgraph"
	"github.com/arctica-ti/xone-sync/tools"
)

// Placeholder manager values used until a user in the department carries
// a real manager reference.
const (
	PlaceholderManagerName  = "Manager Name"
	PlaceholderManagerEmail = "manager.email@arctica.com.br"
)

// Department is one record of the XoneCloud departments payload. It is a
// header record, not a roster: it carries a representative manager and
// the first-seen user of the department.
type Department struct {
	Name           string  `json:"name"`
	Manager        string  `json:"manager"`
	ManagerEmail   string  `json:"manager_email"`
	WorkingDayName *string `json:"workingday_name"`
	UserName       string  `json:"user_name"`
}

// DepartmentOptions controls department aggregation.
type DepartmentOptions struct {
	// NormalizeNames title-cases department names before keying, so
	// "human resources" and "Human Resources" collapse into one entry.
	NormalizeNames bool
}

// Departments folds users (fetched with manager expansion) into one entry
// per distinct non-empty department, in first-seen order. The first user
// seeds the entry; a placeholder manager is replaced by the first real
// manager observed later — users after that do not touch the entry.
func Departments(users []msgraph.GraphUser, opts DepartmentOptions) []Department {
	caser := cases.Title(language.BrazilianPortuguese)

	byName := make(map[string]int)
	var out []Department

	for _, u := range users {
		name := u.Department
		if name == "" {
			continue
		}
		if opts.NormalizeNames {
			name = caser.String(name)
		}

		managerName := PlaceholderManagerName
		managerEmail := PlaceholderManagerEmail
		if u.Manager != nil {
			if u.Manager.DisplayName != "" {
				managerName = u.Manager.DisplayName
			}
			if u.Manager.UserPrincipalName != "" {
				managerEmail = u.Manager.UserPrincipalName
			}
		}

		idx, ok := byName[name]
		if !ok {
			byName[name] = len(out)
			out = append(out, Department{
				Name:           name,
				Manager:        managerName,
				ManagerEmail:   managerEmail,
				WorkingDayName: nil,
				UserName:       tools.LocalPart(u.UserPrincipalName),
			})
			continue
		}

		// First real manager wins; the representative user stays.
		if out[idx].Manager == PlaceholderManagerName && managerName != PlaceholderManagerName {
			out[idx].Manager = managerName
			out[idx].ManagerEmail = managerEmail
		}
	}

	return out
}
