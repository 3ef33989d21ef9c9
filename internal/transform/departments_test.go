package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arctica-ti/xone-sync/internal/msgraph"
)

func TestDepartments_OneEntryPerDepartment(t *testing.T) {
	users := []msgraph.GraphUser{
		{UserPrincipalName: "a@corp.com", Department: "TI"},
		{UserPrincipalName: "b@corp.com", Department: "RH"},
		{UserPrincipalName: "c@corp.com", Department: "TI"},
		{UserPrincipalName: "d@corp.com"},
	}

	out := Departments(users, DepartmentOptions{})
	require.Len(t, out, 2)
	assert.Equal(t, "TI", out[0].Name)
	assert.Equal(t, "RH", out[1].Name)
}

func TestDepartments_PlaceholderManagerWithoutExpansion(t *testing.T) {
	users := []msgraph.GraphUser{
		{UserPrincipalName: "a@corp.com", Department: "TI"},
	}

	out := Departments(users, DepartmentOptions{})
	require.Len(t, out, 1)
	assert.Equal(t, PlaceholderManagerName, out[0].Manager)
	assert.Equal(t, PlaceholderManagerEmail, out[0].ManagerEmail)
	assert.Equal(t, "a", out[0].UserName)
	assert.Nil(t, out[0].WorkingDayName)
}

func TestDepartments_FirstRealManagerWins(t *testing.T) {
	users := []msgraph.GraphUser{
		{UserPrincipalName: "a@corp.com", Department: "TI"},
		{
			UserPrincipalName: "b@corp.com",
			Department:        "TI",
			Manager:           &msgraph.ManagerRef{DisplayName: "Boss", UserPrincipalName: "boss@corp.com"},
		},
		{
			UserPrincipalName: "c@corp.com",
			Department:        "TI",
			Manager:           &msgraph.ManagerRef{DisplayName: "Other Boss", UserPrincipalName: "other@corp.com"},
		},
	}

	out := Departments(users, DepartmentOptions{})
	require.Len(t, out, 1)
	// Manager comes from the second user (first with a real manager)...
	assert.Equal(t, "Boss", out[0].Manager)
	assert.Equal(t, "boss@corp.com", out[0].ManagerEmail)
	// ...but the representative user stays the first seen.
	assert.Equal(t, "a", out[0].UserName)
}

func TestDepartments_ManagerFromFirstUserKept(t *testing.T) {
	users := []msgraph.GraphUser{
		{
			UserPrincipalName: "a@corp.com",
			Department:        "TI",
			Manager:           &msgraph.ManagerRef{DisplayName: "Boss", UserPrincipalName: "boss@corp.com"},
		},
		{
			UserPrincipalName: "b@corp.com",
			Department:        "TI",
			Manager:           &msgraph.ManagerRef{DisplayName: "Usurper", UserPrincipalName: "usurper@corp.com"},
		},
	}

	out := Departments(users, DepartmentOptions{})
	require.Len(t, out, 1)
	assert.Equal(t, "Boss", out[0].Manager)
}

func TestDepartments_NormalizeNamesCollapsesCasing(t *testing.T) {
	users := []msgraph.GraphUser{
		{UserPrincipalName: "a@corp.com", Department: "recursos humanos"},
		{UserPrincipalName: "b@corp.com", Department: "Recursos Humanos"},
	}

	out := Departments(users, DepartmentOptions{NormalizeNames: true})
	require.Len(t, out, 1)
	assert.Equal(t, "Recursos Humanos", out[0].Name)

	// Default: casing variants stay distinct entries.
	out = Departments(users, DepartmentOptions{})
	assert.Len(t, out, 2)
}
