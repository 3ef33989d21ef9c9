package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/arctica-ti/xone-sync/tools"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// SelectCollabFields is the projection used for the collaborator flow.
var SelectCollabFields = []string{
	"userPrincipalName", "displayName", "accountEnabled", "department", "employeeId",
}

// SelectDeptFields is the projection used for the department flow, paired
// with a manager expansion.
var SelectDeptFields = []string{"userPrincipalName", "displayName", "department"}

// ManagerRef is the expanded manager relationship on a user.
type ManagerRef struct {
	DisplayName       string `json:"displayName"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// GraphUser is the slice of the directory user object this system reads.
type GraphUser struct {
	UserPrincipalName string      `json:"userPrincipalName"`
	DisplayName       string      `json:"displayName"`
	AccountEnabled    bool        `json:"accountEnabled"`
	Department        string      `json:"department"`
	EmployeeID        string      `json:"employeeId"`
	Manager           *ManagerRef `json:"manager,omitempty"`
}

// Client reads the /users collection from Microsoft Graph.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
}

// NewClient returns a Graph client. baseURL overrides the public endpoint
// when non-empty (used by tests).
func NewClient(baseURL string, pageSize int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = 999
	}
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   pageSize,
	}
}

// FetchOptions controls projection and filtering for a users read.
type FetchOptions struct {
	Select        []string
	ExpandManager bool
	OnlyEnabled   bool
}

type usersPage struct {
	Value    []GraphUser `json:"value"`
	NextLink string      `json:"@odata.nextLink"`
}

// FetchUsers pages through the user collection, following the
// @odata.nextLink continuation URL until the service stops returning one.
// The whole result set is accumulated in memory; a tenant of tens of
// thousands of users stays well within a batch job's budget.
func (c *Client) FetchUsers(ctx context.Context, token string, opts FetchOptions) ([]GraphUser, error) {
	next := c.usersURL(opts)
	var users []GraphUser

	for next != "" {
		page, err := c.fetchPage(ctx, token, next)
		if err != nil {
			return nil, err
		}

		batch := page.Value
		if opts.OnlyEnabled {
			filtered := batch[:0]
			for _, u := range batch {
				if u.AccountEnabled {
					filtered = append(filtered, u)
				}
			}
			batch = filtered
		}
		users = append(users, batch...)
		next = page.NextLink
	}

	tools.Log.WithField("count", len(users)).Info("Collected users from Graph")
	return users, nil
}

func (c *Client) fetchPage(ctx context.Context, token, pageURL string) (*usersPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build users request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("users request: %w", err)
	}
	defer resp.Body.Close()

	if err := wrapStatus(resp.StatusCode); err != nil {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: HTTP %d: %s", err, resp.StatusCode, tools.Truncate(string(body), 300))
	}

	var page usersPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode users page: %w", err)
	}
	return &page, nil
}

func (c *Client) usersURL(opts FetchOptions) string {
	params := url.Values{}
	if len(opts.Select) > 0 {
		params.Set("$select", strings.Join(opts.Select, ","))
	}
	if opts.ExpandManager {
		params.Set("$expand", "manager($select=displayName,userPrincipalName)")
	}
	params.Set("$top", strconv.Itoa(c.pageSize))
	return c.baseURL + "/users?" + params.Encode()
}
