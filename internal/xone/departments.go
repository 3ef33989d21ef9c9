package xone

import (
	"context"

	"github.com/arctica-ti/xone-sync/internal/transform"
	"github.com/arctica-ti/xone-sync/tools"
)

// departmentsEnvelope is the wrapper object the departments endpoint
// expects; collaborators are sent as a bare array instead.
type departmentsEnvelope struct {
	Lang        string                 `json:"lang"`
	Departments []transform.Department `json:"departments"`
}

// SendDepartments delivers the department list in a single POST. The list
// is small by construction (one record per distinct department), so it is
// never chunked.
func (c *Client) SendDepartments(ctx context.Context, departments []transform.Department, dryRun bool) Result {
	total := len(departments)
	if total == 0 {
		return Result{Status: StatusNoop}
	}

	if dryRun {
		tools.Log.Info("[departments] DRY RUN - no calls will be made")
		tools.Log.Infof("[departments] URL: %s", c.deptURL)
		tools.Log.Infof("[departments] Total: %d", total)
		return Result{Status: StatusDryRun, Total: total}
	}

	tools.Log.Infof("[departments] Sending %d departments...", total)

	payload := departmentsEnvelope{Lang: c.lang, Departments: departments}
	if err := c.post(ctx, c.deptURL, payload); err != nil {
		tools.Log.Errorf("[departments] %v", err)
		return Result{
			Status: StatusError,
			Total:  total,
			Failed: total,
			Errors: []string{tools.Truncate(err.Error(), errTextLimit)},
		}
	}

	tools.Log.Info("[departments] Success")
	return Result{Status: StatusSuccess, Total: total, Successful: total}
}
