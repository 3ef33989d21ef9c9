package xone

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arctica-ti/xone-sync/internal/transform"
	"github.com/arctica-ti/xone-sync/tools"
)

// SendCollaborators delivers collaborator records: a single POST when the
// list fits in one batch, otherwise one POST per fixed-size chunk in
// original order. A failed chunk does not abort the remaining ones; the
// result reports the split.
func (c *Client) SendCollaborators(ctx context.Context, collabs []transform.Collaborator, batchSize int, dryRun bool) Result {
	total := len(collabs)
	if total == 0 {
		return Result{Status: StatusNoop}
	}

	chunks := tools.Chunk(collabs, batchSize)

	if dryRun {
		tools.Log.Info("[collaborators] DRY RUN - no calls will be made")
		tools.Log.Infof("[collaborators] URL: %s", c.collabURL)
		if len(chunks) == 1 {
			tools.Log.Infof("[collaborators] Total: %d (single call)", total)
		} else {
			tools.Log.Infof("[collaborators] Total: %d (%d batches of up to %d)", total, len(chunks), batchSize)
		}
		if sample, err := json.Marshal(collabs[0]); err == nil {
			tools.Log.Infof("[collaborators] First payload: %s", sample)
		}
		return Result{Status: StatusDryRun, Total: total}
	}

	if len(chunks) == 1 {
		tools.Log.Infof("[collaborators] Sending %d collaborators in a single call...", total)
		if err := c.post(ctx, c.collabURL, collabs); err != nil {
			tools.Log.Errorf("[collaborators] %v", err)
			return Result{
				Status: StatusError,
				Total:  total,
				Failed: total,
				Errors: []string{tools.Truncate(err.Error(), errTextLimit)},
			}
		}
		return Result{Status: StatusSuccess, Total: total, Successful: total}
	}

	tools.Log.Infof("[collaborators] Sending %d collaborators in %d batches of up to %d...", total, len(chunks), batchSize)

	var successful, failed int
	var errs []string

	for i, chunk := range chunks {
		batchNumber := i + 1
		tools.Log.Infof("[collaborators] Sending batch %d/%d (%d records)...", batchNumber, len(chunks), len(chunk))

		if err := c.post(ctx, c.collabURL, chunk); err != nil {
			msg := fmt.Sprintf("batch %d: %s", batchNumber, tools.Truncate(err.Error(), errTextLimit))
			tools.Log.Errorf("[collaborators] %s", msg)
			failed += len(chunk)
			if len(errs) < maxErrSamples {
				errs = append(errs, msg)
			}
			continue
		}

		successful += len(chunk)
		tools.Log.Infof("[collaborators] Batch %d OK", batchNumber)
	}

	if failed > 0 {
		return Result{
			Status:     StatusPartialError,
			Total:      total,
			Successful: successful,
			Failed:     failed,
			Errors:     errs,
		}
	}
	return Result{Status: StatusSuccess, Total: total, Successful: successful}
}

// perUserPayload is the trimmed record sent in one-call-per-user mode.
// The endpoint variant this mode targets does not accept the email field.
type perUserPayload struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayname"`
	Status      bool   `json:"status"`
	Department  string `json:"department"`
	WorkingDay  string `json:"workingday"`
}

// SendCollaboratorsOneByOne issues one POST per collaborator, paced by the
// client limiter. Failures are tallied per user and do not stop the run.
func (c *Client) SendCollaboratorsOneByOne(ctx context.Context, collabs []transform.Collaborator, dryRun bool) Result {
	total := len(collabs)
	if total == 0 {
		return Result{Status: StatusNoop}
	}

	if dryRun {
		tools.Log.Info("[collaborators] DRY RUN - no calls will be made")
		tools.Log.Infof("[collaborators] URL: %s", c.collabURL)
		tools.Log.Infof("[collaborators] Total: %d (one call per user)", total)
		return Result{Status: StatusDryRun, Total: total}
	}

	tools.Log.Infof("[collaborators] Sending %d collaborators, one call per user...", total)

	var successful, failed int
	var errs []string

	for i, collab := range collabs {
		if err := c.limiter.Wait(ctx); err != nil {
			// Context cancelled; report what was done so far.
			failed += total - i
			if len(errs) < maxErrSamples {
				errs = append(errs, tools.Truncate(err.Error(), errTextLimit))
			}
			break
		}

		payload := []perUserPayload{{
			Username:    collab.Username,
			DisplayName: collab.DisplayName,
			Status:      collab.Status,
			Department:  collab.Department,
			WorkingDay:  collab.WorkingDay,
		}}

		if err := c.post(ctx, c.collabURL, payload); err != nil {
			msg := fmt.Sprintf("%s: %s", collab.Username, tools.Truncate(err.Error(), errTextLimit))
			tools.Log.Errorf("[%d/%d] ERROR: %s", i+1, total, msg)
			failed++
			if len(errs) < maxErrSamples {
				errs = append(errs, msg)
			}
			continue
		}

		successful++
		tools.Log.Infof("[%d/%d] OK: %s", i+1, total, collab.Username)
	}

	switch {
	case failed == 0:
		return Result{Status: StatusSuccess, Total: total, Successful: successful}
	case successful == 0:
		return Result{Status: StatusError, Total: total, Failed: failed, Errors: errs}
	default:
		return Result{Status: StatusPartialError, Total: total, Successful: successful, Failed: failed, Errors: errs}
	}
}
