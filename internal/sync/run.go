package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/arctica-ti/xone-sync/internal/config"
	"github.com/arctica-ti/xone-sync/internal/msgraph"
	"github.com/arctica-ti/xone-sync/internal/transform"
	"github.com/arctica-ti/xone-sync/internal/xone"
	"github.com/arctica-ti/xone-sync/tools"
)

// Report summarizes one pipeline run.
type Report struct {
	RunID         string
	Departments   *xone.Result
	Collaborators *xone.Result
	Duration      time.Duration
}

// Runner wires the Graph reader, the transforms and the XoneCloud
// dispatcher into the departments → collaborators pipeline.
type Runner struct {
	cfg    *config.Config
	tokens *msgraph.TokenProvider
	graph  *msgraph.Client
	xone   *xone.Client
}

// NewRunner builds the pipeline from configuration. graphBaseURL and
// tokenURL override the public endpoints when non-empty (used by tests).
func NewRunner(cfg *config.Config, graphBaseURL, tokenURL string) *Runner {
	return &Runner{
		cfg:    cfg,
		tokens: msgraph.NewTokenProvider(cfg.Azure, tokenURL),
		graph:  msgraph.NewClient(graphBaseURL, cfg.Azure.PageSize),
		xone:   xone.NewClient(cfg.Xone),
	}
}

// Run executes one full sync: token acquisition, departments flow, then
// collaborators flow. Configuration, auth and directory-read errors are
// fatal; dispatch failures are reported in the Report instead.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	report := &Report{RunID: uuid.NewString()}
	log := tools.Log.WithField("run_id", report.RunID)
	start := time.Now()

	log.Info("Starting sync: departments -> collaborators")

	token, err := r.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.runDepartments(ctx, token, log, report); err != nil {
		return nil, err
	}
	if err := r.runCollaborators(ctx, token, log, report); err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)
	log.Infof("Sync finished in %s", report.Duration)
	return report, nil
}

func (r *Runner) runDepartments(ctx context.Context, token string, log *logrus.Entry, report *Report) error {
	if !r.cfg.Sync.SendDepartments {
		log.Info("[departments] Dispatch disabled (SEND_DEPARTMENTS=false)")
		return nil
	}

	users, err := r.graph.FetchUsers(ctx, token, msgraph.FetchOptions{
		Select:        msgraph.SelectDeptFields,
		ExpandManager: true,
	})
	if err != nil {
		return fmt.Errorf("fetch users for departments: %w", err)
	}

	departments := transform.Departments(users, transform.DepartmentOptions{
		NormalizeNames: r.cfg.Sync.NormalizeDepartments,
	})
	log.Infof("[departments] Generated %d departments", len(departments))
	for _, d := range departments {
		log.Debugf("[departments]   %s | manager: %s | base user: %s", d.Name, d.Manager, d.UserName)
	}

	result := r.xone.SendDepartments(ctx, departments, r.cfg.Sync.DeptDryRun)
	report.Departments = &result
	tools.LogSyncSummary("departments", result.Total, result.Successful, result.Failed)
	return nil
}

func (r *Runner) runCollaborators(ctx context.Context, token string, log *logrus.Entry, report *Report) error {
	if !r.cfg.Sync.SendCollaborators {
		log.Info("[collaborators] Dispatch disabled (SEND_COLLABORATORS=false)")
		return nil
	}

	users, err := r.graph.FetchUsers(ctx, token, msgraph.FetchOptions{
		Select:      msgraph.SelectCollabFields,
		OnlyEnabled: r.cfg.Sync.OnlyEnabled,
	})
	if err != nil {
		return fmt.Errorf("fetch users for collaborators: %w", err)
	}

	collabs := transform.Collaborators(users, transform.CollaboratorOptions{
		ExcludeServiceAccounts:   r.cfg.Sync.ExcludeServiceAccounts,
		ExcludeWithoutDepartment: r.cfg.Sync.ExcludeWithoutDepartment,
	})
	log.Infof("[collaborators] Total: %d | without department: %d",
		len(collabs), transform.CountWithoutDepartment(collabs))

	if r.cfg.Sync.TestSingleUser && len(collabs) > 1 {
		log.Warn("[collaborators] TEST MODE: sending only the first collaborator")
		collabs = collabs[:1]
	}

	var result xone.Result
	if r.cfg.Sync.PerUserMode {
		result = r.xone.SendCollaboratorsOneByOne(ctx, collabs, r.cfg.Sync.CollabDryRun)
	} else {
		result = r.xone.SendCollaborators(ctx, collabs, r.cfg.Sync.CollabBatchSize, r.cfg.Sync.CollabDryRun)
	}
	report.Collaborators = &result
	tools.LogSyncSummary("collaborators", result.Total, result.Successful, result.Failed)
	return nil
}
