package xone

// Status tags the outcome of one dispatch.
type Status string

const (
	StatusDryRun       Status = "dry_run"
	StatusSuccess      Status = "success"
	StatusPartialError Status = "partial_error"
	StatusError        Status = "error"
	StatusNoop         Status = "noop"
)

// Result is the outcome of a dispatch: counts plus up to a few truncated
// error samples when something failed.
type Result struct {
	Status     Status   `json:"status"`
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// OK reports whether the dispatch completed without any failed record.
func (r Result) OK() bool {
	return r.Status == StatusSuccess || r.Status == StatusDryRun || r.Status == StatusNoop
}
