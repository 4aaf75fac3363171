package reconcile

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ActionType is the decision taken for a single key.
type ActionType string

const (
	// ActionDelete removes a remote object.
	ActionDelete ActionType = "delete"
	// ActionUpload writes the local file to its key.
	ActionUpload ActionType = "upload"
	// ActionSkip leaves an up-to-date object untouched.
	ActionSkip ActionType = "skip"
)

// Reason explains why an action was chosen.
type Reason string

const (
	ReasonOrphan    Reason = "orphan"
	ReasonNew       Reason = "new"
	ReasonOutOfDate Reason = "out_of_date"
	ReasonUpToDate  Reason = "up_to_date"
	ReasonManifest  Reason = "manifest"
)

// ReplaceMode selects how an out-of-date object is replaced.
type ReplaceMode string

const (
	// ReplaceDeleteUpload deletes the remote object, then uploads the local copy.
	ReplaceDeleteUpload ReplaceMode = "delete-upload"
	// ReplaceOverwrite uploads over the existing key in a single call.
	// Only correct when the store overwrites by key (last writer wins).
	ReplaceOverwrite ReplaceMode = "overwrite"
)

// CompareMode selects how local and remote content are compared.
type CompareMode string

const (
	// CompareBytes buffers both sides and compares them byte for byte.
	CompareBytes CompareMode = "bytes"
	// CompareSHA256 streams both sides through SHA-256 and compares digests.
	CompareSHA256 CompareMode = "sha256"
)

// Options controls a single run.
type Options struct {
	// DryRun records every decision without mutating the bucket or manifest.
	DryRun bool
	// Workers bounds how many keys are processed at once. 1 is fully sequential.
	Workers int
	// ReplaceMode selects delete-then-upload or a single overwrite.
	ReplaceMode ReplaceMode
	// Compare selects the content equality strategy.
	Compare CompareMode
	// PublicRead uploads objects with the public-read canned ACL.
	PublicRead bool
	// StrictFetch fails the run on any fetch error other than a missing key.
	// When false every fetch failure classifies the file as new.
	StrictFetch bool
}

func (o Options) normalized() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.ReplaceMode == "" {
		o.ReplaceMode = ReplaceDeleteUpload
	}
	if o.Compare == "" {
		o.Compare = CompareBytes
	}
	return o
}

// Action is one decision recorded during a run.
type Action struct {
	Type   ActionType `json:"type"`
	Key    string     `json:"key"`
	Path   string     `json:"path,omitempty"`
	Reason Reason     `json:"reason"`
	Size   int64      `json:"size,omitempty"`
}

// Summary provides aggregate counts for a run.
type Summary struct {
	// RemoteObjects counts listed objects, directory markers excluded.
	RemoteObjects int `json:"remote_objects"`
	// LocalFiles counts enumerated local files.
	LocalFiles int `json:"local_files"`
	// Deleted counts orphaned remote objects removed by the prune pass.
	Deleted int `json:"deleted"`
	// Uploaded counts new files uploaded.
	Uploaded int `json:"uploaded"`
	// Replaced counts out-of-date objects replaced with the local copy.
	Replaced int `json:"replaced"`
	// Skipped counts files whose remote copy was already identical.
	Skipped int `json:"skipped"`
	// BytesUploaded totals the bytes sent (or that would be sent in a dry run).
	BytesUploaded int64 `json:"bytes_uploaded"`
}

// Changes returns the number of keys that were (or would be) mutated.
func (s Summary) Changes() int {
	return s.Deleted + s.Uploaded + s.Replaced
}

// Report is the outcome of a run. It is safe for concurrent use while the run
// is in progress and immutable once returned.
type Report struct {
	mu sync.Mutex

	RunID     string        `json:"run_id"`
	DryRun    bool          `json:"dry_run"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Summary   Summary       `json:"summary"`
	Actions   []Action      `json:"actions"`
}

// NewReport starts an empty report with a fresh run ID.
func NewReport(dryRun bool) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
		Actions:   []Action{},
	}
}

// record appends actions and applies update to the summary atomically.
func (r *Report) record(update func(*Summary), actions ...Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Actions = append(r.Actions, actions...)
	if update != nil {
		update(&r.Summary)
	}
}

// ActionsFor returns the recorded actions for key in the order they were taken.
func (r *Report) ActionsFor(key string) []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Action
	for _, a := range r.Actions {
		if a.Key == key {
			out = append(out, a)
		}
	}
	return out
}

// finish stamps the duration and orders actions by key. The sort is stable so
// a delete recorded before its upload stays first.
func (r *Report) finish() *Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Duration = time.Since(r.StartedAt)
	sort.SliceStable(r.Actions, func(i, j int) bool {
		return r.Actions[i].Key < r.Actions[j].Key
	})
	return r
}
