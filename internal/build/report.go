package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// IssueCode enumerates machine-parseable issue identifiers. Codes are stable
// contract; only append, never reuse.
type IssueCode string

const (
	IssueScanFailure   IssueCode = "SCAN_FAILURE"
	IssueRenderFailure IssueCode = "RENDER_FAILURE"
	IssueAssetCopy     IssueCode = "ASSET_COPY_FAILURE"
	IssueBrokenLinks   IssueCode = "BROKEN_LINKS"
	IssueStaging       IssueCode = "STAGING_FAILURE"
	IssueCanceled      IssueCode = "BUILD_CANCELED"
	IssueGenericStage  IssueCode = "GENERIC_STAGE_ERROR"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a structured taxonomy entry describing a discrete problem.
// Message is human-friendly; Code + Stage allow automated handling.
type Issue struct {
	Code     IssueCode     `json:"code"`
	Stage    StageName     `json:"stage"`
	Severity IssueSeverity `json:"severity"`
	Message  string        `json:"message"`
}

// StageCount aggregates result counts for one stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// Report captures high-level metrics about one site generation run.
type Report struct {
	SchemaVersion int
	BuildID       string
	Start         time.Time
	End           time.Time

	Pages           int
	Collections     int
	NavigationNodes int
	RenderedPages   int
	CopiedAssets    int
	BrokenLinks     int
	ManifestHash    string

	Errors          []error
	Warnings        []error
	StageDurations  map[string]time.Duration
	StageErrorKinds map[StageName]StageErrorKind
	StageCounts     map[StageName]StageCount
	Issues          []Issue
	Outcome         BuildOutcome
}

// NewReport constructs a report with a fresh build ID.
func NewReport() *Report {
	return &Report{
		SchemaVersion:   1,
		BuildID:         uuid.NewString(),
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

// AddIssue appends a structured issue and mirrors it into the Errors or
// Warnings slice when an error is provided.
func (r *Report) AddIssue(code IssueCode, stage StageName, severity IssueSeverity, msg string, err error) {
	r.Issues = append(r.Issues, Issue{Code: code, Stage: stage, Severity: severity, Message: msg})
	if err != nil {
		switch severity {
		case SeverityError:
			r.Errors = append(r.Errors, err)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, err)
		}
	}
}

// Duration returns the wall-clock build duration.
func (r *Report) Duration() time.Duration {
	end := r.End
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(r.Start)
}

// Finish stamps the end time and derives the outcome. Idempotent.
func (r *Report) Finish() {
	if r.End.IsZero() {
		r.End = time.Now()
	}
	r.deriveOutcome()
}

// deriveOutcome sets Outcome from recorded errors and warnings.
func (r *Report) deriveOutcome() {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			if se, ok := e.(*StageError); ok && se.Kind == StageErrorCanceled {
				r.Outcome = OutcomeCanceled
				return
			}
		}
		r.Outcome = OutcomeFailed
		return
	}
	if len(r.Warnings) > 0 {
		r.Outcome = OutcomeWarning
		return
	}
	r.Outcome = OutcomeSuccess
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("pages=%d collections=%d rendered=%d assets=%d duration=%s errors=%d warnings=%d outcome=%s",
		r.Pages, r.Collections, r.RenderedPages, r.CopiedAssets,
		r.Duration().Truncate(time.Millisecond), len(r.Errors), len(r.Warnings), r.Outcome)
}

// Persist writes build-report.json (machine readable) and build-report.txt
// (human summary) atomically into root. Best effort; errors are returned for
// caller logging but never change the build outcome.
func (r *Report) Persist(root string) error {
	if r.End.IsZero() {
		r.Finish()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}

	jb, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	jsonPath := filepath.Join(root, "build-report.json")
	if err := os.WriteFile(jsonPath+".tmp", jb, 0o644); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(jsonPath+".tmp", jsonPath); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}

	txtPath := filepath.Join(root, "build-report.txt")
	if err := os.WriteFile(txtPath+".tmp", []byte(r.Summary()+"\n"), 0o644); err != nil {
		return fmt.Errorf("write temp report summary: %w", err)
	}
	if err := os.Rename(txtPath+".tmp", txtPath); err != nil {
		return fmt.Errorf("atomic rename summary: %w", err)
	}
	return nil
}

// serializable returns a copy with error values flattened to strings.
func (r *Report) serializable() *reportSerializable {
	stageErrorKinds := make(map[string]string, len(r.StageErrorKinds))
	for k, v := range r.StageErrorKinds {
		stageErrorKinds[string(k)] = string(v)
	}
	stageCounts := make(map[string]StageCount, len(r.StageCounts))
	for k, v := range r.StageCounts {
		stageCounts[string(k)] = v
	}

	s := &reportSerializable{
		SchemaVersion:   r.SchemaVersion,
		BuildID:         r.BuildID,
		Start:           r.Start,
		End:             r.End,
		Pages:           r.Pages,
		Collections:     r.Collections,
		NavigationNodes: r.NavigationNodes,
		RenderedPages:   r.RenderedPages,
		CopiedAssets:    r.CopiedAssets,
		BrokenLinks:     r.BrokenLinks,
		ManifestHash:    r.ManifestHash,
		Errors:          make([]string, len(r.Errors)),
		Warnings:        make([]string, len(r.Warnings)),
		StageDurations:  r.StageDurations,
		StageErrorKinds: stageErrorKinds,
		StageCounts:     stageCounts,
		Issues:          r.Issues,
		Outcome:         string(r.Outcome),
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}

// reportSerializable mirrors Report with string errors for JSON output.
type reportSerializable struct {
	SchemaVersion   int                      `json:"schema_version"`
	BuildID         string                   `json:"build_id"`
	Start           time.Time                `json:"start"`
	End             time.Time                `json:"end"`
	Pages           int                      `json:"pages"`
	Collections     int                      `json:"collections"`
	NavigationNodes int                      `json:"navigation_nodes"`
	RenderedPages   int                      `json:"rendered_pages"`
	CopiedAssets    int                      `json:"copied_assets"`
	BrokenLinks     int                      `json:"broken_links"`
	ManifestHash    string                   `json:"manifest_hash"`
	Errors          []string                 `json:"errors"`
	Warnings        []string                 `json:"warnings"`
	StageDurations  map[string]time.Duration `json:"stage_durations"`
	StageErrorKinds map[string]string        `json:"stage_error_kinds"`
	StageCounts     map[string]StageCount    `json:"stage_counts"`
	Issues          []Issue                  `json:"issues"`
	Outcome         string                   `json:"outcome"`
}
