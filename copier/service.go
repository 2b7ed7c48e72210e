package copier

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ClearDemand/tempo-utils/internal/timeutil"
	"github.com/ClearDemand/tempo-utils/tempo"
	"github.com/ClearDemand/tempo-utils/worklog"
)

// DefaultDescription is applied when a source worklog carries no description.
const DefaultDescription = "Copied worklog"

// PlannedEntry pairs a fetched source worklog with the create request derived
// from it.
type PlannedEntry struct {
	Source  tempo.Worklog
	Request tempo.CreateWorklogRequest

	// Exists marks entries already present in the destination week. They are
	// skipped by Apply.
	Exists bool
}

// Plan is the in-memory copy plan for one source week. It is never persisted.
type Plan struct {
	AccountID  string
	SourceWeek worklog.Week
	DestWeek   worklog.Week
	OffsetDays int
	Entries    []PlannedEntry
}

// Pending counts the entries Apply would create.
func (p *Plan) Pending() int {
	count := 0
	for _, entry := range p.Entries {
		if !entry.Exists {
			count++
		}
	}
	return count
}

// Skipped counts the entries marked as already existing remotely.
func (p *Plan) Skipped() int {
	return len(p.Entries) - p.Pending()
}

type RunOptions struct {
	// SkipExisting fetches the destination week first and marks entries that
	// already exist remotely so they are not created twice.
	SkipExisting bool

	// Timeout bounds each individual API operation. Zero means no bound
	// beyond the HTTP client's own.
	Timeout time.Duration

	// Out receives progress lines. Defaults to io.Discard.
	Out io.Writer
}

func (o RunOptions) writer() io.Writer {
	if o.Out == nil {
		return io.Discard
	}
	return o.Out
}

// Failure records one create call that could not be completed.
type Failure struct {
	SourceID int64
	Date     string
	IssueID  int64
	Err      error
}

type Result struct {
	Planned  int
	Created  int
	Skipped  int
	Failures []Failure
}

// Failed reports whether any planned entry could not be created.
func (r *Result) Failed() bool {
	return len(r.Failures) > 0
}

// PlanWeek fetches the source week and derives one create request per fetched
// worklog, re-dated by the whole-day offset between the two weeks. All non
// date fields are carried over verbatim. With SkipExisting, the destination
// week is fetched as well and already present entries are marked.
func PlanWeek(
	ctx context.Context,
	client tempo.Client,
	accountID string,
	sourceWeek, destWeek worklog.Week,
	options RunOptions,
) (*Plan, error) {
	out := options.writer()
	fmt.Fprintf(out, "Fetching worklogs from %s to %s...\n",
		timeutil.FormatDay(sourceWeek.Start), timeutil.FormatDay(sourceWeek.End()))

	fetchCtx, cancelFetch := opContext(ctx, options.Timeout)
	sourceLogs, err := client.ListUserWorklogs(fetchCtx, accountID, sourceWeek.Start, sourceWeek.End())
	cancelFetch()
	if err != nil {
		return nil, fmt.Errorf("fetch source week %s: %w", sourceWeek, err)
	}

	plan, err := BuildPlan(accountID, sourceWeek, destWeek, sourceLogs)
	if err != nil {
		return nil, err
	}

	if len(plan.Entries) == 0 {
		fmt.Fprintln(out, "No worklogs found for the source week.")
		return plan, nil
	}
	fmt.Fprintf(out, "Found %d worklogs to copy...\n", len(plan.Entries))

	if options.SkipExisting {
		destCtx, cancelDest := opContext(ctx, options.Timeout)
		existing, err := client.ListUserWorklogs(destCtx, accountID, destWeek.Start, destWeek.End())
		cancelDest()
		if err != nil {
			return nil, fmt.Errorf("fetch destination week %s: %w", destWeek, err)
		}
		markExisting(plan, existing)
	}

	return plan, nil
}

// BuildPlan derives the copy plan from already fetched source worklogs. Every
// source entry must fall inside the source week.
func BuildPlan(accountID string, sourceWeek, destWeek worklog.Week, worklogs []tempo.Worklog) (*Plan, error) {
	plan := &Plan{
		AccountID:  accountID,
		SourceWeek: sourceWeek,
		DestWeek:   destWeek,
		OffsetDays: sourceWeek.DaysUntil(destWeek),
		Entries:    make([]PlannedEntry, 0, len(worklogs)),
	}

	for _, source := range worklogs {
		day, err := source.Day()
		if err != nil {
			return nil, fmt.Errorf("worklog %d: %w", source.TempoWorklogID, err)
		}
		if !sourceWeek.Contains(day) {
			return nil, fmt.Errorf(
				"worklog %d dated %s falls outside the source week %s",
				source.TempoWorklogID, source.StartDate, sourceWeek,
			)
		}

		description := source.Description
		if description == "" {
			description = DefaultDescription
		}

		attributes := source.Attributes.Values
		if attributes == nil {
			attributes = []tempo.AttributeValue{}
		}

		plan.Entries = append(plan.Entries, PlannedEntry{
			Source: source,
			Request: tempo.CreateWorklogRequest{
				Attributes:       attributes,
				AuthorAccountID:  accountID,
				IssueID:          source.Issue.ID,
				TimeSpentSeconds: source.TimeSpentSeconds,
				StartDate:        tempo.FormatDate(day.AddDate(0, 0, plan.OffsetDays)),
				StartTime:        source.StartTime,
				Description:      description,
			},
		})
	}

	return plan, nil
}

// Apply creates every pending planned entry in plan order. A failed create is
// recorded and the run continues; already created entries stay in place.
func Apply(ctx context.Context, client tempo.Client, plan *Plan, options RunOptions) *Result {
	out := options.writer()
	result := &Result{Planned: len(plan.Entries)}

	for _, entry := range plan.Entries {
		if entry.Exists {
			result.Skipped++
			fmt.Fprintf(out, "Skipping existing worklog for %s - %d\n", entry.Request.StartDate, entry.Request.IssueID)
			continue
		}

		createCtx, cancelCreate := opContext(ctx, options.Timeout)
		_, err := client.CreateWorklog(createCtx, entry.Request)
		cancelCreate()
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				SourceID: entry.Source.TempoWorklogID,
				Date:     entry.Request.StartDate,
				IssueID:  entry.Request.IssueID,
				Err:      err,
			})
			fmt.Fprintf(out, "Failed to create worklog for %s - %d: %v\n", entry.Request.StartDate, entry.Request.IssueID, err)
			continue
		}

		result.Created++
		fmt.Fprintf(out, "Created worklog for %s - %d\n", entry.Request.StartDate, entry.Request.IssueID)
	}

	return result
}

// Equivalent reports whether an existing destination worklog already covers
// the planned request: same day, issue, duration, start time and description.
func Equivalent(existing tempo.Worklog, request tempo.CreateWorklogRequest) bool {
	return existing.StartDate == request.StartDate &&
		existing.Issue.ID == request.IssueID &&
		existing.TimeSpentSeconds == request.TimeSpentSeconds &&
		existing.StartTime == request.StartTime &&
		existing.Description == request.Description
}

// markExisting pairs each planned entry with at most one remote worklog, so
// two identical planned entries are only skipped when the destination week
// holds two matching copies.
func markExisting(plan *Plan, existing []tempo.Worklog) {
	matched := make([]bool, len(existing))
	for i := range plan.Entries {
		for j, remote := range existing {
			if matched[j] || !Equivalent(remote, plan.Entries[i].Request) {
				continue
			}
			plan.Entries[i].Exists = true
			matched[j] = true
			break
		}
	}
}

func opContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
