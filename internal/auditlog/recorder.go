package auditlog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"nathanbeddoewebdev/panelctl/internal/session"
)

// SessionRecorder writes session transitions to a Repository. It satisfies
// session.Recorder.
type SessionRecorder struct {
	repo   Repository
	logger *slog.Logger
}

// NewSessionRecorder returns a recorder over repo. A nil logger discards.
func NewSessionRecorder(repo Repository, logger *slog.Logger) *SessionRecorder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SessionRecorder{repo: repo, logger: logger}
}

// Record stores ev as a "session <action>" entry. Storage failures are
// logged; they never interrupt the transition being recorded.
func (r *SessionRecorder) Record(ev session.Event) {
	entry := &AuditEntry{
		Command: "session " + ev.Action,
		Actor:   ev.Subject,
		Outcome: ev.Outcome,
		Detail:  ev.Detail,
	}
	if ev.Subject != "" {
		entry.ResourceType = "user"
		entry.ResourceID = ev.Subject
	}
	if err := r.repo.Save(entry); err != nil {
		r.logger.Warn("failed to record session event", "action", ev.Action, "error", err)
	}
}

// CommandRun describes one finished command invocation.
type CommandRun struct {
	Command      string
	Args         []string
	Actor        string
	Impersonator string
	Started      time.Time
	Err          error
}

// Entry converts run into an AuditEntry, taking resource details from any
// Metadata attached to ctx.
func (run CommandRun) Entry(ctx context.Context) *AuditEntry {
	meta := MetadataFromContext(ctx)
	entry := &AuditEntry{
		Timestamp:    run.Started.UTC(),
		Command:      run.Command,
		Args:         strings.Join(SanitizeArgs(run.Args), " "),
		Actor:        run.Actor,
		Impersonator: run.Impersonator,
		ResourceType: meta.ResourceType,
		ResourceID:   meta.ResourceID,
		ResourceName: meta.ResourceName,
		Outcome:      OutcomeSuccess,
		DurationMs:   time.Since(run.Started).Milliseconds(),
	}
	if run.Err != nil {
		entry.Outcome = OutcomeError
		entry.Detail = run.Err.Error()
	}
	return entry
}
