package catalog

import (
	"time"

	"github.com/google/uuid"

	apperrors "catalog-backend/pkg/errors"
)

// Resolution tells the caller how to persist the outcome of an approve or
// deny decision.
type Resolution int

const (
	// ResolutionPersist means the mutated record must be written back.
	ResolutionPersist Resolution = iota
	// ResolutionHardDelete means the record must be removed from storage.
	ResolutionHardDelete
)

// Workflow drives the approval lifecycle of one catalog resource kind.
// Every kind runs the same machine; the only variation is the pending
// create status the kind selects.
//
// All methods mutate records in memory only. Persistence, event publishing
// and notifications are the caller's concern, which keeps the transitions
// directly testable.
type Workflow[F any] struct {
	kind Kind
	now  func() time.Time
}

// NewWorkflow creates the workflow for a resource kind.
func NewWorkflow[F any](kind Kind) *Workflow[F] {
	return &Workflow[F]{kind: kind, now: time.Now}
}

// WithClock overrides the time source. Test hook.
func (w *Workflow[F]) WithClock(now func() time.Time) *Workflow[F] {
	w.now = now
	return w
}

// Kind returns the resource kind this workflow governs.
func (w *Workflow[F]) Kind() Kind {
	return w.kind
}

// Create builds a new record. Privileged actors create records that are
// immediately ACTIVE; everyone else creates a record that waits for
// approval. The live fields are written either way — a pending create has
// no staged payload.
func (w *Workflow[F]) Create(name string, fields F, actor Actor) *Record[F] {
	now := w.now()
	rec := &Record[F]{
		ID:        uuid.New().String(),
		Kind:      w.kind,
		Name:      name,
		Fields:    fields,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if actor.Privileged() {
		rec.Status = StatusActive
		rec.AppendLog(logEntry(now, "created by %s, status set to %s", actor.Username, StatusActive))
	} else {
		rec.Status = w.kind.PendingCreateStatus()
		rec.RequestedBy = actor.Username
		rec.AppendLog(logEntry(now, "created by %s for approval", actor.Username))
	}
	return rec
}

// Update applies or stages an edit. The edit covers the name together with
// the mutable fields; a staged edit leaves both live values untouched until
// an approver resolves it. A record with an unresolved change request
// rejects the edit with a conflict.
func (w *Workflow[F]) Update(rec *Record[F], name string, fields F, actor Actor) error {
	if rec.Pending() {
		return apperrors.NewConflictError("record is already for deletion or approval")
	}
	now := w.now()
	switch {
	case actor.Privileged():
		rec.Name = name
		rec.Fields = fields
		rec.ForApproval = nil
		rec.Status = StatusActive
		rec.RequestedBy = ""
		rec.AppendLog(logEntry(now, "updated by %s, status set to %s", actor.Username, StatusActive))
	case rec.Status == StatusNewRecord:
		// The create itself is still unapproved; amend it in place instead
		// of staging an edit on top of it.
		rec.Name = name
		rec.Fields = fields
		rec.AppendLog(logEntry(now, "updated by %s", actor.Username))
	default:
		rec.ForApproval = &StagedEdit[F]{Name: name, Fields: fields}
		rec.Status = StatusForApproval
		rec.RequestedBy = actor.Username
		rec.AppendLog(logEntry(now, "updated by %s for approval", actor.Username))
	}
	rec.UpdatedAt = now
	return nil
}

// Delete stages the record for deletion. The hard delete only happens when
// an approver resolves the request, regardless of the requester's
// privilege.
func (w *Workflow[F]) Delete(rec *Record[F], actor Actor) error {
	if rec.Pending() {
		return apperrors.NewConflictError("record is already for deletion or approval")
	}
	now := w.now()
	rec.ForApproval = nil
	rec.Status = StatusForDeletion
	rec.RequestedBy = actor.Username
	rec.AppendLog(logEntry(now, "deleted by %s for approval", actor.Username))
	rec.UpdatedAt = now
	return nil
}

// Approve resolves a pending change request. Staged edits are applied to
// the live name and fields; a record staged for deletion is removed from
// storage.
func (w *Workflow[F]) Approve(rec *Record[F], actor Actor) (Resolution, error) {
	if !actor.Privileged() {
		return ResolutionPersist, apperrors.NewForbiddenError("not authorized to approve a change request")
	}
	now := w.now()
	switch rec.Status {
	case StatusForApproval, StatusNewRecord:
		if rec.ForApproval != nil {
			rec.Name = rec.ForApproval.Name
			rec.Fields = rec.ForApproval.Fields
			rec.ForApproval = nil
		}
		rec.Status = StatusActive
		rec.RequestedBy = ""
		rec.AppendLog(logEntry(now, "approved by %s, status set to %s", actor.Username, StatusActive))
		rec.UpdatedAt = now
		return ResolutionPersist, nil
	case StatusForDeletion:
		// The record disappears; the snapshot the caller holds is the
		// last observable state, so no further log is appended.
		return ResolutionHardDelete, nil
	default:
		return ResolutionPersist, apperrors.NewConflictError("cannot approve record with status: " + rec.Status.String())
	}
}

// Deny rejects a pending change request.
//
// Reversion policy: a staged edit is discarded and the record returns to
// ACTIVE; a record staged for deletion likewise returns to ACTIVE. A
// pending create (FOR_APPROVAL or NEW_RECORD with no staged payload) never
// had a live version to fall back to, so denying it removes the record.
func (w *Workflow[F]) Deny(rec *Record[F], actor Actor) (Resolution, error) {
	if !actor.Privileged() {
		return ResolutionPersist, apperrors.NewForbiddenError("not authorized to deny a change request")
	}
	now := w.now()
	switch rec.Status {
	case StatusForApproval, StatusNewRecord:
		if rec.ForApproval == nil {
			// Rejected pending create.
			return ResolutionHardDelete, nil
		}
		rec.ForApproval = nil
		rec.Status = StatusActive
		rec.RequestedBy = ""
		rec.AppendLog(logEntry(now, "denied by %s, status reverted to %s", actor.Username, StatusActive))
		rec.UpdatedAt = now
		return ResolutionPersist, nil
	case StatusForDeletion:
		rec.Status = StatusActive
		rec.RequestedBy = ""
		rec.AppendLog(logEntry(now, "denied by %s, status reverted to %s", actor.Username, StatusActive))
		rec.UpdatedAt = now
		return ResolutionPersist, nil
	default:
		return ResolutionPersist, apperrors.NewConflictError("cannot deny record with status: " + rec.Status.String())
	}
}
