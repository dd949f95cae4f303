package catalog

import (
	"fmt"
	"time"
)

// MaxActivityLogs caps the audit trail attached to a record. Once the cap
// is exceeded the oldest entries are silently dropped.
const MaxActivityLogs = 10

// Record is a catalog entry of any resource kind. F carries the kind's
// mutable fields (ProductFields, CategoryFields, ...).
//
// ForApproval holds a staged edit: the replacement name and mutable fields
// that have not been applied to the live record yet. It is non-nil exactly
// when Status == FOR_APPROVAL and the pending action is an edit.
//
// RequestedBy names the actor whose change request is pending. It is set
// whenever the record enters a pending status and cleared on resolution;
// the resolution notification goes to this actor.
type Record[F any] struct {
	ID           string         `json:"id"`
	Kind         Kind           `json:"kind"`
	Name         string         `json:"name"`
	Status       Status         `json:"status"`
	RequestedBy  string         `json:"requestedBy,omitempty"`
	ActivityLogs []string       `json:"activityLogs"`
	ForApproval  *StagedEdit[F] `json:"forApprovalVersion,omitempty"`
	Fields       F              `json:"fields"`
	Version      int            `json:"version"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// StagedEdit is the payload of a pending edit: the full replacement for the
// record's name and mutable fields, held until an approver resolves it.
type StagedEdit[F any] struct {
	Name   string `json:"name" dynamodbav:"Name"`
	Fields F      `json:"fields" dynamodbav:"Fields"`
}

// AppendLog adds an audit entry and enforces the cap.
func (r *Record[F]) AppendLog(entry string) {
	r.ActivityLogs = append(r.ActivityLogs, entry)
	if n := len(r.ActivityLogs); n > MaxActivityLogs {
		r.ActivityLogs = r.ActivityLogs[n-MaxActivityLogs:]
	}
}

// Pending reports whether the record has an unresolved change request.
func (r *Record[F]) Pending() bool {
	return r.Status.Pending()
}

// logEntry renders an audit line in the shape the activity trail uses.
func logEntry(now time.Time, format string, args ...any) string {
	return fmt.Sprintf("%s %s", now.UTC().Format(time.RFC3339), fmt.Sprintf(format, args...))
}
