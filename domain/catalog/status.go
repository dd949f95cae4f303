package catalog

import "fmt"

// Status represents the lifecycle state of a catalog record.
type Status string

const (
	// StatusActive marks a record that is live and editable.
	StatusActive Status = "ACTIVE"
	// StatusNewRecord marks a freshly created product awaiting approval.
	// Products use this instead of FOR_APPROVAL at creation time.
	StatusNewRecord Status = "NEW_RECORD"
	// StatusForApproval marks a record with a pending create or edit.
	StatusForApproval Status = "FOR_APPROVAL"
	// StatusForDeletion marks a record staged for removal.
	StatusForDeletion Status = "FOR_DELETION"
)

// ParseStatus converts a string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusNewRecord, StatusForApproval, StatusForDeletion:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown record status: %q", s)
	}
}

// Pending reports whether the record has an unresolved change request and
// must not accept further mutations. NEW_RECORD is deliberately excluded:
// a freshly created product may still be edited before an approver acts.
func (s Status) Pending() bool {
	return s == StatusForApproval || s == StatusForDeletion
}

// Approvable reports whether an approve action can resolve this status.
func (s Status) Approvable() bool {
	return s == StatusForApproval || s == StatusForDeletion || s == StatusNewRecord
}

func (s Status) String() string {
	return string(s)
}
