// Package ports declares the collaborator interfaces the application layer
// depends on. Implementations live under infrastructure.
package ports

import (
	"context"
	"time"

	"catalog-backend/domain/catalog"
)

// Direction of a paginated scan.
const (
	DirectionNext = "next"
	DirectionPrev = "prev"
)

// PageRequest describes one page of a record listing.
type PageRequest struct {
	Status    catalog.Status // optional filter; empty means all
	Limit     int32
	Direction string // next or prev
	Cursor    string // opaque cursor from a previous page
}

// Page is one page of records plus the cursor to continue from.
type Page[F any] struct {
	Records []catalog.Record[F] `json:"records"`
	Cursor  string              `json:"cursorPointer,omitempty"`
}

// RecordStore persists catalog records of one resource kind.
//
// FindByID and FindByName return (nil, nil) when no record matches; Update
// and Delete are conditional on the record's Version and fail with a
// conflict when a concurrent writer got there first.
type RecordStore[F any] interface {
	FindByID(ctx context.Context, id string) (*catalog.Record[F], error)
	FindByName(ctx context.Context, name string) (*catalog.Record[F], error)
	Create(ctx context.Context, rec *catalog.Record[F]) error
	Update(ctx context.Context, rec *catalog.Record[F]) error
	Delete(ctx context.Context, rec *catalog.Record[F]) error
	Paginate(ctx context.Context, req PageRequest) (*Page[F], error)
}

// RecordEvent is the lifecycle event published after a successful mutation.
type RecordEvent struct {
	Type     string    `json:"type"` // record.created, record.updated, record.approved, record.denied, record.deleted
	Kind     string    `json:"kind"`
	RecordID string    `json:"recordId"`
	Name     string    `json:"name"`
	Status   string    `json:"status"`
	Actor    string    `json:"actor"`
	At       time.Time `json:"at"`
}

// Lifecycle event types.
const (
	EventRecordCreated  = "record.created"
	EventRecordUpdated  = "record.updated"
	EventRecordApproved = "record.approved"
	EventRecordDenied   = "record.denied"
	EventRecordDeleted  = "record.deleted"
)

// EventPublisher pushes lifecycle events onto the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, event RecordEvent) error
}

// BroadcastQueue feeds the websocket broadcast worker.
type BroadcastQueue interface {
	Enqueue(ctx context.Context, event RecordEvent) error
}

// ApprovalNotice is the payload of an approval-related email.
type ApprovalNotice struct {
	Kind      string
	RecordID  string
	Name      string
	Status    string
	Requester string
	Resolver  string
}

// EmailSender delivers approval notifications. Failures are logged, never
// surfaced to the caller; mail is best-effort.
type EmailSender interface {
	SendApprovalRequested(ctx context.Context, notice ApprovalNotice) error
	SendApprovalResolved(ctx context.Context, notice ApprovalNotice) error
}

// Credentials is the token set the identity provider returns on login.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	IDToken      string `json:"idToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int32  `json:"expiresIn"`
}

// IdentityProvider wraps the managed user pool. The authentication protocol
// itself is the provider's concern.
type IdentityProvider interface {
	Register(ctx context.Context, email, password string) (userID string, err error)
	Confirm(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (*Credentials, error)
	ForgotPassword(ctx context.Context, email string) error
	ConfirmForgotPassword(ctx context.Context, email, code, newPassword string) error
	AddToGroup(ctx context.Context, email, group string) error
}

// Connection is an active websocket connection.
type Connection struct {
	ConnectionID string    `json:"connectionId"`
	UserID       string    `json:"userId"`
	Endpoint     string    `json:"endpoint"`
	ConnectedAt  time.Time `json:"connectedAt"`
	TTL          int64     `json:"ttl"`
}

// ConnectionStore tracks websocket connections for broadcasting.
type ConnectionStore interface {
	Put(ctx context.Context, conn Connection) error
	Delete(ctx context.Context, connectionID string) error
	ListAll(ctx context.Context) ([]Connection, error)
	ListByUser(ctx context.Context, userID string) ([]Connection, error)
}
