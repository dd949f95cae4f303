package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/domain/catalog"
	apperrors "catalog-backend/pkg/errors"
	"catalog-backend/pkg/observability"
)

// CatalogService runs the approval workflow for one resource kind against
// its store. Each operation is a single read-modify-write: the store's
// version condition is the only concurrency guard, and a tripped condition
// surfaces as a conflict for the caller to retry.
//
// Events and notifications are dispatched after the write succeeds and are
// best-effort; their failures are logged, never rolled back.
type CatalogService[F any] struct {
	store    ports.RecordStore[F]
	workflow *catalog.Workflow[F]
	events   ports.EventPublisher
	queue    ports.BroadcastQueue
	mailer   ports.EmailSender
	metrics  *observability.Metrics
	tracer   *observability.Tracer
	logger   *zap.Logger
}

// NewCatalogService creates the service for a resource kind. events, queue,
// mailer, metrics and tracer may be nil; the corresponding dispatch is
// skipped.
func NewCatalogService[F any](
	kind catalog.Kind,
	store ports.RecordStore[F],
	events ports.EventPublisher,
	queue ports.BroadcastQueue,
	mailer ports.EmailSender,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *CatalogService[F] {
	return &CatalogService[F]{
		store:    store,
		workflow: catalog.NewWorkflow[F](kind),
		events:   events,
		queue:    queue,
		mailer:   mailer,
		metrics:  metrics,
		tracer:   tracer,
		logger:   logger,
	}
}

// Kind returns the resource kind this service manages.
func (s *CatalogService[F]) Kind() catalog.Kind {
	return s.workflow.Kind()
}

// Create makes a new record after a best-effort name uniqueness check.
// The check is a point lookup with no constraint at the storage layer, so
// two concurrent creates of the same name can both land; this mirrors the
// store's capabilities and is documented as a known gap.
func (s *CatalogService[F]) Create(ctx context.Context, name string, fields F, actor catalog.Actor) (*catalog.Record[F], error) {
	var rec *catalog.Record[F]
	err := s.trace(ctx, "create", func(ctx context.Context) error {
		existing, err := s.store.FindByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.NewConflictError("a record named " + name + " already exists")
		}

		rec = s.workflow.Create(name, fields, actor)
		return s.store.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, ports.EventRecordCreated, rec, actor)
	if rec.Status != catalog.StatusActive {
		s.notifyRequested(ctx, rec, actor)
	}
	s.count(ctx, "create")
	return rec, nil
}

// Update applies or stages an edit to an existing record. The edit covers
// the name as well as the fields; a rename gets the same best-effort
// uniqueness check a create does.
func (s *CatalogService[F]) Update(ctx context.Context, id, name string, fields F, actor catalog.Actor) (*catalog.Record[F], error) {
	var rec *catalog.Record[F]
	err := s.trace(ctx, "update", func(ctx context.Context) error {
		var err error
		if rec, err = s.mustFind(ctx, id); err != nil {
			return err
		}
		if name != rec.Name {
			existing, err := s.store.FindByName(ctx, name)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != rec.ID {
				return apperrors.NewConflictError("a record named " + name + " already exists")
			}
		}
		if err := s.workflow.Update(rec, name, fields, actor); err != nil {
			return err
		}
		return s.store.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, ports.EventRecordUpdated, rec, actor)
	if rec.Status == catalog.StatusForApproval {
		s.notifyRequested(ctx, rec, actor)
	}
	s.count(ctx, "update")
	return rec, nil
}

// Delete stages a record for deletion; the hard delete happens on approve.
func (s *CatalogService[F]) Delete(ctx context.Context, id string, actor catalog.Actor) (*catalog.Record[F], error) {
	var rec *catalog.Record[F]
	err := s.trace(ctx, "delete", func(ctx context.Context) error {
		var err error
		if rec, err = s.mustFind(ctx, id); err != nil {
			return err
		}
		if err := s.workflow.Delete(rec, actor); err != nil {
			return err
		}
		return s.store.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, ports.EventRecordUpdated, rec, actor)
	s.notifyRequested(ctx, rec, actor)
	s.count(ctx, "delete")
	return rec, nil
}

// Approve resolves a pending change request in the requester's favor.
// Approving a FOR_DELETION record removes it; the returned snapshot is the
// last observable state.
func (s *CatalogService[F]) Approve(ctx context.Context, id string, actor catalog.Actor) (*catalog.Record[F], error) {
	var (
		rec        *catalog.Record[F]
		requester  string
		resolution catalog.Resolution
	)
	err := s.trace(ctx, "approve", func(ctx context.Context) error {
		var err error
		if rec, err = s.mustFind(ctx, id); err != nil {
			return err
		}
		requester = rec.RequestedBy
		if resolution, err = s.workflow.Approve(rec, actor); err != nil {
			return err
		}
		if resolution == catalog.ResolutionHardDelete {
			return s.store.Delete(ctx, rec)
		}
		return s.store.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	if resolution == catalog.ResolutionHardDelete {
		s.dispatch(ctx, ports.EventRecordDeleted, rec, actor)
	} else {
		s.dispatch(ctx, ports.EventRecordApproved, rec, actor)
	}

	s.notifyResolved(ctx, rec, requester, actor)
	s.count(ctx, "approve")
	return rec, nil
}

// Deny resolves a pending change request against the requester. Denying a
// pending create removes the never-activated record.
func (s *CatalogService[F]) Deny(ctx context.Context, id string, actor catalog.Actor) (*catalog.Record[F], error) {
	var (
		rec        *catalog.Record[F]
		requester  string
		resolution catalog.Resolution
	)
	err := s.trace(ctx, "deny", func(ctx context.Context) error {
		var err error
		if rec, err = s.mustFind(ctx, id); err != nil {
			return err
		}
		requester = rec.RequestedBy
		if resolution, err = s.workflow.Deny(rec, actor); err != nil {
			return err
		}
		if resolution == catalog.ResolutionHardDelete {
			return s.store.Delete(ctx, rec)
		}
		return s.store.Update(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	if resolution == catalog.ResolutionHardDelete {
		s.dispatch(ctx, ports.EventRecordDeleted, rec, actor)
	} else {
		s.dispatch(ctx, ports.EventRecordDenied, rec, actor)
	}

	s.notifyResolved(ctx, rec, requester, actor)
	s.count(ctx, "deny")
	return rec, nil
}

// Get retrieves a record by id.
func (s *CatalogService[F]) Get(ctx context.Context, id string) (*catalog.Record[F], error) {
	return s.mustFind(ctx, id)
}

// GetByName retrieves a record by its unique name.
func (s *CatalogService[F]) GetByName(ctx context.Context, name string) (*catalog.Record[F], error) {
	rec, err := s.store.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NewNotFoundError(s.Kind().String())
	}
	return rec, nil
}

// List pages through records of this kind.
func (s *CatalogService[F]) List(ctx context.Context, req ports.PageRequest) (*ports.Page[F], error) {
	return s.store.Paginate(ctx, req)
}

func (s *CatalogService[F]) mustFind(ctx context.Context, id string) (*catalog.Record[F], error) {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NewNotFoundError(s.Kind().String())
	}
	return rec, nil
}

func (s *CatalogService[F]) dispatch(ctx context.Context, eventType string, rec *catalog.Record[F], actor catalog.Actor) {
	event := ports.RecordEvent{
		Type:     eventType,
		Kind:     rec.Kind.String(),
		RecordID: rec.ID,
		Name:     rec.Name,
		Status:   rec.Status.String(),
		Actor:    actor.Username,
		At:       time.Now().UTC(),
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish lifecycle event",
				zap.String("type", eventType),
				zap.String("recordID", rec.ID),
				zap.Error(err),
			)
		}
	}
	if s.queue != nil {
		if err := s.queue.Enqueue(ctx, event); err != nil {
			s.logger.Warn("failed to enqueue broadcast",
				zap.String("type", eventType),
				zap.String("recordID", rec.ID),
				zap.Error(err),
			)
		}
	}
}

func (s *CatalogService[F]) notifyRequested(ctx context.Context, rec *catalog.Record[F], actor catalog.Actor) {
	if s.mailer == nil {
		return
	}
	notice := ports.ApprovalNotice{
		Kind:      rec.Kind.String(),
		RecordID:  rec.ID,
		Name:      rec.Name,
		Status:    rec.Status.String(),
		Requester: actor.Username,
	}
	if err := s.mailer.SendApprovalRequested(ctx, notice); err != nil {
		s.logger.Warn("failed to send approval-requested mail",
			zap.String("recordID", rec.ID),
			zap.Error(err),
		)
	}
}

func (s *CatalogService[F]) notifyResolved(ctx context.Context, rec *catalog.Record[F], requester string, actor catalog.Actor) {
	if s.mailer == nil {
		return
	}
	notice := ports.ApprovalNotice{
		Kind:      rec.Kind.String(),
		RecordID:  rec.ID,
		Name:      rec.Name,
		Status:    rec.Status.String(),
		Requester: requester,
		Resolver:  actor.Username,
	}
	if err := s.mailer.SendApprovalResolved(ctx, notice); err != nil {
		s.logger.Warn("failed to send approval-resolved mail",
			zap.String("recordID", rec.ID),
			zap.Error(err),
		)
	}
}

func (s *CatalogService[F]) count(ctx context.Context, operation string) {
	if s.metrics != nil {
		s.metrics.CountOperation(ctx, s.Kind().String(), operation)
	}
}

func (s *CatalogService[F]) trace(ctx context.Context, name string, fn func(context.Context) error) error {
	if s.tracer == nil {
		return fn(ctx)
	}
	return s.tracer.Trace(ctx, s.Kind().String()+"."+name, fn)
}
