package catalog

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "catalog-backend/pkg/errors"
)

var (
	clerk    = Actor{Username: "clerk", Roles: []string{RoleUser}}
	admin    = Actor{Username: "boss", Roles: []string{RoleAdmin}}
	superAdm = Actor{Username: "root", Roles: []string{RoleSuperAdmin}}
)

func fixedClock() func() time.Time {
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestCreate_NonPrivileged(t *testing.T) {
	tests := []struct {
		kind       Kind
		wantStatus Status
	}{
		{KindProduct, StatusNewRecord},
		{KindProductCategory, StatusForApproval},
		{KindProductPriceType, StatusForApproval},
		{KindProductUnit, StatusForApproval},
		{KindProductDeal, StatusForApproval},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			w := NewWorkflow[CategoryFields](tt.kind).WithClock(fixedClock())
			rec := w.Create("Electronics", CategoryFields{Description: "gadgets"}, clerk)

			assert.Equal(t, tt.wantStatus, rec.Status)
			assert.NotEmpty(t, rec.ID)
			assert.Equal(t, "Electronics", rec.Name)
			assert.Equal(t, 1, rec.Version)
			assert.Nil(t, rec.ForApproval, "a pending create has no staged payload")
			assert.Equal(t, "clerk", rec.RequestedBy)
			require.Len(t, rec.ActivityLogs, 1)
			assert.Contains(t, rec.ActivityLogs[0], "created by clerk for approval")
		})
	}
}

func TestCreate_Privileged(t *testing.T) {
	for _, actor := range []Actor{admin, superAdm} {
		t.Run(actor.Username, func(t *testing.T) {
			w := NewWorkflow[ProductFields](KindProduct).WithClock(fixedClock())
			rec := w.Create("Snacks", ProductFields{CriticalLevel: 5}, actor)

			assert.Equal(t, StatusActive, rec.Status)
			require.Len(t, rec.ActivityLogs, 1)
			assert.Contains(t, rec.ActivityLogs[0], fmt.Sprintf("created by %s, status set to ACTIVE", actor.Username))
		})
	}
}

func TestUpdate_StagesEditForNonPrivileged(t *testing.T) {
	w := NewWorkflow[CategoryFields](KindProductCategory).WithClock(fixedClock())
	rec := w.Create("Electronics", CategoryFields{Description: "old"}, admin)

	err := w.Update(rec, "Electronics", CategoryFields{Description: "new"}, clerk)
	require.NoError(t, err)

	assert.Equal(t, StatusForApproval, rec.Status)
	assert.Equal(t, "old", rec.Fields.Description, "live fields untouched until approval")
	require.NotNil(t, rec.ForApproval)
	assert.Equal(t, "new", rec.ForApproval.Fields.Description)
	assert.Equal(t, "clerk", rec.RequestedBy)
}

func TestUpdate_AppliesDirectlyForPrivileged(t *testing.T) {
	w := NewWorkflow[CategoryFields](KindProductCategory).WithClock(fixedClock())
	rec := w.Create("Electronics", CategoryFields{Description: "old"}, admin)

	err := w.Update(rec, "Electronics", CategoryFields{Description: "new"}, superAdm)
	require.NoError(t, err)

	assert.Equal(t, StatusActive, rec.Status)
	assert.Equal(t, "new", rec.Fields.Description)
	assert.Nil(t, rec.ForApproval)
}

func TestUpdate_AmendsUnapprovedProductInPlace(t *testing.T) {
	w := NewWorkflow[ProductFields](KindProduct).WithClock(fixedClock())
	rec := w.Create("Chips", ProductFields{CriticalLevel: 1}, clerk)
	require.Equal(t, StatusNewRecord, rec.Status)

	err := w.Update(rec, "Chips", ProductFields{CriticalLevel: 7}, clerk)
	require.NoError(t, err)

	assert.Equal(t, StatusNewRecord, rec.Status, "amending an unapproved create keeps it pending")
	assert.Equal(t, 7, rec.Fields.CriticalLevel)
	assert.Nil(t, rec.ForApproval)
}

func TestUpdate_RejectsPendingRecord(t *testing.T) {
	for _, status := range []Status{StatusForApproval, StatusForDeletion} {
		t.Run(status.String(), func(t *testing.T) {
			w := NewWorkflow[CategoryFields](KindProductCategory).WithClock(fixedClock())
			rec := w.Create("Electronics", CategoryFields{}, admin)
			rec.Status = status

			err := w.Update(rec, "Electronics", CategoryFields{Description: "x"}, clerk)
			require.Error(t, err)
			assert.True(t, apperrors.IsConflict(err))

			err = w.Delete(rec, admin)
			require.Error(t, err)
			assert.True(t, apperrors.IsConflict(err))
		})
	}
}

func TestDelete_StagesForDeletionEvenForPrivileged(t *testing.T) {
	w := NewWorkflow[UnitFields](KindProductUnit).WithClock(fixedClock())
	rec := w.Create("Kilogram", UnitFields{Abbreviation: "kg"}, admin)

	err := w.Delete(rec, admin)
	require.NoError(t, err)

	assert.Equal(t, StatusForDeletion, rec.Status)
	assert.Contains(t, rec.ActivityLogs[len(rec.ActivityLogs)-1], "deleted by boss for approval")
}

func TestApprove_AppliesStagedEdit(t *testing.T) {
	w := NewWorkflow[CategoryFields](KindProductCategory).WithClock(fixedClock())
	rec := w.Create("Electronics", CategoryFields{Description: "old"}, admin)
	require.NoError(t, w.Update(rec, "Electronics", CategoryFields{Description: "new"}, clerk))

	resolution, err := w.Approve(rec, admin)
	require.NoError(t, err)

	assert.Equal(t, ResolutionPersist, resolution)
	assert.Equal(t, StatusActive, rec.Status)
	assert.Equal(t, "new", rec.Fields.Description)
	assert.Nil(t, rec.ForApproval, "staged payload cleared on approval")
	assert.Empty(t, rec.RequestedBy, "requester cleared on resolution")
}

func TestApprove_PendingCreate(t *testing.T) {
	w := NewWorkflow[ProductFields](KindProduct).WithClock(fixedClock())
	rec := w.Create("Chips", ProductFields{CriticalLevel: 3}, clerk)
	require.Equal(t, StatusNewRecord, rec.Status)

	resolution, err := w.Approve(rec, superAdm)
	require.NoError(t, err)

	assert.Equal(t, ResolutionPersist, resolution)
	assert.Equal(t, StatusActive, rec.Status)
	assert.Equal(t, 3, rec.Fields.CriticalLevel)
}

func TestApprove_ForDeletionHardDeletes(t *testing.T) {
	w := NewWorkflow[DealFields](KindProductDeal).WithClock(fixedClock())
	rec := w.Create("Summer Sale", DealFields{DiscountPercent: 10}, admin)
	require.NoError(t, w.Delete(rec, clerk))

	resolution, err := w.Approve(rec, admin)
	require.NoError(t, err)
	assert.Equal(t, ResolutionHardDelete, resolution)
}

func TestApprove_RejectsNonPrivileged(t *testing.T) {
	w := NewWorkflow[CategoryFields](KindProductCategory).WithClock(fixedClock())
	rec := w.Create("Electronics", CategoryFields{}, clerk)

	_, err := w.Approve(rec, clerk)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))

	_, err = w.Deny(rec, clerk)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestApprove_RejectsActiveRecord(t *testing.T) {
	w := NewWorkflow[CategoryFields](KindProductCategory).WithClock(fixedClock())
	rec := w.Create("Electronics", CategoryFields{}, admin)

	_, err := w.Approve(rec, admin)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	_, err = w.Deny(rec, admin)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestDeny_DiscardsStagedEdit(t *testing.T) {
	w := NewWorkflow[CategoryFields](KindProductCategory).WithClock(fixedClock())
	rec := w.Create("Electronics", CategoryFields{Description: "old"}, admin)
	require.NoError(t, w.Update(rec, "Electronics", CategoryFields{Description: "new"}, clerk))

	resolution, err := w.Deny(rec, admin)
	require.NoError(t, err)

	assert.Equal(t, ResolutionPersist, resolution)
	assert.Equal(t, StatusActive, rec.Status)
	assert.Equal(t, "old", rec.Fields.Description, "denied edit never touches live fields")
	assert.Nil(t, rec.ForApproval)
}

func TestDeny_RevertsForDeletion(t *testing.T) {
	w := NewWorkflow[UnitFields](KindProductUnit).WithClock(fixedClock())
	rec := w.Create("Kilogram", UnitFields{Abbreviation: "kg"}, admin)
	require.NoError(t, w.Delete(rec, clerk))

	resolution, err := w.Deny(rec, admin)
	require.NoError(t, err)

	assert.Equal(t, ResolutionPersist, resolution)
	assert.Equal(t, StatusActive, rec.Status)
	assert.Empty(t, rec.RequestedBy)
}

func TestDeny_PendingCreateHardDeletes(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{"product new record", KindProduct},
		{"category pending create", KindProductCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorkflow[CategoryFields](tt.kind).WithClock(fixedClock())
			rec := w.Create("Doomed", CategoryFields{}, clerk)
			require.Nil(t, rec.ForApproval)

			resolution, err := w.Deny(rec, admin)
			require.NoError(t, err)
			assert.Equal(t, ResolutionHardDelete, resolution, "a denied create never had a live version to revert to")
		})
	}
}

func TestActivityLogs_CappedOverManyCycles(t *testing.T) {
	w := NewWorkflow[CategoryFields](KindProductCategory).WithClock(fixedClock())
	rec := w.Create("Electronics", CategoryFields{}, admin)

	for i := 0; i < 20; i++ {
		require.NoError(t, w.Update(rec, "Electronics", CategoryFields{Description: fmt.Sprintf("rev %d", i)}, clerk))
		_, err := w.Approve(rec, admin)
		require.NoError(t, err)
	}

	assert.Len(t, rec.ActivityLogs, MaxActivityLogs)
	assert.Contains(t, rec.ActivityLogs[len(rec.ActivityLogs)-1], "approved by boss")
}

func TestUpdate_StagesRenameUntilApproved(t *testing.T) {
	w := NewWorkflow[CategoryFields](KindProductCategory).WithClock(fixedClock())
	rec := w.Create("Electronics", CategoryFields{Description: "gadgets"}, admin)

	require.NoError(t, w.Update(rec, "Gadgets", CategoryFields{Description: "renamed"}, clerk))

	assert.Equal(t, "Electronics", rec.Name, "live name untouched until approval")
	require.NotNil(t, rec.ForApproval)
	assert.Equal(t, "Gadgets", rec.ForApproval.Name)

	_, err := w.Approve(rec, admin)
	require.NoError(t, err)

	assert.Equal(t, "Gadgets", rec.Name)
	assert.Equal(t, "renamed", rec.Fields.Description)
	assert.Nil(t, rec.ForApproval)
}

func TestDeny_DiscardsStagedRename(t *testing.T) {
	w := NewWorkflow[CategoryFields](KindProductCategory).WithClock(fixedClock())
	rec := w.Create("Electronics", CategoryFields{}, admin)
	require.NoError(t, w.Update(rec, "Gadgets", CategoryFields{}, clerk))

	_, err := w.Deny(rec, admin)
	require.NoError(t, err)

	assert.Equal(t, "Electronics", rec.Name, "denied rename never lands")
	assert.Nil(t, rec.ForApproval)
}

func TestWorkflow_FullEditCycle(t *testing.T) {
	// The whole request/approve round trip: id survives, name and fields
	// follow the staged edit.
	w := NewWorkflow[ProductFields](KindProduct).WithClock(fixedClock())
	rec := w.Create("Chips", ProductFields{CriticalLevel: 1}, admin)
	id := rec.ID

	require.NoError(t, w.Update(rec, "Crisps", ProductFields{
		CriticalLevel:     4,
		ProductUnitPrices: []UnitPrice{{Unit: "bag", PriceType: "retail", Amount: 2.5}},
	}, clerk))
	_, err := w.Approve(rec, superAdm)
	require.NoError(t, err)

	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "Crisps", rec.Name)
	assert.Equal(t, 4, rec.Fields.CriticalLevel)
	require.Len(t, rec.Fields.ProductUnitPrices, 1)
	assert.Equal(t, "bag", rec.Fields.ProductUnitPrices[0].Unit)
}
