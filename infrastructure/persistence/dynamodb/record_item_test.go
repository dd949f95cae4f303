package dynamodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-backend/domain/catalog"
)

func testRepo() *RecordRepository[catalog.CategoryFields] {
	return NewRecordRepository[catalog.CategoryFields](nil, "catalog-records", "NameIndex", catalog.KindProductCategory, zap.NewNop())
}

func TestRecordItem_RoundTrip(t *testing.T) {
	repo := testRepo()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := &catalog.Record[catalog.CategoryFields]{
		ID:          "abc-123",
		Kind:        catalog.KindProductCategory,
		Name:        "Electronics",
		Status:      catalog.StatusForApproval,
		RequestedBy: "clerk",
		ForApproval: &catalog.StagedEdit[catalog.CategoryFields]{
			Name:   "Gadgets",
			Fields: catalog.CategoryFields{Description: "renamed"},
		},
		Fields:    catalog.CategoryFields{Description: "gadgets"},
		Version:   2,
		CreatedAt: now,
		UpdatedAt: now,
	}

	item := repo.toItem(rec)
	assert.Equal(t, "KIND#product-category", item.PK)
	assert.Equal(t, "RECORD#abc-123", item.SK)
	assert.Equal(t, "KIND#product-category#NAME#Electronics", item.GSI1PK, "name index follows the live name, not the staged one")

	back, err := repo.fromItem(item)
	require.NoError(t, err)
	assert.Equal(t, "Electronics", back.Name)
	assert.Equal(t, "clerk", back.RequestedBy)
	require.NotNil(t, back.ForApproval)
	assert.Equal(t, "Gadgets", back.ForApproval.Name)
	assert.Equal(t, "renamed", back.ForApproval.Fields.Description)
	assert.True(t, back.CreatedAt.Equal(now))
}

func TestFromItem_RejectsCorruptItems(t *testing.T) {
	repo := testRepo()
	valid := repo.toItem(&catalog.Record[catalog.CategoryFields]{
		ID:        "abc-123",
		Kind:      catalog.KindProductCategory,
		Name:      "Electronics",
		Status:    catalog.StatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})

	badStatus := valid
	badStatus.Status = "DELETED"
	_, err := repo.fromItem(badStatus)
	assert.Error(t, err)

	badCreated := valid
	badCreated.CreatedAt = "yesterday"
	_, err = repo.fromItem(badCreated)
	assert.Error(t, err)

	badUpdated := valid
	badUpdated.UpdatedAt = ""
	_, err = repo.fromItem(badUpdated)
	assert.Error(t, err)
}
