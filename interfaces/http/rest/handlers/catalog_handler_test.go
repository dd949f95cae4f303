package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-backend/application/ports"
	"catalog-backend/application/services"
	"catalog-backend/domain/catalog"
	"catalog-backend/interfaces/http/rest/middleware"
	apperrors "catalog-backend/pkg/errors"
)

type memStore struct {
	records map[string]*catalog.Record[catalog.CategoryFields]
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*catalog.Record[catalog.CategoryFields])}
}

func (s *memStore) FindByID(_ context.Context, id string) (*catalog.Record[catalog.CategoryFields], error) {
	return s.records[id], nil
}

func (s *memStore) FindByName(_ context.Context, name string) (*catalog.Record[catalog.CategoryFields], error) {
	for _, rec := range s.records {
		if rec.Name == name {
			return rec, nil
		}
	}
	return nil, nil
}

func (s *memStore) Create(_ context.Context, rec *catalog.Record[catalog.CategoryFields]) error {
	s.records[rec.ID] = rec
	return nil
}

func (s *memStore) Update(_ context.Context, rec *catalog.Record[catalog.CategoryFields]) error {
	if _, ok := s.records[rec.ID]; !ok {
		return apperrors.NewNotFoundError("record")
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *memStore) Delete(_ context.Context, rec *catalog.Record[catalog.CategoryFields]) error {
	delete(s.records, rec.ID)
	return nil
}

func (s *memStore) Paginate(_ context.Context, _ ports.PageRequest) (*ports.Page[catalog.CategoryFields], error) {
	page := &ports.Page[catalog.CategoryFields]{}
	for _, rec := range s.records {
		page.Records = append(page.Records, *rec)
	}
	return page, nil
}

func testRouter(store *memStore, username string, roles []string) http.Handler {
	logger := zap.NewNop()
	svc := services.NewCatalogService[catalog.CategoryFields](
		catalog.KindProductCategory, store, nil, nil, nil, nil, nil, logger,
	)
	h := NewCatalogHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(middleware.Authenticate(middleware.NewStaticResolver(username, roles), logger))
	r.Route("/product-category", h.Mount)
	return r
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Body       json.RawMessage `json:"body"`
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr, env
}

func TestCreate_ReturnsEnvelope(t *testing.T) {
	router := testRouter(newMemStore(), "clerk", []string{catalog.RoleUser})

	rr, env := doJSON(t, router, "POST", "/product-category", `{"name":"Electronics","fields":{"description":"gadgets"}}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, http.StatusCreated, env.StatusCode)

	var rec catalog.Record[catalog.CategoryFields]
	require.NoError(t, json.Unmarshal(env.Body, &rec))
	assert.Equal(t, catalog.StatusForApproval, rec.Status)
	assert.Equal(t, "Electronics", rec.Name)
}

func TestCreate_DuplicateName(t *testing.T) {
	router := testRouter(newMemStore(), "boss", []string{catalog.RoleAdmin})

	rr, _ := doJSON(t, router, "POST", "/product-category", `{"name":"Electronics","fields":{}}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, env := doJSON(t, router, "POST", "/product-category", `{"name":"Electronics","fields":{}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, string(env.Body), "errorMessage")
}

func TestCreate_MissingName(t *testing.T) {
	router := testRouter(newMemStore(), "boss", []string{catalog.RoleAdmin})

	rr, env := doJSON(t, router, "POST", "/product-category", `{"fields":{}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, string(env.Body), "errorMessage")
}

func TestApprove_NonPrivilegedForbidden(t *testing.T) {
	store := newMemStore()
	adminRouter := testRouter(store, "boss", []string{catalog.RoleAdmin})
	clerkRouter := testRouter(store, "clerk", []string{catalog.RoleUser})

	_, env := doJSON(t, clerkRouter, "POST", "/product-category", `{"name":"Pending","fields":{}}`)
	var rec catalog.Record[catalog.CategoryFields]
	require.NoError(t, json.Unmarshal(env.Body, &rec))

	rr, _ := doJSON(t, clerkRouter, "POST", "/product-category/"+rec.ID+"/approve", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, _ = doJSON(t, adminRouter, "POST", "/product-category/"+rec.ID+"/approve", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, catalog.StatusActive, store.records[rec.ID].Status)
}

func TestGet_NotFound(t *testing.T) {
	router := testRouter(newMemStore(), "clerk", []string{catalog.RoleUser})

	rr, env := doJSON(t, router, "GET", "/product-category/missing-id", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, string(env.Body), "not found")
}

func TestList_RejectsBadParams(t *testing.T) {
	router := testRouter(newMemStore(), "clerk", []string{catalog.RoleUser})

	rr, _ := doJSON(t, router, "GET", "/product-category?direction=sideways", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdate_RenameStagedThenApproved(t *testing.T) {
	store := newMemStore()
	adminRouter := testRouter(store, "boss", []string{catalog.RoleAdmin})
	clerkRouter := testRouter(store, "clerk", []string{catalog.RoleUser})

	_, env := doJSON(t, adminRouter, "POST", "/product-category", `{"name":"Electronics","fields":{"description":"gadgets"}}`)
	var rec catalog.Record[catalog.CategoryFields]
	require.NoError(t, json.Unmarshal(env.Body, &rec))

	rr, env := doJSON(t, clerkRouter, "PUT", "/product-category/"+rec.ID, `{"name":"Gadgets","fields":{"description":"renamed"}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var staged catalog.Record[catalog.CategoryFields]
	require.NoError(t, json.Unmarshal(env.Body, &staged))
	assert.Equal(t, "Electronics", staged.Name, "live name untouched until approval")
	assert.Equal(t, "gadgets", staged.Fields.Description)
	require.NotNil(t, staged.ForApproval)
	assert.Equal(t, "Gadgets", staged.ForApproval.Name)
	assert.Equal(t, "renamed", staged.ForApproval.Fields.Description)

	rr, _ = doJSON(t, adminRouter, "POST", "/product-category/"+rec.ID+"/approve", "")
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "Gadgets", store.records[rec.ID].Name)
	assert.Equal(t, "renamed", store.records[rec.ID].Fields.Description)
	assert.Nil(t, store.records[rec.ID].ForApproval)
}

func TestDeleteThenUpdate_Conflicts(t *testing.T) {
	store := newMemStore()
	router := testRouter(store, "boss", []string{catalog.RoleAdmin})
	clerkRouter := testRouter(store, "clerk", []string{catalog.RoleUser})

	_, env := doJSON(t, router, "POST", "/product-category", `{"name":"Electronics","fields":{}}`)
	var rec catalog.Record[catalog.CategoryFields]
	require.NoError(t, json.Unmarshal(env.Body, &rec))

	rr, _ := doJSON(t, clerkRouter, "DELETE", "/product-category/"+rec.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr, env = doJSON(t, clerkRouter, "PUT", "/product-category/"+rec.ID, `{"name":"Electronics","fields":{"description":"x"}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, string(env.Body), "already for deletion or approval")
}
