package invoices

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/washline/washline/internal/orders"
	"github.com/washline/washline/internal/platform/httpx"
	"github.com/washline/washline/internal/shared"
)

type memoryKeys struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (k *memoryKeys) Claim(ctx context.Context, scope, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.seen == nil {
		k.seen = map[string]bool{}
	}
	if k.seen[scope+"/"+key] {
		return shared.ErrIdempotencyConflict
	}
	k.seen[scope+"/"+key] = true
	return nil
}

func (k *memoryKeys) Release(ctx context.Context, scope, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.seen, scope+"/"+key)
	return nil
}

func newTestRouter(repo *memoryRepo, keys IdempotencyKeys) http.Handler {
	h := NewHandler(nil, newTestService(repo, nil), keys)
	r := chi.NewRouter()
	r.Route("/invoices", h.MountRoutes)
	r.Route("/orders", h.MountOrderRoutes)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreateAndList(t *testing.T) {
	repo := newMemoryRepo()
	order := repo.addOrder("100")
	router := newTestRouter(repo, nil)

	rec := doJSON(t, router, http.MethodPost, "/invoices/",
		`{"order":"`+order.ID.String()+`","total":"100","paid":60,"ncf":"B01"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.True(t, dec("40").Equal(res.Invoice.Remain))
	require.Equal(t, orders.StatusCompleted, res.Order.Status)

	rec = doJSON(t, router, http.MethodGet, "/orders/"+order.ID.String()+"/invoices", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Data []Invoice `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	require.Equal(t, "B01", list.Data[0].NCF)
}

func TestHandlerErrorMapping(t *testing.T) {
	repo := newMemoryRepo()
	order := repo.addOrder("100")
	router := newTestRouter(repo, nil)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		field  string
	}{
		{"non-numeric paid", http.MethodPost, "/invoices/", `{"order":"` + order.ID.String() + `","total":"10","paid":"abc"}`, http.StatusBadRequest, "body"},
		{"missing total", http.MethodPost, "/invoices/", `{"order":"` + order.ID.String() + `","paid":"10"}`, http.StatusBadRequest, "total"},
		{"missing order ref", http.MethodPost, "/invoices/", `{"total":"10","paid":"10"}`, http.StatusBadRequest, "order"},
		{"unknown order", http.MethodPost, "/invoices/", `{"order":"` + uuid.NewString() + `","total":"10","paid":"10"}`, http.StatusNotFound, ""},
		{"bad id", http.MethodDelete, "/invoices/nope", "", http.StatusBadRequest, "id"},
		{"delete missing", http.MethodDelete, "/invoices/" + uuid.NewString(), "", http.StatusNotFound, ""},
		{"patch missing", http.MethodPatch, "/invoices/" + uuid.NewString(), `{"paid":"1"}`, http.StatusNotFound, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, tc.method, tc.path, tc.body, nil)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			var problem httpx.ProblemDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			require.Equal(t, tc.field, problem.Field)
		})
	}
}

func TestHandlerDeleteReturnsSiblings(t *testing.T) {
	repo := newMemoryRepo()
	order := repo.addOrder("100")
	svc := newTestService(repo, nil)
	first, err := svc.CreateInvoice(context.Background(), createReq(order.ID, "100", "60"), uuid.Nil)
	require.NoError(t, err)
	second, err := svc.CreateInvoice(context.Background(), createReq(order.ID, "40", "40"), uuid.Nil)
	require.NoError(t, err)

	router := newTestRouter(repo, nil)
	rec := doJSON(t, router, http.MethodDelete, "/invoices/"+second.Invoice.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res DeleteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Siblings, 1)
	require.Equal(t, first.Invoice.ID, res.Siblings[0].ID)
	require.Equal(t, orders.StatusCompleted, res.Order.Status)
}

func TestHandlerIdempotencyKey(t *testing.T) {
	repo := newMemoryRepo()
	order := repo.addOrder("100")
	router := newTestRouter(repo, &memoryKeys{})
	body := `{"order":"` + order.ID.String() + `","total":"100","paid":"30"}`
	header := map[string]string{"Idempotency-Key": "pay-1"}

	rec := doJSON(t, router, http.MethodPost, "/invoices/", body, header)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/invoices/", body, header)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.True(t, dec("30").Equal(repo.order(order.ID).Paid))
}

func TestHandlerIdempotencyKeyReleasedOnFailure(t *testing.T) {
	repo := newMemoryRepo()
	keys := &memoryKeys{}
	router := newTestRouter(repo, keys)
	header := map[string]string{"Idempotency-Key": "pay-2"}

	rec := doJSON(t, router, http.MethodPost, "/invoices/",
		`{"order":"`+uuid.NewString()+`","total":"10","paid":"10"}`, header)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, keys.seen)
}

func TestHandlerIdempotencyKeyReleasedAfterClientGone(t *testing.T) {
	repo := newMemoryRepo()
	keys := &memoryKeys{}
	router := newTestRouter(repo, keys)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/invoices/",
		strings.NewReader(`{"order":"`+uuid.NewString()+`","total":"10","paid":"10"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "pay-3")
	router.ServeHTTP(httptest.NewRecorder(), req)

	require.Empty(t, keys.seen)
}
