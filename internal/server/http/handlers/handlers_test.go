package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/eshop/internal/domain/errors"
	"github.com/polkiloo/eshop/internal/domain/model"
	"github.com/polkiloo/eshop/internal/server/http/dto"
	"github.com/polkiloo/eshop/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/eshop/internal/test"
	"github.com/polkiloo/eshop/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var admin = testhelpers.Admin(9, "admin")

// performRequest serves target through a router where route is bound to handler
// and the requester is already set as AuthRequired would.
func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, req *model.Requester, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if req != nil {
			c.Set(middleware.RequesterContextKey, *req)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return out.Code
}

func TestCurrentRequester(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentRequester(c); got.UserID != 0 {
		t.Fatalf("expected anonymous requester, got %+v", got)
	}

	c.Set(middleware.RequesterContextKey, admin)
	if got := CurrentRequester(c); got.UserID != 9 || !got.Elevated() {
		t.Fatalf("unexpected requester %+v", got)
	}
}

func TestPositiveID(t *testing.T) {
	if id, err := positiveID("15"); err != nil || id != 15 {
		t.Fatalf("expected 15, got %d %v", id, err)
	}
	for _, raw := range []string{"", "0", "-3", "abc", "1.5"} {
		if _, err := positiveID(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestToOrderResponse(t *testing.T) {
	resp := toOrderResponse(*testhelpers.SampleOrder(3, 1))
	if resp.ID != 3 || resp.UserID != 1 || resp.StatusID != model.StatusNew {
		t.Fatalf("unexpected header %+v", resp)
	}
	if !resp.TotalPrice.Equal(decimal.RequireFromString("9")) || len(resp.Lines) != 1 {
		t.Fatalf("unexpected totals %+v", resp)
	}
	if !resp.Lines[0].Subtotal.Equal(decimal.RequireFromString("9.00")) {
		t.Fatalf("unexpected subtotal %s", resp.Lines[0].Subtotal)
	}
	if resp.ShippingAddress.City != "Utrecht" {
		t.Fatalf("address not mapped: %+v", resp.ShippingAddress)
	}
	if got := toOrderResponses(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if toLineRequests(nil) != nil {
		t.Fatalf("nil lines must stay nil")
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	var got usecase.RegisterRequest
	handler := NewAuthHandler(testhelpers.ShopFacadeStub{
		RegisterFn: func(_ context.Context, in usecase.RegisterRequest) (string, error) {
			got = in
			return "fresh", nil
		},
	})

	body := []byte(`{"login":"alice","password":"pw","shippingAddress":{"country":"NL","city":"Utrecht","street":"Oudegracht 1","postalCode":"3511"}}`)
	w := performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Authorization") != "Bearer fresh" {
		t.Fatalf("expected auth header, got %q", w.Header().Get("Authorization"))
	}
	var token dto.TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &token); err != nil || token.Token != "fresh" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if got.Login != "alice" || got.Address == nil || got.Address.PostalCode != "3511" {
		t.Fatalf("request not mapped: %+v", got)
	}

	w = performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, []byte(`{"login":"alice"}`))
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_credentials" {
		t.Fatalf("expected 400 invalid_credentials, got %d %s", w.Code, w.Body.String())
	}

	w = performRequest(t, http.MethodPost, "/register", "/register", handler.Register, nil, []byte(`{"login":"a","password":"b","shippingAddress":{"country":"NL"}}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for incomplete address, got %d", w.Code)
	}

	conflict := NewAuthHandler(testhelpers.ShopFacadeStub{
		RegisterFn: func(context.Context, usecase.RegisterRequest) (string, error) {
			return "", domainErrors.ErrAlreadyExists
		},
	})
	w = performRequest(t, http.MethodPost, "/register", "/register", conflict.Register, nil, []byte(`{"login":"a","password":"b"}`))
	if w.Code != http.StatusConflict || errorCode(t, w) != "conflict" {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	handler := NewAuthHandler(testhelpers.ShopFacadeStub{
		AuthenticateFn: func(_ context.Context, login, password string) (string, error) {
			if password != "secret" {
				return "", domainErrors.ErrInvalidCredentials
			}
			return "token-" + login, nil
		},
	})

	w := performRequest(t, http.MethodPost, "/login", "/login", handler.Login, nil, []byte(`{"login":"bob","password":"secret"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 || cookies[0].Value != "token-bob" {
		t.Fatalf("expected auth cookie, got %+v", cookies)
	}

	w = performRequest(t, http.MethodPost, "/login", "/login", handler.Login, nil, []byte(`{"login":"bob","password":"nope"}`))
	if w.Code != http.StatusUnauthorized || errorCode(t, w) != "invalid_credentials" {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = performRequest(t, http.MethodPost, "/login", "/login", handler.Login, nil, []byte(`{`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}

	broken := NewAuthHandler(testhelpers.ShopFacadeStub{
		AuthenticateFn: func(context.Context, string, string) (string, error) {
			return "", errors.New("db exploded")
		},
	})
	w = performRequest(t, http.MethodPost, "/login", "/login", broken.Login, nil, []byte(`{"login":"bob","password":"secret"}`))
	if w.Code != http.StatusInternalServerError || errorCode(t, w) != "internal" {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("db exploded")) {
		t.Fatalf("internal error details must not leak: %s", w.Body.String())
	}
}

func TestOrderHandlerList(t *testing.T) {
	var page model.Page
	handler := NewOrderHandler(testhelpers.ShopFacadeStub{
		ListOrdersFn: func(_ context.Context, _ model.Requester, p model.Page) ([]model.Order, error) {
			page = p
			return []model.Order{*testhelpers.SampleOrder(2, 1), *testhelpers.SampleOrder(1, 1)}, nil
		},
	})

	w := performRequest(t, http.MethodGet, "/orders", "/orders?limit=5&offset=10", handler.List, &admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if page.Limit != 5 || page.Offset != 10 {
		t.Fatalf("paging not passed: %+v", page)
	}
	var out []dto.OrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || len(out) != 2 || out[0].ID != 2 {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	w = performRequest(t, http.MethodGet, "/orders", "/orders?limit=-1", handler.List, &admin, nil)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_order" {
		t.Fatalf("expected 400 for negative limit, got %d", w.Code)
	}

	forbidden := NewOrderHandler(testhelpers.ShopFacadeStub{
		ListOrdersFn: func(context.Context, model.Requester, model.Page) ([]model.Order, error) {
			return nil, domainErrors.ErrForbidden
		},
	})
	customer := testhelpers.Customer(1, "alice")
	w = performRequest(t, http.MethodGet, "/orders", "/orders", forbidden.List, &customer, nil)
	if w.Code != http.StatusForbidden || errorCode(t, w) != "forbidden" {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestOrderHandlerGet(t *testing.T) {
	handler := NewOrderHandler(testhelpers.ShopFacadeStub{
		OrderFn: func(_ context.Context, _ model.Requester, id int64) (*model.Order, error) {
			if id == 404 {
				return nil, domainErrors.ErrNotFound
			}
			return testhelpers.SampleOrder(id, 1), nil
		},
	})

	w := performRequest(t, http.MethodGet, "/orders/:id", "/orders/7", handler.Get, &admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var out struct {
		ID         int64  `json:"id"`
		TotalPrice string `json:"totalPrice"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.ID != 7 || out.TotalPrice != "9" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	w = performRequest(t, http.MethodGet, "/orders/:id", "/orders/404", handler.Get, &admin, nil)
	if w.Code != http.StatusNotFound || errorCode(t, w) != "not_found" {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = performRequest(t, http.MethodGet, "/orders/:id", "/orders/abc", handler.Get, &admin, nil)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_order" {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestOrderHandlerListForUser(t *testing.T) {
	var (
		gotName   string
		gotStatus *int64
	)
	handler := NewOrderHandler(testhelpers.ShopFacadeStub{
		UserOrdersFn: func(_ context.Context, _ model.Requester, name string, statusID *int64) ([]model.Order, error) {
			gotName, gotStatus = name, statusID
			return []model.Order{}, nil
		},
	})
	customer := testhelpers.Customer(1, "alice")

	w := performRequest(t, http.MethodGet, "/orders/name/:name", "/orders/name/alice?orderStatusID=2", handler.ListForUser, &customer, nil)
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("expected empty list, got %d %s", w.Code, w.Body.String())
	}
	if gotName != "alice" || gotStatus == nil || *gotStatus != 2 {
		t.Fatalf("unexpected arguments %q %v", gotName, gotStatus)
	}

	w = performRequest(t, http.MethodGet, "/orders/name/:name", "/orders/name/alice", handler.ListForUser, &customer, nil)
	if w.Code != http.StatusOK || gotStatus != nil {
		t.Fatalf("expected no status filter, got %v", gotStatus)
	}

	w = performRequest(t, http.MethodGet, "/orders/name/:name", "/orders/name/alice?orderStatusID=x", handler.ListForUser, &customer, nil)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_status" {
		t.Fatalf("expected 400 invalid_status, got %d", w.Code)
	}
}

func TestOrderHandlerListByStatus(t *testing.T) {
	handler := NewOrderHandler(testhelpers.ShopFacadeStub{
		OrdersByStatusFn: func(_ context.Context, _ model.Requester, statusID int64) ([]model.Order, error) {
			if statusID == 99 {
				return nil, domainErrors.ErrInvalidStatus
			}
			return []model.Order{*testhelpers.SampleOrder(1, 1)}, nil
		},
	})

	w := performRequest(t, http.MethodGet, "/orders/status/:id", "/orders/status/1", handler.ListByStatus, &admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w = performRequest(t, http.MethodGet, "/orders/status/:id", "/orders/status/99", handler.ListByStatus, &admin, nil)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_status" {
		t.Fatalf("expected 400 invalid_status, got %d", w.Code)
	}
	w = performRequest(t, http.MethodGet, "/orders/status/:id", "/orders/status/0", handler.ListByStatus, &admin, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero status, got %d", w.Code)
	}
}

func TestOrderHandlerCreate(t *testing.T) {
	var got usecase.CreateOrderRequest
	handler := NewOrderHandler(testhelpers.ShopFacadeStub{
		CreateOrderFn: func(_ context.Context, req model.Requester, in usecase.CreateOrderRequest) (*model.Order, error) {
			got = in
			return testhelpers.SampleOrder(11, req.UserID), nil
		},
	})
	customer := testhelpers.Customer(1, "alice")

	body := []byte(`{"lines":[{"productId":10,"quantity":2},{"productName":"teapot","quantity":1}]}`)
	w := performRequest(t, http.MethodPost, "/orders", "/orders", handler.Create, &customer, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if got.UserName != "" || len(got.Lines) != 2 || got.Lines[0].ProductID != 10 || got.Lines[1].ProductName != "teapot" {
		t.Fatalf("request not mapped: %+v", got)
	}

	for _, bad := range []string{`{"lines":[]}`, `{}`, `{"lines":[{"productId":10,"quantity":0}]}`, `{"lines":[{"productId":-1,"quantity":1}]}`} {
		w = performRequest(t, http.MethodPost, "/orders", "/orders", handler.Create, &customer, []byte(bad))
		if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_order" {
			t.Fatalf("%s: expected 400 invalid_order, got %d", bad, w.Code)
		}
	}

	failing := NewOrderHandler(testhelpers.ShopFacadeStub{
		CreateOrderFn: func(context.Context, model.Requester, usecase.CreateOrderRequest) (*model.Order, error) {
			return nil, domainErrors.ErrForbidden
		},
	})
	w = performRequest(t, http.MethodPost, "/orders", "/orders", failing.Create, &customer, []byte(`{"userName":"bob","lines":[{"productId":1,"quantity":1}]}`))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestOrderHandlerUpdate(t *testing.T) {
	var got usecase.UpdateOrderRequest
	handler := NewOrderHandler(testhelpers.ShopFacadeStub{
		UpdateOrderFn: func(_ context.Context, _ model.Requester, id int64, in usecase.UpdateOrderRequest) (*model.Order, error) {
			got = in
			if in.StatusID != nil && *in.StatusID == 4 {
				return nil, domainErrors.ErrInvalidTransition
			}
			return testhelpers.SampleOrder(id, 1), nil
		},
	})

	w := performRequest(t, http.MethodPut, "/orders/:id", "/orders/3", handler.Update, &admin, []byte(`{"orderStatusId":2}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got.Lines != nil || got.StatusID == nil || *got.StatusID != 2 {
		t.Fatalf("request not mapped: %+v", got)
	}

	w = performRequest(t, http.MethodPut, "/orders/:id", "/orders/3", handler.Update, &admin, []byte(`{"lines":[{"productId":5,"quantity":3}]}`))
	if w.Code != http.StatusOK || len(got.Lines) != 1 || got.StatusID != nil {
		t.Fatalf("lines not mapped: %d %+v", w.Code, got)
	}

	w = performRequest(t, http.MethodPut, "/orders/:id", "/orders/3", handler.Update, &admin, []byte(`{"orderStatusId":4}`))
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_transition" {
		t.Fatalf("expected 400 invalid_transition, got %d", w.Code)
	}

	w = performRequest(t, http.MethodPut, "/orders/:id", "/orders/0", handler.Update, &admin, []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
}

func TestOrderHandlerChangeStatus(t *testing.T) {
	handler := NewOrderHandler(testhelpers.ShopFacadeStub{
		ChangeOrderStatusFn: func(_ context.Context, _ model.Requester, id, statusID int64) (*model.Order, error) {
			if statusID == 77 {
				return nil, domainErrors.ErrInvalidStatus
			}
			o := testhelpers.SampleOrder(id, 1)
			o.StatusID = statusID
			return o, nil
		},
	})
	route := "/orders/:id/change-status/:statusId"

	w := performRequest(t, http.MethodPut, route, "/orders/5/change-status/3", handler.ChangeStatus, &admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var out dto.OrderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.ID != 5 || out.StatusID != 3 {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	w = performRequest(t, http.MethodPut, route, "/orders/5/change-status/77", handler.ChangeStatus, &admin, nil)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_status" {
		t.Fatalf("expected 400 invalid_status, got %d", w.Code)
	}

	w = performRequest(t, http.MethodPut, route, "/orders/5/change-status/x", handler.ChangeStatus, &admin, nil)
	if w.Code != http.StatusBadRequest || errorCode(t, w) != "invalid_status" {
		t.Fatalf("expected 400 for malformed status, got %d", w.Code)
	}
}

func TestOrderHandlerDelete(t *testing.T) {
	deleted := map[int64]bool{}
	handler := NewOrderHandler(testhelpers.ShopFacadeStub{
		DeleteOrderFn: func(_ context.Context, _ model.Requester, id int64) error {
			if deleted[id] {
				return domainErrors.ErrNotFound
			}
			deleted[id] = true
			return nil
		},
	})

	w := performRequest(t, http.MethodDelete, "/orders/:id", "/orders/8", handler.Delete, &admin, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = performRequest(t, http.MethodDelete, "/orders/:id", "/orders/8", handler.Delete, &admin, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	w := performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(testhelpers.ShopFacadeStub{}).Check, nil, nil)
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Fatalf("unexpected health response %d %s", w.Code, w.Body.String())
	}

	down := testhelpers.ShopFacadeStub{HealthCheckFn: func(context.Context) error {
		return domainErrors.ErrUnavailable
	}}
	w = performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(down).Check, nil, nil)
	if w.Code != http.StatusServiceUnavailable || errorCode(t, w) != "unavailable" {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
