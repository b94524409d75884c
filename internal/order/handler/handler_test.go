package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	collabservice "refeitorio/internal/collaborator/service"
	collabstore "refeitorio/internal/collaborator/store"
	menumodels "refeitorio/internal/menu/models"
	"refeitorio/internal/order/service"
	"refeitorio/internal/order/store"
	"refeitorio/internal/pii"
	dErrors "refeitorio/pkg/domain-errors"
)

const testCPF = "146.113.760-87"

type staticMenus struct {
	menus map[uuid.UUID]*menumodels.Menu
}

func (m staticMenus) Get(_ context.Context, id uuid.UUID) (*menumodels.Menu, error) {
	menu, ok := m.menus[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "menu not found")
	}
	return menu, nil
}

type noopNotifier struct{}

func (noopNotifier) OrderPlaced(string) {}

type testEnv struct {
	router       http.Handler
	restaurantID uuid.UUID
	menuID       uuid.UUID
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	codec, err := pii.NewCodec(bytes.Repeat([]byte{0x42}, 32))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	collaborators := collabservice.New(collabstore.NewInMemory(), codec, logger)
	if _, err := collaborators.Create(context.Background(), "Maria Silva", testCPF); err != nil {
		t.Fatalf("seed collaborator: %v", err)
	}

	restaurantID := uuid.New()
	menuID := uuid.New()
	menus := staticMenus{menus: map[uuid.UUID]*menumodels.Menu{
		menuID: {ID: menuID, Name: "Feijoada", RestaurantID: restaurantID},
	}}

	svc := service.New(store.NewInMemory(nil), collaborators, menus, noopNotifier{}, nil, nil, logger, 215)

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)

	return &testEnv{router: r, restaurantID: restaurantID, menuID: menuID}
}

func (e *testEnv) postOrder(t *testing.T, cpf, date string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"cpf":           cpf,
		"restaurant_id": e.restaurantID.String(),
		"menu_id":       e.menuID.String(),
		"order_date":    date,
	})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderReturnsCollaboratorName(t *testing.T) {
	env := newEnv(t)

	rec := env.postOrder(t, testCPF, "2026-03-10")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Name != "Maria Silva" {
		t.Fatalf("expected collaborator name, got %q", resp.Name)
	}
}

func TestCreateOrderUnknownCPF(t *testing.T) {
	env := newEnv(t)

	rec := env.postOrder(t, "000.000.000-00", "2026-03-10")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message == "" {
		t.Fatal("expected a message in the 404 body")
	}
}

func TestCreateOrderSameDayConflict(t *testing.T) {
	env := newEnv(t)

	if rec := env.postOrder(t, testCPF, "2026-03-10"); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first order, got %d", rec.Code)
	}
	rec := env.postOrder(t, testCPF, "2026-03-10T18:00:00Z")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on same-day order, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateOrderBadDate(t *testing.T) {
	env := newEnv(t)

	rec := env.postOrder(t, testCPF, "10/03/2026")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteUnknownOrder(t *testing.T) {
	env := newEnv(t)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/orders/%s", uuid.New()), nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown order, got %d", rec.Code)
	}
}

func TestCurrentOrdersRequiresRestaurantID(t *testing.T) {
	env := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/orders/current", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCurrentOrdersEmptyDayIsEmptyArray(t *testing.T) {
	env := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/orders/current?restaurant_id="+env.restaurantID.String(), nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := bytes.TrimSpace(rec.Body.Bytes()); string(got) != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}
}
