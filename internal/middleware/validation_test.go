package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

type createProductPayload struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"required,max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

func newTestRegistry() *BodyValidation {
	reg := NewBodyValidation(zap.NewNop())
	reg.Register(http.MethodPost, "/products", func() interface{} { return new(createProductPayload) })
	return reg
}

func TestBodyValidation_RejectsInvalidBodyWithGroupedErrors(t *testing.T) {
	reg := newTestRegistry()

	handlerCalled := false
	handler := reg.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	body := `{"name":"","description":"d","price":-1,"category":"c","stock":1}`
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if handlerCalled {
		t.Error("downstream handler must not run when validation fails")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var response struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("error body is not valid JSON: %v", err)
	}

	for _, field := range []string{"Name", "Price"} {
		msgs, ok := response.Errors[field]
		if !ok || len(msgs) == 0 {
			t.Errorf("errors missing a %s entry: %v", field, response.Errors)
		}
	}
}

func TestBodyValidation_ValidBodyReachesHandlerUnaltered(t *testing.T) {
	reg := newTestRegistry()

	raw := `{"name":"Desk Lamp","description":"Warm light","price":24.5,"category":"Lighting","stock":30}`

	var seenBody string
	handler := reg.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seenBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(raw))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if seenBody != raw {
		t.Errorf("handler read %q, want the original body", seenBody)
	}
}

func TestBodyValidation_SkipsUnregisteredRoutes(t *testing.T) {
	reg := newTestRegistry()

	handlerCalled := false
	handler := reg.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	// Garbage body, but the route has no registered shape.
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("unregistered routes must pass through without validation")
	}
}

func TestBodyValidation_SkipsEmptyAndWhitespaceBodies(t *testing.T) {
	for _, body := range []string{"", "   \n\t "} {
		reg := newTestRegistry()

		handlerCalled := false
		handler := reg.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		}))

		req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if !handlerCalled {
			t.Errorf("empty body %q must be skipped, not rejected", body)
		}
	}
}

func TestBodyValidation_MalformedJSONIsRejected(t *testing.T) {
	reg := newTestRegistry()

	handler := reg.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run on malformed JSON")
	}))

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
