package handlers_test

import (
	"net/http"
	"testing"

	"pflegebox/internal/http/handlers"
)

func TestConfiguratorInputValidation(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	sid := findCookie(env.do(t, "GET", "/api/configurator", nil), handlers.ConfiguratorCookie)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"care grade zero", "POST", "/api/configurator/care-grade", map[string]any{"careGrade": 0}},
		{"care grade text", "POST", "/api/configurator/care-grade", map[string]any{"careGrade": "hoch"}},
		{"care grade object", "POST", "/api/configurator/care-grade", `{"careGrade": {}}`},
		{"product id script", "POST", "/api/configurator/items", map[string]string{"productId": "<script>"}},
		{"empty product", "POST", "/api/configurator/items", map[string]string{"productId": ""}},
		{"size too long", "POST", "/api/configurator/items", map[string]string{"productId": "handschuhe", "size": "EXTRAEXTRALARGE"}},
		{"quantity missing", "PUT", "/api/configurator/items", map[string]string{"productId": "handschuhe", "size": "M"}},
		{"quantity text", "PUT", "/api/configurator/items", `{"productId": "handschuhe", "quantity": "viele"}`},
	}
	for _, tc := range cases {
		resp := env.do(t, tc.method, tc.path, tc.body, sid)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, resp.StatusCode)
		}
	}
}

func TestAdminOrderFilterValidation(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	c := env.adminCookie(t)
	resp := env.do(t, "GET", "/api/admin/orders?customerId=%27%20OR%201%3D1", nil, c)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed customerId, got %d", resp.StatusCode)
	}
}

func TestLoginRejectsOverlongPassword(t *testing.T) {
	env := newTestEnv(t, handlers.AppOptions{})
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	resp := env.do(t, "POST", "/api/admin/login", map[string]string{"password": string(long)})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
