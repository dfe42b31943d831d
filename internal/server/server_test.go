package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/runmap/pkg/cache"
	rerrors "github.com/matzehuels/runmap/pkg/errors"
	"github.com/matzehuels/runmap/pkg/mapgen"
	"github.com/matzehuels/runmap/pkg/mapio"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	runner := mapgen.NewRunner(c, nil, logger)
	srv := httptest.NewServer(New(runner, mapgen.DefaultConfig(), logger).Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = runner.Close()
	})
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func post(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decodeMap(t *testing.T, body []byte) mapResponse {
	t.Helper()
	var resp mapResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode response: %v\n%s", err, body)
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestGetMap(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/v1/maps/42")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	first := decodeMap(t, body)
	if first.Cached {
		t.Error("first request reported cached")
	}
	m, err := mapio.UnmarshalMap(first.Map)
	if err != nil {
		t.Fatal(err)
	}
	if m.Seed != 42 || m.ID != mapgen.MapID(mapgen.DefaultConfig().Hash(), 42) {
		t.Errorf("map %s seed %d", m.ID, m.Seed)
	}

	_, body = get(t, srv.URL+"/v1/maps/0x2a")
	if second := decodeMap(t, body); !second.Cached {
		t.Error("hex seed of the same map should hit the cache")
	}
}

func TestGetMapDOT(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv.URL+"/v1/maps/7?format=dot&detail=true")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("content type = %s", ct)
	}
	if !strings.HasPrefix(string(body), "digraph G {") {
		t.Errorf("body = %.40s", body)
	}
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		do     func() (*http.Response, []byte)
		status int
		code   rerrors.Code
	}{
		{"bad seed", func() (*http.Response, []byte) { return get(t, srv.URL+"/v1/maps/abc") },
			http.StatusBadRequest, rerrors.ErrCodeInvalidSeed},
		{"bad format", func() (*http.Response, []byte) { return get(t, srv.URL+"/v1/maps/1?format=gif") },
			http.StatusBadRequest, rerrors.ErrCodeInvalidFormat},
		{"bad body", func() (*http.Response, []byte) { return post(t, srv.URL+"/v1/maps", `{"sed": 1}`) },
			http.StatusBadRequest, rerrors.ErrCodeInvalidInput},
		{"unknown config key", func() (*http.Response, []byte) {
			return post(t, srv.URL+"/v1/maps", `{"seed": 1, "config": {"layout": {"flors": 3}}}`)
		}, http.StatusBadRequest, rerrors.ErrCodeInvalidConfig},
		{"too large", func() (*http.Response, []byte) {
			return post(t, srv.URL+"/v1/maps", `{"seed": 1, "config": {"layout": {"floors": 5000}}}`)
		}, http.StatusBadRequest, rerrors.ErrCodeInvalidConfig},
		{"conflicting floors", func() (*http.Response, []byte) {
			return post(t, srv.URL+"/v1/maps", `{"seed": 1, "config": {"slots": {"constraints": {"fixed": [
				{"floor": 2, "type": "shop"}, {"floor": 2, "type": "elite"}]}}}}`)
		}, http.StatusUnprocessableEntity, rerrors.ErrCodeConfigConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := tt.do()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			var e errorResponse
			if err := json.Unmarshal(body, &e); err != nil {
				t.Fatal(err)
			}
			if e.Code != tt.code {
				t.Errorf("code = %s, want %s", e.Code, tt.code)
			}
		})
	}
}

func TestCreateMap(t *testing.T) {
	srv := newTestServer(t)
	resp, body := post(t, srv.URL+"/v1/maps", `{"seed": 3, "config": {"layout": {"floors": 8}}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	m, err := mapio.UnmarshalMap(decodeMap(t, body).Map)
	if err != nil {
		t.Fatal(err)
	}
	if m.FloorCount() != 8 || m.Seed != 3 {
		t.Errorf("floors = %d, seed = %d", m.FloorCount(), m.Seed)
	}

	resp, body = post(t, srv.URL+"/v1/maps", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("random seed: status = %d: %s", resp.StatusCode, body)
	}
}
