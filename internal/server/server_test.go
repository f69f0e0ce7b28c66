package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeCatalog creates a minimal exported catalog on disk.
func writeCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"dataset.html": "<!DOCTYPE html><html><body></body></html>",
		"by_path.json": `{".":"ab/cdef"}`,
		"objs/ab/cdef": `{"name":"superds"}`,
		"catalog.css":  "body {}",
	}
	for name, content := range files {
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestServer(t *testing.T, watch bool) *httptest.Server {
	t.Helper()
	srv := New(Config{Dir: writeCatalog(t), Watch: watch})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, string(body)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, false)
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var health map[string]string
	if err := json.Unmarshal([]byte(body), &health); err != nil {
		t.Fatalf("healthz is not JSON: %v", err)
	}
	if health["status"] != "ok" {
		t.Errorf("status = %q, want ok", health["status"])
	}
}

func TestObjectServedAsJSON(t *testing.T) {
	ts := newTestServer(t, false)

	// Object files have no extension; json=yes must force the type.
	resp, body := get(t, ts.URL+"/objs/ab/cdef?json=yes")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if body != `{"name":"superds"}` {
		t.Errorf("body = %q", body)
	}

	// Known JSON paths get the type even without the flag.
	resp, _ = get(t, ts.URL+"/by_path.json")
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("by_path.json Content-Type = %q, want application/json", ct)
	}
}

func TestRootServesViewerPage(t *testing.T) {
	ts := newTestServer(t, false)
	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "<!DOCTYPE html>") {
		t.Errorf("root did not serve the viewer page: %q", body)
	}
}

func TestMissingFile(t *testing.T) {
	ts := newTestServer(t, false)
	resp, _ := get(t, ts.URL+"/objs/zz/0000")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestLivereloadDisabledByDefault(t *testing.T) {
	ts := newTestServer(t, false)
	resp, _ := get(t, ts.URL+"/livereload")
	// Without watch mode the path falls through to the file server.
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestLivereloadRejectsPlainGET(t *testing.T) {
	ts := newTestServer(t, true)
	resp, _ := get(t, ts.URL+"/livereload")
	// Not a websocket handshake.
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
