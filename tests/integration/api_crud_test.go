package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/snipsterlab/snipster/internal/database"
	"github.com/snipsterlab/snipster/internal/server"
	"github.com/snipsterlab/snipster/internal/snippets"
)

type snippetPayload struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Code     string `json:"code"`
	Language string `json:"language"`
	Tags     string `json:"tags"`
	Favorite bool   `json:"is_favorite"`
}

type listPayload struct {
	Items []snippetPayload `json:"items"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "snipster.db"), nil)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	repository, err := snippets.NewGormRepository(db, nil)
	if err != nil {
		t.Fatalf("failed to build repository: %v", err)
	}
	service, err := snippets.NewService(snippets.ServiceConfig{Repository: repository})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	handler, err := server.NewHTTPHandler(server.Dependencies{SnippetService: service})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}

	testServer := httptest.NewServer(handler)
	t.Cleanup(testServer.Close)
	return testServer
}

func doJSON(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()
	request, err := http.NewRequest(method, url, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer response.Body.Close()
	payload, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	return response.StatusCode, payload
}

func TestSnippetLifecycleOverHTTPAndSQLite(t *testing.T) {
	testServer := newTestServer(t)
	base := testServer.URL + "/api/v1/snippets"

	// Create.
	status, body := doJSON(t, http.MethodPost, base, `{"title":"Quick Sort","code":"def quicksort(xs): ...","language":"python","tags":"sorting"}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	var created snippetPayload
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	if created.ID == 0 || created.Language != "Python" {
		t.Fatalf("unexpected created snippet: %#v", created)
	}

	// Duplicate create conflicts.
	status, _ = doJSON(t, http.MethodPost, base, `{"title":"Quick Sort","code":"other","language":"Python"}`)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", status)
	}

	// Read back.
	itemURL := fmt.Sprintf("%s/%d", base, created.ID)
	status, body = doJSON(t, http.MethodGet, itemURL, "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var loaded snippetPayload
	if err := json.Unmarshal(body, &loaded); err != nil {
		t.Fatalf("failed to decode get response: %v", err)
	}
	if loaded.Title != "Quick Sort" || loaded.Code != "def quicksort(xs): ..." {
		t.Fatalf("round trip mismatch: %#v", loaded)
	}

	// Search, case-insensitively.
	status, body = doJSON(t, http.MethodGet, base+"/search?term=QUICKSORT", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var matches listPayload
	if err := json.Unmarshal(body, &matches); err != nil {
		t.Fatalf("failed to decode search response: %v", err)
	}
	if len(matches.Items) != 1 || matches.Items[0].ID != created.ID {
		t.Fatalf("expected the created snippet, got %#v", matches.Items)
	}

	// Favourite toggle.
	status, body = doJSON(t, http.MethodPost, itemURL+"/favourite", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var toggled snippetPayload
	if err := json.Unmarshal(body, &toggled); err != nil {
		t.Fatalf("failed to decode toggle response: %v", err)
	}
	if !toggled.Favorite {
		t.Fatalf("expected favourite true")
	}

	// Favourite filter.
	status, body = doJSON(t, http.MethodGet, base+"?favorite=true", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var favourites listPayload
	if err := json.Unmarshal(body, &favourites); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(favourites.Items) != 1 || favourites.Items[0].ID != created.ID {
		t.Fatalf("expected only the favourited snippet, got %#v", favourites.Items)
	}

	// Delete, then every follow-up fails with 404.
	status, _ = doJSON(t, http.MethodDelete, itemURL, "")
	if status != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", status)
	}
	status, _ = doJSON(t, http.MethodGet, itemURL, "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
	status, _ = doJSON(t, http.MethodDelete, itemURL, "")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 on double delete, got %d", status)
	}
}

func TestValidationFailurePersistsNothing(t *testing.T) {
	testServer := newTestServer(t)
	base := testServer.URL + "/api/v1/snippets"

	status, _ := doJSON(t, http.MethodPost, base, `{"title":"","code":"print('x')"}`)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}

	status, body := doJSON(t, http.MethodGet, base, "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var items listPayload
	if err := json.Unmarshal(body, &items); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(items.Items) != 0 {
		t.Fatalf("expected empty store after rejected create, got %#v", items.Items)
	}
}
