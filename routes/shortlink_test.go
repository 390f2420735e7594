package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kataras/iris/v12"
)

func buildShortlinkApp(t *testing.T) *iris.Application {
	return buildApp(t, func(app *iris.Application) {
		shortlinks := app.Party("/s")
		shortlinks.Post("/shorten", CreateShortLink)
		shortlinks.Get("/{code}", RedirectShortLink)
	})
}

func TestShortLinkRoundTrip(t *testing.T) {
	setupTestDB(t)
	app := buildShortlinkApp(t)

	target := "https://example.com/car/42"
	resp := postJSON(t, app, "/s/shorten", iris.Map{"url": target})
	if resp.Code != http.StatusOK {
		t.Fatalf("shorten status = %d, want 200 (body: %s)", resp.Code, resp.Body.String())
	}
	var out struct {
		ShortCode string `json:"shortCode"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(out.ShortCode) != 4 {
		t.Fatalf("shortCode = %q, want a 4-character code", out.ShortCode)
	}

	// Same URL gets the same code back
	resp = postJSON(t, app, "/s/shorten", iris.Map{"url": target})
	var again struct {
		ShortCode string `json:"shortCode"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &again); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if again.ShortCode != out.ShortCode {
		t.Errorf("second shorten produced %q, want %q", again.ShortCode, out.ShortCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/s/"+out.ShortCode, nil)
	redirect := httptest.NewRecorder()
	app.ServeHTTP(redirect, req)
	if redirect.Code != http.StatusMovedPermanently {
		t.Fatalf("redirect status = %d, want 301", redirect.Code)
	}
	if loc := redirect.Header().Get("Location"); loc != target {
		t.Errorf("Location = %q, want %q", loc, target)
	}
}

func TestShortLinkValidation(t *testing.T) {
	setupTestDB(t)
	app := buildShortlinkApp(t)

	if resp := postJSON(t, app, "/s/shorten", iris.Map{"url": "not a url"}); resp.Code != http.StatusBadRequest {
		t.Errorf("invalid url status = %d, want 400", resp.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/s/zzzz", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Errorf("unknown code status = %d, want 404", resp.Code)
	}
}
