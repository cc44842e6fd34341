package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func serveFileRequest(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/uploads/"+path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("*")
	c.SetParamValues(path)

	if err := ServeFile(c); err != nil {
		t.Fatalf("ServeFile returned error: %v", err)
	}
	return rec
}

func TestServeFileRejectsTraversal(t *testing.T) {
	rec := serveFileRequest(t, "../.env")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for traversal path, got %d", rec.Code)
	}
}

func TestServeFileRejectsParentDir(t *testing.T) {
	rec := serveFileRequest(t, "..")
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for parent dir, got %d", rec.Code)
	}
}

func TestServeFileMissingFile(t *testing.T) {
	rec := serveFileRequest(t, "profiles/does-not-exist.jpg")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing file, got %d", rec.Code)
	}
}

func TestServeFileEmptyPath(t *testing.T) {
	rec := serveFileRequest(t, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for empty path, got %d", rec.Code)
	}
}
