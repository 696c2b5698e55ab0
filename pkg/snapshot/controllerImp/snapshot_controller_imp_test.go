package controllerImp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrimind/pkg/middleware"
)

type fakeService struct {
	docs map[string]map[string]any
	err  error
}

func (f *fakeService) Save(_ context.Context, user string, doc map[string]any) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, existed := f.docs[user]
	f.docs[user] = doc
	return !existed, nil
}

func (f *fakeService) Load(_ context.Context, user string) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	if d, ok := f.docs[user]; ok {
		return d, nil
	}
	return map[string]any{}, nil
}

func do(t *testing.T, svc *fakeService, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := New(svc)
	g := e.Group("/api", middleware.RequireUser())
	g.POST("/localstorage/save", h.Save)
	g.GET("/localstorage/load", h.Load)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(middleware.HeaderUserID, "u1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSaveStatuses(t *testing.T) {
	svc := &fakeService{docs: map[string]map[string]any{}}

	rec := do(t, svc, http.MethodPost, "/api/localstorage/save", `{"a":1}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "LocalStorage snapshot saved successfully.")

	rec = do(t, svc, http.MethodPost, "/api/localstorage/save", `{"b":2}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, svc, http.MethodGet, "/api/localstorage/load", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"b":2}`, rec.Body.String())
}

func TestSaveRejectsNonObject(t *testing.T) {
	svc := &fakeService{docs: map[string]map[string]any{}}
	for _, body := range []string{`[1,2]`, `"text"`, `null`, `{bad`} {
		rec := do(t, svc, http.MethodPost, "/api/localstorage/save", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Contains(t, rec.Body.String(), "Expected a JSON object")
	}
	assert.Empty(t, svc.docs)
}

func TestLoadEmpty(t *testing.T) {
	rec := do(t, &fakeService{docs: map[string]map[string]any{}}, http.MethodGet, "/api/localstorage/load", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestStorageFailures(t *testing.T) {
	svc := &fakeService{err: errors.New("db locked")}

	rec := do(t, svc, http.MethodPost, "/api/localstorage/save", `{"a":1}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Could not save localStorage data.","details":"db locked"}`, rec.Body.String())

	rec = do(t, svc, http.MethodGet, "/api/localstorage/load", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Could not load localStorage data.","details":"db locked"}`, rec.Body.String())
}
