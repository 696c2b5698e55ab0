package controllerImp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrimind/entities"
	"agrimind/pkg/transfer/service"
	"agrimind/pkg/transfer/types"
)

type fakeService struct {
	body    string
	user    string
	result  *service.ImportResult
	err     error
	runs    []entities.ImportRun
	limit   int
	exports int
}

func (f *fakeService) Import(_ context.Context, userID string, r io.Reader) (*service.ImportResult, error) {
	b, _ := io.ReadAll(r)
	f.body, f.user = string(b), userID
	return f.result, f.err
}

func (f *fakeService) Export(context.Context) (*types.ExportDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.exports++
	return &types.ExportDocument{
		Version:     types.Version,
		ExportDate:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Collections: map[string][]types.Entry{},
	}, nil
}

func (f *fakeService) ExportXLSX(_ context.Context, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := w.Write([]byte("PK"))
	return err
}

func (f *fakeService) ImportRuns(_ context.Context, limit int) ([]entities.ImportRun, error) {
	f.limit = limit
	return f.runs, f.err
}

func upload(t *testing.T, h *TransferCtrl, field, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "export.json")
	require.NoError(t, err)
	_, _ = fw.Write([]byte(content))
	require.NoError(t, mw.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("uid", "u1")
	require.NoError(t, h.Import(c))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestImport_Created(t *testing.T) {
	f := &fakeService{result: &service.ImportResult{RunID: "r1", Counts: types.Counts{"farms": 2}}}
	rec := upload(t, New(f, 0), "file", `{"farms":[]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "Data imported successfully", out["message"])
	assert.Equal(t, "r1", out["run_id"])
	assert.Equal(t, `{"farms":[]}`, f.body)
	assert.Equal(t, "u1", f.user)
}

func TestImport_NoFile(t *testing.T) {
	rec := upload(t, New(&fakeService{}, 0), "other", "{}")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file provided", decode(t, rec)["error"])
}

func TestImport_TooLarge(t *testing.T) {
	rec := upload(t, New(&fakeService{}, 4), "file", `{"farms":[]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestImport_ErrorKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{types.ParseError(types.KeyFarms, 0, "bad %s", "id"), http.StatusBadRequest, "parse"},
		{types.ReferenceError(types.KeyFuelRecords, 0, 9), http.StatusBadRequest, "reference"},
		{types.StorageError("insert farms", fmt.Errorf("disk full")), http.StatusInternalServerError, "storage"},
	}
	for _, tc := range cases {
		f := &fakeService{result: &service.ImportResult{RunID: "r9"}, err: tc.err}
		rec := upload(t, New(f, 0), "file", "{}")
		assert.Equal(t, tc.status, rec.Code, tc.kind)
		out := decode(t, rec)
		assert.Equal(t, tc.kind, out["kind"])
		assert.Equal(t, "r9", out["run_id"])
		assert.NotEmpty(t, out["details"])
	}
}

func TestExport_Formats(t *testing.T) {
	e := echo.New()
	f := &fakeService{}
	h := New(f, 0)

	rec := httptest.NewRecorder()
	require.NoError(t, h.Export(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/export", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.0", decode(t, rec)["version"])

	rec = httptest.NewRecorder()
	require.NoError(t, h.Export(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/export?format=xlsx", nil), rec)))
	assert.Equal(t, xlsxMIME, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "agrimind-export.xlsx")

	rec = httptest.NewRecorder()
	require.NoError(t, h.Export(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/export?format=csv", nil), rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRuns_PassesLimit(t *testing.T) {
	f := &fakeService{runs: []entities.ImportRun{{ID: "r1", Status: entities.ImportSucceeded}}}
	e := echo.New()
	rec := httptest.NewRecorder()
	require.NoError(t, New(f, 0).Runs(e.NewContext(httptest.NewRequest(http.MethodGet, "/api/import/runs?limit=3", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, f.limit)
}
