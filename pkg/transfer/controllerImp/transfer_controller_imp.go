package controllerImp

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"agrimind/pkg/middleware"
	"agrimind/pkg/transfer/service"
	"agrimind/pkg/transfer/types"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type TransferCtrl struct {
	s         service.TransferService
	maxUpload int64 // bytes; 0 means unlimited
}

func New(s service.TransferService, maxUploadBytes int64) *TransferCtrl {
	return &TransferCtrl{s: s, maxUpload: maxUploadBytes}
}

type errorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
	RunID   string `json:"run_id,omitempty"`
}

// Import expects the document in multipart field "file".
func (h *TransferCtrl) Import(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file provided"})
	}
	if h.maxUpload > 0 && fh.Size > h.maxUpload {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "File too large"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "Could not read uploaded file", Details: err.Error()})
	}
	defer f.Close()

	res, err := h.s.Import(c.Request().Context(), middleware.UserID(c), f)
	if err != nil {
		runID := ""
		if res != nil {
			runID = res.RunID
		}
		return writeTransferError(c, err, runID)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message":    "Data imported successfully",
		"run_id":     res.RunID,
		"counts":     res.Counts,
		"backup_key": res.BackupKey,
	})
}

// Export returns the JSON document, or a workbook with ?format=xlsx.
func (h *TransferCtrl) Export(c echo.Context) error {
	ctx := c.Request().Context()
	switch c.QueryParam("format") {
	case "", "json":
		doc, err := h.s.Export(ctx)
		if err != nil {
			return writeTransferError(c, err, "")
		}
		return c.JSON(http.StatusOK, doc)
	case "xlsx":
		var buf bytes.Buffer
		if err := h.s.ExportXLSX(ctx, &buf); err != nil {
			return writeTransferError(c, err, "")
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="agrimind-export.xlsx"`)
		return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
	}
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "format must be json or xlsx"})
}

func (h *TransferCtrl) Runs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	runs, err := h.s.ImportRuns(c.Request().Context(), limit)
	if err != nil {
		return writeTransferError(c, err, "")
	}
	return c.JSON(http.StatusOK, runs)
}

// writeTransferError maps error kinds to status: parse/reference 400, storage 500.
func writeTransferError(c echo.Context, err error, runID string) error {
	kind := types.KindOf(err)
	resp := errorResponse{Kind: string(kind), Details: err.Error(), RunID: runID}
	status := http.StatusBadRequest
	switch kind {
	case types.KindParse:
		resp.Error = "Invalid import document"
	case types.KindReference:
		resp.Error = "Record references a farm that is not in the document"
	default:
		resp.Error = "Storage failure"
		status = http.StatusInternalServerError
	}
	return c.JSON(status, resp)
}
