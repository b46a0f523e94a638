package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleet-payroll-api/internal/dto"
	"github.com/fleetops/fleet-payroll-api/internal/models"
	"github.com/fleetops/fleet-payroll-api/internal/service"
	appErrors "github.com/fleetops/fleet-payroll-api/pkg/errors"
)

type exportBackendMock struct {
	createResp  *dto.ExportJobResponse
	createErr   error
	statusResp  *dto.ExportStatusResponse
	statusErr   error
	download    *service.ExportDownload
	downloadErr error
}

func (m *exportBackendMock) CreateJob(ctx context.Context, req dto.ExportRequest) (*dto.ExportJobResponse, error) {
	return m.createResp, m.createErr
}

func (m *exportBackendMock) GetStatus(ctx context.Context, id string) (*dto.ExportStatusResponse, error) {
	return m.statusResp, m.statusErr
}

func (m *exportBackendMock) ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error) {
	return m.download, m.downloadErr
}

func newJSONContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestExportHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("queues a job", func(t *testing.T) {
		mock := &exportBackendMock{createResp: &dto.ExportJobResponse{ID: "job-1", Status: models.ExportStatusQueued}}
		h := NewExportHandler(mock)

		payload, _ := json.Marshal(dto.ExportRequest{
			Type: models.ExportTypePayroll, Format: models.ExportFormatCSV,
			From: "2025-03-01", To: "2025-03-31",
		})
		c, w := newJSONContext(http.MethodPost, "/exports", payload)
		h.Create(c)

		assert.Equal(t, http.StatusAccepted, w.Code)
		envelope := decodeEnvelope(t, w)
		require.NotNil(t, envelope.Data)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		h := NewExportHandler(&exportBackendMock{})
		c, w := newJSONContext(http.MethodPost, "/exports", []byte("{"))
		h.Create(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestExportHandlerStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("unknown job is 404", func(t *testing.T) {
		mock := &exportBackendMock{statusErr: appErrors.Clone(appErrors.ErrNotFound, "export job not found")}
		h := NewExportHandler(mock)

		c, w := newGetContext("/exports/missing")
		c.Params = gin.Params{{Key: "id", Value: "missing"}}
		h.Status(c)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("finished job carries download url", func(t *testing.T) {
		mock := &exportBackendMock{statusResp: &dto.ExportStatusResponse{
			ID: "job-1", Status: models.ExportStatusFinished, DownloadURL: "/api/v1/exports/download/tok",
		}}
		h := NewExportHandler(mock)

		c, w := newGetContext("/exports/job-1")
		c.Params = gin.Params{{Key: "id", Value: "job-1"}}
		h.Status(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/exports/download/tok")
	})
}

func TestExportHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("streams the file with csv content type", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "payroll.csv")
		require.NoError(t, os.WriteFile(path, []byte("Employee,Total\nAna,195\n"), 0o644))
		file, err := os.Open(path)
		require.NoError(t, err)

		mock := &exportBackendMock{download: &service.ExportDownload{
			File: file, Filename: "payroll/job-1.csv", Format: models.ExportFormatCSV,
		}}
		h := NewExportHandler(mock)

		c, w := newGetContext("/exports/download/tok")
		c.Params = gin.Params{{Key: "token", Value: "tok"}}
		h.Download(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "payroll/job-1.csv")
		assert.Contains(t, w.Body.String(), "Ana,195")
	})

	t.Run("expired token is 410", func(t *testing.T) {
		mock := &exportBackendMock{downloadErr: appErrors.Clone(appErrors.ErrExpired, "invalid or expired download link")}
		h := NewExportHandler(mock)

		c, w := newGetContext("/exports/download/stale")
		c.Params = gin.Params{{Key: "token", Value: "stale"}}
		h.Download(c)
		assert.Equal(t, http.StatusGone, w.Code)
	})
}
