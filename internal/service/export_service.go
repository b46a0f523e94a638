package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fleetops/fleet-payroll-api/internal/dto"
	"github.com/fleetops/fleet-payroll-api/internal/models"
	appErrors "github.com/fleetops/fleet-payroll-api/pkg/errors"
	"github.com/fleetops/fleet-payroll-api/pkg/export"
	"github.com/fleetops/fleet-payroll-api/pkg/jobs"
	"github.com/fleetops/fleet-payroll-api/pkg/storage"
)

const exportJobKeyPrefix = "export:job:"

type reportEngine interface {
	Payroll(ctx context.Context, from, to time.Time) (*models.PayrollReport, error)
	ExpenseReport(ctx context.Context, from, to time.Time, boatID, employeeID string) (*models.ExpenseReport, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type jobQueue interface {
	Enqueue(job jobs.Job) error
}

type jobStateStore interface {
	Available() bool
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix    string
	SignedURLTTL time.Duration
}

// ExportDownload hands a rendered file to the HTTP layer.
type ExportDownload struct {
	File     *os.File
	Filename string
	Format   models.ExportFormat
}

// ExportService renders payroll and expense reports into downloadable files.
// Generation runs on the jobs queue; job state lives in Redis for the
// lifetime of the file.
type ExportService struct {
	engine    reportEngine
	storage   fileStorage
	state     jobStateStore
	queue     jobQueue
	signer    *storage.SignedURLSigner
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService. SetQueue must be called
// before jobs can be accepted; the queue itself needs this service's
// ProcessJob as its handler.
func NewExportService(engine reportEngine, store fileStorage, state jobStateStore, signer *storage.SignedURLSigner, cfg ExportConfig, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = 24 * time.Hour
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		engine:    engine,
		storage:   store,
		state:     state,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// SetQueue attaches the worker queue once it exists.
func (s *ExportService) SetQueue(queue jobQueue) {
	s.queue = queue
}

// CreateJob validates the request and queues the export.
func (s *ExportService) CreateJob(ctx context.Context, req dto.ExportRequest) (*dto.ExportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export type")
	}
	if !req.Format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	from, to, err := ParseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export queue unavailable")
	}
	// Job state lives in Redis. Accepting a job we cannot track would hand
	// the client an id that is lost the moment we return.
	if !s.state.Available() {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export state store unavailable")
	}

	now := time.Now().UTC()
	job := models.ExportJob{
		ID:         uuid.NewString(),
		Type:       req.Type,
		Format:     req.Format,
		From:       from,
		To:         to,
		BoatID:     req.BoatID,
		EmployeeID: req.EmployeeID,
		Status:     models.ExportStatusQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.saveJob(ctx, &job); err != nil {
		return nil, err
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type), Payload: job.ID}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}
	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status}, nil
}

// GetStatus loads job state and, when finished, signs a download link.
func (s *ExportService) GetStatus(ctx context.Context, id string) (*dto.ExportStatusResponse, error) {
	job, err := s.loadJob(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := &dto.ExportStatusResponse{ID: job.ID, Status: job.Status, Error: job.Error}
	if job.Status == models.ExportStatusFinished && job.Filename != "" {
		token, expiresAt, err := s.signer.Generate(job.ID, job.Filename)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
		}
		resp.DownloadURL = fmt.Sprintf("%s/exports/download/%s", s.cfg.APIPrefix, token)
		resp.ExpiresAt = &expiresAt
	}
	return resp, nil
}

// ResolveDownload validates a signed token and opens the rendered file.
func (s *ExportService) ResolveDownload(ctx context.Context, token string) (*ExportDownload, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrExpired, "invalid or expired download link")
	}
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return &ExportDownload{File: file, Filename: relPath, Format: job.Format}, nil
}

// ProcessJob is the queue handler: it renders the requested report and
// stores the file.
func (s *ExportService) ProcessJob(ctx context.Context, job jobs.Job) error {
	id, _ := job.Payload.(string)
	if id == "" {
		id = job.ID
	}
	state, err := s.loadJob(ctx, id)
	if err != nil {
		return err
	}

	state.Status = models.ExportStatusProcessing
	state.Error = ""
	if err := s.saveJob(ctx, state); err != nil {
		return err
	}

	data, title, err := s.buildDataset(ctx, state)
	if err != nil {
		s.markFailed(ctx, state, err)
		return err
	}

	var rendered []byte
	switch state.Format {
	case models.ExportFormatPDF:
		rendered, err = s.pdf.Render(data, title)
	default:
		rendered, err = s.csv.Render(data)
	}
	if err != nil {
		s.markFailed(ctx, state, err)
		return err
	}

	filename := fmt.Sprintf("%s/%s.%s", state.Type, state.ID, state.Format)
	if _, err := s.storage.Save(filename, rendered); err != nil {
		s.markFailed(ctx, state, err)
		return err
	}

	state.Status = models.ExportStatusFinished
	state.Filename = filename
	if err := s.saveJob(ctx, state); err != nil {
		return err
	}
	s.logger.Info("export finished",
		zap.String("job_id", state.ID),
		zap.String("type", string(state.Type)),
		zap.String("format", string(state.Format)),
	)
	return nil
}

// CleanupExpired removes rendered files older than the signed link TTL.
func (s *ExportService) CleanupExpired() {
	deleted, err := s.storage.CleanupOlderThan(s.cfg.SignedURLTTL)
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("export cleanup removed files", zap.Int("count", len(deleted)))
	}
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ExportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ExportTypePayroll:
		report, err := s.engine.Payroll(ctx, job.From, job.To)
		if err != nil {
			return export.Dataset{}, "", err
		}
		title := fmt.Sprintf("Payroll %s - %s", job.From.Format(dateLayout), job.To.Format(dateLayout))
		return payrollDataset(report), title, nil
	case models.ExportTypeExpenses:
		report, err := s.engine.ExpenseReport(ctx, job.From, job.To, job.BoatID, job.EmployeeID)
		if err != nil {
			return export.Dataset{}, "", err
		}
		title := fmt.Sprintf("Expenses %s - %s", job.From.Format(dateLayout), job.To.Format(dateLayout))
		return expenseDataset(report), title, nil
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported export type %q", job.Type)
	}
}

func payrollDataset(report *models.PayrollReport) export.Dataset {
	headers := []string{"Employee", "Days", "Wage", "Overtime Hours", "Overtime", "Extras", "Reasons", "Total", "Bank", "Cash"}
	rows := make([]map[string]string, 0, len(report.Payments))
	totalGrand, totalBank, totalCash := decimal.Zero, decimal.Zero, decimal.Zero
	for _, line := range report.Payments {
		rows = append(rows, map[string]string{
			"Employee":       line.EmployeeName,
			"Days":           line.DaysWorked.String(),
			"Wage":           line.TotalWage.StringFixed(2),
			"Overtime Hours": strconv.FormatFloat(line.TotalOvertimeHours, 'f', -1, 64),
			"Overtime":       line.TotalOvertime.StringFixed(2),
			"Extras":         line.TotalExtra.StringFixed(2),
			"Reasons":        line.ExtraReasons,
			"Total":          line.GrandTotal.StringFixed(2),
			"Bank":           line.BankPay.StringFixed(2),
			"Cash":           line.CashPay.StringFixed(2),
		})
		totalGrand = totalGrand.Add(line.GrandTotal)
		totalBank = totalBank.Add(line.BankPay)
		totalCash = totalCash.Add(line.CashPay)
	}
	footer := map[string]string{
		"Employee": "TOTAL",
		"Total":    totalGrand.StringFixed(2),
		"Bank":     totalBank.StringFixed(2),
		"Cash":     totalCash.StringFixed(2),
	}
	return export.Dataset{Headers: headers, Rows: rows, Footer: footer}
}

func expenseDataset(report *models.ExpenseReport) export.Dataset {
	headers := []string{"Date", "Employee", "Boat", "Daily Cost", "Overtime Cost", "Total"}
	rows := make([]map[string]string, 0, len(report.Results))
	for _, line := range report.Results {
		rows = append(rows, map[string]string{
			"Date":          line.Date.Format(dateLayout),
			"Employee":      line.EmployeeName,
			"Boat":          line.BoatName,
			"Daily Cost":    line.DailyCost.StringFixed(2),
			"Overtime Cost": line.OvertimeCost.StringFixed(2),
			"Total":         line.TotalCost.StringFixed(2),
		})
	}
	footer := map[string]string{
		"Date":  "TOTAL",
		"Total": report.TotalSum.StringFixed(2),
	}
	return export.Dataset{Headers: headers, Rows: rows, Footer: footer}
}

func (s *ExportService) markFailed(ctx context.Context, job *models.ExportJob, cause error) {
	job.Status = models.ExportStatusFailed
	job.Error = cause.Error()
	if err := s.saveJob(ctx, job); err != nil {
		s.logger.Warn("failed to persist export failure", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (s *ExportService) saveJob(ctx context.Context, job *models.ExportJob) error {
	job.UpdatedAt = time.Now().UTC()
	if err := s.state.Set(ctx, exportJobKeyPrefix+job.ID, job, s.cfg.SignedURLTTL); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist export job")
	}
	return nil
}

func (s *ExportService) loadJob(ctx context.Context, id string) (*models.ExportJob, error) {
	var job models.ExportJob
	if err := s.state.Get(ctx, exportJobKeyPrefix+id, &job); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	return &job, nil
}
