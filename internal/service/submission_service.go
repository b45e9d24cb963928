package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/vidrios-leads-api/internal/dto"
	"github.com/noah-isme/vidrios-leads-api/internal/models"
	appErrors "github.com/noah-isme/vidrios-leads-api/pkg/errors"
	"github.com/noah-isme/vidrios-leads-api/pkg/export"
)

// SubmissionRepository is the persistence contract shared by the Postgres and Mongo stores.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindAll(ctx context.Context) ([]models.Submission, error)
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	UpdateStatusByID(ctx context.Context, id string, status models.SubmissionStatus) (*models.Submission, error)
	Ping(ctx context.Context) error
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportFormat selects the document type of a submissions export.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportFile is a rendered submissions export.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

var exportHeaders = []string{"Recibido", "Nombre", "Teléfono", "Email", "Medidas", "Estado"}

// SubmissionService implements lead intake and triage.
type SubmissionService struct {
	repo      SubmissionRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	renderers map[ExportFormat]datasetRenderer
	now       func() time.Time
}

// NewSubmissionService constructs the service. metrics may be nil.
func NewSubmissionService(repo SubmissionRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubmissionService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		renderers: map[ExportFormat]datasetRenderer{
			ExportCSV: export.NewCSVExporter(),
			ExportPDF: export.NewPDFExporter(),
		},
		now: time.Now,
	}
}

// Create validates and stores a new lead with status pending.
func (s *SubmissionService) Create(ctx context.Context, req dto.CreateSubmissionRequest) (*models.Submission, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.Measurements = strings.TrimSpace(req.Measurements)

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "Faltan datos obligatorios.")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate id")
	}

	submission := &models.Submission{
		ID:           id.String(),
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Measurements: req.Measurements,
		Status:       models.StatusPending,
		ReceivedAt:   s.now().UTC(),
	}

	start := time.Now()
	err = s.repo.Create(ctx, submission)
	s.metrics.ObserveStoreOperation("create", err, time.Since(start))
	if err != nil {
		s.logger.Error("failed to store submission", zap.Error(err))
		return nil, appErrors.Storage(err, "Error al guardar el contacto en la base de datos.")
	}

	s.metrics.SubmissionCreated()
	s.logger.Info("submission received", zap.String("submission_id", submission.ID))
	return submission, nil
}

// List returns every submission, newest first.
func (s *SubmissionService) List(ctx context.Context) ([]models.Submission, error) {
	start := time.Now()
	items, err := s.repo.FindAll(ctx)
	s.metrics.ObserveStoreOperation("find_all", err, time.Since(start))
	if err != nil {
		s.logger.Error("failed to list submissions", zap.Error(err))
		return nil, appErrors.Storage(err, "Error al obtener los contactos desde la base de datos")
	}
	if items == nil {
		items = []models.Submission{}
	}
	return items, nil
}

// UpdateStatus moves a submission to another status. Any transition is allowed.
// Legacy Spanish status values are accepted and stored as their canonical form.
func (s *SubmissionService) UpdateStatus(ctx context.Context, id string, status models.SubmissionStatus) (*models.Submission, error) {
	status = status.Canonical()
	if !status.Valid() {
		return nil, appErrors.Validation(fmt.Errorf("unknown status %q", status), "Estado inválido")
	}

	start := time.Now()
	current, err := s.repo.FindByID(ctx, id)
	s.metrics.ObserveStoreOperation("find_by_id", ignoreNotFound(err), time.Since(start))
	if err != nil {
		return nil, s.updateError(id, err)
	}

	start = time.Now()
	updated, err := s.repo.UpdateStatusByID(ctx, id, status)
	s.metrics.ObserveStoreOperation("update_status", ignoreNotFound(err), time.Since(start))
	if err != nil {
		return nil, s.updateError(id, err)
	}

	s.metrics.StatusUpdated(status)
	s.logger.Info("submission status updated",
		zap.String("submission_id", id),
		zap.String("previous_status", string(current.Status)),
		zap.String("status", string(status)),
	)
	return updated, nil
}

func (s *SubmissionService) updateError(id string, err error) error {
	if errors.Is(err, models.ErrSubmissionNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, "No encontrado")
	}
	s.logger.Error("failed to update submission status", zap.String("submission_id", id), zap.Error(err))
	return appErrors.Storage(err, "Error al actualizar el estado en la base de datos")
}

// Export renders every submission as a downloadable document.
func (s *SubmissionService) Export(ctx context.Context, format ExportFormat) (*ExportFile, error) {
	if format == "" {
		format = ExportCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Validation(fmt.Errorf("unknown export format %q", format), "formato de exportación inválido")
	}

	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, map[string]string{
			"Recibido": item.ReceivedAt.UTC().Format(time.RFC3339),
			"Nombre":   item.Name,
			"Teléfono": item.Phone,
			"Email":    item.Email,
			"Medidas":  item.Measurements,
			"Estado":   string(item.Status),
		})
	}

	body, err := renderer.Render(export.Dataset{
		Title:   "Solicitudes de contacto",
		Headers: exportHeaders,
		Rows:    rows,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("solicitudes-%s.%s", s.now().UTC().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// Ping checks the submission store.
func (s *SubmissionService) Ping(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return appErrors.Storage(err, "")
	}
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, models.ErrSubmissionNotFound) {
		return nil
	}
	return err
}
