package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/vidrios-leads-api/internal/dto"
	"github.com/noah-isme/vidrios-leads-api/internal/models"
	"github.com/noah-isme/vidrios-leads-api/internal/service"
	appErrors "github.com/noah-isme/vidrios-leads-api/pkg/errors"
	"github.com/noah-isme/vidrios-leads-api/pkg/response"
)

// SubmissionHandler serves the administrator views over submissions.
type SubmissionHandler struct {
	service *service.SubmissionService
}

// NewSubmissionHandler creates a new handler.
func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: svc}
}

// List godoc
// @Summary List submissions
// @Description Every submission, newest first
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.SubmissionListResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /api/admin/submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SubmissionListResponse{Items: items})
}

// UpdateStatus godoc
// @Summary Change the status of a submission
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.SubmissionResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /api/admin/submissions/{id} [patch]
func (h *SubmissionHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "Estado inválido"))
		return
	}

	item, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), models.SubmissionStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SubmissionResponse{Item: item})
}

// Export godoc
// @Summary Download submissions
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /api/admin/submissions/export [get]
func (h *SubmissionHandler) Export(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportCSV))))
	file, err := h.service.Export(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
