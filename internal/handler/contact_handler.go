package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/vidrios-leads-api/internal/dto"
	"github.com/noah-isme/vidrios-leads-api/internal/service"
	appErrors "github.com/noah-isme/vidrios-leads-api/pkg/errors"
	"github.com/noah-isme/vidrios-leads-api/pkg/response"
)

const contactReceivedMessage = "Recibido, te contactamos en menos de 30 minutos."

// ContactHandler accepts the public contact form.
type ContactHandler struct {
	service *service.SubmissionService
}

// NewContactHandler creates a new handler.
func NewContactHandler(svc *service.SubmissionService) *ContactHandler {
	return &ContactHandler{service: svc}
}

// Create godoc
// @Summary Submit the contact form
// @Tags Contact
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubmissionRequest true "Contact form"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /api/contact [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var req dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "Faltan datos obligatorios."))
		return
	}

	if _, err := h.service.Create(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, contactReceivedMessage)
}
