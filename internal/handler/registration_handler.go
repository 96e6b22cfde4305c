package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fixlab-academy-api/internal/service"
	appErrors "github.com/noah-isme/fixlab-academy-api/pkg/errors"
	"github.com/noah-isme/fixlab-academy-api/pkg/response"
)

const maxWebhookBody = 1 << 20

type registrationWorkflow interface {
	Initiate(ctx context.Context, req service.InitiateRegistrationRequest) (*service.InitiateRegistrationResponse, error)
	Verify(ctx context.Context, reference string) (*service.VerifyPaymentResponse, error)
	CheckStudent(ctx context.Context, email string) (*service.StudentCheckResponse, error)
	Receipt(ctx context.Context, reference, token string) ([]byte, error)
	HandleWebhook(ctx context.Context, provider string, header http.Header, body []byte) error
}

// RegistrationHandler exposes the public registration and payment endpoints.
type RegistrationHandler struct {
	service registrationWorkflow
}

// NewRegistrationHandler creates a new handler.
func NewRegistrationHandler(svc registrationWorkflow) *RegistrationHandler {
	return &RegistrationHandler{service: svc}
}

// Initiate godoc
// @Summary Start a course registration
// @Description Opens a payment with the gateway and records a pending registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body service.InitiateRegistrationRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Initiate(c *gin.Context) {
	var req service.InitiateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}
	res, err := h.service.Initiate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Verify godoc
// @Summary Verify a payment
// @Description Confirms the payment with the gateway and completes the registration
// @Tags Registrations
// @Produce json
// @Param reference query string true "Payment reference"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /registrations/verify [get]
func (h *RegistrationHandler) Verify(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		response.Error(c, appErrors.Validation("payment reference is required", map[string]string{"reference": "is required"}))
		return
	}
	res, err := h.service.Verify(c.Request.Context(), reference)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Check godoc
// @Summary Look up a student
// @Description Returns the most recent registration for an email
// @Tags Registrations
// @Produce json
// @Param email query string true "Student email"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /registrations/check [get]
func (h *RegistrationHandler) Check(c *gin.Context) {
	res, err := h.service.CheckStudent(c.Request.Context(), c.Query("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Receipt godoc
// @Summary Download a payment receipt
// @Tags Registrations
// @Produce application/pdf
// @Param reference path string true "Payment reference"
// @Param token query string true "Signed receipt token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /registrations/{reference}/receipt [get]
func (h *RegistrationHandler) Receipt(c *gin.Context) {
	reference := c.Param("reference")
	pdf, err := h.service.Receipt(c.Request.Context(), reference, c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, "receipt-"+reference+".pdf", "application/pdf", pdf)
}

// Webhook godoc
// @Summary Gateway webhook
// @Description Authenticated gateway callback; settled charges are verified
// @Tags Payments
// @Accept json
// @Produce json
// @Param provider path string false "Gateway name"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /payments/webhook [post]
func (h *RegistrationHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable webhook body"))
		return
	}
	if err := h.service.HandleWebhook(c.Request.Context(), c.Param("provider"), c.Request.Header, body); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"received": true}, nil)
}
