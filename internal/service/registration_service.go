package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
	"github.com/noah-isme/fixlab-academy-api/internal/repository"
	appErrors "github.com/noah-isme/fixlab-academy-api/pkg/errors"
	"github.com/noah-isme/fixlab-academy-api/pkg/events"
	"github.com/noah-isme/fixlab-academy-api/pkg/export"
	"github.com/noah-isme/fixlab-academy-api/pkg/linksign"
	"github.com/noah-isme/fixlab-academy-api/pkg/payment"
	"github.com/noah-isme/fixlab-academy-api/pkg/validation"
)

type registrationStore interface {
	Create(ctx context.Context, reg *models.Registration) error
	FindByReference(ctx context.Context, reference string) (*models.RegistrationDetail, error)
	LatestByEmail(ctx context.Context, email string) (*models.RegistrationDetail, error)
	TransitionFromPending(ctx context.Context, id string, status models.PaymentStatus, amountPaid decimal.NullDecimal, verifiedAt time.Time) (bool, error)
	HasEarlierCompleted(ctx context.Context, email, id string, verifiedAt time.Time) (bool, error)
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error)
	ListAll(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, error)
}

type courseResolver interface {
	GetByName(ctx context.Context, name string) (*models.Course, error)
}

type gatewayResolver interface {
	Get(provider string) (payment.Gateway, error)
}

type linkSigner interface {
	Sign(subject string) (string, time.Time, error)
	Verify(subject, token string) error
}

// RegistrationConfig holds the workflow settings taken from configuration.
type RegistrationConfig struct {
	// Provider is the gateway used for new registrations.
	Provider    string
	CallbackURL string
	Currency    string
	Brand       string
	Support     string
	// ReceiptBaseURL is the public registrations URL receipt links are built on.
	ReceiptBaseURL string
}

// RegistrationDeps bundles the collaborators of RegistrationService.
type RegistrationDeps struct {
	Store     registrationStore
	Courses   courseResolver
	Gateways  gatewayResolver
	Notifier  Notifier
	Signer    linkSigner
	Events    events.Publisher
	Templates NotificationTemplates
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// InitiateRegistrationRequest is the public registration form.
type InitiateRegistrationRequest struct {
	FullName       string `json:"full_name" validate:"required_if=Action newRegistration,max=255"`
	Email          string `json:"email" validate:"required,email,max=255"`
	Phone          string `json:"phone" validate:"required_if=Action newRegistration,max=32"`
	Course         string `json:"course" validate:"required,max=255"`
	Gender         string `json:"gender" validate:"omitempty,oneof=male female other"`
	Address        string `json:"address" validate:"max=500"`
	Occupation     string `json:"occupation" validate:"max=255"`
	ModeOfLearning string `json:"mode_of_learning" validate:"omitempty,oneof=onsite virtual"`
	PaymentOption  string `json:"payment_option" validate:"omitempty,oneof=full installment"`
	Message        string `json:"message" validate:"max=2000"`
	Action         string `json:"action" validate:"required,oneof=newRegistration newCourse"`
}

// InitiateRegistrationResponse tells the client where to pay.
type InitiateRegistrationResponse struct {
	Success    bool   `json:"success"`
	PaymentURL string `json:"payment_url"`
	Reference  string `json:"reference"`
	Message    string `json:"message"`
}

// VerifyPaymentResponse reports a confirmed payment.
type VerifyPaymentResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Reference  string `json:"reference"`
	ReceiptURL string `json:"receipt_url,omitempty"`
}

// StudentCheckResponse summarises the most recent registration for an email.
type StudentCheckResponse struct {
	Exists         bool   `json:"exists"`
	FullName       string `json:"full_name,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Course         string `json:"course,omitempty"`
	ModeOfLearning string `json:"mode_of_learning,omitempty"`
	PaymentOption  string `json:"payment_option,omitempty"`
	PaymentStatus  string `json:"payment_status,omitempty"`
	Reference      string `json:"reference,omitempty"`
}

// RegistrationService runs the registration and payment verification workflow.
type RegistrationService struct {
	store     registrationStore
	courses   courseResolver
	gateways  gatewayResolver
	notifier  Notifier
	signer    linkSigner
	events    events.Publisher
	templates NotificationTemplates
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    RegistrationConfig
	now       func() time.Time
}

// NewRegistrationService constructs the workflow service.
func NewRegistrationService(deps RegistrationDeps, config RegistrationConfig) *RegistrationService {
	if deps.Validator == nil {
		deps.Validator = validation.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Events == nil {
		deps.Events = events.Nop{}
	}
	return &RegistrationService{
		store:     deps.Store,
		courses:   deps.Courses,
		gateways:  deps.Gateways,
		notifier:  deps.Notifier,
		signer:    deps.Signer,
		events:    deps.Events,
		templates: deps.Templates,
		metrics:   deps.Metrics,
		validator: deps.Validator,
		logger:    deps.Logger,
		config:    config,
		now:       time.Now,
	}
}

// Initiate opens a gateway transaction and records a pending registration for it.
func (s *RegistrationService) Initiate(ctx context.Context, req InitiateRegistrationRequest) (*InitiateRegistrationResponse, error) {
	req = normalizeInitiate(req)
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}
	action, err := models.ParseRegistrationAction(req.Action)
	if err != nil {
		return nil, appErrors.Validation("invalid payload", map[string]string{"action": "must be one of [newRegistration newCourse]"})
	}

	course, err := s.courses.GetByName(ctx, req.Course)
	if err != nil {
		return nil, err
	}

	reg := &models.Registration{
		Email:          req.Email,
		CourseID:       course.ID,
		AmountDue:      course.FeeAmount,
		Message:        optional(req.Message),
		ModeOfLearning: learningMode(req.ModeOfLearning),
		PaymentOption:  paymentOption(req.PaymentOption),
	}

	switch action {
	case models.ActionNewRegistration:
		reg.FullName = req.FullName
		reg.Phone = req.Phone
		reg.Gender = gender(req.Gender)
		reg.Address = optional(req.Address)
		reg.Occupation = optional(req.Occupation)
	case models.ActionNewCourse:
		prior, err := s.store.LatestByEmail(ctx, req.Email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrStudentNotFound, "")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
		}
		reg.FullName = prior.FullName
		reg.Phone = prior.Phone
		reg.Gender = prior.Gender
		reg.Address = prior.Address
		reg.Occupation = prior.Occupation
		if reg.ModeOfLearning == nil {
			reg.ModeOfLearning = prior.ModeOfLearning
		}
	}

	gw, err := s.gateway(s.config.Provider)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	opened, err := gw.Initialize(ctx, payment.InitializeRequest{
		Email:       reg.Email,
		AmountMinor: course.FeeMinorUnits(),
		CallbackURL: s.config.CallbackURL,
		Description: course.Name,
		Metadata: map[string]string{
			"full_name":      reg.FullName,
			"course":         course.Name,
			"action":         action.String(),
			"payment_option": string(reg.PaymentOption),
		},
	})
	s.metrics.ObserveGatewayCall(gw.Name(), "initialize", err, time.Since(start))
	if err != nil {
		s.logGatewayError(ctx, "payment initialization failed", gw.Name(), err, zap.String("email", reg.Email), zap.String("course", course.Name))
		return nil, appErrors.Wrap(err, appErrors.ErrGatewayUnavailable.Code, appErrors.ErrGatewayUnavailable.Status, "could not initialize payment, please try again")
	}

	reg.PaymentReference = opened.Reference
	reg.Gateway = gw.Name()
	if err := s.store.Create(ctx, reg); err != nil {
		if errors.Is(err, repository.ErrDuplicateReference) {
			s.logger.Error("gateway reused a payment reference", zap.String("reference", opened.Reference), zap.String("gateway", gw.Name()))
			return nil, appErrors.Clone(appErrors.ErrConflict, "payment reference already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save registration")
	}

	s.publish(ctx, events.RegistrationInitiated, reg, course.Name)
	s.logger.Info("registration initiated",
		zap.String("reference", reg.PaymentReference),
		zap.String("email", reg.Email),
		zap.String("course", course.Name),
		zap.String("action", action.String()),
	)

	return &InitiateRegistrationResponse{
		Success:    true,
		PaymentURL: opened.RedirectURL,
		Reference:  reg.PaymentReference,
		Message:    "Registration initiated. Complete your payment to confirm your place.",
	}, nil
}

// Verify confirms a payment with the gateway and moves the registration out of pending.
// Only the call that performs the transition into completed sends notifications.
func (s *RegistrationService) Verify(ctx context.Context, reference string) (*VerifyPaymentResponse, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, appErrors.Validation("payment reference is required", map[string]string{"reference": "is required"})
	}
	reg, err := s.load(ctx, reference)
	if err != nil {
		return nil, err
	}

	switch reg.PaymentStatus {
	case models.PaymentCompleted:
		return s.completed(reg.PaymentReference, "Payment already verified"), nil
	case models.PaymentFailed:
		return nil, appErrors.Clone(appErrors.ErrPaymentNotSuccessful, "")
	}

	gw, err := s.gateway(reg.Gateway)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result, err := gw.Verify(ctx, reference)
	s.metrics.ObserveGatewayCall(gw.Name(), "verify", err, time.Since(start))
	if err != nil {
		s.logGatewayError(ctx, "payment verification failed", gw.Name(), err, zap.String("reference", reference))
		return nil, appErrors.Wrap(err, appErrors.ErrGatewayUnavailable.Code, appErrors.ErrGatewayUnavailable.Status, "could not verify payment, please try again")
	}

	status := models.PaymentFailed
	if result.Succeeded {
		status = models.PaymentCompleted
	}
	var paid decimal.NullDecimal
	if result.AmountPaidMinor > 0 {
		paid = decimal.NewNullDecimal(models.FromMinorUnits(result.AmountPaidMinor))
	}
	verifiedAt := s.now().UTC()

	won, err := s.store.TransitionFromPending(ctx, reg.ID, status, paid, verifiedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment status")
	}
	if !won {
		// Another verification settled the row first; report what it decided.
		current, err := s.load(ctx, reference)
		if err != nil {
			return nil, err
		}
		if current.PaymentStatus == models.PaymentCompleted {
			return s.completed(current.PaymentReference, "Payment already verified"), nil
		}
		return nil, appErrors.Clone(appErrors.ErrPaymentNotSuccessful, "")
	}

	s.metrics.RecordTransition(string(status))
	reg.PaymentStatus = status
	reg.AmountPaid = paid
	reg.VerifiedAt = &verifiedAt

	if status == models.PaymentFailed {
		s.publish(ctx, events.RegistrationFailed, &reg.Registration, reg.CourseName)
		s.logger.Info("payment not successful", zap.String("reference", reference), zap.String("gateway_status", result.RawStatus))
		return nil, appErrors.Clone(appErrors.ErrPaymentNotSuccessful, "")
	}

	if paid.Valid && paid.Decimal.LessThan(reg.AmountDue) {
		s.logger.Warn("payment below course fee",
			zap.String("reference", reference),
			zap.String("amount_due", reg.AmountDue.StringFixed(2)),
			zap.String("amount_paid", paid.Decimal.StringFixed(2)),
		)
	}

	s.publish(ctx, events.RegistrationCompleted, &reg.Registration, reg.CourseName)
	s.notifyCompletion(ctx, reg)
	s.logger.Info("payment verified", zap.String("reference", reference), zap.String("email", reg.Email))

	return s.completed(reg.PaymentReference, "Payment verified successfully"), nil
}

// CheckStudent reports the most recent registration held for an email.
func (s *RegistrationService) CheckStudent(ctx context.Context, email string) (*StudentCheckResponse, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, appErrors.Validation("email is required", map[string]string{"email": "is required"})
	}
	reg, err := s.store.LatestByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &StudentCheckResponse{Exists: false}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return &StudentCheckResponse{
		Exists:         true,
		FullName:       reg.FullName,
		Email:          reg.Email,
		Phone:          reg.Phone,
		Course:         reg.CourseName,
		ModeOfLearning: modeValue(reg.ModeOfLearning),
		PaymentOption:  string(reg.PaymentOption),
		PaymentStatus:  string(reg.PaymentStatus),
		Reference:      reg.PaymentReference,
	}, nil
}

// Receipt renders the PDF receipt of a completed registration. token must be a link
// token issued for the same reference.
func (s *RegistrationService) Receipt(ctx context.Context, reference, token string) ([]byte, error) {
	reference = strings.TrimSpace(reference)
	if s.signer == nil || token == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "receipt link is invalid")
	}
	if err := s.signer.Verify(reference, token); err != nil {
		msg := "receipt link is invalid"
		if errors.Is(err, linksign.ErrExpired) {
			msg = "receipt link has expired"
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, msg)
	}
	reg, err := s.load(ctx, reference)
	if err != nil {
		return nil, err
	}
	if reg.PaymentStatus != models.PaymentCompleted {
		return nil, appErrors.Clone(appErrors.ErrRegistrationNotFound, "no completed payment for this reference")
	}

	amount := reg.AmountDue
	if reg.AmountPaid.Valid {
		amount = reg.AmountPaid.Decimal
	}
	receipt := export.Receipt{
		Brand:     s.config.Brand,
		Reference: reg.PaymentReference,
		FullName:  reg.FullName,
		Email:     reg.Email,
		Course:    reg.CourseName,
		Mode:      modeLabel(reg.ModeOfLearning),
		Amount:    amount.StringFixed(2),
		Currency:  s.config.Currency,
		Support:   s.config.Support,
	}
	if reg.VerifiedAt != nil {
		receipt.VerifiedAt = *reg.VerifiedAt
	}
	var buf bytes.Buffer
	if err := export.WriteReceipt(&buf, receipt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render receipt")
	}
	return buf.Bytes(), nil
}

// HandleWebhook authenticates a gateway callback and verifies the referenced payment.
func (s *RegistrationService) HandleWebhook(ctx context.Context, provider string, header http.Header, body []byte) error {
	if provider == "" {
		provider = s.config.Provider
	}
	gw, err := s.gateway(provider)
	if err != nil {
		return err
	}
	parser, ok := gw.(payment.WebhookParser)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("gateway %s does not accept webhooks", gw.Name()))
	}
	evt, err := parser.ParseWebhook(header, body)
	if err != nil {
		if errors.Is(err, payment.ErrWebhookSignature) {
			s.logger.Warn("webhook rejected", zap.String("gateway", gw.Name()), zap.Error(err))
			return appErrors.Wrap(err, appErrors.ErrInvalidSignature.Code, appErrors.ErrInvalidSignature.Status, appErrors.ErrInvalidSignature.Message)
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed webhook payload")
	}
	if !evt.Relevant {
		s.logger.Debug("webhook ignored", zap.String("gateway", gw.Name()), zap.String("event", evt.Event))
		return nil
	}

	if reg, err := s.store.FindByReference(ctx, evt.Reference); err == nil && reg.PaymentStatus == models.PaymentFailed {
		// Failed is terminal; a settlement arriving afterwards needs staff to reconcile by hand.
		s.logger.Warn("webhook for failed registration",
			zap.String("reference", reg.PaymentReference),
			zap.String("gateway", gw.Name()),
			zap.String("event", evt.Event),
			zap.String("email", reg.Email),
		)
		return nil
	}

	_, err = s.Verify(ctx, evt.Reference)
	if err != nil && errors.Is(err, appErrors.ErrPaymentNotSuccessful) {
		// The gateway announced a charge it will not confirm; nothing to retry.
		return nil
	}
	return err
}

// List returns a page of registrations for staff.
func (s *RegistrationService) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, *models.Pagination, error) {
	filter.Email = normalizeEmail(filter.Email)
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize, 100)
	items, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}
	return items, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Export renders every registration matching filter as csv or pdf.
func (s *RegistrationService) Export(ctx context.Context, filter models.RegistrationFilter, format string) ([]byte, string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "pdf" {
		return nil, "", appErrors.Clone(appErrors.ErrUnsupportedFormat, "format must be csv or pdf")
	}
	filter.Email = normalizeEmail(filter.Email)
	items, err := s.store.ListAll(ctx, filter)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registrations")
	}

	data := export.Dataset{
		Title:   "Registrations",
		Headers: []string{"Reference", "Full name", "Email", "Phone", "Course", "Mode", "Payment option", "Status", "Amount due", "Amount paid", "Created at"},
	}
	for _, r := range items {
		paid := ""
		if r.AmountPaid.Valid {
			paid = r.AmountPaid.Decimal.StringFixed(2)
		}
		data.Append(
			r.PaymentReference,
			r.FullName,
			r.Email,
			r.Phone,
			r.CourseName,
			modeValue(r.ModeOfLearning),
			string(r.PaymentOption),
			string(r.PaymentStatus),
			r.AmountDue.StringFixed(2),
			paid,
			r.CreatedAt.UTC().Format(time.RFC3339),
		)
	}

	var buf bytes.Buffer
	contentType := "text/csv"
	if format == "pdf" {
		contentType = "application/pdf"
		err = export.WritePDF(&buf, data)
	} else {
		err = export.WriteCSV(&buf, data)
	}
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return buf.Bytes(), contentType, nil
}

func (s *RegistrationService) notifyCompletion(ctx context.Context, reg *models.RegistrationDetail) {
	if s.notifier == nil {
		return
	}
	// Only completions verified before this one count, so once two rows have settled they are
	// classified the same way whichever notification runs first.
	additional, err := s.store.HasEarlierCompleted(ctx, reg.Email, reg.ID, *reg.VerifiedAt)
	if err != nil {
		s.logger.Warn("could not classify enrollment, using first-time template", zap.String("reference", reg.PaymentReference), zap.Error(err))
		additional = false
	}
	notes := s.templates.Completion(RegistrationMail{Detail: *reg, ReceiptURL: s.receiptURL(reg.PaymentReference)}, additional)
	if err := s.notifier.Dispatch(ctx, notes...); err != nil {
		s.logger.Warn("registration notification failed", zap.String("reference", reg.PaymentReference), zap.Error(err))
	}
}

func (s *RegistrationService) completed(reference, message string) *VerifyPaymentResponse {
	return &VerifyPaymentResponse{
		Success:    true,
		Message:    message,
		Reference:  reference,
		ReceiptURL: s.receiptURL(reference),
	}
}

func (s *RegistrationService) receiptURL(reference string) string {
	if s.signer == nil || s.config.ReceiptBaseURL == "" {
		return ""
	}
	token, _, err := s.signer.Sign(reference)
	if err != nil {
		s.logger.Warn("receipt link not signed", zap.String("reference", reference), zap.Error(err))
		return ""
	}
	return fmt.Sprintf("%s/%s/receipt?token=%s", strings.TrimRight(s.config.ReceiptBaseURL, "/"), url.PathEscape(reference), url.QueryEscape(token))
}

func (s *RegistrationService) load(ctx context.Context, reference string) (*models.RegistrationDetail, error) {
	reg, err := s.store.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrRegistrationNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	return reg, nil
}

func (s *RegistrationService) gateway(name string) (payment.Gateway, error) {
	if name == "" {
		name = s.config.Provider
	}
	gw, err := s.gateways.Get(name)
	if err != nil {
		s.logger.Error("payment gateway not configured", zap.String("gateway", name), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrGatewayUnavailable.Code, appErrors.ErrGatewayUnavailable.Status, appErrors.ErrGatewayUnavailable.Message)
	}
	return gw, nil
}

func (s *RegistrationService) publish(ctx context.Context, eventType string, reg *models.Registration, course string) {
	evt := events.Event{
		Type:       eventType,
		Reference:  reg.PaymentReference,
		Email:      reg.Email,
		Course:     course,
		Status:     string(reg.PaymentStatus),
		Gateway:    reg.Gateway,
		OccurredAt: s.now().UTC(),
	}
	if evt.Status == "" {
		evt.Status = string(models.PaymentPending)
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", eventType), zap.String("reference", reg.PaymentReference), zap.Error(err))
	}
}

func (s *RegistrationService) logGatewayError(ctx context.Context, msg, provider string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("gateway", provider), zap.Error(err))
	var gwErr *payment.Error
	if errors.As(err, &gwErr) {
		fields = append(fields, zap.Int("gateway_status", gwErr.StatusCode), zap.String("gateway_payload", gwErr.Payload))
	}
	if ctx.Err() != nil {
		fields = append(fields, zap.NamedError("context", ctx.Err()))
	}
	s.logger.Error(msg, fields...)
}

func normalizeInitiate(req InitiateRegistrationRequest) InitiateRegistrationRequest {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = normalizeEmail(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Course = strings.TrimSpace(req.Course)
	req.Gender = strings.ToLower(strings.TrimSpace(req.Gender))
	req.Address = strings.TrimSpace(req.Address)
	req.Occupation = strings.TrimSpace(req.Occupation)
	req.ModeOfLearning = strings.ToLower(strings.TrimSpace(req.ModeOfLearning))
	req.PaymentOption = strings.ToLower(strings.TrimSpace(req.PaymentOption))
	req.Message = strings.TrimSpace(req.Message)
	req.Action = strings.TrimSpace(req.Action)
	return req
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func gender(value string) *models.Gender {
	if value == "" {
		return nil
	}
	g := models.Gender(value)
	return &g
}

func learningMode(value string) *models.LearningMode {
	if value == "" {
		return nil
	}
	m := models.LearningMode(value)
	return &m
}

func paymentOption(value string) models.PaymentOption {
	if value == "" {
		return models.PaymentFull
	}
	return models.PaymentOption(value)
}

func modeValue(mode *models.LearningMode) string {
	if mode == nil {
		return ""
	}
	return string(*mode)
}
