package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/dto"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/http/middleware"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/usecase"
	"github.com/Awantha2003/Nature-Pulse-sub001/pkg/response"
	"github.com/Awantha2003/Nature-Pulse-sub001/pkg/validator"
)

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
	validator      *validator.CustomValidator
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase, validator *validator.CustomValidator) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		validator:      validator,
	}
}

// CreatePaymentIntent handles demo payment intent creation
// @Summary Create payment intent
// @Description Create a demo payment intent for an amount
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreatePaymentIntentRequest true "Create Payment Intent Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /payments/create-payment-intent [post]
func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreatePaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	intent, err := h.paymentUsecase.CreatePaymentIntent(r.Context(), userID, &req)
	if err != nil {
		response.InternalServerError(w, "Failed to create payment intent")
		return
	}

	response.Success(w, http.StatusCreated, "Payment intent created successfully", intent)
}

// CompleteDemoPayment handles recording a successful demo payment
// @Summary Complete demo payment
// @Description Record a completed demo payment against an appointment
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.DemoPaymentRequest true "Demo Payment Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/demo-payment [post]
func (h *PaymentHandler) CompleteDemoPayment(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.DemoPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.paymentUsecase.CompleteDemoPayment(r.Context(), userID, role, &req)
	if err != nil {
		var paymentErr *entity.InvalidPaymentTransitionError
		switch {
		case errors.As(err, &paymentErr):
			response.Conflict(w, paymentErr.Error())
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrAppointmentNotOwned):
			response.Forbidden(w, "Appointment does not belong to this user")
		case errors.Is(err, usecase.ErrPaymentAmountMismatch), errors.Is(err, usecase.ErrInvalidPaymentMethod):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to complete payment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment completed successfully", appointment)
}
