package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/dto"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/http/middleware"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/usecase"
	"github.com/Awantha2003/Nature-Pulse-sub001/pkg/response"
	"github.com/Awantha2003/Nature-Pulse-sub001/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	appointmentUsecase  usecase.AppointmentUsecase
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAppointmentHandler(
	appointmentUsecase usecase.AppointmentUsecase,
	availabilityUsecase usecase.AvailabilityUsecase,
	validator *validator.CustomValidator,
) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase:  appointmentUsecase,
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// Create handles booking a new appointment
// @Summary Book an appointment
// @Description Book an appointment with a doctor for a specific date and time slot
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Create Appointment Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), userID, &req)
	if err != nil {
		switch err {
		case usecase.ErrSlotUnavailable:
			response.Conflict(w, "The requested slot is already booked")
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient profile not found")
		case usecase.ErrDoctorNotAccepting, usecase.ErrDoctorUnavailable,
			usecase.ErrInvalidDate, usecase.ErrInvalidDateFormat,
			usecase.ErrInvalidTimeFormat, usecase.ErrInvalidType, usecase.ErrInvalidPaymentMethod,
			usecase.ErrVirtualNeedsLink, usecase.ErrInPersonNeedsPlace:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to book appointment")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

// GetAvailability handles resolving open slots for a doctor on a date
// @Summary Get doctor availability
// @Description List open HH:MM slots for a doctor on a date
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param doctorId path string true "Doctor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/doctor/{doctorId}/availability [get]
func (h *AppointmentHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "date query parameter is required", nil)
		return
	}

	availability, err := h.availabilityUsecase.GetAvailableSlots(r.Context(), doctorID, date)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrInvalidDate, usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to resolve availability")
		}
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

// List handles listing appointments visible to the caller
// @Summary List appointments
// @Description List appointments scoped to the caller's role, with filters and pagination
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status"
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	query := &dto.ListAppointmentsQuery{
		Status:  r.URL.Query().Get("status"),
		StartAt: r.URL.Query().Get("start"),
		EndAt:   r.URL.Query().Get("end"),
		Page:    parseIntQuery(r, "page", 1),
		Limit:   parseIntQuery(r, "limit", 10),
	}

	result, err := h.appointmentUsecase.List(r.Context(), userID, role, query)
	if err != nil {
		switch err {
		case usecase.ErrInvalidStatus, usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to list appointments")
		}
		return
	}

	totalPages := int(result.Total) / query.Limit
	if int(result.Total)%query.Limit > 0 {
		totalPages++
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully", result.Appointments, &response.Meta{
		Page:       query.Page,
		Limit:      query.Limit,
		Total:      result.Total,
		TotalPages: totalPages,
	})
}

// GetByID handles fetching one appointment
// @Summary Get appointment
// @Description Get a single appointment by ID
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.GetByID(r.Context(), userID, role, id)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrAppointmentNotOwned:
			response.Forbidden(w, "Appointment does not belong to this user")
		default:
			response.InternalServerError(w, "Failed to get appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// UpdateStatus handles lifecycle transitions
// @Summary Update appointment status
// @Description Move an appointment through its lifecycle (confirm, start, complete, no-show)
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentStatusRequest true "Update Status Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id} [put]
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateStatus(r.Context(), userID, role, id, &req)
	if err != nil {
		var transitionErr *entity.InvalidTransitionError
		switch {
		case errors.As(err, &transitionErr):
			response.Conflict(w, transitionErr.Error())
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrAppointmentNotOwned):
			response.Forbidden(w, "Appointment does not belong to this user")
		case errors.Is(err, usecase.ErrPaymentPending), errors.Is(err, usecase.ErrAppointmentNotPast):
			response.Conflict(w, err.Error())
		case errors.Is(err, usecase.ErrInvalidStatus):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			response.InternalServerError(w, "Failed to update appointment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

// Cancel handles appointment cancellation
// @Summary Cancel appointment
// @Description Cancel an appointment; paid appointments are refunded
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.CancelAppointmentRequest false "Cancel Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/cancel [put]
func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.CancelAppointmentRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
	}

	appointment, err := h.appointmentUsecase.Cancel(r.Context(), userID, role, id, &req)
	if err != nil {
		var transitionErr *entity.InvalidTransitionError
		var windowErr *entity.CancellationWindowError
		switch {
		case errors.Is(err, entity.ErrCancellationReasonRequired):
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case errors.As(err, &windowErr):
			response.Error(w, http.StatusBadRequest, windowErr.Error(), nil)
		case errors.As(err, &transitionErr):
			response.Conflict(w, transitionErr.Error())
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case errors.Is(err, usecase.ErrAppointmentNotOwned):
			response.Forbidden(w, "Appointment does not belong to this user")
		default:
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

// Delete handles admin hard deletion of an appointment
// @Summary Delete appointment
// @Description Hard delete an appointment row (admin only)
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/{id} [delete]
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	if err := h.appointmentUsecase.Delete(r.Context(), userID, id); err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		default:
			response.InternalServerError(w, "Failed to delete appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", nil)
}

// actorFromContext extracts the caller's user ID and role name.
func actorFromContext(r *http.Request) (uuid.UUID, string, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}
	roleID, ok := middleware.GetRoleIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}
	return userID, entity.RoleName(roleID), true
}

// parseIntQuery reads a positive integer query parameter with a fallback.
func parseIntQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
