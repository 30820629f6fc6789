package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/dto"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/http/middleware"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/usecase"
	"github.com/Awantha2003/Nature-Pulse-sub001/pkg/response"
	"github.com/Awantha2003/Nature-Pulse-sub001/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	doctorProfileUsecase usecase.DoctorProfileUsecase
	validator            *validator.CustomValidator
}

func NewDoctorHandler(doctorProfileUsecase usecase.DoctorProfileUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorProfileUsecase: doctorProfileUsecase,
		validator:            validator,
	}
}

// Create handles admin doctor creation
// @Summary Create doctor
// @Description Create a doctor account with profile (admin only)
// @Tags Doctors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateDoctorRequest true "Create Doctor Request"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /doctors [post]
func (h *DoctorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorProfileUsecase.CreateDoctor(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorEmailExists:
			response.Conflict(w, "Email already exists")
		case usecase.ErrDoctorLicenseExists:
			response.Conflict(w, "License number already exists")
		case usecase.ErrDoctorRoleNotFound:
			response.Error(w, http.StatusBadRequest, "Role not found", nil)
		default:
			response.InternalServerError(w, "Failed to create doctor")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

// GetAll handles listing all doctors
// @Summary List doctors
// @Description List all doctors with their profiles and schedules
// @Tags Doctors
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /doctors [get]
func (h *DoctorHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorProfileUsecase.GetAllDoctors(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

// GetByID handles fetching one doctor
// @Summary Get doctor
// @Description Get a doctor profile by ID
// @Tags Doctors
// @Security BearerAuth
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /doctors/{id} [get]
func (h *DoctorHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	doctor, err := h.doctorProfileUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to get doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

// Update handles admin doctor updates
// @Summary Update doctor
// @Description Update a doctor account and profile (admin only)
// @Tags Doctors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Doctor ID"
// @Param request body dto.UpdateDoctorRequest true "Update Doctor Request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /doctors/{id} [put]
func (h *DoctorHandler) Update(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	var req dto.UpdateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorProfileUsecase.UpdateDoctor(r.Context(), doctorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrDoctorEmailExists:
			response.Conflict(w, "Email already exists")
		case usecase.ErrDoctorLicenseExists:
			response.Conflict(w, "License number already exists")
		default:
			response.InternalServerError(w, "Failed to update doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", doctor)
}

// UpdateSelf handles doctor self-profile updates
// @Summary Update own doctor profile
// @Description Update the authenticated doctor's own profile
// @Tags Doctors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.DoctorUpdateSelfRequest true "Update Self Request"
// @Success 200 {object} response.Response
// @Router /doctors/me [put]
func (h *DoctorHandler) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.DoctorUpdateSelfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorProfileUsecase.UpdateSelfProfile(r.Context(), userID, &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrInvalidOldPassword:
			response.Error(w, http.StatusBadRequest, "Invalid old password", nil)
		default:
			response.InternalServerError(w, "Failed to update profile")
		}
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", doctor)
}

// UpdateSchedule handles doctor weekly schedule updates
// @Summary Update weekly schedule
// @Description Replace the authenticated doctor's weekly working-hours template
// @Tags Doctors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateWeeklyScheduleRequest true "Update Schedule Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /doctors/me/schedule [put]
func (h *DoctorHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.UpdateWeeklyScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorProfileUsecase.UpdateWeeklySchedule(r.Context(), userID, &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		}
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", doctor)
}

// Delete handles admin doctor deletion
// @Summary Delete doctor
// @Description Delete a doctor account and profile (admin only)
// @Tags Doctors
// @Security BearerAuth
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /doctors/{id} [delete]
func (h *DoctorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	if err := h.doctorProfileUsecase.DeleteDoctor(r.Context(), doctorID); err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to delete doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor deleted successfully", nil)
}
