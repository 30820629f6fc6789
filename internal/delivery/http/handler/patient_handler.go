package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/dto"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/usecase"
	"github.com/Awantha2003/Nature-Pulse-sub001/pkg/response"
	"github.com/Awantha2003/Nature-Pulse-sub001/pkg/validator"
)

type PatientHandler struct {
	patientProfileUsecase usecase.PatientProfileUsecase
	validator             *validator.CustomValidator
}

func NewPatientHandler(patientProfileUsecase usecase.PatientProfileUsecase, validator *validator.CustomValidator) *PatientHandler {
	return &PatientHandler{
		patientProfileUsecase: patientProfileUsecase,
		validator:             validator,
	}
}

// UpdateSelf handles patient self-profile updates
// @Summary Update own patient profile
// @Description Update the authenticated patient's own profile
// @Tags Patients
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PatientUpdateSelfRequest true "Update Self Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /patients/me [put]
func (h *PatientHandler) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	var req dto.PatientUpdateSelfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	patient, err := h.patientProfileUsecase.UpdateSelfProfile(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient profile not found")
		case usecase.ErrInvalidOldPassword:
			response.Error(w, http.StatusBadRequest, "Invalid old password", nil)
		default:
			response.InternalServerError(w, "Failed to update profile")
		}
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", patient)
}
