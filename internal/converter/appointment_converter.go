package converter

import (
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/dto"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:                 appointment.ID,
		PatientID:          appointment.PatientID,
		DoctorID:           appointment.DoctorID,
		AppointmentDate:    appointment.AppointmentDate.Format("2006-01-02"),
		AppointmentTime:    appointment.AppointmentTime,
		Duration:           appointment.Duration,
		Type:               string(appointment.Type),
		IsVirtual:          appointment.IsVirtual,
		Location:           appointment.Location,
		MeetingLink:        appointment.MeetingLink,
		Reason:             appointment.Reason,
		Symptoms:           appointment.Symptoms,
		Notes:              appointment.Notes,
		Status:             string(appointment.Status),
		CancellationReason: appointment.CancellationReason,
		CancelledBy:        appointment.CancelledBy,
		CancelledAt:        appointment.CancelledAt,
		CreatedAt:          appointment.CreatedAt,
		UpdatedAt:          appointment.UpdatedAt,
		Payment: &dto.PaymentResponse{
			Amount:        appointment.Payment.Amount,
			Status:        string(appointment.Payment.Status),
			TransactionID: appointment.Payment.TransactionID,
			Method:        string(appointment.Payment.Method),
			PaidAt:        appointment.Payment.PaidAt,
		},
	}

	// Include names when relationships were preloaded
	if appointment.Doctor.UserID != uuid.Nil {
		response.DoctorName = appointment.Doctor.User.FullName
	}
	if appointment.Patient.UserID != uuid.Nil {
		response.PatientName = appointment.Patient.User.FullName
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
