package converter

import (
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/dto"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"
)

// DoctorProfileToResponse converts a DoctorProfile entity to DoctorResponse DTO
func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:                  profile.UserID,
		Email:               profile.User.Email,
		FullName:            profile.User.FullName,
		LicenseNumber:       profile.LicenseNumber,
		Specialization:      profile.Specialization,
		Biography:           profile.Biography,
		ConsultationFee:     profile.ConsultationFee,
		IsAcceptingPatients: profile.IsAcceptingPatients,
		WeeklySchedule:      WeeklyScheduleToResponse(profile.WeeklySchedule),
		IsActive:            profile.User.IsActive,
	}
}

// DoctorProfilesToResponses converts a slice of DoctorProfile entities to slice of DoctorResponse DTOs
func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i, profile := range profiles {
		resp := DoctorProfileToResponse(&profile)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// WeeklyScheduleToResponse converts the JSONB weekly schedule into its DTO map
func WeeklyScheduleToResponse(schedule entity.WeeklySchedule) map[string]dto.DayScheduleRequest {
	if len(schedule) == 0 {
		return nil
	}
	result := make(map[string]dto.DayScheduleRequest, len(schedule))
	for day, window := range schedule {
		result[day] = dto.DayScheduleRequest{
			IsAvailable: window.IsAvailable,
			StartTime:   window.StartTime,
			EndTime:     window.EndTime,
		}
	}
	return result
}

// WeeklyScheduleFromRequest converts the DTO map into the JSONB entity type
func WeeklyScheduleFromRequest(schedule map[string]dto.DayScheduleRequest) entity.WeeklySchedule {
	if len(schedule) == 0 {
		return nil
	}
	result := make(entity.WeeklySchedule, len(schedule))
	for day, window := range schedule {
		result[day] = entity.DaySchedule{
			IsAvailable: window.IsAvailable,
			StartTime:   window.StartTime,
			EndTime:     window.EndTime,
		}
	}
	return result
}
