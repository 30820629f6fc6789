package converter

import (
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/dto"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"
)

// PatientProfileToResponse converts a PatientProfile entity to PatientResponse DTO
func PatientProfileToResponse(profile *entity.PatientProfile, user *entity.User) *dto.PatientResponse {
	if profile == nil {
		return nil
	}

	response := &dto.PatientResponse{
		ID:          profile.UserID,
		NationalID:  profile.NationalID,
		PhoneNumber: profile.PhoneNumber,
		DateOfBirth: profile.DateOfBirth.Format("2006-01-02"),
		Gender:      profile.Gender,
		Address:     profile.Address,
	}

	if user != nil {
		response.Email = user.Email
		response.FullName = user.FullName
	}

	return response
}
