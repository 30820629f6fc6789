package repository

import (
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientProfileRepository interface {
	Create(db *gorm.DB, profile *entity.PatientProfile) error
	FindByUserID(db *gorm.DB, patientID uuid.UUID) (*entity.PatientProfile, error)
	Update(db *gorm.DB, profile *entity.PatientProfile) error
}
