package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	UserID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	LicenseNumber       string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	Specialization      string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Biography           string          `gorm:"type:text" json:"biography,omitempty"`
	ConsultationFee     decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"consultation_fee"`
	IsAcceptingPatients bool            `gorm:"not null;default:true" json:"is_accepting_patients"`
	WeeklySchedule      WeeklySchedule  `gorm:"type:jsonb" json:"weekly_schedule,omitempty"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
