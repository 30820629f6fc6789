package repository

import (
	"time"

	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindWithFilter(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, int64, error)
	// FindBookedTimes returns the HH:MM start times of slot-occupying
	// appointments for a doctor on a calendar date.
	FindBookedTimes(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]string, error)
	// CountActiveAtSlot reports how many slot-occupying appointments exist for
	// the (doctor, date, time) tuple. Re-executed inside the booking
	// transaction to close the check-then-insert race.
	CountActiveAtSlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string) (int64, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}
