package repository

import (
	"errors"
	"time"

	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"
	domainRepo "github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor.User").Preload("Patient.User").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindWithFilter(db *gorm.DB, filter *entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	query := db.Model(&entity.Appointment{})

	if filter != nil {
		if filter.PatientID != uuid.Nil {
			query = query.Where("patient_id = ?", filter.PatientID)
		}
		if filter.DoctorID != uuid.Nil {
			query = query.Where("doctor_id = ?", filter.DoctorID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.StartAt != "" {
			query = query.Where("appointment_date >= ?", filter.StartAt)
		}
		if filter.EndAt != "" {
			query = query.Where("appointment_date <= ?", filter.EndAt)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter != nil && filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		if offset < 0 {
			offset = 0
		}
		query = query.Limit(filter.Limit).Offset(offset)
	}

	var appointments []entity.Appointment
	err := query.
		Preload("Doctor.User").Preload("Patient.User").
		Order("appointment_date ASC, appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

func (r *appointmentRepository) FindBookedTimes(db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]string, error) {
	var times []string
	err := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND status NOT IN ?",
			doctorID, date.Format("2006-01-02"),
			[]entity.AppointmentStatus{entity.AppointmentStatusCancelled, entity.AppointmentStatusNoShow}).
		Order("appointment_time ASC").
		Pluck("appointment_time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

func (r *appointmentRepository) CountActiveAtSlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, timeOfDay string) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND appointment_time = ? AND status NOT IN ?",
			doctorID, date.Format("2006-01-02"), timeOfDay,
			[]entity.AppointmentStatus{entity.AppointmentStatusCancelled, entity.AppointmentStatusNoShow}).
		Count(&count).Error
	return count, err
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Doctor", "Patient").Save(appointment).Error
}

func (r *appointmentRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}
