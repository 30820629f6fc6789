package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Awantha2003/Nature-Pulse-sub001/config"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/dto"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidDate       = errors.New("date must be today or within the booking horizon")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
)

type AvailabilityUsecase interface {
	GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error)
}

type availabilityUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	cfg               config.BookingConfig
	doctorProfileRepo repository.DoctorProfileRepository
	appointmentRepo   repository.AppointmentRepository
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.BookingConfig,
	doctorProfileRepo repository.DoctorProfileRepository,
	appointmentRepo repository.AppointmentRepository,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:                db,
		log:               log,
		cfg:               cfg,
		doctorProfileRepo: doctorProfileRepo,
		appointmentRepo:   appointmentRepo,
	}
}

// GetAvailableSlots resolves the bookable HH:MM slots for a doctor on a date.
//
// The doctor's weekly schedule yields candidate slots stepped by the
// configured granularity; slots already taken by an active appointment are
// excluded, as are slots whose start time has passed when the date is today.
func (u *availabilityUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	targetDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	now := time.Now().UTC()
	if err := validateBookingDate(targetDate, now, u.cfg.HorizonDays); err != nil {
		return nil, err
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	response := &dto.AvailabilityResponse{
		DoctorID:       doctorID,
		Date:           date,
		AvailableSlots: []string{},
	}

	day, ok := doctor.WeeklySchedule.ForDate(targetDate)
	if !ok || !day.IsAvailable {
		// No schedule for this day of week: nothing bookable, not an error
		return response, nil
	}

	booked, err := u.appointmentRepo.FindBookedTimes(u.db.WithContext(ctx), doctorID, targetDate)
	if err != nil {
		u.log.Warnf("Failed to find booked times for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}

	response.AvailableSlots = buildAvailableSlots(day, u.cfg.SlotDurationMinutes, booked, targetDate, now)
	return response, nil
}

// validateBookingDate rejects dates in the past or beyond the booking horizon.
func validateBookingDate(date time.Time, now time.Time, horizonDays int) error {
	today := now.Truncate(24 * time.Hour)
	if date.Before(today) {
		return ErrInvalidDate
	}
	if date.After(today.AddDate(0, 0, horizonDays)) {
		return ErrInvalidDate
	}
	return nil
}

// buildAvailableSlots generates the open slots within a day's working window.
//
// Candidates step from the window start in slotMinutes increments; a slot is
// kept only if the whole slot fits before the window end, no active
// appointment occupies it, and (for today) its start time has not passed.
// The result is ascending and duplicate-free by construction.
func buildAvailableSlots(day entity.DaySchedule, slotMinutes int, booked []string, date time.Time, now time.Time) []string {
	start, err := entity.ParseClock(day.StartTime)
	if err != nil {
		return []string{}
	}
	end, err := entity.ParseClock(day.EndTime)
	if err != nil {
		return []string{}
	}

	occupied := make(map[string]bool, len(booked))
	for _, t := range booked {
		occupied[t] = true
	}

	sameDay := date.Year() == now.Year() && date.YearDay() == now.YearDay()
	nowMinutes := now.Hour()*60 + now.Minute()

	slots := []string{}
	for minute := start; minute+slotMinutes <= end; minute += slotMinutes {
		if sameDay && minute <= nowMinutes {
			continue
		}
		slot := entity.FormatClock(minute)
		if occupied[slot] {
			continue
		}
		slots = append(slots, slot)
	}
	return slots
}

// slotWithinWindow reports whether an HH:MM slot is a valid slot boundary
// inside the day's working window: aligned to the granularity and fully
// contained in the window.
func slotWithinWindow(day entity.DaySchedule, slot string, slotMinutes int) bool {
	if !day.IsAvailable {
		return false
	}
	start, err := entity.ParseClock(day.StartTime)
	if err != nil {
		return false
	}
	end, err := entity.ParseClock(day.EndTime)
	if err != nil {
		return false
	}
	minute, err := entity.ParseClock(slot)
	if err != nil {
		return false
	}
	if minute < start || minute+slotMinutes > end {
		return false
	}
	return (minute-start)%slotMinutes == 0
}
