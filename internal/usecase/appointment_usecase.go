package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Awantha2003/Nature-Pulse-sub001/config"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/converter"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/dto"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/repository"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrAppointmentNotOwned  = errors.New("appointment does not belong to this user")
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrDoctorNotAccepting   = errors.New("doctor is not accepting new patients")
	ErrDoctorUnavailable    = errors.New("doctor is not available at the requested time")
	ErrPatientNotFound      = errors.New("patient profile not found")
	ErrSlotUnavailable      = errors.New("the requested slot is already booked")
	ErrInvalidTimeFormat    = errors.New("invalid time format, use HH:MM")
	ErrInvalidType          = errors.New("invalid appointment type")
	ErrInvalidStatus        = errors.New("invalid appointment status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrVirtualNeedsLink     = errors.New("virtual appointments require a meeting link and no location")
	ErrInPersonNeedsPlace   = errors.New("in-person appointments require a location and no meeting link")
	ErrPaymentPending       = errors.New("appointment cannot be confirmed before payment completes")
	ErrAppointmentNotPast   = errors.New("appointment cannot be marked no-show before its start time")
)

type AppointmentUsecase interface {
	Create(ctx context.Context, patientID uuid.UUID, request *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) (*dto.AppointmentResponse, error)
	List(ctx context.Context, actorID uuid.UUID, actorRole string, query *dto.ListAppointmentsQuery) (*dto.AppointmentListResponse, error)
	UpdateStatus(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, request *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, request *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error)
	Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error
}

type appointmentUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	cfg                config.BookingConfig
	appointmentRepo    repository.AppointmentRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	slotHoldService    *service.SlotHoldService
	auditService       service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.BookingConfig,
	appointmentRepo repository.AppointmentRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	slotHoldService *service.SlotHoldService,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:                 db,
		log:                log,
		cfg:                cfg,
		appointmentRepo:    appointmentRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		slotHoldService:    slotHoldService,
		auditService:       auditService,
	}
}

// Create books an appointment for a patient.
//
// Double-booking protection is layered: a Redis SET NX hold rejects concurrent
// requests up front, the occupancy count is re-checked inside the transaction,
// and the partial unique index on active appointments is the final authority.
// If any database step fails after the hold was acquired, the hold is released
// as compensation.
func (u *appointmentUsecase) Create(ctx context.Context, patientID uuid.UUID, request *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointmentDate, err := time.Parse("2006-01-02", request.AppointmentDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if _, err := entity.ParseClock(request.AppointmentTime); err != nil {
		return nil, ErrInvalidTimeFormat
	}
	if !entity.ValidAppointmentType(entity.AppointmentType(request.Type)) {
		return nil, ErrInvalidType
	}
	if !entity.ValidPaymentMethod(entity.PaymentMethod(request.PaymentMethod)) {
		return nil, ErrInvalidPaymentMethod
	}
	if err := validateVisitDetails(request.IsVirtual, request.Location, request.MeetingLink); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := validateBookingDate(appointmentDate, now, u.cfg.HorizonDays); err != nil {
		return nil, err
	}

	patient, err := u.patientProfileRepo.FindByUserID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), request.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", request.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.IsAcceptingPatients {
		return nil, ErrDoctorNotAccepting
	}

	day, ok := doctor.WeeklySchedule.ForDate(appointmentDate)
	if !ok || !slotWithinWindow(day, request.AppointmentTime, u.cfg.SlotDurationMinutes) {
		return nil, ErrDoctorUnavailable
	}
	if sameDay(appointmentDate, now) {
		minute, _ := entity.ParseClock(request.AppointmentTime)
		if minute <= now.Hour()*60+now.Minute() {
			return nil, ErrDoctorUnavailable
		}
	}

	// Fast path: first booking for this slot wins the Redis hold.
	if err := u.slotHoldService.Acquire(ctx, request.DoctorID, appointmentDate, request.AppointmentTime); err != nil {
		if errors.Is(err, service.ErrSlotHeld) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID:       patientID,
		DoctorID:        request.DoctorID,
		AppointmentDate: appointmentDate,
		AppointmentTime: request.AppointmentTime,
		Duration:        u.cfg.SlotDurationMinutes,
		Type:            entity.AppointmentType(request.Type),
		IsVirtual:       request.IsVirtual,
		Location:        request.Location,
		MeetingLink:     request.MeetingLink,
		Reason:          request.Reason,
		Symptoms:        entity.StringList(request.Symptoms),
		Notes:           request.Notes,
		Status:          entity.AppointmentStatusScheduled,
		Payment: entity.Payment{
			Amount: doctor.ConsultationFee,
			Status: entity.PaymentStatusPending,
			Method: entity.PaymentMethod(request.PaymentMethod),
		},
	}

	if err := u.createInTx(ctx, patientID, appointment); err != nil {
		// Compensation: the row never landed, free the hold for the next caller.
		if releaseErr := u.slotHoldService.Release(ctx, request.DoctorID, appointmentDate, request.AppointmentTime); releaseErr != nil {
			u.log.Errorf("Failed to release slot hold after booking failure: %+v", releaseErr)
		}
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) createInTx(ctx context.Context, patientID uuid.UUID, appointment *entity.Appointment) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Re-check inside the transaction: Redis may have been flushed between
	// startup sync runs, so the hold alone is not trusted.
	count, err := u.appointmentRepo.CountActiveAtSlot(tx, appointment.DoctorID, appointment.AppointmentDate, appointment.AppointmentTime)
	if err != nil {
		u.log.Warnf("Failed to count active appointments at slot: %+v", err)
		return err
	}
	if count > 0 {
		return ErrSlotUnavailable
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "active_slot") {
			// Partial unique index fired: a concurrent insert won.
			return ErrSlotUnavailable
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return err
	}

	if err := u.auditService.LogCreate(ctx, tx, &patientID, entity.AuditActionAppointmentCreate,
		"appointment", appointment.ID.String(), appointment); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit booking transaction: %+v", err)
		return err
	}
	return nil
}

// GetByID fetches one appointment. Patients and doctors may only read their
// own; admins may read any.
func (u *appointmentUsecase) GetByID(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findOwned(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

// List returns appointments visible to the actor, newest first, paginated.
// Patients see their own bookings, doctors their own calendar, admins
// everything.
func (u *appointmentUsecase) List(ctx context.Context, actorID uuid.UUID, actorRole string, query *dto.ListAppointmentsQuery) (*dto.AppointmentListResponse, error) {
	filter := &entity.AppointmentFilter{
		Page:  query.Page,
		Limit: query.Limit,
	}

	switch actorRole {
	case entity.RolePatient:
		filter.PatientID = actorID
	case entity.RoleDoctor:
		filter.DoctorID = actorID
	}

	if query.Status != "" {
		status := entity.AppointmentStatus(query.Status)
		if !entity.ValidAppointmentStatus(status) {
			return nil, ErrInvalidStatus
		}
		filter.Status = status
	}
	if query.StartAt != "" {
		if _, err := time.Parse("2006-01-02", query.StartAt); err != nil {
			return nil, ErrInvalidDateFormat
		}
		filter.StartAt = query.StartAt
	}
	if query.EndAt != "" {
		if _, err := time.Parse("2006-01-02", query.EndAt); err != nil {
			return nil, ErrInvalidDateFormat
		}
		filter.EndAt = query.EndAt
	}

	appointments, total, err := u.appointmentRepo.FindWithFilter(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        total,
	}, nil
}

// UpdateStatus moves an appointment through the lifecycle state machine.
//
// Extra gates on top of the transition table:
//   - scheduled -> confirmed requires a completed payment
//   - no_show may only be set by the doctor or an admin, after the start time
//
// Cancellation goes through Cancel, not here, so the cutoff and refund rules
// cannot be bypassed.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, request *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	target := entity.AppointmentStatus(request.Status)
	if !entity.ValidAppointmentStatus(target) {
		return nil, ErrInvalidStatus
	}
	if target == entity.AppointmentStatusCancelled {
		return nil, &entity.InvalidTransitionError{From: target, To: target}
	}

	appointment, err := u.findOwned(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}

	if err := appointment.ValidateTransition(target); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	switch target {
	case entity.AppointmentStatusConfirmed:
		if !appointment.Payment.IsPaid() {
			return nil, ErrPaymentPending
		}
	case entity.AppointmentStatusNoShow:
		if actorRole == entity.RolePatient {
			return nil, ErrAppointmentNotOwned
		}
		if now.Before(appointment.StartsAt()) {
			return nil, ErrAppointmentNotPast
		}
	}

	oldStatus := appointment.Status
	appointment.Status = target

	if err := u.updateInTx(ctx, actorID, appointment, entity.AuditActionAppointmentStatus, oldStatus, target); err != nil {
		return nil, err
	}

	// A no-show frees the slot for rebooking.
	if target == entity.AppointmentStatusNoShow {
		if err := u.slotHoldService.Release(ctx, appointment.DoctorID, appointment.AppointmentDate, appointment.AppointmentTime); err != nil {
			u.log.Warnf("Failed to release slot hold after no-show: %+v", err)
		}
	}

	return converter.AppointmentToResponse(appointment), nil
}

// Cancel cancels an appointment and, if already paid, refunds the payment.
// Patients may cancel only their own bookings and only outside the cutoff
// window; doctors and admins may cancel up to the start of the visit.
func (u *appointmentUsecase) Cancel(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, request *dto.CancelAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.findOwned(ctx, actorID, actorRole, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := appointment.ValidateCancellation(actorRole, request.Reason, now, u.cfg.CancelCutoff); err != nil {
		return nil, err
	}

	oldStatus := appointment.Status
	appointment.MarkCancelled(actorID, request.Reason, now)

	if err := u.updateInTx(ctx, actorID, appointment, entity.AuditActionAppointmentCancel, oldStatus, appointment.Status); err != nil {
		return nil, err
	}

	if err := u.slotHoldService.Release(ctx, appointment.DoctorID, appointment.AppointmentDate, appointment.AppointmentTime); err != nil {
		u.log.Warnf("Failed to release slot hold after cancellation: %+v", err)
	}

	return converter.AppointmentToResponse(appointment), nil
}

// Delete hard-deletes an appointment row. Admin only; normal workflows cancel
// instead.
func (u *appointmentUsecase) Delete(ctx context.Context, actorID uuid.UUID, id uuid.UUID) error {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.appointmentRepo.Delete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrAppointmentNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, &actorID, entity.AuditActionAppointmentDelete,
		"appointment", id.String(), appointment); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit delete transaction: %+v", err)
		return err
	}

	if appointment.OccupiesSlot() {
		if err := u.slotHoldService.Release(ctx, appointment.DoctorID, appointment.AppointmentDate, appointment.AppointmentTime); err != nil {
			u.log.Warnf("Failed to release slot hold after delete: %+v", err)
		}
	}
	return nil
}

// findOwned loads an appointment and enforces ownership for non-admin actors.
func (u *appointmentUsecase) findOwned(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	switch actorRole {
	case entity.RolePatient:
		if appointment.PatientID != actorID {
			return nil, ErrAppointmentNotOwned
		}
	case entity.RoleDoctor:
		if appointment.DoctorID != actorID {
			return nil, ErrAppointmentNotOwned
		}
	}
	return appointment, nil
}

func (u *appointmentUsecase) updateInTx(ctx context.Context, actorID uuid.UUID, appointment *entity.Appointment, action string, oldStatus, newStatus entity.AppointmentStatus) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", appointment.ID, err)
		return err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &actorID, action,
		"appointment", appointment.ID.String(), oldStatus, newStatus); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit update transaction: %+v", err)
		return err
	}
	return nil
}

func sameDay(date time.Time, now time.Time) bool {
	return date.Year() == now.Year() && date.YearDay() == now.YearDay()
}

// validateVisitDetails enforces that location and meeting link are mutually
// exclusive: virtual visits carry a meeting link, in-person visits a location.
func validateVisitDetails(isVirtual bool, location, meetingLink string) error {
	location = strings.TrimSpace(location)
	meetingLink = strings.TrimSpace(meetingLink)
	if isVirtual {
		if meetingLink == "" || location != "" {
			return ErrVirtualNeedsLink
		}
		return nil
	}
	if location == "" || meetingLink != "" {
		return ErrInPersonNeedsPlace
	}
	return nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint
// violation containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
