package usecase

import (
	"context"
	"errors"

	"github.com/Awantha2003/Nature-Pulse-sub001/internal/converter"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/dto"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/http/middleware"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/repository"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDoctorEmailExists   = errors.New("email already exists")
	ErrDoctorLicenseExists = errors.New("license number already exists")
	ErrDoctorRoleNotFound  = errors.New("role not found")
	ErrInvalidOldPassword  = errors.New("invalid old password")
)

type DoctorProfileUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateSelfProfile(ctx context.Context, doctorID uuid.UUID, req *dto.DoctorUpdateSelfRequest) (*dto.DoctorResponse, error)
	UpdateWeeklySchedule(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateWeeklyScheduleRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error
}

type doctorProfileUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
	}
}

func (u *doctorProfileUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Create user with doctor profile in single insert using GORM association
	doctorProfile := &entity.DoctorProfile{
		LicenseNumber:       req.LicenseNumber,
		Specialization:      req.Specialization,
		Biography:           req.Biography,
		IsAcceptingPatients: true,
		User: entity.User{
			Email:    req.Email,
			Password: string(hashedPassword),
			FullName: req.FullName,
			RoleID:   entity.RoleIDDoctor,
			IsActive: entity.BoolPtr(true),
		},
	}
	if req.ConsultationFee != nil {
		doctorProfile.ConsultationFee = *req.ConsultationFee
	}

	if err := u.doctorProfileRepo.Create(tx, doctorProfile); err != nil {
		u.log.Warnf("Failed to create doctor: %+v", err)
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDoctorEmailExists
		}
		if isDuplicateKeyError(err, "license_number") {
			return nil, ErrDoctorLicenseExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrDoctorRoleNotFound
		}
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionDoctorCreate, "doctor_profile", doctorProfile.UserID.String(), converter.DoctorProfileToResponse(doctorProfile)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
		// Don't fail the transaction for audit log errors
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorProfileToResponse(doctorProfile), nil
}

func (u *doctorProfileUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorProfileUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	profiles, err := u.doctorProfileRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all doctor profiles: %+v", err)
		return nil, err
	}

	doctors := converter.DoctorProfilesToResponses(profiles)

	return &dto.DoctorListResponse{
		Doctors: doctors,
		Total:   len(doctors),
	}, nil
}

func (u *doctorProfileUsecase) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.DoctorProfileToResponse(profile)

	if req.Email != "" {
		profile.User.Email = req.Email
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		profile.User.Password = string(hashedPassword)
	}
	if req.FullName != "" {
		profile.User.FullName = req.FullName
	}
	if req.IsActive != nil {
		profile.User.IsActive = req.IsActive
	}
	if req.LicenseNumber != "" {
		profile.LicenseNumber = req.LicenseNumber
	}
	if req.Specialization != "" {
		profile.Specialization = req.Specialization
	}
	if req.Biography != "" {
		profile.Biography = req.Biography
	}
	if req.ConsultationFee != nil {
		profile.ConsultationFee = *req.ConsultationFee
	}
	if req.IsAcceptingPatients != nil {
		profile.IsAcceptingPatients = *req.IsAcceptingPatients
	}

	if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
		if isDuplicateKeyError(err, "license_number") {
			return nil, ErrDoctorLicenseExists
		}
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDoctorEmailExists
		}
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	newValue := converter.DoctorProfileToResponse(profile)
	ctxUserID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &ctxUserID, entity.AuditActionDoctorUpdate, "doctor_profile", doctorID.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorProfileUsecase) UpdateSelfProfile(ctx context.Context, doctorID uuid.UUID, req *dto.DoctorUpdateSelfRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.DoctorProfileToResponse(profile)

	updated := false
	if req.Password != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(profile.User.Password), []byte(req.OldPassword)); err != nil {
			return nil, ErrInvalidOldPassword
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		profile.User.Password = string(hashedPassword)
		updated = true
	}
	if req.Biography != "" {
		profile.Biography = req.Biography
		updated = true
	}
	if req.ConsultationFee != nil {
		profile.ConsultationFee = *req.ConsultationFee
		updated = true
	}
	if req.IsAcceptingPatients != nil {
		profile.IsAcceptingPatients = *req.IsAcceptingPatients
		updated = true
	}

	if !updated {
		return converter.DoctorProfileToResponse(profile), nil
	}

	if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	newValue := converter.DoctorProfileToResponse(profile)
	if err := u.auditService.LogUpdate(ctx, tx, &doctorID, entity.AuditActionDoctorUpdate, "doctor_profile", doctorID.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorProfileToResponse(profile), nil
}

// UpdateWeeklySchedule replaces the doctor's working-hours template. Future
// appointments already booked outside the new windows stay valid; the new
// template only shapes availability going forward.
func (u *doctorProfileUsecase) UpdateWeeklySchedule(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateWeeklyScheduleRequest) (*dto.DoctorResponse, error) {
	schedule := converter.WeeklyScheduleFromRequest(req.WeeklySchedule)
	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.WeeklyScheduleToResponse(profile.WeeklySchedule)
	profile.WeeklySchedule = schedule

	if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update weekly schedule: %+v", err)
		return nil, err
	}

	newValue := converter.WeeklyScheduleToResponse(profile.WeeklySchedule)
	if err := u.auditService.LogUpdate(ctx, tx, &doctorID, entity.AuditActionScheduleUpdate, "doctor_profile", doctorID.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorProfileUsecase) DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.doctorProfileRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return err
	}
	if profile == nil {
		return ErrDoctorNotFound
	}
	oldValue := converter.DoctorProfileToResponse(profile)

	affectedRows, err := u.userRepo.Delete(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed delete doctor: %+v", err)
		return err
	}
	if affectedRows == 0 {
		return ErrDoctorNotFound
	}

	ctxUserID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, &ctxUserID, entity.AuditActionDoctorDelete, "doctor_profile", doctorID.String(), oldValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
