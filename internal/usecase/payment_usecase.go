package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Awantha2003/Nature-Pulse-sub001/internal/converter"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/dto"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/entity"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/domain/repository"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrPaymentAmountMismatch = errors.New("payment amount does not match the appointment fee")

type PaymentUsecase interface {
	CreatePaymentIntent(ctx context.Context, actorID uuid.UUID, request *dto.CreatePaymentIntentRequest) (*dto.PaymentIntentResponse, error)
	CompleteDemoPayment(ctx context.Context, actorID uuid.UUID, actorRole string, request *dto.DemoPaymentRequest) (*dto.AppointmentResponse, error)
}

type paymentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewPaymentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) PaymentUsecase {
	return &paymentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

// CreatePaymentIntent returns a demo intent. There is no gateway behind it;
// the client is expected to follow up with CompleteDemoPayment.
func (u *paymentUsecase) CreatePaymentIntent(ctx context.Context, actorID uuid.UUID, request *dto.CreatePaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	intentID := fmt.Sprintf("demo_pi_%s", uuid.New().String())
	u.log.Infof("Created demo payment intent %s for user %s (amount=%s)", intentID, actorID, request.Amount)

	return &dto.PaymentIntentResponse{
		IntentID: intentID,
		Demo:     true,
	}, nil
}

// CompleteDemoPayment records a successful payment against an appointment.
//
// Idempotent by transaction ID: replaying a completion with the same
// transaction ID returns the current appointment state without another write,
// so client retries cannot double-complete. Completing an already-failed or
// refunded payment is rejected as an invalid payment transition.
func (u *paymentUsecase) CompleteDemoPayment(ctx context.Context, actorID uuid.UUID, actorRole string, request *dto.DemoPaymentRequest) (*dto.AppointmentResponse, error) {
	if !entity.ValidPaymentMethod(entity.PaymentMethod(request.PaymentMethod)) {
		return nil, ErrInvalidPaymentMethod
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), request.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", request.AppointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if actorRole == entity.RolePatient && appointment.PatientID != actorID {
		return nil, ErrAppointmentNotOwned
	}

	if !request.Amount.Equal(appointment.Payment.Amount) {
		return nil, ErrPaymentAmountMismatch
	}

	transactionID := request.TransactionID
	if transactionID == "" {
		transactionID = generateTransactionID()
	}

	changed, err := appointment.Payment.ApplyCompletion(transactionID, entity.PaymentMethod(request.PaymentMethod), time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !changed {
		// Duplicate notification for the same transaction: nothing to persist.
		return converter.AppointmentToResponse(appointment), nil
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to persist payment on appointment %s: %+v", appointment.ID, err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionPaymentComplete,
		"appointment", appointment.ID.String(), entity.PaymentStatusPending, entity.PaymentStatusPaid); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed to commit payment transaction: %+v", err)
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

// generateTransactionID builds a TXN-YYYYMMDD-XXXXXX identifier with a random
// 6-digit suffix.
func generateTransactionID() string {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % 1000000)
	}
	return fmt.Sprintf("TXN-%s-%06d", time.Now().UTC().Format("20060102"), n.Int64())
}
