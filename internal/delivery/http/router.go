package http

import (
	"net/http"

	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/http/handler"
	"github.com/Awantha2003/Nature-Pulse-sub001/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	appointmentHandler *handler.AppointmentHandler
	paymentHandler     *handler.PaymentHandler
	doctorHandler      *handler.DoctorHandler
	patientHandler     *handler.PatientHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	paymentHandler *handler.PaymentHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		appointmentHandler: appointmentHandler,
		paymentHandler:     paymentHandler,
		doctorHandler:      doctorHandler,
		patientHandler:     patientHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/patient", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/register/doctor", r.authHandler.RegisterDoctor).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Appointment routes (any authenticated role; usecases scope by role)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("/doctor/{doctorId}/availability", r.appointmentHandler.GetAvailability).Methods(http.MethodGet)
	appointments.HandleFunc("", r.appointmentHandler.List).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.GetByID).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}/cancel", r.appointmentHandler.Cancel).Methods(http.MethodPut)

	// Booking is patient-only
	booking := api.PathPrefix("/appointments").Subrouter()
	booking.Use(r.authMiddleware.Authenticate)
	booking.Use(middleware.RequirePatient)
	booking.HandleFunc("", r.appointmentHandler.Create).Methods(http.MethodPost)

	// Lifecycle transitions are doctor/admin
	lifecycle := api.PathPrefix("/appointments").Subrouter()
	lifecycle.Use(r.authMiddleware.Authenticate)
	lifecycle.Use(middleware.RequireAdminOrDoctor)
	lifecycle.HandleFunc("/{id}", r.appointmentHandler.UpdateStatus).Methods(http.MethodPut)

	// Hard delete is admin-only
	appointmentAdmin := api.PathPrefix("/appointments").Subrouter()
	appointmentAdmin.Use(r.authMiddleware.Authenticate)
	appointmentAdmin.Use(middleware.RequireAdmin)
	appointmentAdmin.HandleFunc("/{id}", r.appointmentHandler.Delete).Methods(http.MethodDelete)

	// Payment routes
	payments := api.PathPrefix("/payments").Subrouter()
	payments.Use(r.authMiddleware.Authenticate)
	payments.HandleFunc("/create-payment-intent", r.paymentHandler.CreatePaymentIntent).Methods(http.MethodPost)
	payments.HandleFunc("/demo-payment", r.paymentHandler.CompleteDemoPayment).Methods(http.MethodPost)

	// Doctor directory (any authenticated role)
	doctors := api.PathPrefix("/doctors").Subrouter()
	doctors.Use(r.authMiddleware.Authenticate)
	doctors.HandleFunc("", r.doctorHandler.GetAll).Methods(http.MethodGet)

	// Doctor self-service
	doctorSelf := api.PathPrefix("/doctors/me").Subrouter()
	doctorSelf.Use(r.authMiddleware.Authenticate)
	doctorSelf.Use(middleware.RequireDoctor)
	doctorSelf.HandleFunc("", r.doctorHandler.UpdateSelf).Methods(http.MethodPut)
	doctorSelf.HandleFunc("/schedule", r.doctorHandler.UpdateSchedule).Methods(http.MethodPut)

	// Doctor detail after /doctors/me so the literal segment wins
	doctors.HandleFunc("/{id}", r.doctorHandler.GetByID).Methods(http.MethodGet)

	// Patient self-service
	patientSelf := api.PathPrefix("/patients/me").Subrouter()
	patientSelf.Use(r.authMiddleware.Authenticate)
	patientSelf.Use(middleware.RequirePatient)
	patientSelf.HandleFunc("", r.patientHandler.UpdateSelf).Methods(http.MethodPut)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Doctor management (admin)
	admin.HandleFunc("/doctors", r.doctorHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/doctors", r.doctorHandler.GetAll).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.GetByID).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.Delete).Methods(http.MethodDelete)

	// Audit logs (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAll).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetByID).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
