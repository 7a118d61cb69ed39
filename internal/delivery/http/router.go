package http

import (
	"net/http"

	"telehealth-backend/internal/delivery/http/handler"
	"telehealth-backend/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router          *mux.Router
	bookingHandler  *handler.BookingHandler
	doctorHandler   *handler.DoctorHandler
	auditLogHandler *handler.AuditLogHandler
	authMiddleware  *middleware.AuthMiddleware
	corsMiddleware  *middleware.CORSMiddleware
}

func NewRouter(
	bookingHandler *handler.BookingHandler,
	doctorHandler *handler.DoctorHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:          mux.NewRouter(),
		bookingHandler:  bookingHandler,
		doctorHandler:   doctorHandler,
		auditLogHandler: auditLogHandler,
		authMiddleware:  authMiddleware,
		corsMiddleware:  corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Prometheus scrape endpoint
	r.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Patient routes (protected - patient only)
	user := api.PathPrefix("").Subrouter()
	user.Use(r.authMiddleware.Authenticate)
	user.Use(middleware.RequireUser)
	user.HandleFunc("/bookings/prepare", r.bookingHandler.PreparePayment).Methods(http.MethodPost)
	user.HandleFunc("/bookings/confirm", r.bookingHandler.ConfirmBooking).Methods(http.MethodPost)
	user.HandleFunc("/bookings", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	user.HandleFunc("/bookings/mine", r.bookingHandler.GetMyBookings).Methods(http.MethodGet)

	// Doctor routes (protected - doctor only)
	doctor := api.PathPrefix("").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/bookings/assigned", r.bookingHandler.GetAssignedBookings).Methods(http.MethodGet)
	doctor.HandleFunc("/doctors/availability", r.doctorHandler.GetAvailability).Methods(http.MethodGet)
	doctor.HandleFunc("/doctors/availability", r.doctorHandler.UpdateAvailability).Methods(http.MethodPut)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Assignment and reporting (admin)
	admin.HandleFunc("/assign-doctor", r.bookingHandler.AssignDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/bookings", r.bookingHandler.GetAllBookings).Methods(http.MethodGet)

	// Doctor management (admin)
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
