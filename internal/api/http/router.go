package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"roadshare-backend/internal/service"
	"roadshare-backend/internal/storage"
)

// RouterConfig carries everything the router needs to wire routes.
type RouterConfig struct {
	AuthSvc     service.AuthService
	RentalSvc   service.RentalService
	AdminSvc    service.AdminService
	VehicleSvc  service.VehicleService
	NoteSvc     service.NotificationService
	Auth        *AuthMiddleware
	MockStorage *storage.MockStorageService // nil when not using mock storage
}

// NewRouter builds the full HTTP route table.
func NewRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()

	authHandler := NewAuthHandler(cfg.AuthSvc)
	rentalHandler := NewRentalHandler(cfg.RentalSvc)
	adminHandler := NewAdminHandler(cfg.AdminSvc)
	catalogHandler := NewCatalogHandler(cfg.VehicleSvc, cfg.NoteSvc)

	// Infra
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Auth
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)

	// Rentals (customer)
	auth := cfg.Auth
	api.HandleFunc("/rentals", auth.Authenticate(rentalHandler.CreateDraft)).Methods(http.MethodPost)
	api.HandleFunc("/rentals", auth.Authenticate(rentalHandler.ListRentals)).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}", auth.Authenticate(rentalHandler.GetRental)).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}", auth.Authenticate(rentalHandler.DiscardDraft)).Methods(http.MethodDelete)
	api.HandleFunc("/rentals/{id}/submit", auth.Authenticate(rentalHandler.Submit)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/docs-complete", auth.Authenticate(rentalHandler.MarkDocsComplete)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/sign-agreement", auth.Authenticate(rentalHandler.SignAgreement)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/pay", auth.Authenticate(rentalHandler.RecordPayment)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/photos/{phase}", auth.Authenticate(rentalHandler.UploadConditionPhoto)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/confirm-pickup", auth.Authenticate(rentalHandler.ConfirmPickup)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/confirm-return", auth.Authenticate(rentalHandler.ConfirmReturn)).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/cancel", auth.Authenticate(rentalHandler.Cancel)).Methods(http.MethodPost)

	// Vehicles and notifications
	api.HandleFunc("/vehicles", auth.Authenticate(catalogHandler.ListVehicles)).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", auth.Authenticate(catalogHandler.GetVehicle)).Methods(http.MethodGet)
	api.HandleFunc("/notifications", auth.Authenticate(catalogHandler.ListNotifications)).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", auth.Authenticate(catalogHandler.MarkNotificationRead)).Methods(http.MethodPost)

	// Admin
	api.HandleFunc("/admin/rentals", auth.RequireAdmin(adminHandler.ListPendingVerification)).Methods(http.MethodGet)
	api.HandleFunc("/admin/rentals/{id}/approve-verification", auth.RequireAdmin(adminHandler.ApproveVerification)).Methods(http.MethodPost)
	api.HandleFunc("/admin/rentals/{id}/deny-verification", auth.RequireAdmin(adminHandler.DenyVerification)).Methods(http.MethodPost)
	api.HandleFunc("/admin/rentals/{id}/release-lockbox", auth.RequireAdmin(adminHandler.ReleaseLockbox)).Methods(http.MethodPost)
	api.HandleFunc("/admin/rentals/{id}/confirm-damage", auth.RequireAdmin(adminHandler.ConfirmDamage)).Methods(http.MethodPost)
	api.HandleFunc("/admin/rentals/{id}/refund-deposit", auth.RequireAdmin(adminHandler.RefundDeposit)).Methods(http.MethodPost)
	api.HandleFunc("/admin/rentals/{id}/withhold-deposit", auth.RequireAdmin(adminHandler.WithholdDeposit)).Methods(http.MethodPost)
	api.HandleFunc("/admin/rentals/{id}/complete", auth.RequireAdmin(adminHandler.MarkCompleted)).Methods(http.MethodPost)
	api.HandleFunc("/admin/rentals/{id}/audit", auth.RequireAdmin(adminHandler.GetAuditTrail)).Methods(http.MethodGet)

	if cfg.MockStorage != nil {
		RegisterMockStorageRoutes(router, cfg.MockStorage)
	}

	return router
}
