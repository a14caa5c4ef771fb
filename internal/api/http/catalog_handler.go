package http

import (
	"net/http"

	"roadshare-backend/internal/domain"
	"roadshare-backend/internal/service"
)

// CatalogHandler serves the vehicle read model and in-app notifications.
type CatalogHandler struct {
	vehicleSvc service.VehicleService
	noteSvc    service.NotificationService
}

func NewCatalogHandler(vehicleSvc service.VehicleService, noteSvc service.NotificationService) *CatalogHandler {
	return &CatalogHandler{
		vehicleSvc: vehicleSvc,
		noteSvc:    noteSvc,
	}
}

func (h *CatalogHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid vehicle id")
		return
	}
	vehicle, err := h.vehicleSvc.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

type vehicleListResponse struct {
	Vehicles   []domain.Vehicle `json:"vehicles"`
	TotalCount int32            `json:"total_count"`
	Page       int32            `json:"page"`
	PageSize   int32            `json:"page_size"`
}

func (h *CatalogHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	metro := r.URL.Query().Get("metro")

	vehicles, total, err := h.vehicleSvc.ListVehicles(r.Context(), metro, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleListResponse{Vehicles: vehicles, TotalCount: total, Page: page, PageSize: pageSize})
}

type notificationListResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	TotalCount    int32                 `json:"total_count"`
	Page          int32                 `json:"page"`
	PageSize      int32                 `json:"page_size"`
}

func (h *CatalogHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	notes, total, err := h.noteSvc.GetNotifications(r.Context(), UserIDFromContext(r.Context()), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationListResponse{Notifications: notes, TotalCount: total, Page: page, PageSize: pageSize})
}

func (h *CatalogHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid notification id")
		return
	}
	if err := h.noteSvc.MarkAsRead(r.Context(), UserIDFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
