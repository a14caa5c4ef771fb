package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"roadshare-backend/internal/domain"
	"roadshare-backend/internal/service"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

func pathID(r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}

type createDraftRequest struct {
	VehicleID int32  `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *RentalHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.VehicleID <= 0 || req.StartDate == "" || req.EndDate == "" {
		writeBadRequest(w, "vehicle_id, start_date and end_date are required")
		return
	}

	rental, err := h.rentalSvc.CreateDraft(r.Context(), UserIDFromContext(r.Context()), req.VehicleID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentalSvc.Submit)
}

func (h *RentalHandler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid rental id")
		return
	}
	if err := h.rentalSvc.DiscardDraft(r.Context(), UserIDFromContext(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *RentalHandler) MarkDocsComplete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentalSvc.MarkDocsComplete)
}

func (h *RentalHandler) SignAgreement(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentalSvc.SignAgreement)
}

type recordPaymentRequest struct {
	PaymentRef string `json:"payment_ref"`
}

func (h *RentalHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid rental id")
		return
	}
	var req recordPaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rental, err := h.rentalSvc.RecordPayment(r.Context(), UserIDFromContext(r.Context()), id, strings.TrimSpace(req.PaymentRef))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type uploadPhotoRequest struct {
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

type uploadPhotoResponse struct {
	Photo     *domain.ConditionPhoto `json:"photo"`
	UploadURL string                 `json:"upload_url"`
}

func (h *RentalHandler) UploadConditionPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid rental id")
		return
	}
	phase := domain.PhotoPhase(strings.ToUpper(mux.Vars(r)["phase"]))

	var req uploadPhotoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FileName == "" || req.MimeType == "" {
		writeBadRequest(w, "file_name and mime_type are required")
		return
	}

	photo, uploadURL, err := h.rentalSvc.UploadConditionPhoto(r.Context(), UserIDFromContext(r.Context()), id, phase, req.FileName, req.MimeType, req.FileSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadPhotoResponse{Photo: photo, UploadURL: uploadURL})
}

func (h *RentalHandler) ConfirmPickup(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentalSvc.ConfirmPickup)
}

func (h *RentalHandler) ConfirmReturn(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.rentalSvc.ConfirmReturn)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid rental id")
		return
	}
	var req cancelRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	rental, err := h.rentalSvc.Cancel(r.Context(), UserIDFromContext(r.Context()), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

type rentalResponse struct {
	Rental        *domain.Rental       `json:"rental"`
	PhotoProgress domain.PhotoProgress `json:"photo_progress"`
}

func (h *RentalHandler) GetRental(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid rental id")
		return
	}
	ctx := r.Context()
	isAdmin := RoleFromContext(ctx) == string(domain.UserRoleAdmin)

	rental, progress, err := h.rentalSvc.GetRental(ctx, UserIDFromContext(ctx), isAdmin, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentalResponse{Rental: rental, PhotoProgress: progress})
}

type rentalListResponse struct {
	Rentals    []domain.Rental `json:"rentals"`
	TotalCount int32           `json:"total_count"`
	Page       int32           `json:"page"`
	PageSize   int32           `json:"page_size"`
}

func (h *RentalHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := strings.ToUpper(r.URL.Query().Get("status"))

	rentals, total, err := h.rentalSvc.ListRentals(r.Context(), UserIDFromContext(r.Context()), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentalListResponse{Rentals: rentals, TotalCount: total, Page: page, PageSize: pageSize})
}

// transition handles the body-less transition endpoints that share a
// (renterID, rentalID) signature.
func (h *RentalHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, renterID, rentalID int32) (*domain.Rental, error)) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid rental id")
		return
	}
	rental, err := fn(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}
