package http

import (
	"context"
	"net/http"
	"strings"

	"roadshare-backend/internal/domain"
	"roadshare-backend/internal/service"
)

type AdminHandler struct {
	adminSvc service.AdminService
}

func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

func (h *AdminHandler) ApproveVerification(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.adminSvc.ApproveVerification)
}

type denyVerificationRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) DenyVerification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid rental id")
		return
	}
	var req denyVerificationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rental, err := h.adminSvc.DenyVerification(r.Context(), UserIDFromContext(r.Context()), id, strings.TrimSpace(req.Reason))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *AdminHandler) ReleaseLockbox(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.adminSvc.ReleaseLockbox)
}

type confirmDamageRequest struct {
	Note string `json:"note"`
}

func (h *AdminHandler) ConfirmDamage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid rental id")
		return
	}
	var req confirmDamageRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	rental, err := h.adminSvc.ConfirmDamage(r.Context(), UserIDFromContext(r.Context()), id, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *AdminHandler) RefundDeposit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.adminSvc.RefundDeposit)
}

type withholdDepositRequest struct {
	AmountCents int32  `json:"amount_cents"`
	Reason      string `json:"reason"`
}

func (h *AdminHandler) WithholdDeposit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid rental id")
		return
	}
	var req withholdDepositRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		writeBadRequest(w, "withhold reason is required")
		return
	}

	rental, err := h.adminSvc.WithholdDeposit(r.Context(), UserIDFromContext(r.Context()), id, req.AmountCents, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *AdminHandler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.adminSvc.MarkCompleted)
}

func (h *AdminHandler) ListPendingVerification(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	rentals, total, err := h.adminSvc.ListPendingVerification(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rentalListResponse{Rentals: rentals, TotalCount: total, Page: page, PageSize: pageSize})
}

type auditTrailResponse struct {
	Events []domain.AuditEvent `json:"events"`
}

func (h *AdminHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid rental id")
		return
	}
	events, err := h.adminSvc.GetAuditTrail(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, auditTrailResponse{Events: events})
}

func (h *AdminHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, adminID, rentalID int32) (*domain.Rental, error)) {
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
