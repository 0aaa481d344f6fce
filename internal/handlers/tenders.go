package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tenderwork/db"
	"tenderwork/internal/versioning"
	"tenderwork/models"
)

// GetTendersHandler lists Published tenders, optionally filtered by
// serviceType.
func (h *Handler) GetTendersHandler(w http.ResponseWriter, r *http.Request) {
	serviceType := r.URL.Query().Get("serviceType")

	tenders, err := h.Store.GetPublishedTenders(r.Context(), serviceType)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tenders)
}

// GetUserTendersHandler lists the tenders of the user's organizations.
func (h *Handler) GetUserTendersHandler(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeReason(w, http.StatusBadRequest, "missing username parameter")
		return
	}

	employee, err := h.Access.ResolveEmployee(r.Context(), username)
	if err != nil {
		h.writeError(w, err)
		return
	}

	orgs, err := h.Store.GetUserOrganizations(r.Context(), employee.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if len(orgs) == 0 {
		writeReason(w, http.StatusBadRequest, "user with username %s does not belong to any organization", username)
		return
	}

	tenders, err := h.Store.GetUserTenders(r.Context(), username)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tenders)
}

func (h *Handler) CreateTenderHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name            string    `json:"name"`
		Description     string    `json:"description"`
		ServiceType     string    `json:"serviceType"`
		OrganizationID  uuid.UUID `json:"organizationId"`
		CreatorUsername string    `json:"creatorUsername"`
	}
	if err := decodeBody(w, r, &input); err != nil {
		h.writeError(w, err)
		return
	}

	if input.Name == "" || input.Description == "" || input.ServiceType == "" ||
		input.OrganizationID == uuid.Nil || input.CreatorUsername == "" {
		writeReason(w, http.StatusBadRequest,
			"you must provide each of: name, description, serviceType, organizationId, creatorUsername")
		return
	}
	if len(input.Name) > models.MaxNameLen {
		writeReason(w, http.StatusBadRequest, "name must be %d characters length maximum", models.MaxNameLen)
		return
	}
	if len(input.ServiceType) > models.MaxServiceTypeLen {
		writeReason(w, http.StatusBadRequest, "serviceType must be %d characters length maximum", models.MaxServiceTypeLen)
		return
	}

	organization, err := h.Store.GetOrganization(r.Context(), input.OrganizationID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	creator, err := h.Access.ResolveEmployee(r.Context(), input.CreatorUsername)
	if err != nil {
		h.writeError(w, err)
		return
	}

	responsible, err := h.Store.IsUserResponsibleForOrganization(r.Context(), creator.ID, organization.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !responsible {
		writeReason(w, http.StatusForbidden,
			"user %s is not responsible for organization %s", input.CreatorUsername, input.OrganizationID)
		return
	}

	tender := &models.Tender{
		Name:           input.Name,
		Description:    input.Description,
		ServiceType:    input.ServiceType,
		Status:         models.TenderCreated,
		OrganizationID: organization.ID,
		CreatorID:      creator.ID,
	}
	if err := h.Store.CreateTender(r.Context(), tender); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tender)
}

// GetTenderStatusHandler returns the bare status string. Non-published
// tenders are visible only to the owning organization.
func (h *Handler) GetTenderStatusHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuidParam(r, "tenderId")
	if err != nil {
		h.writeError(w, err)
		return
	}

	tender, err := h.Store.GetTender(r.Context(), tenderID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if tender.Status != models.TenderPublished {
		username := r.URL.Query().Get("username")
		if _, err := h.Access.ResolveEmployee(r.Context(), username); err != nil {
			h.writeError(w, err)
			return
		}
		ok, err := h.Access.CanActOnTender(r.Context(), tenderID, username)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if !ok {
			writeReason(w, http.StatusForbidden,
				"tender is not published, you do not have access because you do not belong to tender organization")
			return
		}
	}

	writeJSON(w, http.StatusOK, tender.Status)
}

func (h *Handler) UpdateTenderStatusHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuidParam(r, "tenderId")
	if err != nil {
		h.writeError(w, err)
		return
	}

	username := r.URL.Query().Get("username")
	statusParam := r.URL.Query().Get("status")
	if username == "" || statusParam == "" {
		writeReason(w, http.StatusBadRequest, "provide each of: username, status, tenderId")
		return
	}

	status := models.TenderStatus(statusParam)
	if !status.Valid() {
		writeReason(w, http.StatusBadRequest, "status may be one of: Created, Published, Closed")
		return
	}

	if _, err := h.Store.GetTender(r.Context(), tenderID); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.checkTenderAccess(r.Context(), tenderID, username); err != nil {
		h.writeError(w, err)
		return
	}

	var tender *models.Tender
	err = h.Store.InTx(r.Context(), func(s db.Store) error {
		t, err := s.GetTenderForUpdate(r.Context(), tenderID)
		if err != nil {
			return err
		}
		t.Status = status
		if err := s.UpdateTender(r.Context(), t); err != nil {
			return err
		}
		tender = t
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tender)
}

func (h *Handler) EditTenderHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuidParam(r, "tenderId")
	if err != nil {
		h.writeError(w, err)
		return
	}
	username := r.URL.Query().Get("username")
	if username == "" {
		writeReason(w, http.StatusBadRequest, "missing username parameter")
		return
	}

	var patch versioning.Patch
	if err := decodeBody(w, r, &patch); err != nil {
		h.writeError(w, err)
		return
	}
	if err := patch.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	if _, err := h.Store.GetTender(r.Context(), tenderID); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.checkTenderAccess(r.Context(), tenderID, username); err != nil {
		h.writeError(w, err)
		return
	}

	var tender *models.Tender
	err = h.Store.InTx(r.Context(), func(s db.Store) error {
		t, err := s.GetTenderForUpdate(r.Context(), tenderID)
		if err != nil {
			return err
		}
		if err := versioning.Edit(r.Context(), db.TenderSnapshots(s, t.ID), t, patch); err != nil {
			return err
		}
		if err := s.UpdateTender(r.Context(), t); err != nil {
			return err
		}
		tender = t
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tender)
}

func (h *Handler) RollbackTenderHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuidParam(r, "tenderId")
	if err != nil {
		h.writeError(w, err)
		return
	}
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || version < 1 {
		writeReason(w, http.StatusBadRequest, "invalid version number")
		return
	}

	username := r.URL.Query().Get("username")
	if username == "" {
		writeReason(w, http.StatusBadRequest, "missing username parameter")
		return
	}
	if len(username) > models.MaxUsernameLen {
		writeReason(w, http.StatusBadRequest, "username must be %d characters length maximum", models.MaxUsernameLen)
		return
	}

	if _, err := h.Store.GetTender(r.Context(), tenderID); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.checkTenderAccess(r.Context(), tenderID, username); err != nil {
		h.writeError(w, err)
		return
	}

	var tender *models.Tender
	err = h.Store.InTx(r.Context(), func(s db.Store) error {
		t, err := s.GetTenderForUpdate(r.Context(), tenderID)
		if err != nil {
			return err
		}
		if err := versioning.Rollback(r.Context(), db.TenderSnapshots(s, t.ID), t, version); err != nil {
			return err
		}
		if err := s.UpdateTender(r.Context(), t); err != nil {
			return err
		}
		tender = t
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tender)
}
