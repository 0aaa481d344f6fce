package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tenderwork/db"
	"tenderwork/internal/apperr"
	"tenderwork/internal/decision"
	"tenderwork/internal/versioning"
	"tenderwork/models"
)

func (h *Handler) CreateBidHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string            `json:"name"`
		Description string            `json:"description"`
		TenderID    uuid.UUID         `json:"tenderId"`
		AuthorType  models.AuthorType `json:"authorType"`
		AuthorID    uuid.UUID         `json:"authorId"`
	}
	if err := decodeBody(w, r, &input); err != nil {
		h.writeError(w, err)
		return
	}

	if input.Name == "" || input.Description == "" || input.TenderID == uuid.Nil ||
		input.AuthorType == "" || input.AuthorID == uuid.Nil {
		writeReason(w, http.StatusBadRequest,
			"you must provide each of: name, description, tenderId, authorType, authorId")
		return
	}
	if len(input.Name) > models.MaxNameLen {
		writeReason(w, http.StatusBadRequest, "name must be %d characters length maximum", models.MaxNameLen)
		return
	}

	author, err := h.Store.GetEmployee(r.Context(), input.AuthorID)
	if err != nil {
		if apperr.IsNotFound(err) {
			err = apperr.Unauthenticatedf("user with id %s does not exist", input.AuthorID)
		}
		h.writeError(w, err)
		return
	}

	if !input.AuthorType.Valid() {
		writeReason(w, http.StatusBadRequest, "authorType can be only User or Organization")
		return
	}

	var organizationID uuid.NullUUID
	if input.AuthorType == models.AuthorOrganization {
		orgs, err := h.Store.GetUserOrganizations(r.Context(), author.ID)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if len(orgs) == 0 {
			writeReason(w, http.StatusBadRequest,
				"authorType can not be Organization because user does not belong to any organization, switch it to User")
			return
		}
		organizationID = uuid.NullUUID{UUID: orgs[0], Valid: true}
	}

	tender, err := h.Store.GetTender(r.Context(), input.TenderID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if tender.Status != models.TenderPublished {
		writeReason(w, http.StatusForbidden, "tender is not published")
		return
	}

	bid := &models.Bid{
		Name:           input.Name,
		Description:    input.Description,
		Status:         models.BidCreated,
		AuthorType:     input.AuthorType,
		CreatorID:      author.ID,
		OrganizationID: organizationID,
		TenderID:       tender.ID,
	}
	if err := h.Store.CreateBid(r.Context(), bid); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// GetUserBidsHandler lists the bids the user created together with
// their organization's bids.
func (h *Handler) GetUserBidsHandler(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeReason(w, http.StatusBadRequest, "missing username parameter")
		return
	}
	if len(username) > models.MaxUsernameLen {
		writeReason(w, http.StatusBadRequest, "username must be %d characters length maximum", models.MaxUsernameLen)
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
	var orgID uuid.NullUUID
	if len(orgs) > 0 {
		orgID = uuid.NullUUID{UUID: orgs[0], Valid: true}
	}

	bids, err := h.Store.GetUserBids(r.Context(), employee.ID, orgID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bids)
}

// GetBidsForTenderHandler lists a tender's Published bids for a member
// of the tender's organization.
func (h *Handler) GetBidsForTenderHandler(w http.ResponseWriter, r *http.Request) {
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

	bids, err := h.Store.GetPublishedBidsForTender(r.Context(), tenderID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if len(bids) == 0 {
		writeReason(w, http.StatusNotFound, "bids not found")
		return
	}
	writeJSON(w, http.StatusOK, bids)
}

// GetBidStatusHandler returns the bare status string. Non-published
// bids are visible only under the bid access rule.
func (h *Handler) GetBidStatusHandler(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuidParam(r, "bidId")
	if err != nil {
		h.writeError(w, err)
		return
	}

	bid, err := h.Store.GetBid(r.Context(), bidID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if bid.Status != models.BidPublished {
		username := r.URL.Query().Get("username")
		if _, err := h.Access.ResolveEmployee(r.Context(), username); err != nil {
			h.writeError(w, err)
			return
		}
		ok, err := h.Access.CanActOnBid(r.Context(), bidID, username)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if !ok {
			writeReason(w, http.StatusForbidden,
				"bid is not published, you do not have access because you do not belong to bid organization or you are not bid creator")
			return
		}
	}

	writeJSON(w, http.StatusOK, bid.Status)
}

func (h *Handler) UpdateBidStatusHandler(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuidParam(r, "bidId")
	if err != nil {
		h.writeError(w, err)
		return
	}

	username := r.URL.Query().Get("username")
	statusParam := r.URL.Query().Get("status")
	if username == "" || statusParam == "" {
		writeReason(w, http.StatusBadRequest, "provide each of: username, status, bidId")
		return
	}

	status := models.BidStatus(statusParam)
	if !status.Valid() {
		writeReason(w, http.StatusBadRequest, "status may be one of: Created, Published, Cancelled")
		return
	}

	if _, err := h.Store.GetBid(r.Context(), bidID); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.checkBidAccess(r.Context(), bidID, username); err != nil {
		h.writeError(w, err)
		return
	}

	var bid *models.Bid
	err = h.Store.InTx(r.Context(), func(s db.Store) error {
		b, err := s.GetBidForUpdate(r.Context(), bidID)
		if err != nil {
			return err
		}
		b.Status = status
		if err := s.UpdateBid(r.Context(), b); err != nil {
			return err
		}
		bid = b
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

func (h *Handler) EditBidHandler(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuidParam(r, "bidId")
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
	// Bids have no service type to patch.
	patch.ServiceType = ""
	if len(patch.Name) > models.MaxNameLen {
		writeReason(w, http.StatusBadRequest, "name must be %d characters length maximum", models.MaxNameLen)
		return
	}
	if patch.Name == "" && patch.Description == "" {
		writeReason(w, http.StatusBadRequest, "provide at least 1 param: name, description")
		return
	}

	if _, err := h.Store.GetBid(r.Context(), bidID); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.checkBidAccess(r.Context(), bidID, username); err != nil {
		h.writeError(w, err)
		return
	}

	var bid *models.Bid
	err = h.Store.InTx(r.Context(), func(s db.Store) error {
		b, err := s.GetBidForUpdate(r.Context(), bidID)
		if err != nil {
			return err
		}
		if err := versioning.Edit(r.Context(), db.BidSnapshots(s, b.ID), b, patch); err != nil {
			return err
		}
		if err := s.UpdateBid(r.Context(), b); err != nil {
			return err
		}
		bid = b
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

func (h *Handler) RollbackBidHandler(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuidParam(r, "bidId")
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

	if _, err := h.Store.GetBid(r.Context(), bidID); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.checkBidAccess(r.Context(), bidID, username); err != nil {
		h.writeError(w, err)
		return
	}

	var bid *models.Bid
	err = h.Store.InTx(r.Context(), func(s db.Store) error {
		b, err := s.GetBidForUpdate(r.Context(), bidID)
		if err != nil {
			return err
		}
		if err := versioning.Rollback(r.Context(), db.BidSnapshots(s, b.ID), b, version); err != nil {
			return err
		}
		if err := s.UpdateBid(r.Context(), b); err != nil {
			return err
		}
		bid = b
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// SubmitBidDecisionHandler records one Approved/Rejected vote from a
// member of the tender's organization.
func (h *Handler) SubmitBidDecisionHandler(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuidParam(r, "bidId")
	if err != nil {
		h.writeError(w, err)
		return
	}

	username := r.URL.Query().Get("username")
	dec := models.Decision(r.URL.Query().Get("decision"))
	if username == "" || dec == "" {
		writeReason(w, http.StatusBadRequest, "provide each of: username, decision, bidId")
		return
	}
	if len(username) > models.MaxUsernameLen {
		writeReason(w, http.StatusBadRequest, "username must be %d characters length maximum", models.MaxUsernameLen)
		return
	}
	if !dec.Valid() {
		writeReason(w, http.StatusBadRequest, "decision must be Approved or Rejected")
		return
	}

	if _, err := h.Access.ResolveEmployee(r.Context(), username); err != nil {
		h.writeError(w, err)
		return
	}
	current, err := h.Store.GetBid(r.Context(), bidID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	// Decisions are cast by the tender's organization, not the bid's.
	if err := h.checkTenderAccess(r.Context(), current.TenderID, username); err != nil {
		h.writeError(w, err)
		return
	}

	var bid *models.Bid
	err = h.Store.InTx(r.Context(), func(s db.Store) error {
		b, err := s.GetBidForUpdate(r.Context(), bidID)
		if err != nil {
			return err
		}
		if err := decision.SubmitDecision(r.Context(), s, b, dec); err != nil {
			return err
		}
		bid = b
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// SendFeedbackHandler appends feedback to an accepted bid.
func (h *Handler) SendFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	bidID, err := uuidParam(r, "bidId")
	if err != nil {
		h.writeError(w, err)
		return
	}

	username := r.URL.Query().Get("username")
	feedbackText := r.URL.Query().Get("bidFeedback")
	if username == "" || feedbackText == "" {
		writeReason(w, http.StatusBadRequest, "provide each of: username, bidFeedback, bidId")
		return
	}

	if _, err := h.Access.ResolveEmployee(r.Context(), username); err != nil {
		h.writeError(w, err)
		return
	}
	current, err := h.Store.GetBid(r.Context(), bidID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.checkTenderAccess(r.Context(), current.TenderID, username); err != nil {
		h.writeError(w, err)
		return
	}

	var bid *models.Bid
	err = h.Store.InTx(r.Context(), func(s db.Store) error {
		b, err := s.GetBidForUpdate(r.Context(), bidID)
		if err != nil {
			return err
		}
		if _, err := decision.SendFeedback(r.Context(), s, b, feedbackText); err != nil {
			return err
		}
		bid = b
		return nil
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

// GetBidReviewsHandler lists feedback on the author's bids under a
// tender, for a member of the tender's organization.
func (h *Handler) GetBidReviewsHandler(w http.ResponseWriter, r *http.Request) {
	tenderID, err := uuidParam(r, "tenderId")
	if err != nil {
		h.writeError(w, err)
		return
	}

	authorUsername := r.URL.Query().Get("authorUsername")
	requesterUsername := r.URL.Query().Get("requesterUsername")
	if authorUsername == "" || requesterUsername == "" {
		writeReason(w, http.StatusBadRequest, "provide each of: authorUsername, requesterUsername, tenderId")
		return
	}

	if _, err := h.Access.ResolveEmployee(r.Context(), requesterUsername); err != nil {
		h.writeError(w, err)
		return
	}
	author, err := h.Store.GetEmployeeByUsername(r.Context(), authorUsername)
	if err != nil {
		if apperr.IsNotFound(err) {
			err = apperr.Validationf("user with username %s does not exist", authorUsername)
		}
		h.writeError(w, err)
		return
	}

	tender, err := h.Store.GetTender(r.Context(), tenderID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	hasBids, err := h.Store.HasBidsForTender(r.Context(), tender.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !hasBids {
		writeReason(w, http.StatusBadRequest, "no bids found")
		return
	}

	if err := h.checkTenderAccess(r.Context(), tenderID, requesterUsername); err != nil {
		h.writeError(w, err)
		return
	}

	feedbacks, err := h.Store.GetFeedbackForAuthorBids(r.Context(), tender.ID, author.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedbacks)
}
