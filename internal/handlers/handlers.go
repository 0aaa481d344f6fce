package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tenderwork/db"
	"tenderwork/internal/access"
	"tenderwork/internal/apperr"
)

// Body size cap for mutation payloads.
const maxBodySize = 1 << 20

// StorageInterface is what handlers need from the storage layer: the
// query surface plus per-entity transactions.
type StorageInterface interface {
	db.Store
	InTx(ctx context.Context, fn func(db.Store) error) error
}

type Handler struct {
	Store  StorageInterface
	Access *access.Evaluator
}

func NewHandler(store StorageInterface) *Handler {
	return &Handler{Store: store, Access: access.NewEvaluator(store)}
}

// PingHandler answers "ok" for liveness probes.
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeReason(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"reason": fmt.Sprintf(format, args...)})
}

// writeError maps the error taxonomy onto status codes. Anything
// outside the taxonomy is a storage or programming fault: logged, and
// reported without detail.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.Validation, apperr.Conflict:
		writeReason(w, http.StatusBadRequest, "%s", err)
	case apperr.Unauthenticated:
		writeReason(w, http.StatusUnauthorized, "%s", err)
	case apperr.Forbidden:
		writeReason(w, http.StatusForbidden, "%s", err)
	case apperr.NotFound:
		writeReason(w, http.StatusNotFound, "%s", err)
	default:
		log.Printf("internal error: %v", err)
		writeReason(w, http.StatusInternalServerError, "internal server error")
	}
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.Validationf("invalid %s", name)
	}
	return id, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validationf("invalid JSON body")
	}
	return nil
}

// checkTenderAccess resolves the principal (401 on unknown username)
// and verifies standing in the tender's organization (403 otherwise).
func (h *Handler) checkTenderAccess(ctx context.Context, tenderID uuid.UUID, username string) error {
	if _, err := h.Access.ResolveEmployee(ctx, username); err != nil {
		return err
	}
	ok, err := h.Access.CanActOnTender(ctx, tenderID, username)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbiddenf("you do not have access because you do not belong to tender organization")
	}
	return nil
}

// checkBidAccess is the bid counterpart of checkTenderAccess.
func (h *Handler) checkBidAccess(ctx context.Context, bidID uuid.UUID, username string) error {
	if _, err := h.Access.ResolveEmployee(ctx, username); err != nil {
		return err
	}
	ok, err := h.Access.CanActOnBid(ctx, bidID, username)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbiddenf("you do not have access because you do not belong to bid organization or you are not bid creator")
	}
	return nil
}
