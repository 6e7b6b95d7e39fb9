package handler

import (
	"net/http"

	"github.com/gmoliveira/pizzaria-storefront/internal/backend"
)

type profileResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	CPF    string `json:"cpf"`
	Age    int    `json:"age"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

func toProfileResponse(c *backend.Customer) profileResponse {
	return profileResponse{
		ID:     c.ID.String(),
		Name:   c.Name,
		CPF:    c.CPF,
		Age:    c.Age,
		Phone:  c.Phone,
		Email:  c.Email,
		Active: c.Active,
	}
}

// Profile returns the authenticated customer's account data.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := h.requireCustomer(w, r)
	if !ok {
		return
	}

	c, err := h.backend.Customer(r.Context(), sess.UserID)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(c))
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Age   *int    `json:"age"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// UpdateProfile patches the customer's editable fields. Absent fields stay
// as they are; the CPF is immutable.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := h.requireCustomer(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == nil && req.Age == nil && req.Phone == nil && req.Email == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	c, err := h.backend.UpdateCustomer(r.Context(), sess.UserID, backend.CustomerPatch{
		Name:  req.Name,
		Age:   req.Age,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(c))
}

// DeactivateProfile flips the account to inactive and ends the session. The
// backend treats this as a toggle, so the account can be revived by support.
func (h *Handler) DeactivateProfile(w http.ResponseWriter, r *http.Request) {
	sid, sess, ok := h.requireCustomer(w, r)
	if !ok {
		return
	}

	if err := h.backend.ToggleCustomerStatus(r.Context(), sess.UserID); err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	h.sessions.Logout(r.Context(), sid)
	w.WriteHeader(http.StatusNoContent)
}
