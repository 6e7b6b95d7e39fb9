package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/gmoliveira/pizzaria-storefront/internal/backend"
	"github.com/gmoliveira/pizzaria-storefront/internal/domain/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
	UserType      string `json:"userType,omitempty"`
}

func toSessionResponse(s session.Session) sessionResponse {
	return sessionResponse{
		Authenticated: s.Authenticated,
		UserID:        s.UserID,
		UserType:      string(s.UserType),
	}
}

// Login authenticates against the backend and persists the identity in the
// session store. A backend rejection or an unknown user type both come back
// as 401: the client only needs to know the credentials did not work.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)

	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	result, err := h.backend.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	if !result.Sucesso {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	ut, err := session.ParseUserType(result.TipoUsuario)
	if err != nil {
		zctx.From(r.Context()).Warn("Backend returned unknown user type",
			zap.String("tipo_usuario", result.TipoUsuario))
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sess, err := h.sessions.Login(r.Context(), sid, result.ID.String(), ut)
	if err != nil {
		zctx.From(r.Context()).Error("Failed to persist session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not start session")
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

type registerRequest struct {
	Name     string `json:"name"`
	CPF      string `json:"cpf"`
	Age      int    `json:"age"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a customer account. Registration does not log the new
// customer in; the client follows up with Login.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	err := h.backend.RegisterCustomer(r.Context(), backend.RegisterCustomerRequest{
		Name:     req.Name,
		CPF:      req.CPF,
		Age:      req.Age,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Logout drops the session identity. The cart survives: an anonymous visitor
// keeps whatever they had selected.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	h.sessions.Logout(r.Context(), sid)
	w.WriteHeader(http.StatusNoContent)
}

// CurrentSession reports who the session currently belongs to, if anyone.
func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	_, sess := h.currentSession(w, r)
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}
