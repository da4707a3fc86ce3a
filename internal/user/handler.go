package user

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/lumenlab/lampcore/internal/web"
)

// Service is the operation surface the handler exposes over HTTP.
type Service interface {
	Register(ctx context.Context, in RegisterInput) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// Handler exposes HTTP endpoints for user registration and authentication.
type Handler struct {
	svc    Service
	logger *zap.SugaredLogger
}

func NewHandler(svc Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

var registerKeys = []string{"email", "full_name", "username", "phone", "password", "confirm_password"}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	raw, werr := web.ReadBody(r)
	if werr != nil {
		web.WriteError(w, h.logger, werr)
		return
	}
	if missing := web.MissingKeys(raw, registerKeys); len(missing) > 0 {
		web.WriteError(w, h.logger, web.BadRequestWith("Bad Request - Missing Parameters",
			map[string]any{"missingParameters": missing}))
		return
	}
	var in RegisterInput
	if werr := web.Rebind(raw, &in); werr != nil {
		web.WriteError(w, h.logger, werr)
		return
	}
	if _, err := h.svc.Register(r.Context(), in); err != nil {
		web.WriteError(w, h.logger, err)
		return
	}
	web.WriteSuccess(w, http.StatusOK, "Register successful.", nil)
}

var authenticateKeys = []string{"email", "password"}

type authenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	raw, werr := web.ReadBody(r)
	if werr != nil {
		web.WriteError(w, h.logger, werr)
		return
	}
	if missing := web.MissingKeys(raw, authenticateKeys); len(missing) > 0 {
		web.WriteError(w, h.logger, web.BadRequestWith("Bad Request - Missing Parameters",
			map[string]any{"missingParameters": missing}))
		return
	}
	var req authenticateRequest
	if werr := web.Rebind(raw, &req); werr != nil {
		web.WriteError(w, h.logger, werr)
		return
	}
	userID, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		web.WriteError(w, h.logger, err)
		return
	}
	web.WriteSuccess(w, http.StatusOK, "Authenticate successful.", map[string]any{"userId": userID})
}
