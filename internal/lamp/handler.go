package lamp

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/lumenlab/lampcore/internal/lamp/entity"
	"github.com/lumenlab/lampcore/internal/web"
)

// Service is the operation surface the handler exposes over HTTP.
type Service interface {
	Create(ctx context.Context, actorToken string, in CreateInput) (string, error)
	List(ctx context.Context, actorToken string) ([]entity.Lamp, error)
	Get(ctx context.Context, actorToken, lampToken string) (*entity.Lamp, error)
	Update(ctx context.Context, actorToken, lampToken string, in UpdateInput) error
	Delete(ctx context.Context, actorToken, lampToken string) error
}

// Handler exposes HTTP endpoints for the lamp lifecycle.
type Handler struct {
	svc    Service
	logger *zap.SugaredLogger
}

func NewHandler(svc Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

var createKeys = []string{"led", "status", "intensity", "colour"}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	raw, werr := web.ReadBody(r)
	if werr != nil {
		web.WriteError(w, h.logger, werr)
		return
	}
	if missing := web.MissingKeys(raw, createKeys); len(missing) > 0 {
		web.WriteError(w, h.logger, web.BadRequestWith("Bad Request - Missing Parameters",
			map[string]any{"missingParameters": missing}))
		return
	}
	var in CreateInput
	if werr := web.Rebind(raw, &in); werr != nil {
		web.WriteError(w, h.logger, werr)
		return
	}
	if _, err := h.svc.Create(r.Context(), r.PathValue("userToken"), in); err != nil {
		web.WriteError(w, h.logger, err)
		return
	}
	web.WriteSuccess(w, http.StatusOK, "Create successful.", nil)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	lamps, err := h.svc.List(r.Context(), r.PathValue("userToken"))
	if err != nil {
		web.WriteError(w, h.logger, err)
		return
	}
	web.WriteSuccess(w, http.StatusOK, "Retrieve successful.", map[string]any{"data": lamps})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	lamp, err := h.svc.Get(r.Context(), r.PathValue("userToken"), r.PathValue("lampToken"))
	if err != nil {
		web.WriteError(w, h.logger, err)
		return
	}
	web.WriteSuccess(w, http.StatusOK, "Retrieve successful.", map[string]any{"data": lamp})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	raw, werr := web.ReadBody(r)
	if werr != nil {
		web.WriteError(w, h.logger, werr)
		return
	}
	var in UpdateInput
	if werr := web.Rebind(raw, &in); werr != nil {
		web.WriteError(w, h.logger, werr)
		return
	}
	if err := h.svc.Update(r.Context(), r.PathValue("userToken"), r.PathValue("lampToken"), in); err != nil {
		web.WriteError(w, h.logger, err)
		return
	}
	web.WriteSuccess(w, http.StatusOK, "Update successful.", nil)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("userToken"), r.PathValue("lampToken")); err != nil {
		web.WriteError(w, h.logger, err)
		return
	}
	web.WriteSuccess(w, http.StatusOK, "Deleted successful.", nil)
}
