package audit

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/lumenlab/lampcore/internal/audit/entity"
	"github.com/lumenlab/lampcore/internal/web"
)

// Service is the operation surface the handler exposes over HTTP.
type Service interface {
	ListAll(ctx context.Context, actorToken string) ([]entity.DeletedData, error)
}

// Handler exposes the tombstone listing endpoint.
type Handler struct {
	svc    Service
	logger *zap.SugaredLogger
}

func NewHandler(svc Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.ListAll(r.Context(), r.PathValue("userToken"))
	if err != nil {
		web.WriteError(w, h.logger, err)
		return
	}
	web.WriteSuccess(w, http.StatusOK, "Retrieve successful.", map[string]any{"data": records})
}
