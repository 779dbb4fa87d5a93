package handler

import (
	"net/http"

	"github.com/digitaltreasurer/treasurer-api/internal/auth"
	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"go.uber.org/zap"
)

type ViewHandler struct {
	viewService *service.ViewService
	logger      *zap.Logger
}

func NewViewHandler(viewService *service.ViewService, logger *zap.Logger) *ViewHandler {
	return &ViewHandler{
		viewService: viewService,
		logger:      logger,
	}
}

// Resolve godoc
// @Summary Decide which screen to show
// @Description Admins get the admin screen. Visitors get the public view of the linked or picked client, otherwise the landing screen.
// @Tags View
// @Produce json
// @Param group query string false "Client from a shared link"
// @Param selected query string false "Client chosen in the picker"
// @Success 200 {object} domain.ViewDTO
// @Router /view [get]
func (h *ViewHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := h.viewService.Resolve(r.Context(), auth.IsLoggedIn(r.Context()), q.Get("group"), q.Get("selected"))
	if err != nil {
		respondServiceError(w, h.logger, err, "resolve view")
		return
	}
	respondJSON(w, http.StatusOK, view)
}
