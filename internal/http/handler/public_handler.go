package handler

import (
	"net/http"

	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"go.uber.org/zap"
)

// PublicHandler serves the read-only member view
type PublicHandler struct {
	groupService  *service.GroupService
	lookupService *service.LookupService
	logger        *zap.Logger
}

func NewPublicHandler(groupService *service.GroupService, lookupService *service.LookupService, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{
		groupService:  groupService,
		lookupService: lookupService,
		logger:        logger,
	}
}

// Groups godoc
// @Summary Client names for the group picker
// @Tags Public
// @Produce json
// @Success 200 {array} string
// @Router /public/groups [get]
func (h *PublicHandler) Groups(w http.ResponseWriter, r *http.Request) {
	names, err := h.groupService.Names(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list clients")
		return
	}
	respondJSON(w, http.StatusOK, names)
}

// Summary godoc
// @Summary Total collected and latest entries
// @Tags Public
// @Produce json
// @Param name path string true "Client name"
// @Success 200 {object} domain.PublicSummaryDTO
// @Failure 404 {object} domain.APIError
// @Router /public/groups/{name} [get]
func (h *PublicHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.lookupService.Summary(r.Context(), groupName(r))
	if err != nil {
		respondServiceError(w, h.logger, err, "load summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Search godoc
// @Summary Find a member's payments
// @Description Case-sensitive substring match on the member name
// @Tags Public
// @Produce json
// @Param name path string true "Client name"
// @Param name query string true "Member name or part of it"
// @Success 200 {object} domain.MemberSearchDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /public/groups/{name}/search [get]
func (h *PublicHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("name")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "Enter a name to search")
		return
	}

	result, err := h.lookupService.Search(r.Context(), groupName(r), query)
	if err != nil {
		respondServiceError(w, h.logger, err, "search")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
