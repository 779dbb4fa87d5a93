package handler

import (
	"net/http"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"go.uber.org/zap"
)

// GroupHandler manages client groups for admins
type GroupHandler struct {
	groupService *service.GroupService
	logger       *zap.Logger
}

func NewGroupHandler(groupService *service.GroupService, logger *zap.Logger) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		logger:       logger,
	}
}

// List godoc
// @Summary List clients
// @Tags Groups
// @Produce json
// @Success 200 {array} domain.GroupDTO
// @Security BearerAuth
// @Router /groups [get]
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groupService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list clients")
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

// Create godoc
// @Summary Create a client
// @Tags Groups
// @Accept json
// @Produce json
// @Param request body domain.CreateGroupRequest true "Client"
// @Success 201 {object} domain.GroupDTO
// @Failure 409 {object} domain.APIError "Client already exists"
// @Security BearerAuth
// @Router /groups [post]
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.groupService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create client")
		return
	}
	w.Header().Set("Location", "/api/v1/groups/"+service.QuoteGroupName(group.Name))
	respondJSON(w, http.StatusCreated, group)
}

// Get godoc
// @Summary Get a client
// @Tags Groups
// @Produce json
// @Param name path string true "Client name"
// @Success 200 {object} domain.GroupDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /groups/{name} [get]
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, err := h.groupService.Get(r.Context(), groupName(r))
	if err != nil {
		respondServiceError(w, h.logger, err, "get client")
		return
	}
	respondJSON(w, http.StatusOK, group)
}

// Update godoc
// @Summary Update or rename a client
// @Description Renaming moves every contribution and logistics record to the new name
// @Tags Groups
// @Accept json
// @Produce json
// @Param name path string true "Client name"
// @Param request body domain.UpdateGroupRequest true "Changes"
// @Success 200 {object} domain.GroupDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /groups/{name} [put]
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.groupService.Update(r.Context(), groupName(r), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update client")
		return
	}
	respondJSON(w, http.StatusOK, group)
}

// Delete godoc
// @Summary Delete a client and all of its records
// @Tags Groups
// @Param name path string true "Client name"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /groups/{name} [delete]
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.groupService.Delete(r.Context(), groupName(r)); err != nil {
		respondServiceError(w, h.logger, err, "delete client")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Link godoc
// @Summary Shareable member link
// @Tags Groups
// @Produce json
// @Param name path string true "Client name"
// @Success 200 {object} domain.GroupLinkDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /groups/{name}/link [get]
func (h *GroupHandler) Link(w http.ResponseWriter, r *http.Request) {
	link, err := h.groupService.Link(r.Context(), groupName(r))
	if err != nil {
		respondServiceError(w, h.logger, err, "build link")
		return
	}
	respondJSON(w, http.StatusOK, link)
}
