package handler

import (
	"net/http"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"go.uber.org/zap"
)

// SettingsHandler exposes admin settings and helper tools
type SettingsHandler struct {
	contributionService *service.ContributionService
	currency            string
	logger              *zap.Logger
}

func NewSettingsHandler(contributionService *service.ContributionService, currency string, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		contributionService: contributionService,
		currency:            currency,
		logger:              logger,
	}
}

// GetFlatRate godoc
// @Summary Current flat-rate amount
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.FlatRateDTO
// @Security BearerAuth
// @Router /settings/flat-rate [get]
func (h *SettingsHandler) GetFlatRate(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.FlatRateDTO{
		Amount:   h.contributionService.FlatRate(),
		Currency: h.currency,
	})
}

// UpdateFlatRate godoc
// @Summary Change the flat-rate amount
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body domain.FlatRateRequest true "Amount"
// @Success 200 {object} domain.FlatRateDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /settings/flat-rate [put]
func (h *SettingsHandler) UpdateFlatRate(w http.ResponseWriter, r *http.Request) {
	var req domain.FlatRateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.contributionService.SetFlatRate(req.Amount); err != nil {
		respondServiceError(w, h.logger, err, "update flat rate")
		return
	}
	h.GetFlatRate(w, r)
}

// Options godoc
// @Summary Allowed payment modes and event types
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.OptionsDTO
// @Router /options [get]
func (h *SettingsHandler) Options(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.OptionsDTO{
		PaymentModes: domain.PaymentModes,
		EventTypes:   domain.EventTypes,
	})
}

// ParseSMS godoc
// @Summary Pre-fill a contribution from an M-Pesa SMS
// @Tags Tools
// @Accept json
// @Produce json
// @Param request body domain.ParseSMSRequest true "Pasted message"
// @Success 200 {object} domain.ParsedSMSDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /tools/mpesa/parse [post]
func (h *SettingsHandler) ParseSMS(w http.ResponseWriter, r *http.Request) {
	var req domain.ParseSMSRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	parsed, err := h.contributionService.ParseSMS(req.Message)
	if err != nil {
		respondServiceError(w, h.logger, err, "parse message")
		return
	}
	respondJSON(w, http.StatusOK, parsed)
}
