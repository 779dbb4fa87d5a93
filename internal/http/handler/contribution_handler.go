package handler

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/report"
	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"go.uber.org/zap"
)

// maxStatementBytes caps uploaded statement files
const maxStatementBytes = 10 << 20

// ContributionHandler serves the admin data-entry, report and export endpoints
type ContributionHandler struct {
	contributionService *service.ContributionService
	reportService       *service.ReportService
	logger              *zap.Logger
}

func NewContributionHandler(
	contributionService *service.ContributionService,
	reportService *service.ReportService,
	logger *zap.Logger,
) *ContributionHandler {
	return &ContributionHandler{
		contributionService: contributionService,
		reportService:       reportService,
		logger:              logger,
	}
}

// List godoc
// @Summary List contributions
// @Tags Contributions
// @Produce json
// @Param name path string true "Client name"
// @Success 200 {array} domain.ContributionDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /groups/{name}/contributions [get]
func (h *ContributionHandler) List(w http.ResponseWriter, r *http.Request) {
	contributions, err := h.contributionService.List(r.Context(), groupName(r))
	if err != nil {
		respondServiceError(w, h.logger, err, "list contributions")
		return
	}
	respondJSON(w, http.StatusOK, contributions)
}

// Record godoc
// @Summary Record a contribution
// @Description Saves a payment and optionally marks the member's firewood. useFlatRate takes the amount from the flat-rate setting.
// @Tags Contributions
// @Accept json
// @Produce json
// @Param name path string true "Client name"
// @Param request body domain.RecordContributionRequest true "Contribution"
// @Success 201 {object} domain.RecordContributionResponse
// @Failure 400 {object} domain.APIError "Enter Name and Amount"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /groups/{name}/contributions [post]
func (h *ContributionHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req domain.RecordContributionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.contributionService.Record(r.Context(), groupName(r), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "save contribution")
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

// Import godoc
// @Summary Import an M-Pesa statement
// @Description Accepts the CSV as a multipart "file" field or as a text/csv body
// @Tags Contributions
// @Accept multipart/form-data
// @Accept text/csv
// @Produce json
// @Param name path string true "Client name"
// @Param file formData file false "Statement CSV"
// @Success 201 {object} domain.ImportResultDTO
// @Failure 400 {object} domain.APIError "No valid records found."
// @Security BearerAuth
// @Router /groups/{name}/contributions/import [post]
func (h *ContributionHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxStatementBytes)

	body, err := statementBody(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	result, err := h.contributionService.ImportStatement(r.Context(), groupName(r), body)
	if err != nil {
		respondServiceError(w, h.logger, err, "import statement")
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

// statementBody returns the uploaded file of a multipart request or the raw body
func statementBody(r *http.Request) (io.ReadCloser, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, nil
	}
	if err := r.ParseMultipartForm(maxStatementBytes); err != nil {
		return nil, fmt.Errorf("invalid upload: %w", err)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("missing statement file")
	}
	return file, nil
}

// ListLogistics godoc
// @Summary List in-kind contributions
// @Tags Contributions
// @Produce json
// @Param name path string true "Client name"
// @Success 200 {array} domain.LogisticsRecordDTO
// @Security BearerAuth
// @Router /groups/{name}/logistics [get]
func (h *ContributionHandler) ListLogistics(w http.ResponseWriter, r *http.Request) {
	records, err := h.contributionService.ListLogistics(r.Context(), groupName(r))
	if err != nil {
		respondServiceError(w, h.logger, err, "list logistics")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// MarkFirewood godoc
// @Summary Mark firewood for a member
// @Description Idempotent, a member is recorded once per client
// @Tags Contributions
// @Accept json
// @Produce json
// @Param name path string true "Client name"
// @Param request body domain.MarkFirewoodRequest true "Member"
// @Success 201 {object} domain.MarkFirewoodResponse "Newly marked"
// @Success 200 {object} domain.MarkFirewoodResponse "Already marked"
// @Security BearerAuth
// @Router /groups/{name}/logistics [post]
func (h *ContributionHandler) MarkFirewood(w http.ResponseWriter, r *http.Request) {
	var req domain.MarkFirewoodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.contributionService.RecordFirewood(r.Context(), groupName(r), req.MemberName)
	if err != nil {
		respondServiceError(w, h.logger, err, "save firewood")
		return
	}
	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	respondJSON(w, status, resp)
}

// Events godoc
// @Summary Event types with contributions
// @Tags Contributions
// @Produce json
// @Param name path string true "Client name"
// @Success 200 {array} string
// @Security BearerAuth
// @Router /groups/{name}/events [get]
func (h *ContributionHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.contributionService.EventTypes(r.Context(), groupName(r))
	if err != nil {
		respondServiceError(w, h.logger, err, "list events")
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// Report godoc
// @Summary Generate the messaging update
// @Tags Reports
// @Accept json
// @Produce json
// @Param name path string true "Client name"
// @Param request body domain.ReportRequest true "Event and date"
// @Success 200 {object} domain.ReportDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /groups/{name}/report [post]
func (h *ContributionHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req domain.ReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.reportService.Generate(r.Context(), groupName(r), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "generate report")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ExportCSV godoc
// @Summary Download contributions as CSV
// @Tags Reports
// @Produce text/csv
// @Param name path string true "Client name"
// @Success 200 {file} file
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /groups/{name}/export.csv [get]
func (h *ContributionHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	group := groupName(r)

	// buffered so a failure can still produce an error response
	var buf bytes.Buffer
	if err := h.contributionService.ExportCSV(r.Context(), group, &buf); err != nil {
		respondServiceError(w, h.logger, err, "export contributions")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": report.CSVFilename(group),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
