package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/auth"
	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/http/handler"
	"github.com/digitaltreasurer/treasurer-api/internal/repository"
	"github.com/digitaltreasurer/treasurer-api/internal/service"
	"github.com/digitaltreasurer/treasurer-api/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testBaseURL = "https://treasurer.example.com/"

type handlers struct {
	db           *gorm.DB
	auth         *handler.AuthHandler
	group        *handler.GroupHandler
	contribution *handler.ContributionHandler
	public       *handler.PublicHandler
	view         *handler.ViewHandler
	settings     *handler.SettingsHandler
	health       *handler.HealthHandler
}

func setupHandlers(t *testing.T) *handlers {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	contributionRepo := repository.NewContributionRepository(db)
	logisticsRepo := repository.NewLogisticsRepository(db)

	tokens := auth.NewTokenManager("test-secret", time.Hour, "treasurer-test")
	authService := service.NewAuthService(userRepo, tokens, logger)
	groupService := service.NewGroupService(groupRepo, testBaseURL, logger)
	contributionService := service.NewContributionService(contributionRepo, logisticsRepo, groupRepo, db, 200, logger)
	lookupService := service.NewLookupService(groupRepo, contributionRepo, logisticsRepo, 5, "KES", logger)
	reportService := service.NewReportService(groupRepo, contributionRepo, logisticsRepo, groupService, "KES", logger)
	viewService := service.NewViewService(groupRepo, contributionService.FlatRate)

	return &handlers{
		db:           db,
		auth:         handler.NewAuthHandler(authService, logger),
		group:        handler.NewGroupHandler(groupService, logger),
		contribution: handler.NewContributionHandler(contributionService, reportService, logger),
		public:       handler.NewPublicHandler(groupService, lookupService, logger),
		view:         handler.NewViewHandler(viewService, logger),
		settings:     handler.NewSettingsHandler(contributionService, "KES", logger),
		health:       handler.NewHealthHandler(db, "sqlite", logger),
	}
}

func adminContext() context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		Username: "treasurer",
		AuthType: auth.AuthTypeSession,
	})
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(adminContext())
}

// withGroupParam sets the {name} route parameter the way chi does
func withGroupParam(req *http.Request, name string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("name", name)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst))
}

func errorDetail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var apiErr domain.APIError
	decodeBody(t, rr, &apiErr)
	return apiErr.Detail
}
