package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/report"
	"github.com/digitaltreasurer/treasurer-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportService builds the copy-paste update for a group's event
type ReportService struct {
	groupRepo        *repository.GroupRepository
	contributionRepo *repository.ContributionRepository
	logisticsRepo    *repository.LogisticsRepository
	groups           *GroupService
	currency         string
	now              func() time.Time
	logger           *zap.Logger
}

func NewReportService(
	groupRepo *repository.GroupRepository,
	contributionRepo *repository.ContributionRepository,
	logisticsRepo *repository.LogisticsRepository,
	groups *GroupService,
	currency string,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		groupRepo:        groupRepo,
		contributionRepo: contributionRepo,
		logisticsRepo:    logisticsRepo,
		groups:           groups,
		currency:         currency,
		now:              time.Now,
		logger:           logger,
	}
}

// Generate renders the update for one event. The firewood section lists every
// member who brought firewood to the group.
func (s *ReportService) Generate(ctx context.Context, groupName string, req *domain.ReportRequest) (*domain.ReportDTO, error) {
	if !req.EventType.IsValid() {
		return nil, ErrInvalidEventType
	}

	date := s.now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		date = parsed
	}

	group, err := s.groupRepo.GetByName(ctx, groupName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}

	contributions, err := s.contributionRepo.ListByGroupAndEvent(ctx, group.Name, req.EventType)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	if len(contributions) == 0 {
		return nil, ErrNoContributions
	}

	firewood, err := s.logisticsRepo.DistinctMembers(ctx, group.Name, domain.ItemFirewood)
	if err != nil {
		return nil, fmt.Errorf("failed to list firewood: %w", err)
	}

	link := s.groups.BuildLink(group.Name)
	text := report.Build(report.Input{
		Group:           group.Name,
		Event:           req.EventType,
		Date:            date,
		Contributions:   contributions,
		FirewoodMembers: firewood,
		Link:            link.URL,
		Currency:        s.currency,
	})

	return &domain.ReportDTO{Group: group.Name, EventType: req.EventType, Text: text}, nil
}
