package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/mapper"
	"github.com/digitaltreasurer/treasurer-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultRecentLimit is how many entries the public feed shows
const DefaultRecentLimit = 5

// LookupService serves the public, read-only member view of a group
type LookupService struct {
	groupRepo        *repository.GroupRepository
	contributionRepo *repository.ContributionRepository
	logisticsRepo    *repository.LogisticsRepository
	recentLimit      int
	currency         string
	logger           *zap.Logger
}

func NewLookupService(
	groupRepo *repository.GroupRepository,
	contributionRepo *repository.ContributionRepository,
	logisticsRepo *repository.LogisticsRepository,
	recentLimit int,
	currency string,
	logger *zap.Logger,
) *LookupService {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &LookupService{
		groupRepo:        groupRepo,
		contributionRepo: contributionRepo,
		logisticsRepo:    logisticsRepo,
		recentLimit:      recentLimit,
		currency:         currency,
		logger:           logger,
	}
}

func (s *LookupService) ensureGroup(ctx context.Context, name string) error {
	if _, err := s.groupRepo.GetByName(ctx, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to load client: %w", err)
	}
	return nil
}

// Summary returns the group's total collections and latest entries, newest first
func (s *LookupService) Summary(ctx context.Context, groupName string) (*domain.PublicSummaryDTO, error) {
	if err := s.ensureGroup(ctx, groupName); err != nil {
		return nil, err
	}

	recent, err := s.contributionRepo.Recent(ctx, groupName, s.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent contributions: %w", err)
	}

	summary := &domain.PublicSummaryDTO{
		Group:    groupName,
		Currency: s.currency,
		Recent:   make([]domain.RecentEntryDTO, len(recent)),
	}
	for i := range recent {
		summary.Recent[i] = mapper.ToRecentEntryDTO(&recent[i])
	}
	if len(recent) == 0 {
		summary.Message = "No records found for this group."
		return summary, nil
	}

	total, err := s.contributionRepo.Total(ctx, groupName)
	if err != nil {
		return nil, fmt.Errorf("failed to total contributions: %w", err)
	}
	summary.Total = total
	summary.HasData = true
	return summary, nil
}

// Search finds a member's payments by case-sensitive substring. Each match
// carries a firewood badge. With no payments, a matching firewood record
// yields a firewood-only result with the amount pending.
func (s *LookupService) Search(ctx context.Context, groupName, name string) (*domain.MemberSearchDTO, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := s.ensureGroup(ctx, groupName); err != nil {
		return nil, err
	}

	hits, err := s.contributionRepo.SearchByMember(ctx, groupName, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search contributions: %w", err)
	}

	result := &domain.MemberSearchDTO{
		Group:   groupName,
		Query:   name,
		Matches: make([]domain.MemberMatchDTO, 0, len(hits)),
	}

	if len(hits) > 0 {
		badges := make(map[string]bool)
		for i := range hits {
			member := hits[i].MemberName
			firewood, seen := badges[member]
			if !seen {
				firewood, err = s.logisticsRepo.HasItemForMember(ctx, groupName, member)
				if err != nil {
					return nil, fmt.Errorf("failed to check firewood: %w", err)
				}
				badges[member] = firewood
			}
			result.Matches = append(result.Matches, mapper.ToMemberMatchDTO(&hits[i], firewood))
		}
		result.Status = domain.SearchStatusFound
		result.Message = fmt.Sprintf("Found %d record(s)", len(hits))
		return result, nil
	}

	firewoodOnly, err := s.logisticsRepo.HasItemForMember(ctx, groupName, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check firewood: %w", err)
	}
	if firewoodOnly {
		result.Status = domain.SearchStatusFirewoodOnly
		result.Message = "Found Firewood Record. Amount: Pending"
		return result, nil
	}

	result.Status = domain.SearchStatusNotFound
	result.Message = "Name not found. Please check spelling."
	return result, nil
}
