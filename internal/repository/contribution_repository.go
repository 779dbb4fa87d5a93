package repository

import (
	"context"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"gorm.io/gorm"
)

type ContributionRepository struct {
	db *gorm.DB
}

func NewContributionRepository(db *gorm.DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

func (r *ContributionRepository) Create(ctx context.Context, c *domain.Contribution) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// CreateBatch inserts several contributions in one transaction
func (r *ContributionRepository) CreateBatch(ctx context.Context, contributions []domain.Contribution) error {
	if len(contributions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&contributions).Error
	})
}

// ListByGroup returns the group's contributions in insertion order
func (r *ContributionRepository) ListByGroup(ctx context.Context, group string) ([]domain.Contribution, error) {
	var contributions []domain.Contribution
	err := r.db.WithContext(ctx).Scopes(ScopeGroup(group)).Order("id ASC").Find(&contributions).Error
	return contributions, err
}

func (r *ContributionRepository) ListByGroupAndEvent(ctx context.Context, group string, event domain.EventType) ([]domain.Contribution, error) {
	var contributions []domain.Contribution
	err := r.db.WithContext(ctx).
		Scopes(ScopeGroup(group)).
		Where("event_type = ?", event).
		Order("id ASC").
		Find(&contributions).Error
	return contributions, err
}

// SearchByMember returns contributions whose member name contains fragment,
// matched case-sensitively
func (r *ContributionRepository) SearchByMember(ctx context.Context, group, fragment string) ([]domain.Contribution, error) {
	var contributions []domain.Contribution
	err := r.db.WithContext(ctx).
		Scopes(ScopeGroup(group), ScopeMemberContains(fragment)).
		Order("id ASC").
		Find(&contributions).Error
	return contributions, err
}

// Total sums the amounts of every contribution in the group
func (r *ContributionRepository) Total(ctx context.Context, group string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Contribution{}).
		Scopes(ScopeGroup(group)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ContributionRepository) Count(ctx context.Context, group string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Contribution{}).Scopes(ScopeGroup(group)).Count(&count).Error
	return count, err
}

// Recent returns the n latest contributions, newest first
func (r *ContributionRepository) Recent(ctx context.Context, group string, n int) ([]domain.Contribution, error) {
	var contributions []domain.Contribution
	err := r.db.WithContext(ctx).
		Scopes(ScopeGroup(group)).
		Order("id DESC").
		Limit(n).
		Find(&contributions).Error
	return contributions, err
}

// EventTypes returns the distinct event types recorded for the group in the
// order they first appeared
func (r *ContributionRepository) EventTypes(ctx context.Context, group string) ([]domain.EventType, error) {
	var events []domain.EventType
	err := r.db.WithContext(ctx).Model(&domain.Contribution{}).
		Scopes(ScopeGroup(group)).
		Select("event_type").
		Group("event_type").
		Order("MIN(id) ASC").
		Pluck("event_type", &events).Error
	return events, err
}
