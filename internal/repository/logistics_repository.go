package repository

import (
	"context"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"gorm.io/gorm"
)

type LogisticsRepository struct {
	db *gorm.DB
}

func NewLogisticsRepository(db *gorm.DB) *LogisticsRepository {
	return &LogisticsRepository{db: db}
}

// AddIfAbsent records an in-kind item unless the exact (group, member, item)
// triple already exists. It reports whether a row was inserted.
func (r *LogisticsRepository) AddIfAbsent(ctx context.Context, group, member, item string) (bool, error) {
	record := domain.LogisticsRecord{}
	result := r.db.WithContext(ctx).
		Where("group_name = ? AND member_name = ? AND item_type = ?", group, member, item).
		Attrs(domain.LogisticsRecord{
			GroupName:  group,
			MemberName: member,
			ItemType:   item,
			DateAdded:  time.Now(),
		}).
		FirstOrCreate(&record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByGroup returns the group's logistics records in insertion order
func (r *LogisticsRepository) ListByGroup(ctx context.Context, group string) ([]domain.LogisticsRecord, error) {
	var records []domain.LogisticsRecord
	err := r.db.WithContext(ctx).Scopes(ScopeGroup(group)).Order("id ASC").Find(&records).Error
	return records, err
}

// HasItemForMember reports whether any logistics record in the group has a
// member name containing fragment, matched case-sensitively
func (r *LogisticsRepository) HasItemForMember(ctx context.Context, group, fragment string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.LogisticsRecord{}).
		Scopes(ScopeGroup(group), ScopeMemberContains(fragment)).
		Count(&count).Error
	return count > 0, err
}

// DistinctMembers returns the members who brought item, in first-seen order
func (r *LogisticsRepository) DistinctMembers(ctx context.Context, group, item string) ([]string, error) {
	var members []string
	err := r.db.WithContext(ctx).Model(&domain.LogisticsRecord{}).
		Scopes(ScopeGroup(group)).
		Where("item_type = ?", item).
		Select("member_name").
		Group("member_name").
		Order("MIN(id) ASC").
		Pluck("member_name", &members).Error
	return members, err
}
