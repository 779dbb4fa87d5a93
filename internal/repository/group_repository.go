package repository

import (
	"context"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"gorm.io/gorm"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts a group. A taken name yields gorm.ErrDuplicatedKey.
func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *GroupRepository) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	var group domain.Group
	err := r.db.WithContext(ctx).Where("group_name = ?", name).First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// List returns all groups ordered by name
func (r *GroupRepository) List(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	err := r.db.WithContext(ctx).Order("group_name ASC").Find(&groups).Error
	return groups, err
}

// Names returns all group names ordered by name
func (r *GroupRepository) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&domain.Group{}).Order("group_name ASC").Pluck("group_name", &names).Error
	return names, err
}

func (r *GroupRepository) Exists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Group{}).Where("group_name = ?", name).Count(&count).Error
	return count > 0, err
}

// Update saves the mutable attributes of a group
func (r *GroupRepository) Update(ctx context.Context, group *domain.Group) error {
	return updateAttributes(r.db.WithContext(ctx), group.Name, group)
}

// Rename moves a group and all of its contributions and logistics records to
// a new name in one transaction
func (r *GroupRepository) Rename(ctx context.Context, oldName, newName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return rename(tx, oldName, newName)
	})
}

// UpdateAndRename saves the attributes of the group stored as oldName and,
// when group.Name differs, renames it with its records. Nothing is written
// unless every step succeeds.
func (r *GroupRepository) UpdateAndRename(ctx context.Context, oldName string, group *domain.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateAttributes(tx, oldName, group); err != nil {
			return err
		}
		if group.Name == oldName {
			return nil
		}
		return rename(tx, oldName, group.Name)
	})
}

func updateAttributes(db *gorm.DB, name string, group *domain.Group) error {
	result := db.Model(&domain.Group{}).
		Where("group_name = ?", name).
		Updates(map[string]interface{}{
			"event_type":   group.EventType,
			"has_firewood": group.HasFirewood,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func rename(tx *gorm.DB, oldName, newName string) error {
	result := tx.Model(&domain.Group{}).Where("group_name = ?", oldName).Update("group_name", newName)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	if err := tx.Model(&domain.Contribution{}).Scopes(ScopeGroup(oldName)).Update("group_name", newName).Error; err != nil {
		return err
	}
	return tx.Model(&domain.LogisticsRecord{}).Scopes(ScopeGroup(oldName)).Update("group_name", newName).Error
}

// Delete removes a group together with its contributions and logistics records
func (r *GroupRepository) Delete(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(ScopeGroup(name)).Delete(&domain.Contribution{}).Error; err != nil {
			return err
		}
		if err := tx.Scopes(ScopeGroup(name)).Delete(&domain.LogisticsRecord{}).Error; err != nil {
			return err
		}
		result := tx.Where("group_name = ?", name).Delete(&domain.Group{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
