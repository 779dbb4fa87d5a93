package mapper

import (
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
)

const (
	isoLayout  = "2006-01-02T15:04:05Z"
	dateLayout = "2006-01-02"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}

// ToGroupDTO converts Group to GroupDTO
func ToGroupDTO(group *domain.Group) domain.GroupDTO {
	return domain.GroupDTO{
		Name:        group.Name,
		CreatedAt:   formatTime(group.CreatedAt),
		EventType:   group.EventType,
		HasFirewood: group.HasFirewood,
	}
}

func ToGroupDTOs(groups []domain.Group) []domain.GroupDTO {
	dtos := make([]domain.GroupDTO, len(groups))
	for i := range groups {
		dtos[i] = ToGroupDTO(&groups[i])
	}
	return dtos
}

// ToContributionDTO converts Contribution to ContributionDTO
func ToContributionDTO(c *domain.Contribution) domain.ContributionDTO {
	return domain.ContributionDTO{
		ID:              c.ID,
		GroupName:       c.GroupName,
		MemberName:      c.MemberName,
		Amount:          c.Amount,
		PaymentMode:     c.PaymentMode,
		TransactionCode: c.TransactionCode,
		EventType:       c.EventType,
		DateAdded:       formatTime(c.DateAdded),
	}
}

func ToContributionDTOs(contributions []domain.Contribution) []domain.ContributionDTO {
	dtos := make([]domain.ContributionDTO, len(contributions))
	for i := range contributions {
		dtos[i] = ToContributionDTO(&contributions[i])
	}
	return dtos
}

// ToLogisticsRecordDTO converts LogisticsRecord to LogisticsRecordDTO
func ToLogisticsRecordDTO(r *domain.LogisticsRecord) domain.LogisticsRecordDTO {
	return domain.LogisticsRecordDTO{
		ID:         r.ID,
		GroupName:  r.GroupName,
		MemberName: r.MemberName,
		ItemType:   r.ItemType,
		DateAdded:  formatTime(r.DateAdded),
	}
}

func ToLogisticsRecordDTOs(records []domain.LogisticsRecord) []domain.LogisticsRecordDTO {
	dtos := make([]domain.LogisticsRecordDTO, len(records))
	for i := range records {
		dtos[i] = ToLogisticsRecordDTO(&records[i])
	}
	return dtos
}

// ToMemberMatchDTO converts a contribution hit of a member lookup
func ToMemberMatchDTO(c *domain.Contribution, firewood bool) domain.MemberMatchDTO {
	date := ""
	if !c.DateAdded.IsZero() {
		date = c.DateAdded.Format(dateLayout)
	}
	return domain.MemberMatchDTO{
		MemberName:  c.MemberName,
		Amount:      c.Amount,
		PaymentMode: c.PaymentMode,
		EventType:   c.EventType,
		Date:        date,
		Firewood:    firewood,
	}
}

// ToRecentEntryDTO keeps only the name and amount shown in the public feed
func ToRecentEntryDTO(c *domain.Contribution) domain.RecentEntryDTO {
	return domain.RecentEntryDTO{MemberName: c.MemberName, Amount: c.Amount}
}
