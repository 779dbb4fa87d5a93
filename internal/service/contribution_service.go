package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/mapper"
	"github.com/digitaltreasurer/treasurer-api/internal/mpesa"
	"github.com/digitaltreasurer/treasurer-api/internal/report"
	"github.com/digitaltreasurer/treasurer-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultFlatRate is the one-click contribution amount before an admin changes it
const DefaultFlatRate = 200.0

// ContributionService records money and in-kind contributions for a group
type ContributionService struct {
	contributionRepo *repository.ContributionRepository
	logisticsRepo    *repository.LogisticsRepository
	groupRepo        *repository.GroupRepository
	db               *gorm.DB
	logger           *zap.Logger

	mu       sync.RWMutex
	flatRate float64
}

func NewContributionService(
	contributionRepo *repository.ContributionRepository,
	logisticsRepo *repository.LogisticsRepository,
	groupRepo *repository.GroupRepository,
	db *gorm.DB,
	flatRate float64,
	logger *zap.Logger,
) *ContributionService {
	if flatRate <= 0 {
		flatRate = DefaultFlatRate
	}
	return &ContributionService{
		contributionRepo: contributionRepo,
		logisticsRepo:    logisticsRepo,
		groupRepo:        groupRepo,
		db:               db,
		logger:           logger,
		flatRate:         flatRate,
	}
}

// FlatRate returns the current flat-rate amount
func (s *ContributionService) FlatRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flatRate
}

// SetFlatRate changes the flat-rate amount for every admin of this process
func (s *ContributionService) SetFlatRate(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: flat rate must be greater than zero", ErrInvalidInput)
	}
	s.mu.Lock()
	s.flatRate = amount
	s.mu.Unlock()
	s.logger.Info("flat rate changed", zap.Float64("amount", amount))
	return nil
}

func (s *ContributionService) loadGroup(ctx context.Context, name string) (*domain.Group, error) {
	group, err := s.groupRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	return group, nil
}

// Record saves a contribution and, when asked, marks the member's firewood in
// the same transaction
func (s *ContributionService) Record(ctx context.Context, groupName string, req *domain.RecordContributionRequest) (*domain.RecordContributionResponse, error) {
	group, err := s.loadGroup(ctx, groupName)
	if err != nil {
		return nil, err
	}

	member := strings.TrimSpace(req.MemberName)
	amount := req.Amount
	if req.UseFlatRate {
		amount = s.FlatRate()
	}
	if member == "" || amount <= 0 {
		return nil, ErrMissingNameOrAmount
	}

	mode := req.PaymentMode
	if mode == "" {
		mode = domain.PaymentModeMpesa
	}
	if !mode.IsValid() {
		return nil, ErrInvalidPaymentMode
	}

	event := req.EventType
	if event == "" {
		event = group.EventType
	}
	if !event.IsValid() {
		return nil, ErrInvalidEventType
	}

	if req.Firewood && !group.HasFirewood {
		return nil, ErrFirewoodDisabled
	}

	contribution := &domain.Contribution{
		GroupName:       group.Name,
		MemberName:      member,
		Amount:          amount,
		PaymentMode:     mode,
		TransactionCode: strings.TrimSpace(req.TransactionCode),
		EventType:       event,
		DateAdded:       time.Now(),
	}

	firewoodRecorded := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewContributionRepository(tx).Create(ctx, contribution); err != nil {
			return fmt.Errorf("failed to save contribution: %w", err)
		}
		if req.Firewood {
			created, err := repository.NewLogisticsRepository(tx).AddIfAbsent(ctx, group.Name, member, domain.ItemFirewood)
			if err != nil {
				return fmt.Errorf("failed to save firewood: %w", err)
			}
			firewoodRecorded = created
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contribution recorded",
		zap.String("group", group.Name),
		zap.String("member", member),
		zap.Float64("amount", amount),
		zap.String("payment_mode", string(mode)),
	)

	return &domain.RecordContributionResponse{
		Contribution:     mapper.ToContributionDTO(contribution),
		FirewoodRecorded: firewoodRecorded,
		Message:          fmt.Sprintf("Saved: %s - %s", member, report.FormatCSVAmount(amount)),
	}, nil
}

// RecordFirewood marks a member as having brought firewood, without money
func (s *ContributionService) RecordFirewood(ctx context.Context, groupName, memberName string) (*domain.MarkFirewoodResponse, error) {
	group, err := s.loadGroup(ctx, groupName)
	if err != nil {
		return nil, err
	}
	member := strings.TrimSpace(memberName)
	if member == "" {
		return nil, fmt.Errorf("%w: member name is required", ErrInvalidInput)
	}
	if !group.HasFirewood {
		return nil, ErrFirewoodDisabled
	}

	created, err := s.logisticsRepo.AddIfAbsent(ctx, group.Name, member, domain.ItemFirewood)
	if err != nil {
		return nil, fmt.Errorf("failed to save firewood: %w", err)
	}

	return &domain.MarkFirewoodResponse{
		MemberName: member,
		Created:    created,
		Message:    fmt.Sprintf("Firewood marked for %s", member),
	}, nil
}

// List returns the group's contributions in the order they were recorded
func (s *ContributionService) List(ctx context.Context, groupName string) ([]domain.ContributionDTO, error) {
	if _, err := s.loadGroup(ctx, groupName); err != nil {
		return nil, err
	}
	contributions, err := s.contributionRepo.ListByGroup(ctx, groupName)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	return mapper.ToContributionDTOs(contributions), nil
}

func (s *ContributionService) ListLogistics(ctx context.Context, groupName string) ([]domain.LogisticsRecordDTO, error) {
	if _, err := s.loadGroup(ctx, groupName); err != nil {
		return nil, err
	}
	records, err := s.logisticsRepo.ListByGroup(ctx, groupName)
	if err != nil {
		return nil, fmt.Errorf("failed to list logistics: %w", err)
	}
	return mapper.ToLogisticsRecordDTOs(records), nil
}

// EventTypes returns the events that have contributions in this group
func (s *ContributionService) EventTypes(ctx context.Context, groupName string) ([]domain.EventType, error) {
	if _, err := s.loadGroup(ctx, groupName); err != nil {
		return nil, err
	}
	events, err := s.contributionRepo.EventTypes(ctx, groupName)
	if err != nil {
		return nil, fmt.Errorf("failed to list event types: %w", err)
	}
	if events == nil {
		events = []domain.EventType{}
	}
	return events, nil
}

// ImportStatement records every payment of a CSV statement export as an
// M-Pesa contribution under the group's default event
func (s *ContributionService) ImportStatement(ctx context.Context, groupName string, r io.Reader) (*domain.ImportResultDTO, error) {
	group, err := s.loadGroup(ctx, groupName)
	if err != nil {
		return nil, err
	}

	rows, skipped, err := mpesa.ParseStatement(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(rows) == 0 {
		return nil, ErrNothingToImport
	}

	now := time.Now()
	contributions := make([]domain.Contribution, len(rows))
	for i, row := range rows {
		contributions[i] = domain.Contribution{
			GroupName:       group.Name,
			MemberName:      row.MemberName,
			Amount:          row.Amount,
			PaymentMode:     domain.PaymentModeMpesa,
			TransactionCode: row.Code,
			EventType:       group.EventType,
			DateAdded:       now,
		}
	}
	if err := s.contributionRepo.CreateBatch(ctx, contributions); err != nil {
		return nil, fmt.Errorf("failed to import statement: %w", err)
	}

	s.logger.Info("statement imported",
		zap.String("group", group.Name),
		zap.Int("imported", len(rows)),
		zap.Int("skipped", skipped),
	)
	return &domain.ImportResultDTO{Imported: len(rows), Skipped: skipped}, nil
}

// ExportCSV writes all of the group's contributions as CSV
func (s *ContributionService) ExportCSV(ctx context.Context, groupName string, w io.Writer) error {
	if _, err := s.loadGroup(ctx, groupName); err != nil {
		return err
	}
	contributions, err := s.contributionRepo.ListByGroup(ctx, groupName)
	if err != nil {
		return fmt.Errorf("failed to list contributions: %w", err)
	}
	return report.WriteCSV(w, contributions)
}

// ParseSMS pre-fills a contribution from a pasted M-Pesa confirmation
func (s *ContributionService) ParseSMS(message string) (*domain.ParsedSMSDTO, error) {
	sms, err := mpesa.ParseSMS(message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &domain.ParsedSMSDTO{
		TransactionCode: sms.Code,
		Amount:          sms.Amount,
		FirstName:       sms.FirstName,
		SecondName:      sms.SecondName,
		MemberName:      sms.MemberName(),
	}, nil
}
