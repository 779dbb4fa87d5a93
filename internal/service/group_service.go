package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/mapper"
	"github.com/digitaltreasurer/treasurer-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GroupService manages client groups
type GroupService struct {
	groupRepo     *repository.GroupRepository
	publicBaseURL string
	logger        *zap.Logger
}

// NewGroupService creates a group service. publicBaseURL is the address
// member links are built on and may be empty.
func NewGroupService(groupRepo *repository.GroupRepository, publicBaseURL string, logger *zap.Logger) *GroupService {
	return &GroupService{
		groupRepo:     groupRepo,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// Create adds a new client group
func (s *GroupService) Create(ctx context.Context, req *domain.CreateGroupRequest) (*domain.GroupDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}

	event := req.EventType
	if event == "" {
		event = domain.EventTypeOther
	}
	if !event.IsValid() {
		return nil, ErrInvalidEventType
	}

	hasFirewood := true
	if req.HasFirewood != nil {
		hasFirewood = *req.HasFirewood
	}

	group := &domain.Group{
		Name:        name,
		CreatedAt:   time.Now(),
		EventType:   event,
		HasFirewood: hasFirewood,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrGroupExists
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("client created", zap.String("group", name))
	dto := mapper.ToGroupDTO(group)
	return &dto, nil
}

func (s *GroupService) List(ctx context.Context) ([]domain.GroupDTO, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return mapper.ToGroupDTOs(groups), nil
}

// Names returns all client names in display order
func (s *GroupService) Names(ctx context.Context) ([]string, error) {
	names, err := s.groupRepo.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *GroupService) Get(ctx context.Context, name string) (*domain.GroupDTO, error) {
	group, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToGroupDTO(group)
	return &dto, nil
}

// load fetches a group, mapping a missing row to ErrGroupNotFound
func (s *GroupService) load(ctx context.Context, name string) (*domain.Group, error) {
	group, err := s.groupRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load client: %w", err)
	}
	return group, nil
}

// Update changes the default event and firewood flag, and renames the group
// when a new name is given. Either every change is saved or none is.
func (s *GroupService) Update(ctx context.Context, name string, req *domain.UpdateGroupRequest) (*domain.GroupDTO, error) {
	group, err := s.load(ctx, name)
	if err != nil {
		return nil, err
	}

	oldName := group.Name
	if req.Name != nil {
		newName := strings.TrimSpace(*req.Name)
		if newName == "" {
			return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
		}
		group.Name = newName
	}
	if req.EventType != nil {
		if !req.EventType.IsValid() {
			return nil, ErrInvalidEventType
		}
		group.EventType = *req.EventType
	}
	if req.HasFirewood != nil {
		group.HasFirewood = *req.HasFirewood
	}

	if err := s.groupRepo.UpdateAndRename(ctx, oldName, group); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrGroupExists
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	if group.Name != oldName {
		s.logger.Info("client renamed", zap.String("from", oldName), zap.String("to", group.Name))
	}

	dto := mapper.ToGroupDTO(group)
	return &dto, nil
}

// Delete removes a group and every record filed under it
func (s *GroupService) Delete(ctx context.Context, name string) error {
	if err := s.groupRepo.Delete(ctx, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.logger.Info("client deleted", zap.String("group", name))
	return nil
}

// Exists reports whether a group with exactly this name exists
func (s *GroupService) Exists(ctx context.Context, name string) (bool, error) {
	return s.groupRepo.Exists(ctx, name)
}

// Link returns the member link for a group
func (s *GroupService) Link(ctx context.Context, name string) (*domain.GroupLinkDTO, error) {
	if _, err := s.load(ctx, name); err != nil {
		return nil, err
	}
	return s.BuildLink(name), nil
}

// BuildLink renders the "?group=" query for name and, with a public base URL
// configured, the full address
func (s *GroupService) BuildLink(name string) *domain.GroupLinkDTO {
	query := "?group=" + QuoteGroupName(name)
	link := &domain.GroupLinkDTO{Group: name, Query: query}
	if s.publicBaseURL != "" {
		link.URL = s.publicBaseURL + query
	}
	return link
}

// QuoteGroupName percent-encodes a group name for a query string, spaces as %20
func QuoteGroupName(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}
