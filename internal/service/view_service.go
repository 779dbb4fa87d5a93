package service

import (
	"context"
	"fmt"

	"github.com/digitaltreasurer/treasurer-api/internal/domain"
	"github.com/digitaltreasurer/treasurer-api/internal/repository"
)

// NoClientsWarning is shown to admins before the first client exists
const NoClientsWarning = "No clients found. Create a client to get started."

// ViewService decides which screen a visitor gets
type ViewService struct {
	groupRepo *repository.GroupRepository
	flatRate  func() float64
}

// NewViewService creates a view router. flatRate supplies the admin's current
// flat-rate setting and may be nil.
func NewViewService(groupRepo *repository.GroupRepository, flatRate func() float64) *ViewService {
	return &ViewService{groupRepo: groupRepo, flatRate: flatRate}
}

// Resolve picks the screen from the login state, the "group" URL parameter and
// the group chosen in the picker. A groupParam that names no existing group is
// ignored.
func (s *ViewService) Resolve(ctx context.Context, loggedIn bool, groupParam, selected string) (*domain.ViewDTO, error) {
	names, err := s.groupRepo.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	if names == nil {
		names = []string{}
	}

	directLink := groupParam != "" && contains(names, groupParam)
	view := &domain.ViewDTO{Groups: names, DirectLink: directLink}

	if loggedIn {
		view.Screen = domain.ScreenAdmin
		if s.flatRate != nil {
			view.FlatRate = s.flatRate()
		}
		switch {
		case len(names) == 0:
			view.Warning = NoClientsWarning
		case directLink:
			view.Group = groupParam
		case selected != "" && contains(names, selected):
			view.Group = selected
		default:
			view.Group = names[0]
		}
		return view, nil
	}

	switch {
	case directLink:
		view.Screen = domain.ScreenPublic
		view.Group = groupParam
	case selected != "" && contains(names, selected):
		view.Screen = domain.ScreenPublic
		view.Group = selected
	default:
		view.Screen = domain.ScreenLanding
	}
	return view, nil
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
