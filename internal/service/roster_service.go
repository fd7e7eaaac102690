package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/coach-video-admin/internal/config"
	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/repository"
	"github.com/coach-video-admin/internal/validation"
	"github.com/rs/zerolog"
)

// rosterService is the concrete implementation of RosterService
type rosterService struct {
	directory repository.CoachDirectory
	protected map[string]bool
	groups    map[string][]string
	log       zerolog.Logger
}

func newRosterService(directory repository.CoachDirectory, cfg config.RosterConfig, log zerolog.Logger) *rosterService {
	protected := make(map[string]bool, len(cfg.ProtectedUIDs))
	for _, uid := range cfg.ProtectedUIDs {
		protected[uid] = true
	}
	return &rosterService{
		directory: directory,
		protected: protected,
		groups:    cfg.Groups,
		log:       log.With().Str("service", "roster").Logger(),
	}
}

// Build lists the directory, drops protected accounts and sorts by name
func (s *rosterService) Build(ctx context.Context) (*models.Roster, error) {
	accounts, err := s.directory.ListAll(ctx)
	if err != nil {
		return nil, upstream("list accounts", err)
	}

	coaches := make([]models.Coach, 0, len(accounts))
	for _, a := range accounts {
		if s.protected[a.ID] {
			continue
		}
		coaches = append(coaches, models.Coach{
			ID:    a.ID,
			Name:  validation.NormalizeName(a.Name),
			Email: validation.NormalizeEmail(a.Email),
		})
	}

	sort.Slice(coaches, func(i, j int) bool {
		if coaches[i].Name != coaches[j].Name {
			return coaches[i].Name < coaches[j].Name
		}
		return coaches[i].Email < coaches[j].Email
	})

	roster := &models.Roster{
		Coaches: coaches,
		Names:   make([]string, len(coaches)),
		Emails:  make([]string, len(coaches)),
	}
	for i, c := range coaches {
		roster.Names[i] = c.Name
		roster.Emails[i] = c.Email
	}

	s.log.Debug().
		Int("accounts", len(accounts)).
		Int("coaches", len(coaches)).
		Msg("Roster built")

	return roster, nil
}

// Groups returns the configured groups, or the roster split in three
func (s *rosterService) Groups(ctx context.Context) ([]models.CoachGroup, error) {
	roster, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}
	return GroupCoaches(roster, s.groups), nil
}

// GroupCoaches builds the default coach selections.
// Fixed groups keep only emails present in the roster and are sorted by group name.
// Without fixed groups the roster is cut into three contiguous parts.
func GroupCoaches(roster *models.Roster, fixed map[string][]string) []models.CoachGroup {
	if len(fixed) > 0 {
		byEmail := make(map[string]models.Coach, len(roster.Coaches))
		for _, c := range roster.Coaches {
			byEmail[c.Email] = c
		}

		names := make([]string, 0, len(fixed))
		for name := range fixed {
			names = append(names, name)
		}
		sort.Strings(names)

		groups := make([]models.CoachGroup, 0, len(names))
		for _, name := range names {
			group := models.CoachGroup{Name: name, Coaches: []models.Coach{}}
			for _, email := range fixed[name] {
				if c, ok := byEmail[validation.NormalizeEmail(email)]; ok {
					group.Coaches = append(group.Coaches, c)
				}
			}
			groups = append(groups, group)
		}
		return groups
	}

	n := len(roster.Coaches)
	bounds := []int{0, n / 3, 2 * n / 3, n}
	groups := make([]models.CoachGroup, 0, 3)
	for i := 0; i < 3; i++ {
		part := make([]models.Coach, bounds[i+1]-bounds[i])
		copy(part, roster.Coaches[bounds[i]:bounds[i+1]])
		groups = append(groups, models.CoachGroup{
			Name:    fmt.Sprintf("Random Group %d", i+1),
			Coaches: part,
		})
	}
	return groups
}
