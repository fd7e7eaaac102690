package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/coach-video-admin/internal/config"
	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/service"
)

func TestRoster_Build(t *testing.T) {
	env := newTestEnv(t)
	for _, c := range []models.Coach{
		{ID: "u1", Name: "  zoe  adams", Email: " Zoe@Example.com "},
		{ID: "u2", Name: "BOB RAY", Email: "bob@example.com"},
		{ID: "u3", Name: "alice smith", Email: "alice@example.com"},
		{ID: "u4", Name: "Bob Ray", Email: "another.bob@example.com"},
		{ID: config.DefaultProtectedUIDs[0], Name: "Staff Member", Email: "staff@example.com"},
	} {
		c := c
		env.directory.Accounts[c.ID] = &c
	}

	roster, err := env.services.Roster.Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	wantNames := []string{"Alice Smith", "Bob Ray", "Bob Ray", "Zoe  Adams"}
	wantEmails := []string{"alice@example.com", "another.bob@example.com", "bob@example.com", "zoe@example.com"}
	if !reflect.DeepEqual(roster.Names, wantNames) {
		t.Errorf("Names = %v, want %v", roster.Names, wantNames)
	}
	if !reflect.DeepEqual(roster.Emails, wantEmails) {
		t.Errorf("Emails = %v, want %v", roster.Emails, wantEmails)
	}
	for i, c := range roster.Coaches {
		if c.Name != roster.Names[i] || c.Email != roster.Emails[i] {
			t.Errorf("Coaches[%d] = %+v is not parallel to Names/Emails", i, c)
		}
	}
}

func TestRoster_Build_ProtectedFromConfig(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Roster.ProtectedUIDs = []string{"u2"}
	env.build()
	env.directory.Accounts["u1"] = &models.Coach{ID: "u1", Name: "A", Email: "a@x.com"}
	env.directory.Accounts["u2"] = &models.Coach{ID: "u2", Name: "B", Email: "b@x.com"}

	roster, err := env.services.Roster.Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !reflect.DeepEqual(roster.Emails, []string{"a@x.com"}) {
		t.Errorf("Expected only unprotected coach, got %v", roster.Emails)
	}
}

func TestRoster_Build_DirectoryError(t *testing.T) {
	env := newTestEnv(t)
	env.directory.ListError = errBackend

	_, err := env.services.Roster.Build(context.Background())
	if !errors.Is(err, service.ErrUpstream) {
		t.Errorf("Expected ErrUpstream, got %v", err)
	}
	if !errors.Is(err, errBackend) {
		t.Errorf("Expected wrapped backend error, got %v", err)
	}
}

func rosterOf(n int) *models.Roster {
	r := &models.Roster{}
	for i := 0; i < n; i++ {
		c := models.Coach{ID: string(rune('a' + i)), Name: string(rune('A' + i)), Email: string(rune('a'+i)) + "@x.com"}
		r.Coaches = append(r.Coaches, c)
		r.Names = append(r.Names, c.Name)
		r.Emails = append(r.Emails, c.Email)
	}
	return r
}

func TestGroupCoaches_Partitions(t *testing.T) {
	tests := []struct {
		n     int
		sizes []int
	}{
		{n: 0, sizes: []int{0, 0, 0}},
		{n: 2, sizes: []int{0, 1, 1}},
		{n: 6, sizes: []int{2, 2, 2}},
		{n: 7, sizes: []int{2, 2, 3}},
		{n: 8, sizes: []int{2, 3, 3}},
	}

	for _, tt := range tests {
		groups := service.GroupCoaches(rosterOf(tt.n), nil)
		if len(groups) != 3 {
			t.Fatalf("n=%d: expected 3 groups, got %d", tt.n, len(groups))
		}
		total := 0
		for i, g := range groups {
			if want := "Random Group " + string(rune('1'+i)); g.Name != want {
				t.Errorf("n=%d: group %d named %q, want %q", tt.n, i, g.Name, want)
			}
			if len(g.Coaches) != tt.sizes[i] {
				t.Errorf("n=%d: group %d has %d coaches, want %d", tt.n, i, len(g.Coaches), tt.sizes[i])
			}
			total += len(g.Coaches)
		}
		if total != tt.n {
			t.Errorf("n=%d: partitions cover %d coaches", tt.n, total)
		}
	}
}

func TestGroupCoaches_Fixed(t *testing.T) {
	roster := rosterOf(4)
	fixed := map[string][]string{
		"Seniors": {"B@X.com", "missing@x.com"},
		"Juniors": {"a@x.com", "d@x.com"},
	}

	groups := service.GroupCoaches(roster, fixed)
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0].Name != "Juniors" || groups[1].Name != "Seniors" {
		t.Errorf("Expected groups sorted by name, got %s, %s", groups[0].Name, groups[1].Name)
	}
	if len(groups[0].Coaches) != 2 {
		t.Errorf("Expected 2 juniors, got %d", len(groups[0].Coaches))
	}
	if len(groups[1].Coaches) != 1 || groups[1].Coaches[0].Email != "b@x.com" {
		t.Errorf("Expected seniors filtered to roster, got %+v", groups[1].Coaches)
	}
}

func TestRoster_Groups(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Roster.Groups = map[string][]string{"Morning": {"a@x.com"}}
	env.build()
	env.directory.Accounts["u1"] = &models.Coach{ID: "u1", Name: "a", Email: "a@x.com"}

	groups, err := env.services.Roster.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups failed: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "Morning" || len(groups[0].Coaches) != 1 {
		t.Errorf("Unexpected groups: %+v", groups)
	}
}
