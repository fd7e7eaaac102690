package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coach-video-admin/internal/app"
	"github.com/coach-video-admin/internal/mocks"
	"github.com/coach-video-admin/internal/models"
	"github.com/coach-video-admin/internal/service"
)

type cliMocks struct {
	roster      *mocks.MockRosterService
	catalog     *mocks.MockCatalogService
	assignment  *mocks.MockAssignmentService
	onboarding  *mocks.MockOnboardingService
	offboarding *mocks.MockOffboardingService
	ingestion   *mocks.MockIngestionService
	jobs        *mocks.MockJobService
}

func newCLIMocks() *cliMocks {
	return &cliMocks{
		roster: &mocks.MockRosterService{
			Roster: &models.Roster{
				Coaches: []models.Coach{{ID: "u1", Name: "Ana", Email: "ana@x.com"}},
				Names:   []string{"Ana"},
				Emails:  []string{"ana@x.com"},
			},
			CoachGroups: []models.CoachGroup{
				{Name: "Random Group 1", Coaches: []models.Coach{{Name: "Ana", Email: "ana@x.com"}}},
			},
		},
		catalog: &mocks.MockCatalogService{
			Catalog: &models.Catalog{
				Categories: []string{"warmups"},
				Videos:     map[string][]string{"warmups": {"jog", "stretch"}},
			},
			Loads: []models.VideoLoad{{Video: "jog", Coaches: 2}},
		},
		assignment:  &mocks.MockAssignmentService{},
		onboarding:  &mocks.MockOnboardingService{},
		offboarding: &mocks.MockOffboardingService{},
		ingestion: &mocks.MockIngestionService{
			Report: &models.IngestReport{New: 1, Existing: 4, Added: []string{"jog"}},
		},
		jobs: mocks.NewMockJobService(),
	}
}

func (m *cliMocks) services() *service.Services {
	return &service.Services{
		Roster:      m.roster,
		Catalog:     m.catalog,
		Assignment:  m.assignment,
		Onboarding:  m.onboarding,
		Offboarding: m.offboarding,
		Ingestion:   m.ingestion,
		Job:         m.jobs,
	}
}

func runCLI(t *testing.T, m *cliMocks, args ...string) (string, error) {
	t.Helper()
	cmd, cctx := newRootCommand(m.services())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := execute(context.Background(), cmd, cctx)
	return out.String(), err
}

func TestRosterCommand(t *testing.T) {
	m := newCLIMocks()

	out, err := runCLI(t, m, "roster")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "ana@x.com") {
		t.Errorf("Expected roster table to list ana@x.com, got:\n%s", out)
	}
}

func TestRosterCommand_JSON(t *testing.T) {
	m := newCLIMocks()

	out, err := runCLI(t, m, "roster", "--json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var roster models.Roster
	if err := json.Unmarshal([]byte(out), &roster); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", out, err)
	}
	if len(roster.Emails) != 1 || roster.Emails[0] != "ana@x.com" {
		t.Errorf("Expected [ana@x.com], got %v", roster.Emails)
	}
}

func TestGroupsCommand(t *testing.T) {
	out, err := runCLI(t, newCLIMocks(), "groups")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "Random Group 1") {
		t.Errorf("Expected group name in output, got:\n%s", out)
	}
}

func TestCatalogAndDistributionCommands(t *testing.T) {
	m := newCLIMocks()

	out, err := runCLI(t, m, "catalog")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "jog, stretch") {
		t.Errorf("Expected catalog row, got:\n%s", out)
	}

	out, err = runCLI(t, m, "distribution")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "jog") {
		t.Errorf("Expected distribution row, got:\n%s", out)
	}
}

func TestUpstreamErrorIsReturned(t *testing.T) {
	m := newCLIMocks()
	m.roster.Err = errors.New("directory unavailable")

	if _, err := runCLI(t, m, "roster"); err == nil || !strings.Contains(err.Error(), "directory unavailable") {
		t.Errorf("Expected directory error, got %v", err)
	}
}

func TestAssignCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		calls   int
	}{
		{name: "assign", args: []string{"assign", "--videos", "jog,stretch", "--coaches", "ana@x.com"}, calls: 1},
		{name: "missing videos", args: []string{"assign", "--coaches", "ana@x.com"}, wantErr: true},
		{name: "missing coaches", args: []string{"assign", "--videos", "jog"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newCLIMocks()
			out, err := runCLI(t, m, tt.args...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if m.assignment.AssignCalls != tt.calls {
				t.Errorf("Expected %d assign calls, got %d", tt.calls, m.assignment.AssignCalls)
			}
			if !tt.wantErr {
				if len(m.assignment.AssignedVideos) != 2 {
					t.Errorf("Expected 2 videos, got %v", m.assignment.AssignedVideos)
				}
				if !strings.Contains(out, "Updated 2 videos") {
					t.Errorf("Expected update summary, got %q", out)
				}
			}
		})
	}
}

func TestResetCommand_RequiresConfirmation(t *testing.T) {
	m := newCLIMocks()

	if _, err := runCLI(t, m, "reset"); err == nil {
		t.Error("Expected error without --yes")
	}
	if m.assignment.ResetCalls != 0 {
		t.Errorf("Expected no reset, got %d calls", m.assignment.ResetCalls)
	}

	out, err := runCLI(t, m, "reset", "--yes")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m.assignment.ResetCalls != 1 {
		t.Errorf("Expected 1 reset call, got %d", m.assignment.ResetCalls)
	}
	if !strings.Contains(out, "Reset 3 videos") {
		t.Errorf("Expected reset summary, got %q", out)
	}
}

func TestIngestCommand(t *testing.T) {
	m := newCLIMocks()
	m.ingestion.Report.Collisions = []models.Collision{{Key: "jog", BlobName: "drills/jog.mp4", ExistingURL: "https://x/warmups/jog.mp4"}}

	out, err := runCLI(t, m, "ingest")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{"Added video jog", "Added 1 new videos", "4 videos already existed", "drills/jog.mp4"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestOnboardCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "coaches.csv")
	if err := os.WriteFile(input, []byte("name,email\nBo,bo@x.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "logins.csv")

	m := newCLIMocks()
	m.onboarding.Result = &models.OnboardResult{
		Outcome:     models.OnboardCreated,
		JobID:       "job-1",
		Credentials: []models.Credential{{Name: "Bo", Email: "bo@x.com", Password: "Bo1234"}},
	}

	out, err := runCLI(t, m, "onboard", input, "-o", output)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(m.onboarding.Batches) != 1 || len(m.onboarding.Batches[0].Rows) != 1 {
		t.Fatalf("Expected one batch with one row, got %+v", m.onboarding.Batches)
	}
	if !strings.Contains(out, "Created 1 coaches") {
		t.Errorf("Expected summary, got %q", out)
	}

	written, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("Expected credentials file: %v", err)
	}
	if want := "name,email,password\nBo,bo@x.com,Bo1234\n"; string(written) != want {
		t.Errorf("Expected %q, got %q", want, string(written))
	}
}

func TestOnboardCommand_Outcomes(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "coaches.csv")
	if err := os.WriteFile(input, []byte("name,email\nBo,bo@x.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		result  *models.OnboardResult
		wantErr bool
		want    string
	}{
		{
			name:   "nothing new",
			result: &models.OnboardResult{Outcome: models.OnboardNoNewCoaches},
			want:   "No new coaches to add",
		},
		{
			name:    "rejected",
			result:  &models.OnboardResult{Outcome: models.OnboardRejected, Invalid: []string{"bad-email"}},
			wantErr: true,
			want:    "\"bad-email\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newCLIMocks()
			m.onboarding.Result = tt.result
			out, err := runCLI(t, m, "onboard", input, "-o", filepath.Join(dir, "unused.csv"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("Expected output to contain %q, got %q", tt.want, out)
			}
		})
	}
	if _, err := os.Stat(filepath.Join(dir, "unused.csv")); !os.IsNotExist(err) {
		t.Errorf("Expected no credentials file, got %v", err)
	}
}

func TestOnboardCommand_BadHeader(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "coaches.csv")
	if err := os.WriteFile(input, []byte("full name,mail\nBo,bo@x.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	m := newCLIMocks()
	_, err := runCLI(t, m, "onboard", input)
	if err == nil || !strings.Contains(err.Error(), "missing required columns") {
		t.Errorf("Expected schema error, got %v", err)
	}
	if len(m.onboarding.Batches) != 0 {
		t.Errorf("Expected onboarding not to run, got %d batches", len(m.onboarding.Batches))
	}
}

func TestOffboardCommand(t *testing.T) {
	m := newCLIMocks()

	out, err := runCLI(t, m, "offboard", "ana@x.com", "bo@x.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(m.offboarding.Emails) != 2 {
		t.Errorf("Expected 2 emails, got %v", m.offboarding.Emails)
	}
	if !strings.Contains(out, "Deleted bo@x.com") {
		t.Errorf("Expected deletion line, got %q", out)
	}

	if _, err := runCLI(t, m, "offboard"); err == nil {
		t.Error("Expected error without emails")
	}
}

func TestJobsCommands(t *testing.T) {
	m := newCLIMocks()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.jobs.Recent = []*models.Job{{ID: "job-1", Type: models.JobTypeIngest, Status: models.JobStatusCompleted, TotalRecords: 3, CreatedAt: created}}
	m.jobs.Jobs["job-1"] = &models.JobResponse{
		Job:    *m.jobs.Recent[0],
		Errors: []models.ValidationError{{Line: 0, Field: "key", Message: "category collision", Value: "jog"}},
	}

	out, err := runCLI(t, m, "jobs")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "job-1") || !strings.Contains(out, "ingest") {
		t.Errorf("Expected job row, got:\n%s", out)
	}

	out, err = runCLI(t, m, "jobs", "show", "job-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "category collision") {
		t.Errorf("Expected job error row, got:\n%s", out)
	}

	if _, err := runCLI(t, m, "jobs", "show", "missing"); err == nil {
		t.Error("Expected error for unknown job")
	}
	if _, err := runCLI(t, m, "jobs", "--limit", "0"); err == nil {
		t.Error("Expected error for invalid limit")
	}
}

func TestOnboardCommand_InterruptedWritesCredentials(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "coaches.csv")
	if err := os.WriteFile(input, []byte("name,email\nBo,bo@x.com\nCy,cy@x.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "logins.csv")

	m := newCLIMocks()
	m.onboarding.Result = &models.OnboardResult{
		Outcome:     models.OnboardCreated,
		Credentials: []models.Credential{{Name: "Bo", Email: "bo@x.com", Password: "Bo1234"}},
	}
	m.onboarding.Err = errors.New("deadline exceeded")

	out, err := runCLI(t, m, "onboard", input, "-o", output)
	if err == nil || !strings.Contains(err.Error(), "deadline exceeded") {
		t.Fatalf("Expected the onboarding error, got %v", err)
	}
	if !strings.Contains(out, "Created 1 coaches before the error") {
		t.Errorf("Expected partial summary, got %q", out)
	}
	written, readErr := os.ReadFile(output)
	if readErr != nil {
		t.Fatalf("Expected credentials file: %v", readErr)
	}
	if !strings.Contains(string(written), "bo@x.com,Bo1234") {
		t.Errorf("Expected created login in file, got %q", string(written))
	}
}

func TestOnboardCommand_AllFailed(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "coaches.csv")
	if err := os.WriteFile(input, []byte("name,email\nBo,bo@x.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "logins.csv")

	m := newCLIMocks()
	m.onboarding.Result = &models.OnboardResult{
		Outcome:  models.OnboardFailed,
		Failures: []models.ItemError{{Item: "bo@x.com", Message: "create account: EMAIL_EXISTS"}},
	}

	out, err := runCLI(t, m, "onboard", input, "-o", output)
	if err == nil {
		t.Fatal("Expected error when no account was created")
	}
	if !strings.Contains(out, "Failed bo@x.com") {
		t.Errorf("Expected failure line, got %q", out)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Errorf("Expected no credentials file, got %v", statErr)
	}
}

func TestExecute_ClosesClientsOnError(t *testing.T) {
	cmd, cctx := newRootCommand(newCLIMocks().services())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"assign"})
	cctx.app = &app.App{}

	if err := execute(context.Background(), cmd, cctx); err == nil {
		t.Fatal("Expected error from assign without flags")
	}
	if cctx.app != nil {
		t.Error("Expected the application to be closed after a failed command")
	}
}
