package service_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/coach-video-admin/internal/config"
	"github.com/coach-video-admin/internal/models"
)

func TestOffboard(t *testing.T) {
	env := newTestEnv(t)
	env.directory.Accounts["u1"] = &models.Coach{ID: "u1", Name: "A", Email: "a@example.com"}
	env.directory.Accounts["u2"] = &models.Coach{ID: "u2", Name: "B", Email: "b@example.com"}
	env.directory.Accounts["u3"] = &models.Coach{ID: "u3", Name: "C", Email: "c@example.com"}
	env.directory.DeleteErrors["u2"] = errBackend

	result, err := env.services.Offboarding.Offboard(context.Background(),
		[]string{"A@example.com", "b@example.com", "ghost@example.com", "c@example.com", "a@example.com"})
	if err != nil {
		t.Fatalf("Offboard failed: %v", err)
	}

	if want := []string{"a@example.com", "c@example.com"}; !reflect.DeepEqual(result.Deleted, want) {
		t.Errorf("Deleted = %v, want %v", result.Deleted, want)
	}
	if len(result.Failures) != 2 {
		t.Fatalf("Expected 2 failures, got %+v", result.Failures)
	}
	if result.Failures[0].Item != "b@example.com" || result.Failures[1].Item != "ghost@example.com" {
		t.Errorf("Unexpected failures: %+v", result.Failures)
	}
	if _, ok := env.directory.Accounts["u2"]; !ok {
		t.Error("Account with failing delete should remain")
	}
	if len(env.directory.Accounts) != 1 {
		t.Errorf("Expected 1 account left, got %d", len(env.directory.Accounts))
	}

	job := env.jobs.Last()
	if job.TotalRecords != 4 || job.SuccessfulCount != 2 || job.FailedCount != 2 {
		t.Errorf("Unexpected job: %+v", job)
	}
}

func TestOffboard_ProtectedAccount(t *testing.T) {
	env := newTestEnv(t)
	uid := config.DefaultProtectedUIDs[1]
	env.directory.Accounts[uid] = &models.Coach{ID: uid, Name: "Staff", Email: "staff@example.com"}

	result, err := env.services.Offboarding.Offboard(context.Background(), []string{"staff@example.com"})
	if err != nil {
		t.Fatalf("Offboard failed: %v", err)
	}
	if len(result.Deleted) != 0 || len(result.Failures) != 1 {
		t.Errorf("Expected protected account to be refused, got %+v", result)
	}
	if _, ok := env.directory.Accounts[uid]; !ok {
		t.Error("Protected account was deleted")
	}
}

func TestOffboard_LookupError(t *testing.T) {
	env := newTestEnv(t)
	env.directory.GetError = errBackend

	result, err := env.services.Offboarding.Offboard(context.Background(), []string{"a@example.com", "b@example.com"})
	if err != nil {
		t.Fatalf("Offboard failed: %v", err)
	}
	if len(result.Failures) != 2 {
		t.Errorf("Expected every email to fail, got %+v", result.Failures)
	}
	if result.Deleted == nil || len(result.Deleted) != 0 {
		t.Error("Expected empty, non-nil deleted list")
	}
}
