package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/raysh454/siteshift/internal/interfaces"
	"github.com/raysh454/siteshift/internal/model"
	"github.com/raysh454/siteshift/internal/store"
)

func openTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.Open("file::memory:?cache=shared", interfaces.NewTestLogger(false))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_SaveThenLoadRoundTrips(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	project := &model.Project{
		ID:         "proj-1",
		OldBaseURL: "https://old.example.com",
		NewBaseURL: "https://new.example.com",
		Inputs:     model.InputFiles{OldSitemap: "old-sitemap.xml"},
		Status:     model.ProjectProcessing,
		Progress:   model.ProgressRecord{Stage: model.StageComparingURLs, Percentage: 50, StartedAt: time.Now().UTC()},
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Save(ctx, project); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load(ctx, "proj-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.OldBaseURL != project.OldBaseURL || loaded.NewBaseURL != project.NewBaseURL {
		t.Errorf("base URLs did not round-trip: %+v", loaded)
	}
	if loaded.Status != model.ProjectProcessing {
		t.Errorf("status did not round-trip: %v", loaded.Status)
	}
	if loaded.Progress.Stage != model.StageComparingURLs || loaded.Progress.Percentage != 50 {
		t.Errorf("progress did not round-trip: %+v", loaded.Progress)
	}
	if loaded.Inputs.OldSitemap != "old-sitemap.xml" {
		t.Errorf("inputs did not round-trip: %+v", loaded.Inputs)
	}
}

func TestSQLiteStore_SaveIsUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	project := &model.Project{ID: "proj-2", OldBaseURL: "https://old.example.com", NewBaseURL: "https://new.example.com", Status: model.ProjectPending}
	if err := s.Save(ctx, project); err != nil {
		t.Fatalf("Save: %v", err)
	}

	project.Status = model.ProjectCompleted
	project.Progress = model.ProgressRecord{Stage: model.StageCompleted, Percentage: 100}
	if err := s.Save(ctx, project); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := s.Load(ctx, "proj-2")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Status != model.ProjectCompleted || loaded.Progress.Percentage != 100 {
		t.Errorf("expected upserted state, got %+v", loaded)
	}
}

func TestSQLiteStore_LoadMissingReturnsErrProjectNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load(context.Background(), "does-not-exist")
	if !errors.Is(err, store.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestSQLiteStore_DeleteRemovesProject(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	project := &model.Project{ID: "proj-3", OldBaseURL: "a", NewBaseURL: "b", Status: model.ProjectPending}
	if err := s.Save(ctx, project); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "proj-3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(ctx, "proj-3"); !errors.Is(err, store.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound after delete, got %v", err)
	}
}
