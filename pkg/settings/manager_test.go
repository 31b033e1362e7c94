package settings

import (
	"path/filepath"
	"testing"

	"f1dashbot/pkg/model"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestToggleNotificationForRoundFinished(t *testing.T) {
	m := newTestManager(t)

	n, err := m.ListNotifications("42")
	if err != nil {
		t.Fatal(err)
	}
	if n[model.SessionRace] || n[model.SessionSprint] || n[model.SessionQualifying] {
		t.Errorf("a new user must start with all toggles off: %v", n)
	}

	if err := m.ToggleNotificationForRoundFinished("42", "100", model.SessionRace); err != nil {
		t.Fatal(err)
	}
	n, err = m.ListNotifications("42")
	if err != nil {
		t.Fatal(err)
	}
	if !n[model.SessionRace] {
		t.Error("race toggle must be on after one flip")
	}
	if n[model.SessionSprint] {
		t.Error("sprint toggle must stay off")
	}

	if err := m.ToggleNotificationForRoundFinished("42", "100", model.SessionRace); err != nil {
		t.Fatal(err)
	}
	n, _ = m.ListNotifications("42")
	if n[model.SessionRace] {
		t.Error("race toggle must be off after a second flip")
	}
}

func TestListUsersForRoundFinished(t *testing.T) {
	m := newTestManager(t)

	if err := m.ToggleNotificationForRoundFinished("42", "100", model.SessionRace); err != nil {
		t.Fatal(err)
	}
	if err := m.ToggleNotificationForRoundFinished("43", "101", model.SessionSprint); err != nil {
		t.Fatal(err)
	}

	users, err := m.ListUsersForRoundFinished(model.SessionRace)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].ChatID != "100" {
		t.Errorf("expected only the race subscriber: %+v", users)
	}

	users, err = m.ListUsersForRoundFinished(model.SessionSprint)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].ChatID != "101" {
		t.Errorf("expected only the sprint subscriber: %+v", users)
	}
}

func TestFavouriteSeason(t *testing.T) {
	m := newTestManager(t)

	season, err := m.FavouriteSeason("42")
	if err != nil {
		t.Fatal(err)
	}
	if season != 0 {
		t.Errorf("a new user has no favourite season, got %d", season)
	}

	if err := m.SetFavouriteSeason("42", "100", 2023); err != nil {
		t.Fatal(err)
	}
	season, err = m.FavouriteSeason("42")
	if err != nil {
		t.Fatal(err)
	}
	if season != 2023 {
		t.Errorf("expected favourite season 2023, got %d", season)
	}

	// the favourite survives notification toggles
	if err := m.ToggleNotificationForRoundFinished("42", "100", model.SessionRace); err != nil {
		t.Fatal(err)
	}
	season, _ = m.FavouriteSeason("42")
	if season != 2023 {
		t.Errorf("favourite season lost after toggle, got %d", season)
	}
}
