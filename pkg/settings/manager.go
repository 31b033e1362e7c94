package settings

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"f1dashbot/pkg/model"
)

type TelegramUser struct {
	ID     string
	Name   string
	ChatID string
}

// Notifications holds a user's per-session-kind toggles.
type Notifications map[string]bool

func AllEnabled() Notifications {
	return Notifications{
		model.SessionRace:       true,
		model.SessionSprint:     true,
		model.SessionQualifying: true,
	}
}

func AllDisabled() Notifications {
	return Notifications{
		model.SessionRace:       false,
		model.SessionSprint:     false,
		model.SessionQualifying: false,
	}
}

func (n Notifications) RaceSymbol() string {
	return symbolStatus(n[model.SessionRace])
}

func (n Notifications) SprintSymbol() string {
	return symbolStatus(n[model.SessionSprint])
}

func (n Notifications) QualifyingSymbol() string {
	return symbolStatus(n[model.SessionQualifying])
}

func (n Notifications) String() string {
	status := []string{}
	status = append(status, fmt.Sprintf("%s Notificación resultados de %q", symbolStatus(n[model.SessionRace]), model.SessionRace))
	status = append(status, fmt.Sprintf("%s Notificación resultados de %q", symbolStatus(n[model.SessionSprint]), model.SessionSprint))
	status = append(status, fmt.Sprintf("%s Notificación resultados de %q", symbolStatus(n[model.SessionQualifying]), model.SessionQualifying))
	return strings.Join(status, "\n")
}

func symbolStatus(enabled bool) string {
	if enabled {
		return "🔔"
	}
	return "🔕"
}

func (n *Notifications) setSessionKindEnabledFlag(sessionKind string, enabled bool) {
	(*n)[sessionKind] = enabled
}

type Manager struct {
	db *sql.DB
	mu sync.Mutex
}

func NewManager(dbPath string) (*Manager, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Printf("error opening database: %s\n", err)
		return nil, err
	}

	initTableStmt := buildCreateUsersTable()

	_, err = db.Exec(initTableStmt)
	if err != nil {
		log.Printf("error init database: %s\n", err)
		return nil, err
	}

	return &Manager{
		db: db,
		mu: sync.Mutex{},
	}, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.Close()
}

// ToggleNotificationForRoundFinished flips one session-kind toggle,
// creating the user row on first use.
func (m *Manager) ToggleNotificationForRoundFinished(userID, chatID, sessionKind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, season, err := m.readUser(userID)
	if err != nil {
		return err
	}

	n.setSessionKindEnabledFlag(sessionKind, !n[sessionKind])
	_, err = m.db.Exec(buildUpsertUserCommand(userID, chatID, season, n))
	if err != nil {
		log.Printf("error updating database: %s\n", err)
		return err
	}
	return nil
}

func (m *Manager) ListNotifications(userID string) (Notifications, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, _, err := m.readUser(userID)
	return n, err
}

// SetFavouriteSeason stores the season a user's views open on.
func (m *Manager) SetFavouriteSeason(userID, chatID string, season int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, _, err := m.readUser(userID)
	if err != nil {
		return err
	}
	_, err = m.db.Exec(buildUpsertUserCommand(userID, chatID, season, n))
	if err != nil {
		log.Printf("error updating database: %s\n", err)
	}
	return err
}

// FavouriteSeason returns 0 when the user never picked one.
func (m *Manager) FavouriteSeason(userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, season, err := m.readUser(userID)
	return season, err
}

func (m *Manager) ListUsersForRoundFinished(sessionKind string) ([]TelegramUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := []TelegramUser{}
	query, read := buildSelectRoundFinishedCommand(sessionKind)
	rows, err := m.db.Query(query)
	if err != nil {
		return users, err
	}
	return read(rows)
}

func (m *Manager) readUser(userID string) (Notifications, int, error) {
	n := AllDisabled()

	query, read := buildSelectUserCommand(userID)
	rows, err := m.db.Query(query)
	if err != nil {
		return n, 0, err
	}
	return read(rows)
}
