package settings

import (
	"database/sql"
	"fmt"

	"f1dashbot/pkg/model"
)

func buildCreateUsersTable() string {
	return `CREATE TABLE IF NOT EXISTS users (
		userid TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		chatid TEXT NOT NULL,
		season INTEGER,
		race INTEGER,
		sprint INTEGER,
		qualifying INTEGER);`
}

func buildSelectUserCommand(userID string) (string, func(*sql.Rows) (Notifications, int, error)) {
	fields := "season, race, sprint, qualifying"
	return fmt.Sprintf(`SELECT %s FROM users WHERE userid = '%s'`, fields, userID), processSelectUserRows
}

func processSelectUserRows(rows *sql.Rows) (Notifications, int, error) {
	defer rows.Close()

	n := AllDisabled()
	// only can be one row
	if rows.Next() {
		var season int
		var race int
		var sprint int
		var qualifying int
		err := rows.Scan(&season, &race, &sprint, &qualifying)
		if err != nil {
			return n, 0, err
		}
		n.setSessionKindEnabledFlag(model.SessionRace, race == 1)
		n.setSessionKindEnabledFlag(model.SessionSprint, sprint == 1)
		n.setSessionKindEnabledFlag(model.SessionQualifying, qualifying == 1)
		return n, season, nil
	}
	err := rows.Err()
	if err != nil {
		return n, 0, err
	}
	return n, 0, err
}

func buildSelectRoundFinishedCommand(sessionKind string) (string, func(rows *sql.Rows) ([]TelegramUser, error)) {
	fields := "userid, name, chatid"
	return fmt.Sprintf(`SELECT %s FROM users WHERE %s = 1`, fields, sessionKind), processSelectRoundFinishedRows
}

func processSelectRoundFinishedRows(rows *sql.Rows) ([]TelegramUser, error) {
	defer rows.Close()

	users := make([]TelegramUser, 0)
	for rows.Next() {
		var id string
		var name string
		var chatid string
		err := rows.Scan(&id, &name, &chatid)
		if err != nil {
			return users, err
		}
		users = append(users, TelegramUser{
			ID:     id,
			Name:   name,
			ChatID: chatid,
		})
	}
	err := rows.Err()
	if err != nil {
		return users, err
	}
	return users, err
}

func buildUpsertUserCommand(userID, chatID string, season int, n Notifications) string {
	race := enabledInt(n[model.SessionRace])
	sprint := enabledInt(n[model.SessionSprint])
	qualifying := enabledInt(n[model.SessionQualifying])

	fields := "userid, name, chatid, season, race, sprint, qualifying"
	values := fmt.Sprintf(`'%s', '%s', '%s', %d, %d, %d, %d`, userID, userID, chatID, season, race, sprint, qualifying)
	return fmt.Sprintf(`INSERT OR REPLACE INTO users (%s) VALUES (%s)`, fields, values)
}

func enabledInt(enabled bool) int {
	if enabled {
		return 1
	}
	return 0
}
