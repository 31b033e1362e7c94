package model

import "fmt"

// Session kinds used by settings toggles and the notification manager.
const (
	SessionRace       = "race"
	SessionSprint     = "sprint"
	SessionQualifying = "qualifying"
)

// RoundFinished is published when a refresh discovers that a new round of
// the season has completed results.
type RoundFinished struct {
	Season    int    `json:"season"`
	Round     int    `json:"round"`
	EventName string `json:"eventName"`
	Sprint    bool   `json:"sprint"`
}

func (rf RoundFinished) String() string {
	kind := "Carrera"
	if rf.Sprint {
		kind = "Carrera + Sprint"
	}
	return fmt.Sprintf("  ▸ Temporada: %d\n  ▸ Ronda: %d\n  ▸ Evento: %s\n  ▸ Sesión: %s", rf.Season, rf.Round, rf.EventName, kind)
}

func (rf RoundFinished) SessionKind() string {
	if rf.Sprint {
		return SessionSprint
	}
	return SessionRace
}
