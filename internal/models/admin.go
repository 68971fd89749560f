// internal/models/admin.go
package models

import "time"

type WorkerStatusResponse struct {
	Running         bool       `json:"running"`
	IntervalSeconds int        `json:"interval_seconds"`
	LastRunAt       *time.Time `json:"last_run_at,omitempty"`
	LastRun         *RunStats  `json:"last_run,omitempty"`
}

// RunStats - итог одного прохода перепроверки сохранённых списков
type RunStats struct {
	Checked   int    `json:"checked"`
	Invalid   int    `json:"invalid"`
	Malformed int    `json:"malformed"`
	Updated   int    `json:"updated"`
	Failed    int    `json:"failed"`
	Duration  string `json:"duration"`
}

type FactionAudit struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Units            int      `json:"units"`
	HighCommandUnits []string `json:"high_command_units"`
	CompanionPairs   []string `json:"companion_pairs"` // "компаньон -> носитель"
	TournamentBanned []string `json:"tournament_banned"`
	MissingGlossary  []string `json:"missing_glossary"`
}

type CatalogAuditResponse struct {
	Units    int            `json:"units"`
	Factions []FactionAudit `json:"factions"`
}
