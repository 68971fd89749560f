// internal/armylist/snapshot.go
package armylist

import (
	"fmt"
	"math"
	"strings"

	"army-list-builder-backend/internal/models"
)

// DropReason - почему запись не удалось восстановить
type DropReason string

const (
	DropUnknownUnit     DropReason = "unknown_unit"
	DropFactionMismatch DropReason = "faction_mismatch"
	DropInvalidCount    DropReason = "invalid_count"
)

type DroppedEntry struct {
	UnitID string     `json:"unit_id"`
	Count  int        `json:"count"`
	Reason DropReason `json:"reason"`
}

// RestoreReport - итог восстановления: отброшенные записи и нарушения в оставшихся
type RestoreReport struct {
	Dropped    []DroppedEntry `json:"dropped"`
	Violations []Violation    `json:"violations"`
}

// Malformed - список восстановлен не полностью
func (r RestoreReport) Malformed() bool {
	return len(r.Dropped) > 0
}

// Valid - всё восстановлено и правила соблюдены
func (r RestoreReport) Valid() bool {
	return len(r.Dropped) == 0 && len(r.Violations) == 0
}

// Snapshot сохраняет список в форме {factionId, entries: [{unitId, count}]}
func (l *List) Snapshot() models.ArmyListSnapshot {
	entries := make([]models.ArmyListSnapshotEntry, 0, len(l.Entries()))
	for _, e := range l.Entries() {
		entries = append(entries, models.ArmyListSnapshotEntry{UnitID: e.UnitID, Count: e.Count})
	}
	return models.ArmyListSnapshot{
		FactionID: l.FactionID(),
		Entries:   entries,
	}
}

// Restore восстанавливает список из сохранённой формы. Неизвестные юниты, юниты чужой фракции
// и записи с неположительным количеством отбрасываются, остальное проверяется через ValidateList.
// Ошибка возвращается только для неизвестной фракции
func Restore(cat Catalog, snap models.ArmyListSnapshot) (*List, RestoreReport, error) {
	report := RestoreReport{
		Dropped:    []DroppedEntry{},
		Violations: []Violation{},
	}

	factionID := strings.TrimSpace(snap.FactionID)
	if _, err := cat.GetFaction(factionID); err != nil {
		return nil, report, fmt.Errorf("restore list: %w", err)
	}

	l := New(factionID)
	for _, e := range snap.Entries {
		unitID := strings.TrimSpace(e.UnitID)
		if e.Count <= 0 {
			report.Dropped = append(report.Dropped, DroppedEntry{UnitID: unitID, Count: e.Count, Reason: DropInvalidCount})
			continue
		}
		u, err := cat.GetUnit(unitID)
		if err != nil {
			report.Dropped = append(report.Dropped, DroppedEntry{UnitID: unitID, Count: e.Count, Reason: DropUnknownUnit})
			continue
		}
		if u.FactionID != factionID {
			report.Dropped = append(report.Dropped, DroppedEntry{UnitID: unitID, Count: e.Count, Reason: DropFactionMismatch})
			continue
		}
		// слияние повторов не должно переполнить счётчик
		if e.Count > math.MaxInt-l.Count(u.ID) {
			report.Dropped = append(report.Dropped, DroppedEntry{UnitID: unitID, Count: e.Count, Reason: DropInvalidCount})
			continue
		}
		l.increment(u.ID, e.Count)
	}

	report.Violations = ValidateList(cat, l)
	return l, report, nil
}
