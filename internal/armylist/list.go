// internal/armylist/list.go
package armylist

import "army-list-builder-backend/internal/models"

// Catalog - то, что нужно спискам и валидатору от справочника юнитов
type Catalog interface {
	GetUnit(id string) (models.Unit, error)
	GetFaction(id string) (models.Faction, error)
}

type Entry struct {
	UnitID string `json:"unit_id"`
	Count  int    `json:"count"`
}

type Totals struct {
	Points  int `json:"points"`
	Command int `json:"command"`
	Units   int `json:"units"`
}

// List - упорядоченное мультимножество выбранных юнитов одной фракции.
// Нулевое значение - пустой список без фракции, фракция берётся у первого добавленного юнита
type List struct {
	factionID string
	entries   []Entry
	index     map[string]int
}

func New(factionID string) *List {
	return &List{
		factionID: factionID,
		index:     make(map[string]int),
	}
}

func (l *List) FactionID() string {
	if l == nil {
		return ""
	}
	return l.factionID
}

// Count - сколько копий юнита выбрано
func (l *List) Count(unitID string) int {
	if l == nil {
		return 0
	}
	idx, ok := l.index[unitID]
	if !ok {
		return 0
	}
	return l.entries[idx].Count
}

// Len - общее количество выбранных копий
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	n := 0
	for _, e := range l.entries {
		n += e.Count
	}
	return n
}

func (l *List) IsEmpty() bool {
	return l == nil || len(l.entries) == 0
}

// Entries возвращает копию записей в порядке добавления
func (l *List) Entries() []Entry {
	if l == nil {
		return []Entry{}
	}
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *List) Clone() *List {
	out := New(l.FactionID())
	for _, e := range l.Entries() {
		out.increment(e.UnitID, e.Count)
	}
	return out
}

// Add добавляет одну копию юнита, если это разрешено правилами
func (l *List) Add(cat Catalog, unitID string) Result {
	res := CanAdd(cat, l, unitID)
	if !res.Allowed {
		return res
	}
	if l.factionID == "" {
		if u, err := cat.GetUnit(unitID); err == nil {
			l.factionID = u.FactionID
		}
	}
	l.increment(unitID, 1)
	return res
}

// Remove убирает одну копию юнита, если это не оставит компаньона без носителя
func (l *List) Remove(cat Catalog, unitID string) Result {
	res := CanRemove(cat, l, unitID)
	if !res.Allowed {
		return res
	}
	l.decrement(unitID, 1)
	return res
}

// RemoveBatch убирает набор копий одной операцией: носитель и компаньон уходят вместе
func (l *List) RemoveBatch(cat Catalog, unitIDs []string) Result {
	res := CanRemoveBatch(cat, l, unitIDs)
	if !res.Allowed {
		return res
	}
	for _, id := range unitIDs {
		l.decrement(id, 1)
	}
	return res
}

// Clear очищает список, фракция сохраняется
func (l *List) Clear() {
	l.entries = nil
	l.index = make(map[string]int)
}

// Totals считает очки, командование и количество копий. Неизвестные юниты пропускаются
func (l *List) Totals(cat Catalog) Totals {
	var t Totals
	if l == nil {
		return t
	}
	for _, e := range l.entries {
		t.Units += e.Count
		u, err := cat.GetUnit(e.UnitID)
		if err != nil {
			continue
		}
		t.Points += u.PointsCost * e.Count
		t.Command += u.Command * e.Count
	}
	return t
}

func (l *List) increment(unitID string, n int) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if idx, ok := l.index[unitID]; ok {
		l.entries[idx].Count += n
		return
	}
	l.index[unitID] = len(l.entries)
	l.entries = append(l.entries, Entry{UnitID: unitID, Count: n})
}

func (l *List) decrement(unitID string, n int) {
	idx, ok := l.index[unitID]
	if !ok {
		return
	}
	l.entries[idx].Count -= n
	if l.entries[idx].Count > 0 {
		return
	}

	l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
	delete(l.index, unitID)
	for i := idx; i < len(l.entries); i++ {
		l.index[l.entries[i].UnitID] = i
	}
}
