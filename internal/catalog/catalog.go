// internal/catalog/catalog.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"army-list-builder-backend/internal/models"
)

var (
	ErrUnitNotFound    = errors.New("unit not found")
	ErrFactionNotFound = errors.New("faction not found")
)

// KeywordHighCommand - ключевое слово, эквивалентное флагу high_command
const KeywordHighCommand = "High Command"

// Catalog - неизменяемый после загрузки справочник юнитов и фракций
type Catalog struct {
	factions     []models.Faction
	factionIndex map[string]int
	units        []models.Unit
	unitIndex    map[string]int
	byFaction    map[string][]int
}

// UnitFilter - условия отбора юнитов для экрана выбора
type UnitFilter struct {
	TournamentOnly  bool
	HighCommandOnly bool
	Keyword         string
}

// New строит каталог и проверяет инварианты данных. Все найденные ошибки возвращаются вместе
func New(factions []models.Faction, units []models.Unit) (*Catalog, error) {
	c := &Catalog{
		factions:     make([]models.Faction, 0, len(factions)),
		factionIndex: make(map[string]int, len(factions)),
		units:        make([]models.Unit, 0, len(units)),
		unitIndex:    make(map[string]int, len(units)),
		byFaction:    make(map[string][]int, len(factions)),
	}

	var errs []error

	for _, f := range factions {
		f.ID = strings.TrimSpace(f.ID)
		if f.ID == "" {
			errs = append(errs, fmt.Errorf("faction %q: id is required", f.Name))
			continue
		}
		if _, exists := c.factionIndex[f.ID]; exists {
			errs = append(errs, fmt.Errorf("faction %s: duplicate id", f.ID))
			continue
		}
		c.factionIndex[f.ID] = len(c.factions)
		c.factions = append(c.factions, f)
	}

	for _, u := range units {
		u = normalizeUnit(u)
		if u.ID == "" {
			errs = append(errs, fmt.Errorf("unit %q: id is required", u.Name))
			continue
		}
		if _, exists := c.unitIndex[u.ID]; exists {
			errs = append(errs, fmt.Errorf("unit %s: duplicate id", u.ID))
			continue
		}
		if _, ok := c.factionIndex[u.FactionID]; !ok {
			errs = append(errs, fmt.Errorf("unit %s: faction %q is not registered", u.ID, u.FactionID))
		}
		if u.PointsCost < 0 {
			errs = append(errs, fmt.Errorf("unit %s: points cost %d is negative", u.ID, u.PointsCost))
		}
		if u.Command < 0 {
			errs = append(errs, fmt.Errorf("unit %s: command %d is negative", u.ID, u.Command))
		}
		if u.Availability < 1 {
			errs = append(errs, fmt.Errorf("unit %s: availability must be at least 1, got %d", u.ID, u.Availability))
		}
		if u.Companion == u.ID {
			errs = append(errs, fmt.Errorf("unit %s: cannot be its own companion", u.ID))
		}

		idx := len(c.units)
		c.unitIndex[u.ID] = idx
		c.units = append(c.units, u)
		c.byFaction[u.FactionID] = append(c.byFaction[u.FactionID], idx)
	}

	// Компаньон проверяется после индексации: носитель может быть объявлен позже
	for _, u := range c.units {
		if u.Companion == "" || u.Companion == u.ID {
			continue
		}
		host, ok := c.unitIndex[u.Companion]
		if !ok {
			errs = append(errs, fmt.Errorf("unit %s: companion host %q does not exist", u.ID, u.Companion))
			continue
		}
		if c.units[host].FactionID != u.FactionID {
			errs = append(errs, fmt.Errorf("unit %s: companion host %q belongs to faction %q", u.ID, u.Companion, c.units[host].FactionID))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return c, nil
}

func normalizeUnit(u models.Unit) models.Unit {
	u.ID = strings.TrimSpace(u.ID)
	u.FactionID = strings.TrimSpace(u.FactionID)
	u.Companion = strings.TrimSpace(u.Companion)
	if u.HasKeyword(KeywordHighCommand) {
		u.HighCommand = true
	}
	if u.Keywords == nil {
		u.Keywords = []models.Keyword{}
	}
	if u.SpecialRules == nil {
		u.SpecialRules = []string{}
	}
	return u
}

// ListFactions возвращает фракции в порядке объявления
func (c *Catalog) ListFactions() []models.Faction {
	out := make([]models.Faction, len(c.factions))
	copy(out, c.factions)
	return out
}

// GetFaction возвращает фракцию по id
func (c *Catalog) GetFaction(id string) (models.Faction, error) {
	idx, ok := c.factionIndex[id]
	if !ok {
		return models.Faction{}, fmt.Errorf("%w: %s", ErrFactionNotFound, id)
	}
	return c.factions[idx], nil
}

// GetUnit возвращает юнит по id
func (c *Catalog) GetUnit(id string) (models.Unit, error) {
	idx, ok := c.unitIndex[id]
	if !ok {
		return models.Unit{}, fmt.Errorf("%w: %s", ErrUnitNotFound, id)
	}
	return c.units[idx], nil
}

// GetUnits возвращает все юниты фракции
func (c *Catalog) GetUnits(factionID string) ([]models.Unit, error) {
	return c.Filter(factionID, UnitFilter{})
}

// Filter возвращает юниты фракции, подходящие под фильтр
func (c *Catalog) Filter(factionID string, filter UnitFilter) ([]models.Unit, error) {
	if _, ok := c.factionIndex[factionID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrFactionNotFound, factionID)
	}

	keyword := strings.TrimSpace(filter.Keyword)
	out := make([]models.Unit, 0, len(c.byFaction[factionID]))
	for _, idx := range c.byFaction[factionID] {
		u := c.units[idx]
		if filter.TournamentOnly && !u.IsTournamentLegal() {
			continue
		}
		if filter.HighCommandOnly && !u.HighCommand {
			continue
		}
		if keyword != "" && !u.HasKeyword(keyword) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// Companions возвращает юниты, которые сопровождают указанного носителя
func (c *Catalog) Companions(hostID string) []models.Unit {
	var out []models.Unit
	for _, u := range c.units {
		if u.Companion != "" && u.Companion == hostID {
			out = append(out, u)
		}
	}
	return out
}

// Len - количество юнитов в каталоге
func (c *Catalog) Len() int {
	return len(c.units)
}
