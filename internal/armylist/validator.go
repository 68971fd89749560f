// internal/armylist/validator.go
package armylist

// CanAdd проверяет, можно ли добавить одну копию юнита. Выполняются все проверки:
// фракция, единственный High Command, лимит доступности, наличие носителя компаньона
func CanAdd(cat Catalog, l *List, unitID string) Result {
	u, err := cat.GetUnit(unitID)
	if err != nil {
		return newResult([]Violation{{Kind: UnknownUnit, UnitID: unitID}})
	}

	var violations []Violation

	if faction := l.FactionID(); faction != "" && u.FactionID != faction {
		violations = append(violations, Violation{Kind: FactionMismatch, UnitID: u.ID, RelatedID: faction})
	}

	count := l.Count(u.ID)

	if u.HighCommand {
		if holder, ok := highCommandHolder(cat, l, u.ID, count < u.Availability); ok {
			violations = append(violations, Violation{Kind: HighCommandExclusivity, UnitID: u.ID, RelatedID: holder})
		}
	}

	if count+1 > u.Availability {
		violations = append(violations, Violation{Kind: AvailabilityExceeded, UnitID: u.ID})
	}

	if u.Companion != "" && l.Count(u.Companion) == 0 {
		violations = append(violations, Violation{Kind: CompanionPrerequisiteUnmet, UnitID: u.ID, RelatedID: u.Companion})
	}

	return newResult(violations)
}

// highCommandHolder ищет уже выбранный High Command. Повторная копия того же юнита
// считается нарушением эксклюзивности, только если её не отсекает лимит доступности
func highCommandHolder(cat Catalog, l *List, candidateID string, countSelf bool) (string, bool) {
	if l == nil {
		return "", false
	}
	for _, e := range l.entries {
		if e.UnitID == candidateID && !countSelf {
			continue
		}
		selected, err := cat.GetUnit(e.UnitID)
		if err != nil || !selected.HighCommand {
			continue
		}
		return selected.ID, true
	}
	return "", false
}

// CanRemove проверяет удаление одной копии юнита. Носителя нельзя убрать,
// пока в списке есть зависящий от него компаньон
func CanRemove(cat Catalog, l *List, unitID string) Result {
	if l.Count(unitID) == 0 {
		return newResult([]Violation{missingViolation(cat, unitID)})
	}
	return newResult(orphanedBy(cat, l, map[string]int{unitID: 1}))
}

// CanRemoveBatch проверяет удаление набора копий одной операцией.
// Каждый id в наборе снимает одну копию
func CanRemoveBatch(cat Catalog, l *List, unitIDs []string) Result {
	removed := make(map[string]int, len(unitIDs))
	var violations []Violation
	reported := make(map[string]bool)

	for _, id := range unitIDs {
		removed[id]++
		if removed[id] > l.Count(id) && !reported[id] {
			reported[id] = true
			violations = append(violations, missingViolation(cat, id))
		}
	}
	if len(violations) > 0 {
		return newResult(violations)
	}
	return newResult(orphanedBy(cat, l, removed))
}

func missingViolation(cat Catalog, unitID string) Violation {
	if _, err := cat.GetUnit(unitID); err != nil {
		return Violation{Kind: UnknownUnit, UnitID: unitID}
	}
	return Violation{Kind: NotSelected, UnitID: unitID}
}

// orphanedBy находит компаньонов, которые остаются в списке, хотя их носитель удаляется
func orphanedBy(cat Catalog, l *List, removed map[string]int) []Violation {
	if l == nil {
		return nil
	}
	var violations []Violation
	for _, e := range l.entries {
		if e.Count-removed[e.UnitID] <= 0 {
			continue
		}
		u, err := cat.GetUnit(e.UnitID)
		if err != nil || u.Companion == "" {
			continue
		}
		if removed[u.Companion] > 0 {
			violations = append(violations, Violation{Kind: CompanionOrphaned, UnitID: u.Companion, RelatedID: u.ID})
		}
	}
	return violations
}

// ValidateList полностью перепроверяет список, например после импорта сохранённого состава
func ValidateList(cat Catalog, l *List) []Violation {
	violations := []Violation{}
	if l.IsEmpty() {
		return violations
	}

	faction := l.FactionID()
	highCommand := ""

	for _, e := range l.entries {
		u, err := cat.GetUnit(e.UnitID)
		if err != nil {
			violations = append(violations, Violation{Kind: UnknownUnit, UnitID: e.UnitID})
			continue
		}

		if faction == "" {
			faction = u.FactionID
		}
		if u.FactionID != faction {
			violations = append(violations, Violation{Kind: FactionMismatch, UnitID: u.ID, RelatedID: faction})
		}

		if u.HighCommand {
			switch {
			case highCommand != "":
				violations = append(violations, Violation{Kind: HighCommandExclusivity, UnitID: u.ID, RelatedID: highCommand})
			case e.Count > 1 && e.Count <= u.Availability:
				highCommand = u.ID
				violations = append(violations, Violation{Kind: HighCommandExclusivity, UnitID: u.ID, RelatedID: u.ID})
			default:
				// лишние копии уже отмечены AvailabilityExceeded
				highCommand = u.ID
			}
		}

		if e.Count > u.Availability {
			violations = append(violations, Violation{Kind: AvailabilityExceeded, UnitID: u.ID})
		}

		if u.Companion != "" && l.Count(u.Companion) == 0 {
			violations = append(violations, Violation{Kind: CompanionPrerequisiteUnmet, UnitID: u.ID, RelatedID: u.Companion})
		}
	}

	return violations
}
