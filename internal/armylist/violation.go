// internal/armylist/violation.go
package armylist

// ViolationKind - тип нарушенного правила состава армии
type ViolationKind string

const (
	UnknownUnit                ViolationKind = "UnknownUnit"
	FactionMismatch            ViolationKind = "FactionMismatch"
	HighCommandExclusivity     ViolationKind = "HighCommandExclusivity"
	AvailabilityExceeded       ViolationKind = "AvailabilityExceeded"
	CompanionPrerequisiteUnmet ViolationKind = "CompanionPrerequisiteUnmet"
	CompanionOrphaned          ViolationKind = "CompanionOrphaned"
	NotSelected                ViolationKind = "NotSelected"
)

// Violation описывает одно нарушение. RelatedID - второй участник правила
// (фракция списка, уже выбранный High Command, носитель или компаньон)
type Violation struct {
	Kind      ViolationKind `json:"kind"`
	UnitID    string        `json:"unit_id"`
	RelatedID string        `json:"related_id,omitempty"`
}

// Result - ответ проверок CanAdd / CanRemove
type Result struct {
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations"`
}

func newResult(violations []Violation) Result {
	if violations == nil {
		violations = []Violation{}
	}
	return Result{
		Allowed:    len(violations) == 0,
		Violations: violations,
	}
}

// Has сообщает, есть ли среди нарушений указанный тип
func (r Result) Has(kind ViolationKind) bool {
	return HasKind(r.Violations, kind)
}

// Kinds возвращает типы нарушений без повторов в порядке появления
func (r Result) Kinds() []ViolationKind {
	return Kinds(r.Violations)
}

func HasKind(violations []Violation, kind ViolationKind) bool {
	for _, v := range violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

func Kinds(violations []Violation) []ViolationKind {
	out := make([]ViolationKind, 0, len(violations))
	seen := make(map[ViolationKind]bool, len(violations))
	for _, v := range violations {
		if seen[v.Kind] {
			continue
		}
		seen[v.Kind] = true
		out = append(out, v.Kind)
	}
	return out
}
