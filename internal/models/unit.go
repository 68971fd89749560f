// internal/models/unit.go
package models

// Keyword - ключевое слово юнита. Name участвует в проверках правил, Description только для подсказок
type Keyword struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// LocalizedName - локализованный вариант названия
type LocalizedName struct {
	Lang string `json:"lang" yaml:"lang"`
	Name string `json:"name" yaml:"name"`
}

type Unit struct {
	ID              string          `json:"id" yaml:"id"`
	Name            string          `json:"name" yaml:"name"`
	LocalizedNames  []LocalizedName `json:"localized_names,omitempty" yaml:"localized_names,omitempty"`
	FactionID       string          `json:"faction_id" yaml:"faction_id"`
	PointsCost      int             `json:"points_cost" yaml:"points_cost"`
	Keywords        []Keyword       `json:"keywords" yaml:"keywords"`
	HighCommand     bool            `json:"high_command" yaml:"high_command"`
	Availability    int             `json:"availability" yaml:"availability"`
	Command         int             `json:"command" yaml:"command"`
	SpecialRules    []string        `json:"special_rules" yaml:"special_rules"`
	Companion       string          `json:"companion,omitempty" yaml:"companion,omitempty"` // id юнита-носителя
	TournamentLegal *bool           `json:"tournament_legal,omitempty" yaml:"tournament_legal,omitempty"`
	ImageURL        string          `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// HasKeyword проверяет наличие ключевого слова (без учёта регистра)
func (u Unit) HasKeyword(name string) bool {
	for _, k := range u.Keywords {
		if equalFold(k.Name, name) {
			return true
		}
	}
	return false
}

// IsTournamentLegal - юниты без явного флага допускаются на турнирах
func (u Unit) IsTournamentLegal() bool {
	return u.TournamentLegal == nil || *u.TournamentLegal
}

// DisplayName возвращает название на нужном языке или основное
func (u Unit) DisplayName(lang string) string {
	return pickName(u.Name, u.LocalizedNames, lang)
}

type UnitsListResponse struct {
	FactionID string `json:"faction_id"`
	Units     []Unit `json:"units"`
}
