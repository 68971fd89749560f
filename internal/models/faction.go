// internal/models/faction.go
package models

import "strings"

type Faction struct {
	ID             string          `json:"id" yaml:"id"`
	Name           string          `json:"name" yaml:"name"`
	LocalizedNames []LocalizedName `json:"localized_names,omitempty" yaml:"localized_names,omitempty"`
}

// DisplayName возвращает название фракции на нужном языке или основное
func (f Faction) DisplayName(lang string) string {
	return pickName(f.Name, f.LocalizedNames, lang)
}

type FactionResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	UnitsCount int    `json:"units_count"`
}

type FactionsListResponse struct {
	Factions []FactionResponse `json:"factions"`
}

func pickName(fallback string, names []LocalizedName, lang string) string {
	if lang == "" {
		return fallback
	}
	for _, n := range names {
		if equalFold(n.Lang, lang) && n.Name != "" {
			return n.Name
		}
	}
	// "pl-PL" -> "pl"
	if base, _, found := strings.Cut(lang, "-"); found {
		return pickName(fallback, names, base)
	}
	return fallback
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
