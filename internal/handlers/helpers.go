// internal/handlers/helpers.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"army-list-builder-backend/internal/armylist"
	"army-list-builder-backend/internal/glossary"
	"army-list-builder-backend/internal/middleware"
	"army-list-builder-backend/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// currentUserID достаёт id пользователя, установленный AuthMiddleware
func currentUserID(c *gin.Context) (int, bool) {
	value, exists := c.Get(middleware.ContextUserID)
	if !exists || value == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return 0, false
	}
	userID, ok := value.(int)
	if !ok || userID <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user in token"})
		return 0, false
	}
	return userID, true
}

// requestLang: ?lang, затем Accept-Language, затем язык по умолчанию
func requestLang(c *gin.Context, g *glossary.Glossary, defaultLang string) language.Tag {
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return g.Match(lang)
	}
	if accept := c.GetHeader("Accept-Language"); accept != "" {
		return g.Match(accept)
	}
	return g.Match(defaultLang)
}

// pointsLimit читает необязательный ?limit=. Лимит только подсвечивает превышение
func pointsLimit(c *gin.Context) (*int, bool) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return nil, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return nil, false
	}
	return &limit, true
}

func toViolations(violations []armylist.Violation) []models.ViolationResponse {
	out := make([]models.ViolationResponse, 0, len(violations))
	for _, v := range violations {
		out = append(out, models.ViolationResponse{
			Kind:      string(v.Kind),
			UnitID:    v.UnitID,
			RelatedID: v.RelatedID,
		})
	}
	return out
}

func toDropped(dropped []armylist.DroppedEntry) []models.DroppedEntryResponse {
	out := make([]models.DroppedEntryResponse, 0, len(dropped))
	for _, d := range dropped {
		out = append(out, models.DroppedEntryResponse{
			UnitID: d.UnitID,
			Count:  d.Count,
			Reason: string(d.Reason),
		})
	}
	return out
}

func toRuleCheck(res armylist.Result) models.RuleCheckResponse {
	return models.RuleCheckResponse{
		Allowed:    res.Allowed,
		Violations: toViolations(res.Violations),
	}
}

func toTotals(t armylist.Totals, limit *int) models.ArmyListTotals {
	totals := models.ArmyListTotals{
		Points:      t.Points,
		Command:     t.Command,
		Units:       t.Units,
		PointsLimit: limit,
	}
	if limit != nil {
		totals.OverLimit = t.Points > *limit
	}
	return totals
}

// violationKinds - форма нарушений для хранения в army_lists.violations
func violationKinds(report armylist.RestoreReport, violations []armylist.Violation) []string {
	out := make([]string, 0, len(violations)+1)
	if report.Malformed() {
		out = append(out, "MalformedList")
	}
	for _, kind := range armylist.Kinds(violations) {
		out = append(out, string(kind))
	}
	return out
}
