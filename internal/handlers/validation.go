// internal/handlers/validation.go
package handlers

import (
	"net/http"

	"army-list-builder-backend/internal/armylist"
	"army-list-builder-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ValidationHandler проверяет присланный список без сохранения
type ValidationHandler struct {
	catalog armylist.Catalog
}

func NewValidationHandler(cat armylist.Catalog) *ValidationHandler {
	return &ValidationHandler{catalog: cat}
}

// CanAdd проверяет добавление одной копии юнита
func (h *ValidationHandler) CanAdd(c *gin.Context) {
	var req models.ValidateAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	list, report, ok := h.restore(c, req.List)
	if !ok {
		return
	}

	response := toRuleCheck(armylist.CanAdd(h.catalog, list, req.UnitID))
	response.Dropped = toDropped(report.Dropped)
	c.JSON(http.StatusOK, response)
}

// CanRemove проверяет удаление одного юнита или набора юнитов одной операцией
func (h *ValidationHandler) CanRemove(c *gin.Context) {
	var req models.ValidateRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	list, report, ok := h.restore(c, req.List)
	if !ok {
		return
	}

	var result armylist.Result
	if len(req.UnitIDs) == 1 {
		result = armylist.CanRemove(h.catalog, list, req.UnitIDs[0])
	} else {
		result = armylist.CanRemoveBatch(h.catalog, list, req.UnitIDs)
	}

	response := toRuleCheck(result)
	response.Dropped = toDropped(report.Dropped)
	c.JSON(http.StatusOK, response)
}

// ValidateList полностью проверяет присланный список
func (h *ValidationHandler) ValidateList(c *gin.Context) {
	limit, ok := pointsLimit(c)
	if !ok {
		return
	}

	var snapshot models.ArmyListSnapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	list, report, ok := h.restore(c, snapshot)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.ValidateListResponse{
		Valid:      report.Valid(),
		Restored:   !report.Malformed(),
		Dropped:    toDropped(report.Dropped),
		Violations: toViolations(report.Violations),
		Totals:     toTotals(list.Totals(h.catalog), limit),
	})
}

func (h *ValidationHandler) restore(c *gin.Context, snapshot models.ArmyListSnapshot) (*armylist.List, armylist.RestoreReport, bool) {
	list, report, err := armylist.Restore(h.catalog, snapshot)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Faction not found"})
		return nil, report, false
	}
	return list, report, true
}
