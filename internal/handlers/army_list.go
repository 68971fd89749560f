// internal/handlers/army_list.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"army-list-builder-backend/internal/armylist"
	"army-list-builder-backend/internal/catalog"
	"army-list-builder-backend/internal/models"
	"army-list-builder-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ArmyListRepository interface {
	Create(ctx context.Context, userID int, name, factionID string) (storage.ArmyList, error)
	Get(ctx context.Context, id string, userID int) (storage.ArmyList, error)
	ListByUser(ctx context.Context, userID int) ([]storage.ArmyList, error)
	Save(ctx context.Context, list storage.ArmyList) (storage.ArmyList, error)
	Rename(ctx context.Context, id string, userID int, name string) error
	Delete(ctx context.Context, id string, userID int) error
}

type ArmyListHandler struct {
	lists   ArmyListRepository
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewArmyListHandler(lists ArmyListRepository, cat *catalog.Catalog, logger *zap.Logger) *ArmyListHandler {
	return &ArmyListHandler{
		lists:   lists,
		catalog: cat,
		logger:  logger,
	}
}

// loadedList - сохранённая запись и восстановленный из неё список
type loadedList struct {
	stored storage.ArmyList
	list   *armylist.List
	report armylist.RestoreReport
}

// GetLists возвращает списки текущего пользователя
func (h *ArmyListHandler) GetLists(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	lists, err := h.lists.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.databaseError(c, "Failed to fetch army lists", err)
		return
	}

	response := models.ArmyListsResponse{Lists: make([]models.ArmyListSummary, 0, len(lists))}
	for _, l := range lists {
		units := 0
		for _, e := range l.Entries {
			units += e.Count
		}
		response.Lists = append(response.Lists, models.ArmyListSummary{
			ID:        l.ID,
			Name:      l.Name,
			FactionID: l.FactionID,
			IsValid:   l.IsValid,
			Units:     units,
			UpdatedAt: l.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}

// CreateList создаёт пустой список выбранной фракции
func (h *ArmyListHandler) CreateList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateArmyListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if _, err := h.catalog.GetFaction(req.FactionID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown faction"})
		return
	}

	stored, err := h.lists.Create(c.Request.Context(), userID, strings.TrimSpace(req.Name), req.FactionID)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateName) {
			c.JSON(http.StatusConflict, gin.H{"error": "Army list with this name already exists"})
			return
		}
		h.databaseError(c, "Failed to create army list", err)
		return
	}

	c.JSON(http.StatusCreated, h.buildResponse(loadedList{stored: stored, list: armylist.New(stored.FactionID)}, nil))
}

// GetList возвращает список с составом, итогами и нарушениями
func (h *ArmyListHandler) GetList(c *gin.Context) {
	limit, ok := pointsLimit(c)
	if !ok {
		return
	}
	loaded, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.buildResponse(loaded, limit))
}

// RenameList меняет название списка
func (h *ArmyListHandler) RenameList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.RenameArmyListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.lists.Rename(c.Request.Context(), c.Param("id"), userID, strings.TrimSpace(req.Name))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrListNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Army list not found"})
		case errors.Is(err, storage.ErrDuplicateName):
			c.JSON(http.StatusConflict, gin.H{"error": "Army list with this name already exists"})
		default:
			h.databaseError(c, "Failed to rename army list", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Army list renamed", "id": c.Param("id"), "name": strings.TrimSpace(req.Name)})
}

// DeleteList удаляет список
func (h *ArmyListHandler) DeleteList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.lists.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		if errors.Is(err, storage.ErrListNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Army list not found"})
			return
		}
		h.databaseError(c, "Failed to delete army list", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Army list deleted"})
}

// AddUnit добавляет одну копию юнита. Нарушение правил - 409 со списком нарушений
func (h *ArmyListHandler) AddUnit(c *gin.Context) {
	var req models.UnitActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	h.mutate(c, func(cat armylist.Catalog, l *armylist.List) armylist.Result {
		return l.Add(cat, req.UnitID)
	})
}

// RemoveUnit убирает одну копию юнита
func (h *ArmyListHandler) RemoveUnit(c *gin.Context) {
	unitID := c.Param("unitId")
	h.mutate(c, func(cat armylist.Catalog, l *armylist.List) armylist.Result {
		return l.Remove(cat, unitID)
	})
}

// RemoveUnits убирает набор юнитов одной операцией (носитель вместе с компаньоном)
func (h *ArmyListHandler) RemoveUnits(c *gin.Context) {
	var req models.BatchRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	h.mutate(c, func(cat armylist.Catalog, l *armylist.List) armylist.Result {
		return l.RemoveBatch(cat, req.UnitIDs)
	})
}

// ClearList очищает список
func (h *ArmyListHandler) ClearList(c *gin.Context) {
	h.mutate(c, func(cat armylist.Catalog, l *armylist.List) armylist.Result {
		l.Clear()
		return armylist.Result{Allowed: true}
	})
}

// ImportList заменяет состав списка присланным. Отброшенные записи возвращаются в ответе
func (h *ArmyListHandler) ImportList(c *gin.Context) {
	var snapshot models.ArmyListSnapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	loaded, ok := h.load(c)
	if !ok {
		return
	}

	if strings.TrimSpace(snapshot.FactionID) != loaded.stored.FactionID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Imported list belongs to another faction"})
		return
	}

	list, report, err := armylist.Restore(h.catalog, snapshot)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Faction not found"})
		return
	}

	// отброшенные записи в базу не попадают
	saved, ok := h.save(c, loaded.stored, list, armylist.RestoreReport{Violations: report.Violations})
	if !ok {
		return
	}

	if report.Malformed() {
		h.logger.Info("army list imported partially",
			zap.String("list_id", saved.stored.ID),
			zap.Int("dropped", len(report.Dropped)),
		)
	}

	c.JSON(http.StatusOK, models.ImportArmyListResponse{
		Restored: !report.Malformed(),
		Dropped:  toDropped(report.Dropped),
		List:     h.buildResponse(saved, nil),
	})
}

// ExportList отдаёт список в форме {factionId, entries}
func (h *ArmyListHandler) ExportList(c *gin.Context) {
	loaded, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, loaded.list.Snapshot())
}

// mutate загружает список, применяет операцию и сохраняет результат, если она разрешена
func (h *ArmyListHandler) mutate(c *gin.Context, op func(armylist.Catalog, *armylist.List) armylist.Result) {
	limit, ok := pointsLimit(c)
	if !ok {
		return
	}
	loaded, ok := h.load(c)
	if !ok {
		return
	}

	result := op(h.catalog, loaded.list)
	if !result.Allowed {
		c.JSON(http.StatusConflict, toRuleCheck(result))
		return
	}

	saved, ok := h.save(c, loaded.stored, loaded.list, armylist.RestoreReport{})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.buildResponse(saved, limit))
}

func (h *ArmyListHandler) load(c *gin.Context) (loadedList, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return loadedList{}, false
	}

	stored, err := h.lists.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, storage.ErrListNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Army list not found"})
			return loadedList{}, false
		}
		h.databaseError(c, "Failed to fetch army list", err)
		return loadedList{}, false
	}

	list, report, err := armylist.Restore(h.catalog, stored.Snapshot())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Army list faction no longer exists"})
		return loadedList{}, false
	}

	return loadedList{stored: stored, list: list, report: report}, true
}

func (h *ArmyListHandler) save(c *gin.Context, stored storage.ArmyList, list *armylist.List, report armylist.RestoreReport) (loadedList, bool) {
	violations := armylist.ValidateList(h.catalog, list)

	stored.Entries = list.Snapshot().Entries
	stored.IsValid = len(violations) == 0
	stored.Violations = violationKinds(report, violations)

	saved, err := h.lists.Save(c.Request.Context(), stored)
	if err != nil {
		if errors.Is(err, storage.ErrListNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Army list not found"})
			return loadedList{}, false
		}
		h.databaseError(c, "Failed to save army list", err)
		return loadedList{}, false
	}

	return loadedList{
		stored: saved,
		list:   list,
		report: armylist.RestoreReport{Dropped: []armylist.DroppedEntry{}, Violations: violations},
	}, true
}

func (h *ArmyListHandler) buildResponse(loaded loadedList, limit *int) models.ArmyListResponse {
	factionName := loaded.stored.FactionID
	if f, err := h.catalog.GetFaction(loaded.stored.FactionID); err == nil {
		factionName = f.Name
	}

	entries := make([]models.ArmyListEntry, 0, len(loaded.list.Entries()))
	for _, e := range loaded.list.Entries() {
		entry := models.ArmyListEntry{UnitID: e.UnitID, Name: e.UnitID, Count: e.Count}
		if u, err := h.catalog.GetUnit(e.UnitID); err == nil {
			entry.Name = u.Name
			entry.PointsCost = u.PointsCost
			entry.Command = u.Command
			entry.HighCommand = u.HighCommand
			entry.Companion = u.Companion
		}
		entries = append(entries, entry)
	}

	return models.ArmyListResponse{
		ID:          loaded.stored.ID,
		Name:        loaded.stored.Name,
		FactionID:   loaded.stored.FactionID,
		FactionName: factionName,
		Entries:     entries,
		Totals:      toTotals(loaded.list.Totals(h.catalog), limit),
		IsValid:     loaded.report.Valid(),
		Violations:  toViolations(loaded.report.Violations),
		CreatedAt:   loaded.stored.CreatedAt,
		UpdatedAt:   loaded.stored.UpdatedAt,
	}
}

func (h *ArmyListHandler) databaseError(c *gin.Context, message string, err error) {
	h.logger.Error(message, zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
