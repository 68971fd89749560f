// internal/models/army_list.go
package models

import "time"

// ArmyListSnapshot - форма списка армии для хранения и обмена
type ArmyListSnapshot struct {
	FactionID string                  `json:"factionId" binding:"required"`
	Entries   []ArmyListSnapshotEntry `json:"entries"`
}

type ArmyListSnapshotEntry struct {
	UnitID string `json:"unitId"`
	Count  int    `json:"count"`
}

type ArmyListEntry struct {
	UnitID      string `json:"unit_id"`
	Name        string `json:"name"`
	Count       int    `json:"count"`
	PointsCost  int    `json:"points_cost"`
	Command     int    `json:"command"`
	HighCommand bool   `json:"high_command"`
	Companion   string `json:"companion,omitempty"`
}

type ViolationResponse struct {
	Kind      string `json:"kind"`
	UnitID    string `json:"unit_id"`
	RelatedID string `json:"related_id,omitempty"`
}

type DroppedEntryResponse struct {
	UnitID string `json:"unit_id"`
	Count  int    `json:"count"`
	Reason string `json:"reason"`
}

type ArmyListTotals struct {
	Points      int  `json:"points"`
	Command     int  `json:"command"`
	Units       int  `json:"units"`
	PointsLimit *int `json:"points_limit,omitempty"`
	OverLimit   bool `json:"over_limit"` // только подсказка, лимит не проверяется
}

type ArmyListResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	FactionID   string              `json:"faction_id"`
	FactionName string              `json:"faction_name"`
	Entries     []ArmyListEntry     `json:"entries"`
	Totals      ArmyListTotals      `json:"totals"`
	IsValid     bool                `json:"is_valid"`
	Violations  []ViolationResponse `json:"violations"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type ArmyListSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FactionID string    `json:"faction_id"`
	IsValid   bool      `json:"is_valid"`
	Units     int       `json:"units"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ArmyListsResponse struct {
	Lists []ArmyListSummary `json:"lists"`
}

type CreateArmyListRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	FactionID string `json:"faction_id" binding:"required"`
}

type RenameArmyListRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type UnitActionRequest struct {
	UnitID string `json:"unit_id" binding:"required"`
}

type BatchRemoveRequest struct {
	UnitIDs []string `json:"unit_ids" binding:"required,min=1"`
}

// RuleCheckResponse - ответ на отклонённое или проверочное действие со списком
type RuleCheckResponse struct {
	Allowed    bool                   `json:"allowed"`
	Violations []ViolationResponse    `json:"violations"`
	Dropped    []DroppedEntryResponse `json:"dropped,omitempty"`
}

type ImportArmyListResponse struct {
	Restored bool                   `json:"restored"` // false - список восстановлен не полностью
	Dropped  []DroppedEntryResponse `json:"dropped"`
	List     ArmyListResponse       `json:"list"`
}

// Запросы проверки без сохранения

type ValidateAddRequest struct {
	List   ArmyListSnapshot `json:"list" binding:"required"`
	UnitID string           `json:"unit_id" binding:"required"`
}

type ValidateRemoveRequest struct {
	List    ArmyListSnapshot `json:"list" binding:"required"`
	UnitIDs []string         `json:"unit_ids" binding:"required,min=1"`
}

type ValidateListResponse struct {
	Valid      bool                   `json:"valid"`
	Restored   bool                   `json:"restored"`
	Dropped    []DroppedEntryResponse `json:"dropped"`
	Violations []ViolationResponse    `json:"violations"`
	Totals     ArmyListTotals         `json:"totals"`
}
