// internal/storage/army_lists.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"army-list-builder-backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ArmyList - сохранённый список армии пользователя
type ArmyList struct {
	ID         string
	UserID     int
	Name       string
	FactionID  string
	Entries    []models.ArmyListSnapshotEntry
	IsValid    bool
	Violations []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Snapshot возвращает список в форме обмена
func (a ArmyList) Snapshot() models.ArmyListSnapshot {
	entries := make([]models.ArmyListSnapshotEntry, len(a.Entries))
	copy(entries, a.Entries)
	return models.ArmyListSnapshot{FactionID: a.FactionID, Entries: entries}
}

type ArmyListStore struct {
	db *sql.DB
}

func NewArmyListStore(db *sql.DB) *ArmyListStore {
	return &ArmyListStore{db: db}
}

const armyListColumns = `id, user_id, name, faction_id, entries, is_valid, violations, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArmyList(row rowScanner) (ArmyList, error) {
	var (
		list    ArmyList
		entries []byte
	)
	err := row.Scan(
		&list.ID,
		&list.UserID,
		&list.Name,
		&list.FactionID,
		&entries,
		&list.IsValid,
		pq.Array(&list.Violations),
		&list.CreatedAt,
		&list.UpdatedAt,
	)
	if err != nil {
		return ArmyList{}, err
	}
	if err := json.Unmarshal(entries, &list.Entries); err != nil {
		return ArmyList{}, fmt.Errorf("decode entries of list %s: %w", list.ID, err)
	}
	if list.Entries == nil {
		list.Entries = []models.ArmyListSnapshotEntry{}
	}
	if list.Violations == nil {
		list.Violations = []string{}
	}
	return list, nil
}

// Create создаёт пустой список
func (s *ArmyListStore) Create(ctx context.Context, userID int, name, factionID string) (ArmyList, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO army_lists (id, user_id, name, faction_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+armyListColumns,
		uuid.NewString(), userID, name, factionID,
	)
	list, err := scanArmyList(row)
	if err != nil {
		if isUniqueViolation(err) {
			return ArmyList{}, ErrDuplicateName
		}
		return ArmyList{}, fmt.Errorf("create army list: %w", err)
	}
	return list, nil
}

// Get возвращает список, если он принадлежит пользователю
func (s *ArmyListStore) Get(ctx context.Context, id string, userID int) (ArmyList, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ArmyList{}, ErrListNotFound
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT `+armyListColumns+`
		FROM army_lists
		WHERE id = $1 AND user_id = $2
	`, id, userID)

	list, err := scanArmyList(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ArmyList{}, ErrListNotFound
		}
		return ArmyList{}, fmt.Errorf("get army list: %w", err)
	}
	return list, nil
}

// ListByUser возвращает списки пользователя, последние изменённые первыми
func (s *ArmyListStore) ListByUser(ctx context.Context, userID int) ([]ArmyList, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+armyListColumns+`
		FROM army_lists
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list army lists: %w", err)
	}
	return collectArmyLists(rows)
}

// All возвращает все сохранённые списки
func (s *ArmyListStore) All(ctx context.Context) ([]ArmyList, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+armyListColumns+`
		FROM army_lists
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("load army lists: %w", err)
	}
	return collectArmyLists(rows)
}

func collectArmyLists(rows *sql.Rows) ([]ArmyList, error) {
	defer rows.Close()

	lists := make([]ArmyList, 0)
	for rows.Next() {
		list, err := scanArmyList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan army list: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lists, nil
}

// Save записывает состав и результат проверки. Побеждает последняя запись
func (s *ArmyListStore) Save(ctx context.Context, list ArmyList) (ArmyList, error) {
	entries, err := json.Marshal(list.Entries)
	if err != nil {
		return ArmyList{}, fmt.Errorf("encode entries: %w", err)
	}
	violations := list.Violations
	if violations == nil {
		violations = []string{}
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE army_lists
		SET entries = $1, is_valid = $2, violations = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING `+armyListColumns,
		entries, list.IsValid, pq.Array(violations), list.ID, list.UserID,
	)
	saved, err := scanArmyList(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ArmyList{}, ErrListNotFound
		}
		return ArmyList{}, fmt.Errorf("save army list: %w", err)
	}
	return saved, nil
}

// Rename меняет название списка
func (s *ArmyListStore) Rename(ctx context.Context, id string, userID int, name string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrListNotFound
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE army_lists
		SET name = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`, name, id, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("rename army list: %w", err)
	}
	return expectOneRow(result)
}

// Delete удаляет список
func (s *ArmyListStore) Delete(ctx context.Context, id string, userID int) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrListNotFound
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM army_lists
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete army list: %w", err)
	}
	return expectOneRow(result)
}

// MarkValidity обновляет только результат проверки, не трогая updated_at
func (s *ArmyListStore) MarkValidity(ctx context.Context, id string, valid bool, violations []string) error {
	if violations == nil {
		violations = []string{}
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE army_lists
		SET is_valid = $1, violations = $2
		WHERE id = $3
	`, valid, pq.Array(violations), id)
	if err != nil {
		return fmt.Errorf("mark army list validity: %w", err)
	}
	return expectOneRow(result)
}

func expectOneRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrListNotFound
	}
	return nil
}
