// internal/catalog/csv.go
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"army-list-builder-backend/internal/models"
)

// CSVHeader - колонки выгрузки каталога для проверки в таблицах
var CSVHeader = []string{
	"id", "faction_id", "name", "points_cost", "availability", "command",
	"high_command", "companion", "tournament_legal", "keywords",
}

// Mismatch - расхождение строки CSV с каталогом
type Mismatch struct {
	UnitID  string `json:"unit_id"`
	Field   string `json:"field"`
	Catalog string `json:"catalog"`
	Sheet   string `json:"sheet"`
	Line    int    `json:"line,omitempty"`
}

func (m Mismatch) String() string {
	switch m.Field {
	case "id":
		return fmt.Sprintf("line %d: unit %s is not in the catalog", m.Line, m.UnitID)
	case "missing":
		return fmt.Sprintf("unit %s is missing from the sheet", m.UnitID)
	default:
		return fmt.Sprintf("line %d: unit %s %s: catalog=%q sheet=%q", m.Line, m.UnitID, m.Field, m.Catalog, m.Sheet)
	}
}

// Units возвращает все юниты в порядке объявления
func (c *Catalog) Units() []models.Unit {
	out := make([]models.Unit, len(c.units))
	copy(out, c.units)
	return out
}

// WriteCSV выгружает каталог в CSV
func WriteCSV(w io.Writer, c *Catalog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, u := range c.Units() {
		if err := cw.Write(unitRecord(u)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func unitRecord(u models.Unit) []string {
	keywords := make([]string, 0, len(u.Keywords))
	for _, k := range u.Keywords {
		keywords = append(keywords, k.Name)
	}
	return []string{
		u.ID,
		u.FactionID,
		u.Name,
		strconv.Itoa(u.PointsCost),
		strconv.Itoa(u.Availability),
		strconv.Itoa(u.Command),
		strconv.FormatBool(u.HighCommand),
		u.Companion,
		strconv.FormatBool(u.IsTournamentLegal()),
		strings.Join(keywords, ";"),
	}
}

// сравниваемые колонки; остальные в выгрузке справочные
var comparedColumns = []string{"points_cost", "availability", "command", "high_command", "companion"}

// CompareCSV сверяет таблицу юнитов с каталогом. Обязательна колонка id,
// из остальных сравниваются только присутствующие в заголовке
func CompareCSV(r io.Reader, c *Catalog) ([]Mismatch, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: empty input")
		}
		return nil, fmt.Errorf("csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idCol, ok := columns["id"]
	if !ok {
		return nil, fmt.Errorf("csv: id column is required")
	}

	mismatches := []Mismatch{}
	units := c.Units()
	seen := make(map[string]bool, len(units))

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if idCol >= len(record) {
			continue
		}
		id := strings.TrimSpace(record[idCol])
		if id == "" {
			continue
		}

		u, err := c.GetUnit(id)
		if err != nil {
			mismatches = append(mismatches, Mismatch{UnitID: id, Field: "id", Sheet: id, Line: line})
			continue
		}
		seen[id] = true

		expected := unitRecord(u)
		for _, col := range comparedColumns {
			idx, ok := columns[col]
			if !ok || idx >= len(record) {
				continue
			}
			want := expected[headerIndex(col)]
			got := strings.TrimSpace(record[idx])
			if !sameValue(col, want, got) {
				mismatches = append(mismatches, Mismatch{UnitID: id, Field: col, Catalog: want, Sheet: got, Line: line})
			}
		}
	}

	for _, u := range units {
		if !seen[u.ID] {
			mismatches = append(mismatches, Mismatch{UnitID: u.ID, Field: "missing", Catalog: u.ID})
		}
	}

	return mismatches, nil
}

func headerIndex(col string) int {
	for i, name := range CSVHeader {
		if name == col {
			return i
		}
	}
	return -1
}

func sameValue(col, want, got string) bool {
	if col == "high_command" {
		b, err := strconv.ParseBool(got)
		if got == "" {
			b, err = false, nil
		}
		return err == nil && strconv.FormatBool(b) == want
	}
	if col == "companion" {
		return strings.EqualFold(want, got)
	}
	return want == got
}
