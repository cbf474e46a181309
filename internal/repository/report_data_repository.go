package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/pkg/apiclient"
)

// ReportDataRepository fetches report tables from /reports/{kind}.
type ReportDataRepository struct {
	client *apiclient.Client
}

// NewReportDataRepository constructs the repository.
func NewReportDataRepository(client *apiclient.Client) *ReportDataRepository {
	return &ReportDataRepository{client: client}
}

// Fetch loads one report. The backend may answer with a table
// ({"columns": [...], "rows": [[...]]}) or with an array of flat objects.
func (r *ReportDataRepository) Fetch(ctx context.Context, kind models.ReportKind, filter models.ReportFilter) (*models.ReportTable, error) {
	q := url.Values{}
	setQuery(q, "acad_year", filter.AcadYear)
	setQuery(q, "semester", filter.Semester)
	setQuery(q, "department", filter.Department)

	var raw json.RawMessage
	if err := r.client.Get(ctx, apiclient.PathJoin("reports", string(kind)), q, &raw); err != nil {
		return nil, err
	}
	table, err := decodeReportTable(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s report: %w", kind, err)
	}
	table.Kind = kind
	return table, nil
}

func decodeReportTable(raw json.RawMessage) (*models.ReportTable, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &models.ReportTable{}, nil
	}

	if trimmed[0] == '[' {
		var records []map[string]interface{}
		if err := unmarshalNumbers(trimmed, &records); err != nil {
			return nil, err
		}
		return tableFromRecords(records), nil
	}

	var body struct {
		Title   string          `json:"title"`
		Columns []string        `json:"columns"`
		Rows    [][]interface{} `json:"rows"`
	}
	if err := unmarshalNumbers(trimmed, &body); err != nil {
		return nil, err
	}
	table := &models.ReportTable{Title: body.Title, Columns: body.Columns, Rows: make([][]string, 0, len(body.Rows))}
	for _, row := range body.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellString(v)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, nil
}

func tableFromRecords(records []map[string]interface{}) *models.ReportTable {
	seen := map[string]struct{}{}
	var columns []string
	for _, record := range records {
		for key := range record {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			columns = append(columns, key)
		}
	}
	sort.Strings(columns)

	table := &models.ReportTable{Columns: columns, Rows: make([][]string, 0, len(records))}
	for _, record := range records {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = cellString(record[col])
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func unmarshalNumbers(raw []byte, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(out)
}

func cellString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case json.Number:
		return value.String()
	case bool:
		if value {
			return "yes"
		}
		return "no"
	case []interface{}:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			parts = append(parts, cellString(item))
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		for _, key := range []string{"name", "code", "_id", "id"} {
			if inner, ok := value[key]; ok {
				return cellString(inner)
			}
		}
		encoded, _ := json.Marshal(value)
		return string(encoded)
	default:
		return fmt.Sprint(value)
	}
}
