package leaderboard

import (
	"fmt"
	"strconv"
	"strings"
)

// ExtractMetadata reads competition id, page count, competitor count and
// event count from a raw response.
func ExtractMetadata(raw map[string]any) (Metadata, error) {
	var meta Metadata

	pagination, err := requireMap(raw, "", "pagination")
	if err != nil {
		return meta, err
	}
	if meta.TotalPages, err = requireInt(pagination, "pagination", "totalPages"); err != nil {
		return meta, err
	}
	if meta.TotalCompetitors, err = requireInt(pagination, "pagination", "totalCompetitors"); err != nil {
		return meta, err
	}

	competition, err := requireMap(raw, "", "competition")
	if err != nil {
		return meta, err
	}
	id, err := requireValue(competition, "competition", "competitionId")
	if err != nil {
		return meta, err
	}
	meta.CompetitionID = stringify(id)

	ordinals, err := requireArray(raw, "", "ordinals")
	if err != nil {
		return meta, err
	}
	meta.TotalEvents = len(ordinals)

	return meta, nil
}

// DecodePage validates the metadata fields and the row list of a raw
// response. Individual rows are decoded on demand by Page.Row so that one
// bad row does not spoil the page.
func DecodePage(raw map[string]any) (*Page, error) {
	meta, err := ExtractMetadata(raw)
	if err != nil {
		return nil, err
	}

	rows, err := requireArray(raw, "", "leaderboardRows")
	if err != nil {
		return nil, err
	}

	page := &Page{Metadata: meta, rows: rows}
	if pagination := extractMap(raw, "pagination"); len(pagination) > 0 {
		page.CurrentPage = parseInt(pagination["currentPage"])
	}
	return page, nil
}

// Row decodes the i-th leaderboard row.
func (p *Page) Row(i int) (Row, error) {
	path := fmt.Sprintf("leaderboardRows[%d]", i)
	if i < 0 || i >= len(p.rows) {
		return Row{}, &MalformedResponseError{Key: path, Detail: fmt.Sprintf("page returned %d rows", len(p.rows))}
	}

	m, ok := p.rows[i].(map[string]any)
	if !ok {
		return Row{}, &MalformedResponseError{Key: path, Detail: "not an object"}
	}

	entrant, err := requireMap(m, path, "entrant")
	if err != nil {
		return Row{}, err
	}
	score, err := requireValue(m, path, "overallScore")
	if err != nil {
		return Row{}, err
	}
	rank, err := requireValue(m, path, "overallRank")
	if err != nil {
		return Row{}, err
	}

	return Row{
		Entrant:      entrant,
		CompetitorID: entrant["competitorId"],
		OverallScore: stringify(score),
		OverallRank:  stringify(rank),
		index:        i,
		scores:       m["scores"],
	}, nil
}

// ScoreRecords returns the per-event score objects of the row.
func (r Row) ScoreRecords() ([]map[string]any, error) {
	path := fmt.Sprintf("leaderboardRows[%d].scores", r.index)
	if r.scores == nil {
		return nil, &MalformedResponseError{Key: path}
	}
	list, ok := r.scores.([]any)
	if !ok {
		return nil, &MalformedResponseError{Key: path, Detail: "not a list"}
	}

	records := make([]map[string]any, 0, len(list))
	for idx, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, &MalformedResponseError{Key: fmt.Sprintf("%s[%d]", path, idx), Detail: "not an object"}
		}
		records = append(records, rec)
	}
	return records, nil
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func requireValue(m map[string]any, prefix, key string) (any, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, &MalformedResponseError{Key: joinKey(prefix, key)}
	}
	return v, nil
}

func requireMap(m map[string]any, prefix, key string) (map[string]any, error) {
	v, err := requireValue(m, prefix, key)
	if err != nil {
		return nil, err
	}
	mapVal, ok := v.(map[string]any)
	if !ok {
		return nil, &MalformedResponseError{Key: joinKey(prefix, key), Detail: "not an object"}
	}
	return mapVal, nil
}

func requireArray(m map[string]any, prefix, key string) ([]any, error) {
	v, err := requireValue(m, prefix, key)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &MalformedResponseError{Key: joinKey(prefix, key), Detail: "not a list"}
	}
	return arr, nil
}

func requireInt(m map[string]any, prefix, key string) (int, error) {
	v, err := requireValue(m, prefix, key)
	if err != nil {
		return 0, err
	}
	switch val := v.(type) {
	case float64:
		return int(val), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, &MalformedResponseError{Key: joinKey(prefix, key), Detail: "not a number"}
		}
		return i, nil
	default:
		return 0, &MalformedResponseError{Key: joinKey(prefix, key), Detail: "not a number"}
	}
}

func extractMap(m map[string]any, key string) map[string]any {
	if v, ok := m[key]; ok {
		if mapVal, ok := v.(map[string]any); ok {
			return mapVal
		}
	}
	return map[string]any{}
}

func parseInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(val)
		return i
	case int:
		return val
	default:
		return 0
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
