// Package ingest reads creator tables from CSV and writes ranked
// results back out.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/domain/creator"
	"github.com/Prachiti-Gaikwad/creator-insight/internal/usecase/rank"
)

// ErrTooManyRows signals an upload above the configured row limit.
var ErrTooManyRows = errors.New("dataset exceeds row limit")

// columnAliases maps normalized header names to canonical record
// fields. The aliases cover the column names used by the mock creator
// engagement exports.
var columnAliases = map[string]string{
	"name":                  "name",
	"creator":               "name",
	"category":              "category",
	"followers":             "followers",
	"follower_count":        "followers",
	"engagement_rate":       "engagement_rate",
	"engagement_rate_(%)":   "engagement_rate",
	"avg_likes":             "avg_likes",
	"average_likes/post":    "avg_likes",
	"avg_comments":          "avg_comments",
	"average_comments/post": "avg_comments",
}

// exportHeader is the canonical column order for exports.
var exportHeader = []string{
	"name", "category", "followers", "engagement_rate", "avg_likes", "avg_comments", "score",
}

// ReadRecords parses a CSV table into creator records. The first row
// must be a header naming at least the name column. Row policy is
// explicit and uniform: an empty numeric cell coerces to zero, a
// non-numeric cell in a numeric column (or a missing name) skips the
// whole row and counts it in skipped. maxRows of 0 means unlimited.
func ReadRecords(r io.Reader, maxRows int) (records []creator.Record, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // row width checked per row

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %v: %w", err, domain.ErrMalformedDataset)
	}

	cols := map[string]int{}
	for i, h := range header {
		if canonical, ok := columnAliases[normalizeHeader(h)]; ok {
			cols[canonical] = i
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, 0, fmt.Errorf("missing name column: %w", domain.ErrMalformedDataset)
	}

	for {
		row, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			// A structurally broken row is skipped, not fatal.
			skipped++
			continue
		}

		rec, ok := recordFromRow(row, cols)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)

		if maxRows > 0 && len(records) > maxRows {
			return nil, 0, fmt.Errorf("%w (max %d)", ErrTooManyRows, maxRows)
		}
	}

	return records, skipped, nil
}

// WriteScores serializes ranked results to CSV with canonical column
// names, preserving the ranked order.
func WriteScores(w io.Writer, scores []rank.Score) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range scores {
		row := []string{
			s.Record.Name,
			s.Record.Category,
			strconv.FormatInt(s.Record.Followers, 10),
			formatFloat(s.Record.EngagementRate),
			formatFloat(s.Record.AvgLikes),
			formatFloat(s.Record.AvgComments),
			formatFloat(s.Value),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// normalizeHeader lowercases a header and replaces spaces with
// underscores, matching how the original exports name their columns.
func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

func recordFromRow(row []string, cols map[string]int) (creator.Record, bool) {
	cell := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	name := cell("name")
	if name == "" {
		return creator.Record{}, false
	}

	followers, ok := parseInt(cell("followers"))
	if !ok || followers < 0 {
		return creator.Record{}, false
	}
	engagement, ok := parseFloat(cell("engagement_rate"))
	if !ok {
		return creator.Record{}, false
	}
	likes, ok := parseFloat(cell("avg_likes"))
	if !ok {
		return creator.Record{}, false
	}
	comments, ok := parseFloat(cell("avg_comments"))
	if !ok {
		return creator.Record{}, false
	}

	return creator.Record{
		Name:           name,
		Category:       cell("category"),
		Followers:      followers,
		EngagementRate: engagement,
		AvgLikes:       likes,
		AvgComments:    comments,
	}, true
}

// parseInt coerces an empty cell to zero and rejects non-numeric text.
func parseInt(s string) (int64, bool) {
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseFloat coerces an empty cell to zero and rejects non-numeric text.
func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || v != v {
		return 0, false
	}
	return v, true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
