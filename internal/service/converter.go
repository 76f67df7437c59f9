package service

import (
	"time"

	"github.com/vladislavprovich/familyhub/pkg/client/familydb"
)

// Row conversion helpers. The table API returns untyped rows; services own
// the mapping to their models.

func rowString(row familydb.Row, column string) string {
	value, _ := row[column].(string)
	return value
}

func rowInt64(row familydb.Row, column string) int64 {
	// JSON numbers decode as float64.
	switch v := row[column].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

func rowTime(row familydb.Row, column string) time.Time {
	raw, ok := row[column].(string)
	if !ok {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func postFromRow(row familydb.Row) Post {
	return Post{
		ID:        rowString(row, "id"),
		FamilyID:  rowString(row, "family_id"),
		Author:    rowString(row, "author"),
		Body:      rowString(row, "body"),
		CreatedAt: rowTime(row, "created_at"),
	}
}

func postsFromRows(rows []familydb.Row) []Post {
	result := make([]Post, len(rows))
	for i, row := range rows {
		result[i] = postFromRow(row)
	}
	return result
}

func recipeFromRow(row familydb.Row) Recipe {
	return Recipe{
		ID:          rowString(row, "id"),
		FamilyID:    rowString(row, "family_id"),
		Title:       rowString(row, "title"),
		Ingredients: rowString(row, "ingredients"),
		UpdatedAt:   rowTime(row, "updated_at"),
	}
}

func recipesFromRows(rows []familydb.Row) []Recipe {
	result := make([]Recipe, len(rows))
	for i, row := range rows {
		result[i] = recipeFromRow(row)
	}
	return result
}

func pollFromRow(row familydb.Row) Poll {
	return Poll{
		ID:         rowString(row, "id"),
		FamilyID:   rowString(row, "family_id"),
		Question:   rowString(row, "question"),
		TotalVotes: rowInt64(row, "total_votes"),
		CreatedAt:  rowTime(row, "created_at"),
	}
}

func pollsFromRows(rows []familydb.Row) []Poll {
	result := make([]Poll, len(rows))
	for i, row := range rows {
		result[i] = pollFromRow(row)
	}
	return result
}
