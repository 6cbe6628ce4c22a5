package seo

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// StringList decodes a JSON string array column; malformed or empty columns yield nil.
func StringList(j datatypes.JSON) []string {
	if len(j) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(j, &out); err != nil {
		return nil
	}
	return out
}

// JSONList encodes a string slice for a JSON column. A nil slice becomes "[]".
func JSONList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	b, _ := json.Marshal(items)
	return datatypes.JSON(b)
}

// MustJSON encodes v for a JSON column, falling back to "null" on error.
func MustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(b)
}
