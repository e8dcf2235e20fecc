package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// EncodeStringList serializes an ordered string list into a JSON column value.
// A nil or empty list becomes an empty JSON array, never null.
func EncodeStringList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(data)
}

func decodeStringList(data datatypes.JSON) []string {
	if len(data) == 0 {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return []string{}
	}
	return values
}

// DecodeStringList deserializes a JSON column value back into a string list.
func DecodeStringList(data datatypes.JSON) []string {
	return decodeStringList(data)
}
