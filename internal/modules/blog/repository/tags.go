package repository

import (
	"encoding/json"
)

// TagsColumn encodes tags the way the json serializer on entity.Blog stores
// them, for map based updates that bypass the serializer.
func TagsColumn(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}
