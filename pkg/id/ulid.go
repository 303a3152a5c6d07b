package id

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// GetUlid returns a lexicographically sortable id. Object keys in blob
// storage use it so listings come back in upload order.
func GetUlid() string {
	return strings.ToLower(ulid.Make().String())
}
