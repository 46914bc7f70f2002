package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// TagKey renders a literal discriminator value into its tag-table key.
// Strings map to themselves; numeric and boolean tags render in their
// canonical decimal/bool form so json.Number and Go ints agree.
func TagKey(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	}
	return fmt.Sprintf("%v", v)
}
