package unstructured

import "encoding/json"

// CountElements reports how many extracted elements a successful response
// carries. The service answers with a top-level array, an object holding the
// array under "elements", or (older builds) a JSON-encoded string of the
// array. Anything else counts as zero; a malformed body never fails the
// measurement it belongs to.
func CountElements(body []byte) int {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return 0
	}
	return countValue(v)
}

func countValue(v any) int {
	switch t := v.(type) {
	case []any:
		return len(t)
	case map[string]any:
		inner, ok := t["elements"]
		if !ok {
			return 0
		}
		return countValue(inner)
	case string:
		var decoded any
		if err := json.Unmarshal([]byte(t), &decoded); err != nil {
			return 0
		}
		if arr, ok := decoded.([]any); ok {
			return len(arr)
		}
		return 0
	default:
		return 0
	}
}
