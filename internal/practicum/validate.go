package practicum

// allowedHomeworkKeys is the fixed set of recognized submission fields.
// Validation is inverted from a typical schema check: it rejects payloads
// carrying keys outside this set, but does not require any of them here
// (ParseStatus enforces the two it consumes).
var allowedHomeworkKeys = map[string]struct{}{
	"id":               {},
	"status":           {},
	"homework_name":    {},
	"reviewer_comment": {},
	"date_updated":     {},
	"lesson_name":      {},
}

// Validate checks the shape of a raw API response, failing on the first
// violation. An empty homeworks list is valid: it simply means nothing to
// report this cycle.
func Validate(v any) error {
	resp, ok := v.(map[string]any)
	if !ok {
		return &ShapeError{Field: "response", Want: "object", Got: v}
	}
	if _, ok := resp["homeworks"]; !ok {
		return &MissingKeyError{Key: "homeworks"}
	}
	if _, ok := resp["current_date"]; !ok {
		return &MissingKeyError{Key: "current_date"}
	}
	list, ok := resp["homeworks"].([]any)
	if !ok {
		return &ShapeError{Field: "homeworks", Want: "array", Got: resp["homeworks"]}
	}
	if len(list) == 0 {
		return nil
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return &ShapeError{Field: "homeworks[0]", Want: "object", Got: list[0]}
	}
	for k := range first {
		if _, ok := allowedHomeworkKeys[k]; !ok {
			return &UnknownKeyError{Key: k}
		}
	}
	return nil
}

// CurrentDate extracts the server timestamp used to advance the poll
// watermark. Call Validate first; this only adds the numeric check.
func CurrentDate(v any) (int64, error) {
	resp, ok := v.(map[string]any)
	if !ok {
		return 0, &ShapeError{Field: "response", Want: "object", Got: v}
	}
	n, ok := resp["current_date"].(float64)
	if !ok {
		return 0, &ShapeError{Field: "current_date", Want: "number", Got: resp["current_date"]}
	}
	return int64(n), nil
}

// FirstHomework returns the newest submission, if any. The API orders
// homeworks newest first.
func FirstHomework(v any) (map[string]any, bool) {
	resp, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	list, ok := resp["homeworks"].([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}
	hw, ok := list[0].(map[string]any)
	return hw, ok
}
