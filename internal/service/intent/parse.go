package intent

import (
	"encoding/json"
	"strings"
)

// Parse turns raw model output into a Result. It never consults the model
// again; validation depends only on the decoded fields.
func Parse(raw string) Result {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```JSON", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil || payload == nil {
		return Unprocessable{}
	}

	if len(payload) == 0 {
		return NoIntent{}
	}

	values := map[string]string{}
	missing := []string{}

	for _, field := range Fields {
		s, ok := payload[field].(string)
		s = strings.TrimSpace(s)
		if !ok || len(s) == 0 {
			missing = append(missing, field)
			continue
		}
		values[field] = s
	}

	if len(missing) > 0 {
		return Incomplete{Missing: missing}
	}

	return Complete{
		Booking: Booking{
			Name:  values[FieldName],
			Email: values[FieldEmail],
			Date:  values[FieldDate],
			Time:  values[FieldTime],
		},
	}
}
