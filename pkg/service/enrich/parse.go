package enrich

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
)

// parseResponse decodes a model response into an Enrichment. The decoder is
// deliberately forgiving: models wrap the JSON in prose or code fences, use
// Spanish field names and return the action list in several shapes.
func parseResponse(raw string) (*model.Enrichment, error) {
	obj, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	enrichment := &model.Enrichment{
		Summary:           stringField(obj, "summary", "resumen"),
		SuggestedType:     stringField(obj, "suggested_type", "tipo_sugerido"),
		SuggestedPriority: stringField(obj, "suggested_priority", "prioridad_sugerida"),
	}
	if v, ok := lookupField(obj, "actions", "acciones"); ok {
		enrichment.Actions = normalizeActions(v)
	}
	return enrichment, nil
}

// extractJSONObject unmarshals the response as-is, then falls back to the
// substring between the first '{' and the last '}'.
func extractJSONObject(raw string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		return obj, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, goerr.New("response contains no JSON object")
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &obj); err != nil {
		return nil, goerr.Wrap(err, "failed to parse embedded JSON object")
	}
	return obj, nil
}

func lookupField(obj map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func stringField(obj map[string]any, keys ...string) string {
	v, ok := lookupField(obj, keys...)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// normalizeActions flattens whichever shape the model chose for the action
// field into a list of non-empty strings.
func normalizeActions(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		var actions []string
		for _, elem := range v {
			actions = appendAction(actions, elem)
		}
		return actions
	case string:
		return parseActionString(v)
	case map[string]any:
		return appendAction(nil, v)
	default:
		return appendAction(nil, v)
	}
}

func appendAction(actions []string, elem any) []string {
	switch v := elem.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			actions = append(actions, s)
		}
	case map[string]any:
		if s := stringField(v, "description", "descripcion"); s != "" {
			actions = append(actions, s)
		}
		if sub, ok := lookupField(v, "subtasks", "subtareas"); ok {
			if list, ok := sub.([]any); ok {
				for _, item := range list {
					actions = appendAction(actions, item)
				}
			}
		}
	case float64:
		actions = append(actions, strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		actions = append(actions, strconv.FormatBool(v))
	}
	return actions
}

// parseActionString handles actions delivered as a single string: either a
// stringified list (often with single quotes) or bullet or newline
// separated text.
func parseActionString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "[") {
		var list []any
		if err := json.Unmarshal([]byte(s), &list); err != nil {
			// Python-style repr with single quotes.
			if err := json.Unmarshal([]byte(strings.ReplaceAll(s, "'", `"`)), &list); err != nil {
				list = nil
			}
		}
		if list != nil {
			var actions []string
			for _, elem := range list {
				actions = appendAction(actions, elem)
			}
			return actions
		}
	}

	var actions []string
	for _, line := range strings.Split(s, "\n") {
		line = trimBullet(line)
		if line != "" {
			actions = append(actions, line)
		}
	}
	return actions
}

func trimBullet(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*•")
	if i := strings.IndexAny(line, ".)"); i > 0 && i <= 2 {
		if _, err := strconv.Atoi(line[:i]); err == nil {
			line = line[i+1:]
		}
	}
	return strings.TrimSpace(line)
}
