// Package response extracts the canonical content string from the
// heterogeneous JSON shapes the generation webhooks return.
package response

import (
	"encoding/json"
	"fmt"

	"sermon-studio/backend/internal/model"
)

// EmptyGenerationError means the endpoint responded successfully but no
// accepted field alias carried usable content. Terminal: nothing is saved.
type EmptyGenerationError struct {
	ContentType model.ContentType
}

func (e *EmptyGenerationError) Error() string {
	return fmt.Sprintf("generation service returned no usable %s content", e.ContentType)
}

// Alias orders are contractual. Array responses prefer the generic "output"
// field; bare objects try it last. The content-type-specific alias is
// "sermao" for sermons and "devocional" for devotionals.
var (
	arrayAliases  = []string{"output", "content", "conteudo"}
	objectAliases = []string{"content", "conteudo"}
)

func typeAlias(ct model.ContentType) string {
	if ct == model.ContentTypeDevotional {
		return "devocional"
	}
	return "sermao"
}

// Extract normalizes a raw webhook response into one canonical content
// string. Accepted shapes: a JSON object, or a non-empty array whose first
// element is such an object.
func Extract(raw json.RawMessage, ct model.ContentType) (string, error) {
	var candidate map[string]json.RawMessage
	aliases := objectAliases

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return "", &EmptyGenerationError{ContentType: ct}
		}
		if err := json.Unmarshal(list[0], &candidate); err != nil {
			return "", &EmptyGenerationError{ContentType: ct}
		}
		aliases = arrayAliases
	} else if err := json.Unmarshal(raw, &candidate); err != nil {
		return "", &EmptyGenerationError{ContentType: ct}
	}

	order := make([]string, 0, len(aliases)+1)
	order = append(order, aliases...)
	order = append(order, typeAlias(ct))
	if aliases[0] != "output" {
		order = append(order, "output")
	}

	if text, ok := lookup(candidate, order); ok {
		return text, nil
	}
	return "", &EmptyGenerationError{ContentType: ct}
}

// lookup returns the first alias whose value is a non-empty string. An empty
// string is never treated as found.
func lookup(obj map[string]json.RawMessage, order []string) (string, bool) {
	for _, key := range order {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			continue
		}
		if text != "" {
			return text, true
		}
	}
	return "", false
}
