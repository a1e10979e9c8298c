package slim

// The user and severity attributes arrive in one of two shapes: a platform
// envelope ({data: {id, attributes}}) or an already-flat object produced by
// a previous slimming pass. Each resolver classifies the shape once and
// dispatches, which also makes the transform idempotent.

type userShape int

const (
	userAbsent userShape = iota
	userEnveloped
	userFlat
)

func classifyUser(v any) (map[string]any, userShape) {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil, userAbsent
	}
	if _, ok := m["data"]; ok {
		return m, userEnveloped
	}
	return m, userFlat
}

// UserRef reduces a user reference to {id, email, name}. Flat inputs are
// returned as-is; unresolvable inputs yield nil. The return type is any so
// an absent reference is a nil interface and survives the != nil pruning
// check in the caller.
func UserRef(v any) any {
	m, shape := classifyUser(v)
	switch shape {
	case userEnveloped:
		data, ok := m["data"].(map[string]any)
		if !ok || len(data) == 0 {
			return nil
		}
		attrs, _ := data["attributes"].(map[string]any)
		name := attrs["name"]
		if name == nil {
			name = attrs["full_name"]
		}
		return map[string]any{
			"id":    data["id"],
			"email": attrs["email"],
			"name":  name,
		}
	case userFlat:
		return m
	default:
		return nil
	}
}

// SeverityName unwraps a severity reference to its plain name. A bare
// string is kept; an envelope is resolved via data.attributes.name with a
// flat attributes.name fallback; anything else yields nil.
func SeverityName(v any) any {
	switch sev := v.(type) {
	case nil:
		return nil
	case string:
		if sev == "" {
			return nil
		}
		return sev
	case map[string]any:
		if data, ok := sev["data"].(map[string]any); ok {
			if attrs, ok := data["attributes"].(map[string]any); ok {
				return attrs["name"]
			}
		}
		if attrs, ok := sev["attributes"].(map[string]any); ok {
			return attrs["name"]
		}
		return nil
	default:
		return nil
	}
}
