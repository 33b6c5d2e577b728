package models

// Document is an open record: string keys to loosely typed values. Comments,
// user accounts and saved data carry whatever the client sends.
type Document map[string]any

// IDField is the key the store assigns identifiers under.
const IDField = "_id"

// EmailField is the ownership key on saved user data.
const EmailField = "email"

// Clone returns a copy of the document. Nested documents, maps and arrays
// are copied too, so the clone shares no mutable state with d.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return t.Clone()
	case map[string]any:
		if t == nil {
			return t
		}
		return map[string]any(Document(t).Clone())
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
