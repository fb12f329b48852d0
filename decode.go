package fieldclip

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// DefaultMaxDepth bounds nesting when decoding untrusted field descriptions.
const DefaultMaxDepth = 64

// rawNode mirrors the JSON wire shape. Pointers distinguish an absent key
// from an empty value so that defaults are applied only to absent keys.
type rawNode struct {
	Type              *string         `json:"type"`
	Name              *string         `json:"name"`
	Value             *string         `json:"value"`
	ConditionField    *string         `json:"condition_field"`
	ConditionOperator *string         `json:"condition_operator"`
	ConditionValue    *string         `json:"condition_value"`
	TrueContent       json.RawMessage `json:"true_content"`
	FalseContent      json.RawMessage `json:"false_content"`
	MainField         *string         `json:"main_field"`
	FallbackContent   json.RawMessage `json:"fallback_content"`
	FallbackField     *string         `json:"fallback_field"`
}

// DecodeNode decodes a JSON field description, resolving every default, and
// limits nesting to DefaultMaxDepth.
func DecodeNode(b []byte) (Node, error) {
	return DecodeNodeDepth(b, DefaultMaxDepth)
}

// DecodeNodeDepth is DecodeNode with an explicit nesting limit. A maxDepth
// of zero or less disables the limit. An empty document or null is
// rejected; an empty object decodes to an Unknown node.
func DecodeNodeDepth(b []byte, maxDepth int) (Node, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, null) {
		return nil, ErrMissingField
	}
	return decodeNode(b, 1, maxDepth)
}

func decodeNode(b []byte, depth, maxDepth int) (Node, error) {
	if maxDepth > 0 && depth > maxDepth {
		return nil, ErrMaxDepth(maxDepth)
	}

	var raw rawNode
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, ErrInvalidFieldJSON(err)
	}

	switch Kind(str(raw.Type, "")) {
	case KindSimple:
		return &Simple{Name: str(raw.Name, DefaultFieldName)}, nil
	case KindText:
		return &Text{Value: str(raw.Value, "")}, nil
	case KindIf:
		if raw.ConditionField == nil {
			return nil, ErrMissingConditionField
		}
		t, err := decodeBranch(raw.TrueContent, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		f, err := decodeBranch(raw.FalseContent, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		return &If{
			ConditionField: *raw.ConditionField,
			Operator:       str(raw.ConditionOperator, DefaultOperator),
			ConditionValue: str(raw.ConditionValue, ""),
			True:           t,
			False:          f,
		}, nil
	case KindCheckEmpty:
		fallback, err := decodeBranch(raw.FallbackContent, depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		return &CheckEmpty{
			MainField:     str(raw.MainField, DefaultMainField),
			Fallback:      fallback,
			FallbackField: str(raw.FallbackField, DefaultFallbackField),
		}, nil
	default:
		return &Unknown{Type: str(raw.Type, "")}, nil
	}
}

// decodeBranch returns a nil Node for an absent branch: a missing key or
// any empty JSON value (null, false, 0, "", [] or {}).
func decodeBranch(b []byte, depth, maxDepth int) (Node, error) {
	if isEmptyValue(b) {
		return nil, nil
	}
	return decodeNode(b, depth, maxDepth)
}

func str(p *string, dflt string) string {
	if p == nil {
		return dflt
	}
	return *p
}

var null = []byte("null")

// isEmptyValue reports whether b, a single well-formed JSON value, is empty.
func isEmptyValue(b []byte) bool {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return true
	}
	switch b[0] {
	case 'n':
		return bytes.Equal(b, null)
	case 'f':
		return bytes.Equal(b, []byte("false"))
	case '"':
		return len(b) == 2
	case '{', '[':
		return len(bytes.TrimSpace(b[1:len(b)-1])) == 0
	case 't':
		return false
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		return err == nil && f == 0
	}
}

// EncodeNode renders n back into its JSON wire shape with every default
// spelled out. Absent branches are omitted.
func EncodeNode(n Node) ([]byte, error) {
	return json.Marshal(toWire(n))
}

type wireNode struct {
	Type              string    `json:"type"`
	Name              *string   `json:"name,omitempty"`
	Value             *string   `json:"value,omitempty"`
	ConditionField    *string   `json:"condition_field,omitempty"`
	ConditionOperator *string   `json:"condition_operator,omitempty"`
	ConditionValue    *string   `json:"condition_value,omitempty"`
	TrueContent       *wireNode `json:"true_content,omitempty"`
	FalseContent      *wireNode `json:"false_content,omitempty"`
	MainField         *string   `json:"main_field,omitempty"`
	FallbackContent   *wireNode `json:"fallback_content,omitempty"`
	FallbackField     *string   `json:"fallback_field,omitempty"`
}

func toWire(n Node) *wireNode {
	switch n := n.(type) {
	case nil:
		return nil
	case *Simple:
		return &wireNode{Type: string(KindSimple), Name: &n.Name}
	case *Text:
		return &wireNode{Type: string(KindText), Value: &n.Value}
	case *If:
		return &wireNode{
			Type:              string(KindIf),
			ConditionField:    &n.ConditionField,
			ConditionOperator: &n.Operator,
			ConditionValue:    &n.ConditionValue,
			TrueContent:       toWire(n.True),
			FalseContent:      toWire(n.False),
		}
	case *CheckEmpty:
		w := &wireNode{
			Type:            string(KindCheckEmpty),
			MainField:       &n.MainField,
			FallbackContent: toWire(n.Fallback),
		}
		if n.Fallback == nil {
			w.FallbackField = &n.FallbackField
		}
		return w
	case *Unknown:
		return &wireNode{Type: n.Type}
	}
	return nil
}
