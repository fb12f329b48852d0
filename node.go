package fieldclip

// Kind names the variant of a Node. It matches the "type" key of the JSON
// field description.
type Kind string

const (
	KindSimple     Kind = "simple"
	KindText       Kind = "text"
	KindIf         Kind = "if"
	KindCheckEmpty Kind = "check_empty"
)

// Defaults applied by DecodeNode when a key is absent.
const (
	DefaultFieldName     = "FIELD"
	DefaultOperator      = "="
	DefaultMainField     = "Main"
	DefaultFallbackField = "Fallback"
)

// Node is one element of a merge field expression tree. The set of
// implementations is closed: *Simple, *Text, *If, *CheckEmpty and *Unknown.
type Node interface {
	Kind() Kind
	node()
}

// Simple references a single mail-merge field.
type Simple struct {
	Name string
}

// Text is a literal fragment. Value is emitted as-is, so it may carry RTF.
type Text struct {
	Value string
}

// If is a Word IF field. True and False are nil when the branch is absent.
type If struct {
	ConditionField string
	Operator       string
	ConditionValue string
	True           Node
	False          Node
}

// CheckEmpty emits Fallback (or a reference to FallbackField when Fallback
// is nil) when MainField merges to an empty value, and MainField otherwise.
type CheckEmpty struct {
	MainField     string
	Fallback      Node
	FallbackField string
}

// Unknown holds a node whose type tag is missing or not recognized.
type Unknown struct {
	Type string
}

func (*Simple) Kind() Kind     { return KindSimple }
func (*Text) Kind() Kind       { return KindText }
func (*If) Kind() Kind         { return KindIf }
func (*CheckEmpty) Kind() Kind { return KindCheckEmpty }
func (u *Unknown) Kind() Kind  { return Kind(u.Type) }

func (*Simple) node()     {}
func (*Text) node()       {}
func (*If) node()         {}
func (*CheckEmpty) node() {}
func (*Unknown) node()    {}

// Desugar returns the If node equivalent to c.
func (c *CheckEmpty) Desugar() *If {
	fallback := c.Fallback
	if fallback == nil {
		fallback = &Simple{Name: c.FallbackField}
	}
	return &If{
		ConditionField: c.MainField,
		Operator:       "=",
		ConditionValue: "",
		True:           fallback,
		False:          &Simple{Name: c.MainField},
	}
}

// Operators lists the comparison operators understood by Word's IF field.
var Operators = []string{"=", "<>", "<", "<=", ">", ">="}

// ValidOperator reports whether op is one of Operators.
func ValidOperator(op string) bool {
	for _, o := range Operators {
		if o == op {
			return true
		}
	}
	return false
}

// Walk calls fn for n and each of its descendants in depth-first order,
// passing the depth of the node (the root is at depth 1). Walk stops
// descending below a node when fn returns false. Nil children are skipped.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 1, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	switch n := n.(type) {
	case *If:
		walk(n.True, depth+1, fn)
		walk(n.False, depth+1, fn)
	case *CheckEmpty:
		walk(n.Fallback, depth+1, fn)
	}
}
