// Package preview renders the text Word would produce for a merge field
// tree given one data record.
package preview

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/kit/platform/errors"
)

// Record maps merge field names to their values for one data row.
type Record map[string]string

type mode int

const (
	numeric mode = iota
	text
	wildcard
)

var comparisons = map[string]string{
	"=":  "a == b",
	"<>": "a != b",
	"<":  "a < b",
	"<=": "a <= b",
	">":  "a > b",
	">=": "a >= b",
}

var wildcards = map[string]string{
	"=":  "a matches b",
	"<>": "not (a matches b)",
}

type programKey struct {
	op   string
	mode mode
}

// Evaluator evaluates IF conditions the way Word does: numerically when both
// operands are numbers, as strings otherwise, and with * and ? wildcards
// for = and <> when the right operand contains them. Programs are compiled
// once, so an Evaluator is safe for concurrent use.
type Evaluator struct {
	programs map[programKey]*vm.Program
}

// NewEvaluator compiles the comparison programs.
func NewEvaluator() (*Evaluator, error) {
	e := &Evaluator{programs: make(map[programKey]*vm.Program)}
	numEnv := map[string]interface{}{"a": float64(0), "b": float64(0)}
	strEnv := map[string]interface{}{"a": "", "b": ""}

	for op, src := range comparisons {
		p, err := expr.Compile(src, expr.Env(numEnv), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", src, err)
		}
		e.programs[programKey{op, numeric}] = p

		p, err = expr.Compile(src, expr.Env(strEnv), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", src, err)
		}
		e.programs[programKey{op, text}] = p
	}
	for op, src := range wildcards {
		p, err := expr.Compile(src, expr.Env(strEnv), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", src, err)
		}
		e.programs[programKey{op, wildcard}] = p
	}
	return e, nil
}

var defaultEvaluator *Evaluator

func init() {
	e, err := NewEvaluator()
	if err != nil {
		panic(err)
	}
	defaultEvaluator = e
}

// Evaluate renders n for rec with the default Evaluator.
func Evaluate(n fieldclip.Node, rec Record) (string, error) {
	return defaultEvaluator.Evaluate(context.Background(), n, rec)
}

// Evaluate renders n for rec. Fields missing from rec merge as empty
// strings and unknown nodes render as nothing.
func (e *Evaluator) Evaluate(ctx context.Context, n fieldclip.Node, rec Record) (string, error) {
	var b strings.Builder
	if err := e.render(&b, n, rec); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (e *Evaluator) render(b *strings.Builder, n fieldclip.Node, rec Record) error {
	switch n := n.(type) {
	case nil, *fieldclip.Unknown:
		return nil
	case *fieldclip.Simple:
		b.WriteString(rec[n.Name])
		return nil
	case *fieldclip.Text:
		b.WriteString(n.Value)
		return nil
	case *fieldclip.If:
		ok, err := e.Compare(rec[n.ConditionField], n.Operator, n.ConditionValue)
		if err != nil {
			return err
		}
		if ok {
			return e.render(b, n.True, rec)
		}
		return e.render(b, n.False, rec)
	case *fieldclip.CheckEmpty:
		return e.render(b, n.Desugar(), rec)
	default:
		return nil
	}
}

// Compare evaluates "left op right".
func (e *Evaluator) Compare(left, op, right string) (bool, error) {
	env := map[string]interface{}{"a": left, "b": right}
	m := text
	if l, r, ok := numbers(left, right); ok {
		m = numeric
		env["a"], env["b"] = l, r
	} else if (op == "=" || op == "<>") && strings.ContainsAny(right, "*?") {
		m = wildcard
		env["b"] = wildcardPattern(right)
	}

	p, ok := e.programs[programKey{op, m}]
	if !ok {
		return false, &errors.Error{
			Code: errors.EInvalid,
			Op:   fieldclip.OpPreview,
			Msg:  fmt.Sprintf("unsupported condition operator %q", op),
		}
	}
	out, err := expr.Run(p, env)
	if err != nil {
		return false, fieldclip.ErrInternalServiceError(fieldclip.OpPreview, err)
	}
	return out.(bool), nil
}

func numbers(left, right string) (float64, float64, bool) {
	l, err := strconv.ParseFloat(strings.TrimSpace(left), 64)
	if err != nil {
		return 0, 0, false
	}
	r, err := strconv.ParseFloat(strings.TrimSpace(right), 64)
	if err != nil {
		return 0, 0, false
	}
	return l, r, true
}

// wildcardPattern turns a Word wildcard into an anchored regular
// expression: * matches any run of characters and ? a single character.
func wildcardPattern(s string) string {
	var b strings.Builder
	b.WriteString(`^(?s)`)
	for _, r := range s {
		switch r {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString(`$`)
	return b.String()
}
