package ast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tjlang/lang/token"
)

var (
	spanType = reflect.TypeFor[token.Span]()
	kindType = reflect.TypeFor[token.Kind]()
	locType  = reflect.TypeFor[Loc]()
)

// ToMap converts the tree rooted at n into plain maps, slices, and scalars
// suitable for encoding. Each node becomes a map with a "node" key naming
// its type. Spans are included only when withSpans is set, so two trees
// parsed from differently formatted sources compare equal with
// reflect.DeepEqual when withSpans is false.
func ToMap(n Node, withSpans bool) any {
	if isNil(n) {
		return nil
	}

	return toMap(reflect.ValueOf(n), withSpans)
}

func toMap(v reflect.Value, withSpans bool) any {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}

		return toMap(v.Elem(), withSpans)

	case reflect.Slice:
		if v.Len() == 0 {
			return nil
		}

		out := make([]any, v.Len())
		for i := range v.Len() {
			out[i] = toMap(v.Index(i), withSpans)
		}

		return out

	case reflect.Struct:
		t := v.Type()
		if t == spanType {
			return v.Interface().(token.Span).String()
		}

		m := make(map[string]any, t.NumField()+1)
		if _, ok := reflect.New(t).Interface().(Node); ok {
			m["node"] = t.Name()
		}

		for i := range t.NumField() {
			f := t.Field(i)

			switch {
			case !f.IsExported():
				continue
			case f.Type == locType:
				if withSpans {
					m["span"] = v.Field(i).Interface().(Loc).Range.String()
				}

				continue
			case f.Type == spanType && !withSpans:
				continue
			}

			if val := toMap(v.Field(i), withSpans); val != nil {
				m[snake(f.Name)] = val
			}
		}

		return m
	}

	if v.Type() == kindType {
		return v.Interface().(token.Kind).String()
	}

	if v.IsZero() && v.Kind() != reflect.Bool {
		return nil
	}

	return v.Interface()
}

// snake converts an exported Go field name to snake_case.
func snake(s string) string {
	var b strings.Builder

	for i, r := range s {
		if 'A' <= r && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}

			r += 'a' - 'A'
		}

		b.WriteRune(r)
	}

	return b.String()
}

// FormatJSON writes the tree rooted at n as JSON.
func FormatJSON(w io.Writer, n Node, indent int, withSpans bool) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ToMap(n, withSpans), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ToMap(n, withSpans))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the tree rooted at n as YAML.
func FormatYAML(ctx context.Context, w io.Writer, n Node, indent int, withSpans bool) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ToMap(n, withSpans), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// Dump writes an indented tree outline of n, one node per line.
func Dump(w io.Writer, n Node) error {
	var b strings.Builder

	depth := 0

	Inspect(n, func(n Node) bool {
		if n == nil {
			depth--

			return false
		}

		fmt.Fprintf(&b, "%s%s %s%s\n",
			strings.Repeat(". ", depth), reflect.TypeOf(n).Elem().Name(),
			n.Span().Start, label(n))

		depth++

		return true
	})

	_, err := io.WriteString(w, b.String())

	return err
}

func label(n Node) string {
	switch n := n.(type) {
	case *Ident:
		return " " + n.Name
	case *IntLit:
		return " " + n.Raw
	case *FloatLit:
		return " " + n.Raw
	case *StringLit:
		return " " + fmt.Sprintf("%q", n.Value)
	case *BinaryExpr:
		return " " + n.Op.String()
	case *UnaryExpr:
		return " " + n.Op.String()
	case *MemberExpr:
		return " ." + n.Name
	case *FuncDecl:
		return " " + n.Name
	case *StructDecl:
		return " " + n.Name
	case *EnumDecl:
		return " " + n.Name
	case *InterfaceDecl:
		return " " + n.Name
	case *VarDecl:
		return " " + n.Name
	case *BindingPattern:
		return " " + n.Name
	case *PrimitiveType:
		return " " + n.Name
	case *NamedType:
		return " " + n.Name
	}

	return ""
}
