package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Fingerprint renders a node tree into a stable textual form. Two trees with
// equal fingerprints are structurally equal up to function identity: hooks and
// checks contribute their arity and names, not their code.
func Fingerprint(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	if n == nil {
		b.WriteString("nil")
		return
	}
	switch t := n.(type) {
	case *String:
		b.WriteString("string")
		writeLenBounds(b, t.MinLen, t.MaxLen)
		if t.Pattern != "" {
			fmt.Fprintf(b, "(pattern=%s)", t.Pattern)
		}
		if t.Strip {
			b.WriteString("(strip)")
		}
		if t.ToLower {
			b.WriteString("(lower)")
		}
		if t.ToUpper {
			b.WriteString("(upper)")
		}
	case *Bool:
		b.WriteString("bool")
	case *Number:
		b.WriteString(t.Name)
		if t.Min != nil {
			fmt.Fprintf(b, "(min=%v,excl=%v)", t.Min.Value, t.Min.Exclusive)
		}
		if t.Max != nil {
			fmt.Fprintf(b, "(max=%v,excl=%v)", t.Max.Value, t.Max.Exclusive)
		}
		if t.MultipleOf != nil {
			fmt.Fprintf(b, "(multipleOf=%v)", *t.MultipleOf)
		}
		if t.MaxDigits != nil {
			fmt.Fprintf(b, "(maxDigits=%d)", *t.MaxDigits)
		}
		if t.DecimalPlaces != nil {
			fmt.Fprintf(b, "(decimalPlaces=%d)", *t.DecimalPlaces)
		}
	case *Any:
		b.WriteString("any")
	case *None:
		b.WriteString("none")
	case *List:
		b.WriteString("list")
		writeLenBounds(b, t.MinLen, t.MaxLen)
		b.WriteString("[")
		writeNode(b, t.Item)
		b.WriteString("]")
	case *Set:
		b.WriteString("set")
		writeLenBounds(b, t.MinLen, t.MaxLen)
		b.WriteString("[")
		writeNode(b, t.Item)
		b.WriteString("]")
	case *Map:
		b.WriteString("map")
		writeLenBounds(b, t.MinLen, t.MaxLen)
		b.WriteString("[")
		writeNode(b, t.Key)
		b.WriteString(",")
		writeNode(b, t.Value)
		b.WriteString("]")
	case *Tuple:
		b.WriteString("tuple[")
		for i, it := range t.Items {
			if i > 0 {
				b.WriteString(",")
			}
			writeNode(b, it)
		}
		if t.Rest != nil {
			b.WriteString(",*")
			writeNode(b, t.Rest)
		}
		b.WriteString("]")
	case *Union:
		b.WriteString("union[")
		for i, br := range t.Branches {
			if i > 0 {
				b.WriteString(",")
			}
			writeNode(b, br)
		}
		b.WriteString("]")
	case *Nullable:
		b.WriteString("nullable[")
		writeNode(b, t.Inner)
		b.WriteString("]")
	case *TaggedUnion:
		fmt.Fprintf(b, "tagged[%s", t.Discriminator)
		if t.Alias != "" {
			fmt.Fprintf(b, " as %s", t.Alias)
		}
		b.WriteString("]{")
		for i, tag := range t.Order {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(b, "%s:", tag)
			writeNode(b, t.Mapping[tag])
		}
		b.WriteString("}")
	case *Literal:
		b.WriteString("literal[")
		for i, v := range t.Values {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(b, "%#v", v)
		}
		b.WriteString("]")
	case *Enum:
		fmt.Fprintf(b, "enum[%s;", t.Name)
		writeNode(b, t.Base)
		b.WriteString(";")
		for i, v := range t.Values {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(b, "%#v", v)
		}
		b.WriteString("]")
	case *Record:
		fmt.Fprintf(b, "record[%s;unknown=%d;byAlias=%v]{", t.Name, t.Unknown, t.PopulateByAlias)
		for i, f := range t.Fields {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(f.Name)
			if f.Alias != "" {
				fmt.Fprintf(b, " as %s", f.Alias)
			}
			if f.Optional {
				b.WriteString("?")
			}
			if f.HasDefault || f.DefaultFn != nil {
				b.WriteString("=default")
			}
			if f.Exclude {
				b.WriteString("!")
			}
			b.WriteString(":")
			writeNode(b, f.Schema)
		}
		b.WriteString("}")
	case *Ref:
		fmt.Fprintf(b, "ref[%s]", t.Name)
	case *Opaque:
		fmt.Fprintf(b, "opaque[%s]", t.Format)
	case *Check:
		fmt.Fprintf(b, "check[%s](", strings.Join(t.Names, ","))
		writeNode(b, t.Inner)
		b.WriteString(")")
	case *Hooks:
		fmt.Fprintf(b, "hooks[before=%d,after=%d,wrap=%d,plain=%v](", len(t.Before), len(t.After), len(t.Wrap), t.Plain != nil)
		writeNode(b, t.Inner)
		b.WriteString(")")
	default:
		fmt.Fprintf(b, "?%T", n)
	}
}

func writeLenBounds(b *strings.Builder, min, max *int) {
	if min != nil {
		fmt.Fprintf(b, "(minLen=%d)", *min)
	}
	if max != nil {
		fmt.Fprintf(b, "(maxLen=%d)", *max)
	}
}

// Records collects every named record node reachable from n, keyed by
// reference name. Engines use this table to resolve Ref nodes.
func Records(n Node) map[string]*Record {
	out := map[string]*Record{}
	var walk func(Node)
	walk = func(n Node) {
		switch t := n.(type) {
		case *Record:
			if _, seen := out[t.Name]; seen {
				return
			}
			out[t.Name] = t
			for _, f := range t.Fields {
				walk(f.Schema)
			}
		case *List:
			walk(t.Item)
		case *Set:
			walk(t.Item)
		case *Map:
			walk(t.Key)
			walk(t.Value)
		case *Tuple:
			for _, it := range t.Items {
				walk(it)
			}
			walk(t.Rest)
		case *Union:
			for _, br := range t.Branches {
				walk(br)
			}
		case *Nullable:
			walk(t.Inner)
		case *TaggedUnion:
			tags := make([]string, 0, len(t.Mapping))
			for tag := range t.Mapping {
				tags = append(tags, tag)
			}
			sort.Strings(tags)
			for _, tag := range tags {
				walk(t.Mapping[tag])
			}
		case *Enum:
			walk(t.Base)
		case *Check:
			walk(t.Inner)
		case *Hooks:
			walk(t.Inner)
		}
	}
	walk(n)
	return out
}

// DanglingRefs returns the names of Ref nodes in the tree that no record
// node in the same tree satisfies. A self-contained tree returns none.
func DanglingRefs(n Node) []string {
	defined := Records(n)
	seen := map[string]bool{}
	var dangling []string
	var walk func(Node)
	walk = func(n Node) {
		switch t := n.(type) {
		case *Ref:
			if _, ok := defined[t.Name]; !ok && !seen[t.Name] {
				seen[t.Name] = true
				dangling = append(dangling, t.Name)
			}
		case *Record:
			for _, f := range t.Fields {
				walk(f.Schema)
			}
		case *List:
			walk(t.Item)
		case *Set:
			walk(t.Item)
		case *Map:
			walk(t.Key)
			walk(t.Value)
		case *Tuple:
			for _, it := range t.Items {
				walk(it)
			}
			walk(t.Rest)
		case *Union:
			for _, br := range t.Branches {
				walk(br)
			}
		case *Nullable:
			walk(t.Inner)
		case *TaggedUnion:
			for _, tag := range t.Order {
				walk(t.Mapping[tag])
			}
		case *Enum:
			walk(t.Base)
		case *Check:
			walk(t.Inner)
		case *Hooks:
			walk(t.Inner)
		}
	}
	walk(n)
	return dangling
}
