package recordc

import (
	"fmt"
	"strings"

	"github.com/reoring/recordc/schema"
)

// Schema Generator: the recursive mapping from resolved type descriptors to
// schema nodes. One buildContext spans one compilation pass (a record and its
// transitive dependencies).

type buildContext struct {
	ns        *Namespace
	refs      *refRegistry
	subst     map[string]*Type // active generic substitution
	hookNames map[string]struct{}
	warnings  []Warning
}

func newBuildContext(ns *Namespace) *buildContext {
	return &buildContext{
		ns:        ns,
		refs:      newRefRegistry(ns),
		hookNames: map[string]struct{}{},
	}
}

func (ctx *buildContext) warn(w Warning) { ctx.warnings = append(ctx.warnings, w) }

// recordByName finds a record completed during this pass, for discriminator
// validation of Ref variants.
func (ctx *buildContext) recordByName(name string) (*schema.Record, bool) {
	for _, e := range ctx.refs.entries {
		if e.state != stateComplete {
			continue
		}
		n := e.node
		if h, ok := n.(*schema.Hooks); ok {
			n = h.Inner
		}
		if r, ok := n.(*schema.Record); ok && r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// generate dispatches over the descriptor tag. Descriptors must be resolved;
// a deferred reference or type variable reaching this point is a bug.
func (ctx *buildContext) generate(t *Type) (schema.Node, error) {
	switch t.Kind {
	case TypePrimitive:
		switch t.Prim {
		case PrimString:
			return &schema.String{}, nil
		case PrimBool:
			return &schema.Bool{}, nil
		case PrimInt, PrimFloat, PrimDecimal:
			return &schema.Number{Name: t.Prim}, nil
		}
		return nil, genError(t, "unknown primitive "+t.Prim)
	case TypeAny:
		return &schema.Any{}, nil
	case TypeNone:
		return &schema.None{}, nil
	case TypeContainer:
		return ctx.generateContainer(t)
	case TypeUnion:
		return ctx.generateUnion(t)
	case TypeLiteral:
		return &schema.Literal{Values: t.Values}, nil
	case TypeEnum:
		return ctx.generateEnum(t)
	case TypeRecord:
		return ctx.compileRecord(t.Rec)
	case TypeGeneric:
		spec, err := ctx.specialize(t)
		if err != nil {
			return nil, err
		}
		return ctx.compileRecord(spec)
	case TypeOpaque:
		return &schema.Opaque{Format: t.Format}, nil
	case TypeCustom:
		node, ok := probeCapabilities(t.Value)
		if !ok {
			return nil, genError(t, fmt.Sprintf("custom value %T implements no schema capability", t.Value))
		}
		return node, nil
	case TypeAnnotated:
		// Annotated descriptors are unwrapped by the caller so constraints
		// merge with the field's own; a stray one compiles its element.
		node, err := ctx.generate(t.Elem)
		if err != nil {
			return nil, err
		}
		return applyConstraints(node, t.Cons, "", "")
	case TypeDeferred, TypeVar:
		return nil, genError(t, "internal: unresolved descriptor reached the generator")
	}
	return nil, genError(t, "no schema support for this type")
}

func genError(t *Type, msg string) error {
	return &BuildError{Code: CodeSchemaGeneration, Message: msg + " (" + t.String() + ")"}
}

func (ctx *buildContext) generateContainer(t *Type) (schema.Node, error) {
	// A bare container takes "any" for its missing parameters.
	arg := func(i int) *Type {
		if i < len(t.Args) {
			return t.Args[i]
		}
		return &Type{Kind: TypeAny}
	}
	switch t.Cont {
	case ContList:
		item, err := ctx.generate(arg(0))
		if err != nil {
			return nil, err
		}
		return &schema.List{Item: item}, nil
	case ContSet:
		item, err := ctx.generate(arg(0))
		if err != nil {
			return nil, err
		}
		return &schema.Set{Item: item}, nil
	case ContMap:
		key, err := ctx.generate(arg(0))
		if err != nil {
			return nil, err
		}
		value, err := ctx.generate(arg(1))
		if err != nil {
			return nil, err
		}
		return &schema.Map{Key: key, Value: value}, nil
	case ContTuple:
		if len(t.Args) == 0 && t.Rest == nil {
			return &schema.Tuple{Rest: &schema.Any{}}, nil
		}
		items := make([]schema.Node, len(t.Args))
		for i, a := range t.Args {
			n, err := ctx.generate(a)
			if err != nil {
				return nil, err
			}
			items[i] = n
		}
		out := &schema.Tuple{Items: items}
		if t.Rest != nil {
			rest, err := ctx.generate(t.Rest)
			if err != nil {
				return nil, err
			}
			out.Rest = rest
		}
		return out, nil
	}
	return nil, genError(t, "unknown container "+t.Cont)
}

// generateUnion compiles union branches in declaration order. A union with a
// none branch and exactly one other branch degrades to a nullable wrapper;
// larger unions keep the explicit none branch in place.
func (ctx *buildContext) generateUnion(t *Type) (schema.Node, error) {
	if len(t.Args) == 0 {
		return nil, genError(t, "union needs at least one branch")
	}
	branches := make([]schema.Node, 0, len(t.Args))
	nones := 0
	var lastNonNone schema.Node
	for _, a := range t.Args {
		n, err := ctx.generate(a)
		if err != nil {
			return nil, err
		}
		if _, isNone := n.(*schema.None); isNone {
			nones++
		} else {
			lastNonNone = n
		}
		branches = append(branches, n)
	}
	nonNone := len(branches) - nones
	switch {
	case nonNone == 0:
		return &schema.None{}, nil
	case nonNone == 1 && nones > 0:
		return &schema.Nullable{Inner: lastNonNone}, nil
	case nonNone == 1:
		return lastNonNone, nil
	default:
		return &schema.Union{Branches: branches}, nil
	}
}

func (ctx *buildContext) generateEnum(t *Type) (schema.Node, error) {
	if len(t.Values) == 0 {
		return nil, genError(t, "enum "+t.Name+" declares no members")
	}
	var base schema.Node
	if t.Base != nil {
		b, err := ctx.generate(t.Base)
		if err != nil {
			return nil, err
		}
		base = b
	} else {
		base = inferEnumBase(t.Values)
	}
	return &schema.Enum{Name: t.Name, Base: base, Values: t.Values, Convert: t.Convert}, nil
}

// inferEnumBase picks the base representation from the member values when the
// declaration carries none.
func inferEnumBase(values []any) schema.Node {
	allString, allNumber := true, true
	for _, v := range values {
		if _, ok := v.(string); !ok {
			allString = false
		}
		if _, ok := toFloat(v); !ok {
			allNumber = false
		}
	}
	switch {
	case allString:
		return &schema.String{}
	case allNumber:
		return &schema.Number{Name: PrimInt}
	default:
		return &schema.Any{}
	}
}

// compileRecord builds the node for one record spec, consulting the ref
// registry so re-entrant compilation emits a back-edge.
func (ctx *buildContext) compileRecord(rec *RecordSpec) (schema.Node, error) {
	if e, ok := ctx.refs.entries[rec]; ok {
		switch e.state {
		case stateInProgress:
			return &schema.Ref{Name: e.name}, nil
		case stateComplete:
			if e.seeded {
				// Finished in a prior pass: the node lives outside this
				// tree, so share it directly instead of a dangling ref.
				return e.node, nil
			}
			return &schema.Ref{Name: e.name}, nil
		}
	}
	_, _ = ctx.refs.enter(rec)

	node, err := ctx.buildRecordNode(rec)
	if err != nil {
		ctx.refs.abandon(rec)
		return nil, err
	}
	ctx.refs.leave(rec, node)
	return node, nil
}

func (ctx *buildContext) buildRecordNode(rec *RecordSpec) (schema.Node, error) {
	prevSubst := ctx.subst
	if rec.subst != nil {
		ctx.subst = rec.subst
	}
	defer func() { ctx.subst = prevSubst }()

	out := &schema.Record{
		Name:            rec.RefName(),
		Unknown:         int(rec.Config.Unknown),
		PopulateByAlias: rec.Config.PopulateByAlias,
	}
	for _, f := range rec.Fields {
		rt, err := resolveType(f.Type, ctx.ns, ctx.subst)
		if err != nil {
			if be, ok := AsBuildError(err); ok {
				if be.Record == "" {
					be.Record = rec.Name
				}
				if be.Field == "" {
					be.Field = f.Name
				}
			}
			return nil, err
		}

		// Constraints embedded in annotated types merge ahead of the
		// field-level ones.
		cons := f.Constraints
		for rt.Kind == TypeAnnotated {
			cons = append(append([]Constraint{}, rt.Cons...), cons...)
			rt = rt.Elem
		}

		node, err := ctx.generate(rt)
		if err != nil {
			return nil, err
		}

		if f.Discriminator != "" {
			node, err = ctx.dispatchDiscriminator(node, f.Discriminator, rec.Name, f.Name)
			if err != nil {
				return nil, err
			}
		}

		node, err = applyConstraints(node, cons, rec.Name, f.Name)
		if err != nil {
			return nil, err
		}

		sf := schema.Field{
			Name:     f.Name,
			Alias:    f.Alias,
			Schema:   node,
			Optional: !f.Required(),
			Exclude:  f.Exclude,
		}
		if f.HasDefault {
			sf.Default = f.Default
			sf.HasDefault = true
		}
		sf.DefaultFn = f.DefaultFn
		out.Fields = append(out.Fields, sf)
	}

	return ctx.bindHooks(rec, out)
}

// dispatchDiscriminator applies the tagged-union resolution to a union-typed
// field, digging through an optional nullable wrapper.
func (ctx *buildContext) dispatchDiscriminator(node schema.Node, field, recName, fieldName string) (schema.Node, error) {
	switch t := node.(type) {
	case *schema.Union:
		return ctx.resolveDiscriminated(t.Branches, field, recName, fieldName)
	case *schema.Nullable:
		inner, err := ctx.dispatchDiscriminator(t.Inner, field, recName, fieldName)
		if err != nil {
			return nil, err
		}
		return &schema.Nullable{Inner: inner}, nil
	default:
		return nil, &BuildError{
			Code: CodeDiscriminatorConfig, Record: recName, Field: fieldName,
			Message: "discriminator requires a union of two or more variants",
		}
	}
}

// specialize materializes a generic template for the given argument tuple.
// Identical argument tuples reuse one specialized spec, so their compiled
// nodes share identity.
func (ctx *buildContext) specialize(t *Type) (*RecordSpec, error) {
	template := t.Rec
	if !template.Generic() {
		return nil, genError(t, "record "+template.Name+" is not generic")
	}
	if len(t.Args) > len(template.TypeParams) {
		return nil, genError(t, fmt.Sprintf(
			"record %s takes %d type parameters, got %d",
			template.Name, len(template.TypeParams), len(t.Args)))
	}
	keys := make([]string, len(t.Args))
	for i, a := range t.Args {
		keys[i] = a.String()
	}
	key := strings.Join(keys, ",")
	if template.specializations == nil {
		template.specializations = map[string]*RecordSpec{}
	}
	if spec, ok := template.specializations[key]; ok {
		return spec, nil
	}

	subst := make(map[string]*Type, len(t.Args))
	for i, a := range t.Args {
		subst[template.TypeParams[i]] = a
	}
	spec := &RecordSpec{
		Name:    template.Name,
		Fields:  template.Fields,
		Config:  template.Config,
		Parent:  template.Parent,
		Hooks:   template.Hooks,
		refName: template.Name + "[" + key + "]",
		subst:   subst,
	}
	template.specializations[key] = spec
	return spec, nil
}
