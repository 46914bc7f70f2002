package recordc

import (
	"fmt"
	"strings"

	"github.com/reoring/recordc/schema"
)

// Discriminated-Union Resolver: validates that every variant of a tagged
// union declares the discriminator as a literal field with a consistent wire
// alias, then builds the tag -> variant lookup table.

// resolveDiscriminated turns the compiled union branches into a TaggedUnion.
// branches arrive in declaration order; tag registration follows that order.
func (ctx *buildContext) resolveDiscriminated(branches []schema.Node, field, recName, fieldName string) (*schema.TaggedUnion, error) {
	fail := func(variant, msg string) error {
		return &BuildError{
			Code: CodeDiscriminatorConfig, Record: recName, Field: fieldName,
			Variant: variant, Message: msg,
		}
	}

	if len(branches) < 2 {
		return nil, fail("", "discriminator requires a union of two or more variants")
	}

	out := &schema.TaggedUnion{Discriminator: field, Mapping: map[string]schema.Node{}}
	var alias string
	var aliasFrom string

	for i, br := range branches {
		variantName := fmt.Sprintf("#%d", i)
		if r, ok := br.(*schema.Record); ok {
			variantName = r.Name
		} else if r, ok := br.(*schema.Ref); ok {
			variantName = r.Name
		}

		tags, variantAlias, err := ctx.variantTags(br, field, variantName, fail)
		if err != nil {
			return nil, err
		}
		if variantAlias != "" {
			if alias != "" && alias != variantAlias {
				return nil, fail(variantName, fmt.Sprintf(
					"discriminator alias mismatch: %s uses %q, %s uses %q",
					aliasFrom, alias, variantName, variantAlias))
			}
			alias = variantAlias
			aliasFrom = variantName
		}

		for _, tag := range tags {
			key := schema.TagKey(tag)
			if _, taken := out.Mapping[key]; taken {
				// First registration wins; record the collision instead of
				// silently dropping it.
				ctx.warn(Warning{
					Code: WarnDuplicateTag, Record: recName,
					Message: fmt.Sprintf("tag %q of field %s claimed again by variant %s", key, field, variantName),
				})
				continue
			}
			out.Mapping[key] = br
			out.Order = append(out.Order, key)
		}
	}

	out.Alias = alias
	return out, nil
}

// variantTags extracts the literal tag values for one union variant, which
// must be a record (or nested tagged union) declaring the discriminator field
// as a literal-value-set node.
func (ctx *buildContext) variantTags(br schema.Node, field, variantName string, fail func(string, string) error) ([]any, string, error) {
	switch t := br.(type) {
	case *schema.Record:
		f, ok := t.FieldByName(field)
		if !ok {
			return nil, "", fail(variantName, "variant does not declare discriminator field "+field)
		}
		lit, ok := unwrapLiteral(f.Schema)
		if !ok {
			return nil, "", fail(variantName, fmt.Sprintf(
				"discriminator field %s must be a literal value set, got %s", field, kindName(f.Schema)))
		}
		return lit.Values, f.Alias, nil
	case *schema.TaggedUnion:
		var tags []any
		var alias string
		for _, tag := range t.Order {
			nested, nestedAlias, err := ctx.variantTags(t.Mapping[tag], field, variantName, fail)
			if err != nil {
				return nil, "", err
			}
			tags = append(tags, nested...)
			if nestedAlias != "" {
				alias = nestedAlias
			}
		}
		return tags, alias, nil
	case *schema.Ref:
		resolved, ok := ctx.recordByName(t.Name)
		if !ok {
			return nil, "", fail(variantName, "variant "+t.Name+" is still being compiled and cannot carry a discriminator")
		}
		return ctx.variantTags(resolved, field, variantName, fail)
	case *schema.Hooks:
		return ctx.variantTags(t.Inner, field, variantName, fail)
	case *schema.Check:
		return ctx.variantTags(t.Inner, field, variantName, fail)
	default:
		return nil, "", fail(variantName, "variant is not a record, got "+kindName(br))
	}
}

// unwrapLiteral digs through check/hook wrappers to the literal node, when
// the field is one.
func unwrapLiteral(n schema.Node) (*schema.Literal, bool) {
	for {
		switch t := n.(type) {
		case *schema.Literal:
			return t, true
		case *schema.Check:
			n = t.Inner
		case *schema.Hooks:
			n = t.Inner
		default:
			return nil, false
		}
	}
}

func kindName(n schema.Node) string {
	if n == nil {
		return "nothing"
	}
	name := fmt.Sprintf("%T", n)
	return strings.TrimPrefix(name, "*schema.")
}
