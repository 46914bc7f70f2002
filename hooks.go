package recordc

import "github.com/reoring/recordc/schema"

// Validator Hook Binder: attaches declared hooks to the compiled record node
// in composition order. Hooks inherited from a parent record run before
// hooks the record declares itself, mode by mode.

// hookChain returns the hooks of the inheritance chain, outermost ancestor
// first.
func hookChain(rec *RecordSpec) []*ValidatorSpec {
	var chain []*RecordSpec
	for r := rec; r != nil; r = r.Parent {
		chain = append(chain, r)
	}
	var out []*ValidatorSpec
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].Hooks...)
	}
	return out
}

// bindHooks wires every declared hook onto node. A hook naming a field the
// record does not declare is a build-time error unless the hook opts out.
func (ctx *buildContext) bindHooks(rec *RecordSpec, node *schema.Record) (schema.Node, error) {
	hooks := hookChain(rec)
	if len(hooks) == 0 {
		return node, nil
	}

	var recordHooks *schema.Hooks
	for _, h := range hooks {
		if h.Mode == HookWrap && h.WrapFn == nil || h.Mode != HookWrap && h.Fn == nil {
			return nil, &BuildError{
				Code: CodeValidatorBinding, Record: rec.Name,
				Message: "hook " + h.Name + " has no function bound",
			}
		}
		if h.Name != "" && !h.AllowDuplicateName {
			if _, seen := ctx.hookNames[h.Name]; seen {
				ctx.warn(Warning{
					Code: WarnDuplicateHookName, Record: rec.Name,
					Message: "hook name " + h.Name + " declared more than once in this session",
				})
			}
			ctx.hookNames[h.Name] = struct{}{}
		}

		if len(h.Fields) == 0 {
			if recordHooks == nil {
				recordHooks = &schema.Hooks{}
			}
			attachHook(recordHooks, h)
			continue
		}
		for _, fname := range h.Fields {
			idx := -1
			for i := range node.Fields {
				if node.Fields[i].Name == fname {
					idx = i
					break
				}
			}
			if idx < 0 {
				if h.SkipMissing {
					continue
				}
				return nil, &BuildError{
					Code: CodeValidatorBinding, Record: rec.Name, Field: fname,
					Message: "hook " + h.Name + " targets a field the record does not declare",
				}
			}
			fh, ok := node.Fields[idx].Schema.(*schema.Hooks)
			if !ok {
				fh = &schema.Hooks{Inner: node.Fields[idx].Schema}
				node.Fields[idx].Schema = fh
			}
			attachHook(fh, h)
		}
	}

	if recordHooks != nil {
		recordHooks.Inner = node
		return recordHooks, nil
	}
	return node, nil
}

func attachHook(dst *schema.Hooks, h *ValidatorSpec) {
	switch h.Mode {
	case HookBefore:
		dst.Before = append(dst.Before, h.Fn)
	case HookAfter:
		dst.After = append(dst.After, h.Fn)
	case HookWrap:
		dst.Wrap = append(dst.Wrap, h.WrapFn)
	case HookPlain:
		// A later plain hook replaces an earlier one outright.
		dst.Plain = h.Fn
	}
}
