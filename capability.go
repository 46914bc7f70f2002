package recordc

import "github.com/reoring/recordc/schema"

// SchemaProvider supplies a precomputed schema node for a custom descriptor
// value. The generator uses the provided node as-is.
type SchemaProvider interface {
	ProvideSchema() schema.Node
}

// SchemaCustomizer post-processes a generated schema node. When a custom
// value implements both capabilities, the provided node is passed through
// CustomizeSchema before use.
type SchemaCustomizer interface {
	CustomizeSchema(schema.Node) schema.Node
}

// probeCapabilities resolves a TypeCustom value into a node, or reports that
// no capability is implemented.
func probeCapabilities(v any) (schema.Node, bool) {
	var node schema.Node
	provided := false
	if p, ok := v.(SchemaProvider); ok {
		node = p.ProvideSchema()
		provided = true
	}
	if c, ok := v.(SchemaCustomizer); ok {
		if !provided {
			// Customize-only values start from an open node.
			node = &schema.Any{}
		}
		node = c.CustomizeSchema(node)
		provided = true
	}
	return node, provided
}
