package recordc

import (
	"bytes"
	"context"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Source supplies one decoded input document to a validator. Sources exist so
// callers validate wire bytes without hand-rolling the decode step; numbers
// arrive as json.Number to avoid premature precision loss.
type Source interface {
	Decode() (any, error)
}

type jsonSource struct{ r io.Reader }

// JSONBytes wraps a JSON document.
func JSONBytes(b []byte) Source { return jsonSource{r: bytes.NewReader(b)} }

// JSONReader wraps a JSON stream.
func JSONReader(r io.Reader) Source { return jsonSource{r: r} }

func (s jsonSource) Decode() (any, error) {
	dec := j.NewDecoder(s.r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return v, nil
}

type yamlSource struct{ b []byte }

// YAMLBytes wraps a YAML document.
func YAMLBytes(b []byte) Source { return yamlSource{b: b} }

func (s yamlSource) Decode() (any, error) {
	var v any
	if err := yaml.Unmarshal(s.b, &v); err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return normalizeYAML(v), nil
}

// normalizeYAML rewrites yaml.v3 map shapes into the map[string]any form the
// engines expect.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, mv := range t {
			t[k] = normalizeYAML(mv)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, mv := range t {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(mv)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalizeYAML(e)
		}
		return t
	default:
		return v
	}
}

// ValidateFrom decodes src and runs it through the validator.
func ValidateFrom(ctx context.Context, v Validator, src Source) (any, error) {
	doc, err := src.Decode()
	if err != nil {
		return nil, err
	}
	return v.Validate(ctx, doc)
}
