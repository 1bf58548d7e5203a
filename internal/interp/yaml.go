// YAML parse/stringify (spec component I's domain-stack expansion: the
// original spec only names `to_json`/`parse_json`, but original_source's
// sibling `yaml.rs` module exposes the same pair of operations over the
// same value shapes). Rather than hand-roll a YAML scanner the way
// json.go does for JSON, this converts Astra values to/from a plain Go
// interface{} tree and hands that to gopkg.in/yaml.v3, the serialization
// library the rest of the example corpus reaches for.
package interp

import (
	"fmt"

	"github.com/astra-lang/astra/internal/object"
	"gopkg.in/yaml.v3"
)

// yamlStringify renders v as a YAML document via toNative: None/Some/
// Ok/Err unwrap to their payload (or null), Variants become a
// `$variant`/`fields` mapping, and Closure/
// Future/VariantConstructor values -- which have no data representation
// -- become null.
func yamlStringify(v object.Value) (string, error) {
	out, err := yaml.Marshal(toNative(v))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// yamlParse parses a YAML document into a Result[Value, Text], mapping
// YAML scalars/sequences/mappings onto Int/Float/Bool/Unit/Text/List/Map
// the same way jsonParse does.
func yamlParse(s string) (object.Value, error) {
	var native interface{}
	if err := yaml.Unmarshal([]byte(s), &native); err != nil {
		return object.Err(object.Text(err.Error())), nil
	}
	return object.Ok(fromNative(native)), nil
}

func toNative(v object.Value) interface{} {
	switch x := v.(type) {
	case object.Int:
		return int64(x)
	case object.Float:
		return float64(x)
	case object.Bool:
		return bool(x)
	case object.Unit:
		return nil
	case object.Text:
		return string(x)
	case *object.List:
		out := make([]interface{}, len(x.Elems))
		for i, e := range x.Elems {
			out[i] = toNative(e)
		}
		return out
	case *object.Tuple:
		out := make([]interface{}, len(x.Elems))
		for i, e := range x.Elems {
			out[i] = toNative(e)
		}
		return out
	case *object.Set:
		elems := x.Elems()
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			out[i] = toNative(e)
		}
		return out
	case *object.Map:
		out := make(map[string]interface{}, x.Len())
		for _, e := range x.Entries() {
			out[jsonMapKey(e[0])] = toNative(e[1])
		}
		return out
	case *object.Option:
		if !x.IsSome() {
			return nil
		}
		return toNative(x.Value)
	case *object.Result:
		if x.IsOk() {
			return toNative(x.OkVal)
		}
		return toNative(x.ErrVal)
	case *object.Record:
		out := make(map[string]interface{}, len(x.Order))
		for _, name := range x.Order {
			out[name] = toNative(x.Fields[name])
		}
		return out
	case *object.Variant:
		out := map[string]interface{}{"$variant": x.Name}
		if len(x.Fields) > 0 {
			fields := make([]interface{}, len(x.Fields))
			for i, f := range x.Fields {
				fields[i] = toNative(f)
			}
			out["fields"] = fields
		}
		return out
	default:
		return nil // Closure, Future, VariantConstructor
	}
}

// fromNative mirrors jsonParser's scalar/collection mapping, dispatching
// on the concrete Go types yaml.v3 decodes into (string keys for
// mappings, matching its default behavior unlike yaml.v2).
func fromNative(v interface{}) object.Value {
	switch x := v.(type) {
	case nil:
		return object.Unit{}
	case bool:
		return object.Bool(x)
	case int:
		return object.Int(int64(x))
	case int64:
		return object.Int(x)
	case uint64:
		return object.Int(int64(x))
	case float64:
		return object.Float(x)
	case string:
		return object.Text(x)
	case []interface{}:
		elems := make([]object.Value, len(x))
		for i, e := range x {
			elems[i] = fromNative(e)
		}
		return object.NewList(elems)
	case map[string]interface{}:
		m := object.NewMap()
		for k, val := range x {
			m.Set(object.Text(k), fromNative(val))
		}
		return m
	case map[interface{}]interface{}:
		m := object.NewMap()
		for k, val := range x {
			m.Set(object.Text(fmt.Sprintf("%v", k)), fromNative(val))
		}
		return m
	default:
		return object.Text(fmt.Sprintf("%v", x))
	}
}
