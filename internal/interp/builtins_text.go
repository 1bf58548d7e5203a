package interp

import (
	"strconv"
	"strings"

	"github.com/astra-lang/astra/internal/diagnostics"
	"github.com/astra-lang/astra/internal/object"
	"github.com/astra-lang/astra/internal/source"
)

// textMethod implements the Text built-in method table of spec §4.I,
// grounded on original_source/src/interpreter/builtins.rs's Text arm
// (length counts Unicode scalar values, not bytes, matching the
// original's `.chars().count()`).
func textMethod(t object.Text, name string, args []object.Value, span source.Span) (object.Value, error) {
	s := string(t)
	switch name {
	case "length", "len":
		return object.Int(len([]rune(s))), nil
	case "is_empty":
		return object.Bool(s == ""), nil
	case "upper", "to_upper":
		return object.Text(strings.ToUpper(s)), nil
	case "lower", "to_lower":
		return object.Text(strings.ToLower(s)), nil
	case "trim":
		return object.Text(strings.TrimSpace(s)), nil
	case "contains":
		arg, err := textArg(args, "contains", span)
		if err != nil {
			return nil, err
		}
		return object.Bool(strings.Contains(s, arg)), nil
	case "starts_with":
		arg, err := textArg(args, "starts_with", span)
		if err != nil {
			return nil, err
		}
		return object.Bool(strings.HasPrefix(s, arg)), nil
	case "ends_with":
		arg, err := textArg(args, "ends_with", span)
		if err != nil {
			return nil, err
		}
		return object.Bool(strings.HasSuffix(s, arg)), nil
	case "split":
		arg, err := textArg(args, "split", span)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(s, arg)
		out := make([]object.Value, len(parts))
		for i, p := range parts {
			out[i] = object.Text(p)
		}
		return object.NewList(out), nil
	case "replace":
		if len(args) != 2 {
			return nil, argErr(span, "replace", 2, len(args))
		}
		from, ok1 := args[0].(object.Text)
		to, ok2 := args[1].(object.Text)
		if !ok1 || !ok2 {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "replace expects Text arguments")
		}
		return object.Text(strings.ReplaceAll(s, string(from), string(to))), nil
	case "index_of":
		arg, err := textArg(args, "index_of", span)
		if err != nil {
			return nil, err
		}
		byteIdx := strings.Index(s, arg)
		if byteIdx < 0 {
			return object.None(), nil
		}
		return object.Some(object.Int(len([]rune(s[:byteIdx])))), nil
	case "substring":
		if len(args) != 2 {
			return nil, argErr(span, "substring", 2, len(args))
		}
		from, ok1 := args[0].(object.Int)
		to, ok2 := args[1].(object.Int)
		if !ok1 || !ok2 {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "substring bounds must be Int")
		}
		runes := []rune(s)
		f, tt := clampRange(int(from), int(to), len(runes))
		return object.Text(string(runes[f:tt])), nil
	case "slice":
		if len(args) != 2 {
			return nil, argErr(span, "slice", 2, len(args))
		}
		from, ok1 := args[0].(object.Int)
		to, ok2 := args[1].(object.Int)
		if !ok1 || !ok2 {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "slice bounds must be Int")
		}
		runes := []rune(s)
		f, tt := clampRange(int(from), int(to), len(runes))
		return object.Text(string(runes[f:tt])), nil
	case "chars":
		runes := []rune(s)
		out := make([]object.Value, len(runes))
		for i, r := range runes {
			out[i] = object.Text(string(r))
		}
		return object.NewList(out), nil
	case "concat":
		arg, err := textArg(args, "concat", span)
		if err != nil {
			return nil, err
		}
		return object.Text(s + arg), nil
	case "repeat":
		if len(args) != 1 {
			return nil, argErr(span, "repeat", 1, len(args))
		}
		n, ok := args[0].(object.Int)
		if !ok || n < 0 {
			return nil, rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "repeat count must be a non-negative Int")
		}
		return object.Text(strings.Repeat(s, int(n))), nil
	case "to_int":
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return object.None(), nil
		}
		return object.Some(object.Int(v)), nil
	case "to_float":
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return object.None(), nil
		}
		return object.Some(object.Float(v)), nil
	case "to_text":
		return t, nil
	case "matches":
		return textMatches(s, args, span)
	case "find_pattern":
		return textFindPattern(s, args, span)
	case "find_all_pattern":
		return textFindAllPattern(s, args, span)
	case "replace_pattern":
		return textReplacePattern(s, args, span)
	case "split_pattern":
		return textSplitPattern(s, args, span)
	case "parse_json":
		return jsonParse(s)
	case "parse_yaml":
		return yamlParse(s)
	default:
		return nil, rtErr(diagnostics.ErrRuntimeUnknownMthd, span, "Text has no method %q", name)
	}
}

func textArg(args []object.Value, method string, span source.Span) (string, error) {
	if len(args) != 1 {
		return "", argErr(span, method, 1, len(args))
	}
	t, ok := args[0].(object.Text)
	if !ok {
		return "", rtErr(diagnostics.ErrRuntimeTypeMismatch, span, "%s expects a Text argument", method)
	}
	return string(t), nil
}
