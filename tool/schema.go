package tool

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/hupe1980/taskrouter/core"
)

// ValidationError represents argument coercion failures with detailed
// information. It matches core.ErrInvalidArgument via errors.Is.
type ValidationError struct {
	Field   string `json:"field"`   // Field that failed validation
	Value   any    `json:"value"`   // Value that was provided
	Message string `json:"message"` // Human-readable error message
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid arguments: " + e.Message
	}
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// Unwrap returns core.ErrInvalidArgument.
func (e *ValidationError) Unwrap() error { return core.ErrInvalidArgument }

// Coerce turns the raw argument payload sent by the model into the shape of
// schema. Accepted forms:
//
//   - empty payload: no arguments
//   - a JSON object: named arguments
//   - any other JSON value: a positional value bound to the first parameter
//   - non-JSON text: a positional string when the first parameter is a string
//
// The result is then normalized with Normalize.
func Coerce(schema core.Schema, raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Normalize(schema, map[string]any{})
	}

	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		first, ok := schema.First()
		if !ok || first.Type != core.TypeString {
			return nil, &ValidationError{Value: raw, Message: "arguments are not valid JSON"}
		}
		return Normalize(schema, map[string]any{first.Name: raw})
	}

	if obj, ok := decoded.(map[string]any); ok {
		first, hasFirst := schema.First()
		// An object passed to a single object-typed parameter is the positional
		// value unless it already uses the parameter's name.
		if hasFirst && len(schema) == 1 && first.Type == core.TypeObject {
			if _, named := obj[first.Name]; !named {
				return Normalize(schema, map[string]any{first.Name: obj})
			}
		}
		return Normalize(schema, obj)
	}

	if decoded == nil {
		return Normalize(schema, map[string]any{})
	}

	first, ok := schema.First()
	if !ok {
		return nil, &ValidationError{Value: decoded, Message: "tool takes no arguments"}
	}
	return Normalize(schema, map[string]any{first.Name: decoded})
}

// Normalize converts each declared argument to its schema type, drops
// undeclared keys and enforces required parameters and enums.
func Normalize(schema core.Schema, args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(schema))
	for _, p := range schema {
		v, present := args[p.Name]
		if !present || v == nil {
			if p.Required {
				return nil, &ValidationError{Field: p.Name, Message: "required field is missing"}
			}
			continue
		}
		cv, err := convert(p, v)
		if err != nil {
			return nil, err
		}
		if len(p.Enum) > 0 {
			s, _ := cv.(string)
			if !contains(p.Enum, s) {
				return nil, &ValidationError{Field: p.Name, Value: v, Message: fmt.Sprintf("must be one of %s", strings.Join(p.Enum, ", "))}
			}
		}
		out[p.Name] = cv
	}
	return out, nil
}

func convert(p core.Parameter, v any) (any, error) {
	mismatch := func() error {
		return &ValidationError{Field: p.Name, Value: v, Message: fmt.Sprintf("expected type %s, got %T", p.Type, v)}
	}

	switch p.Type {
	case core.TypeString:
		switch x := v.(type) {
		case string:
			return x, nil
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64), nil
		case int, int64:
			return fmt.Sprint(x), nil
		case bool:
			return strconv.FormatBool(x), nil
		}
		return nil, mismatch()
	case core.TypeInteger:
		switch x := v.(type) {
		case float64:
			if x != float64(int64(x)) {
				return nil, mismatch()
			}
			return int64(x), nil
		case int:
			return int64(x), nil
		case int64:
			return x, nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
			if err != nil {
				return nil, mismatch()
			}
			return n, nil
		}
		return nil, mismatch()
	case core.TypeNumber:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return nil, mismatch()
			}
			return f, nil
		}
		return nil, mismatch()
	case core.TypeBoolean:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			if err != nil {
				return nil, mismatch()
			}
			return b, nil
		}
		return nil, mismatch()
	case core.TypeArray:
		if x, ok := v.([]any); ok {
			return x, nil
		}
		return nil, mismatch()
	case core.TypeObject:
		if x, ok := v.(map[string]any); ok {
			return x, nil
		}
		return nil, mismatch()
	default:
		return v, nil
	}
}

// Decode copies normalized arguments into dst (a pointer to a struct with
// json tags).
func Decode(args map[string]any, dst any) error {
	b, err := json.Marshal(args)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

// SchemaFromStruct derives an ordered schema from a struct using reflection.
// Field order is declaration order. Fields are required unless they are
// pointers or tagged omitempty; a description tag is copied verbatim and an
// enum tag is split on commas.
func SchemaFromStruct(structType any) core.Schema {
	t := reflect.TypeOf(structType)
	if t == nil {
		return core.Schema{}
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return core.Schema{}
	}

	schema := make(core.Schema, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name := field.Name
		if jsonTag != "" {
			if parts := strings.Split(jsonTag, ","); parts[0] != "" {
				name = parts[0]
			}
		}

		p := core.Parameter{
			Name:        name,
			Type:        jsonType(field.Type),
			Description: field.Tag.Get("description"),
			Required:    !strings.Contains(jsonTag, "omitempty") && field.Type.Kind() != reflect.Ptr,
		}
		if enum := field.Tag.Get("enum"); enum != "" {
			p.Enum = strings.Split(enum, ",")
		}
		schema = append(schema, p)
	}
	return schema
}

func jsonType(t reflect.Type) core.ParamType {
	switch t.Kind() {
	case reflect.String:
		return core.TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return core.TypeInteger
	case reflect.Float32, reflect.Float64:
		return core.TypeNumber
	case reflect.Bool:
		return core.TypeBoolean
	case reflect.Slice, reflect.Array:
		return core.TypeArray
	case reflect.Map, reflect.Struct:
		return core.TypeObject
	case reflect.Ptr:
		return jsonType(t.Elem())
	default:
		return core.TypeString
	}
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if strings.EqualFold(e, s) {
			return true
		}
	}
	return false
}
