package engine

import (
	"fmt"
	"strconv"

	document "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/document"
	language "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/language"
	schema "github.com/graphql-aspnet/graphql-aspnet-sub009/internal/schema"
)

// coerceVariableValues coerces the supplied variable values against the
// operation's declarations.
func coerceVariableValues(sch *schema.Schema, op *document.OperationPart, variableValues map[string]any) (map[string]any, error) {
	if variableValues == nil {
		variableValues = make(map[string]any)
	}
	coerced := make(map[string]any)
	for _, varDef := range op.Variables().All() {
		name := varDef.Name()
		declared := varDef.DeclaredType()
		val, ok := variableValues[name]
		if !ok {
			if varDef.DefaultValue() != nil {
				val = astValueToGo(varDef.DefaultValue())
			} else if declared.NonNull {
				return nil, fmt.Errorf("variable $%s of required type %s was not provided", name, declared.String())
			} else {
				continue
			}
		}
		if val == nil && declared.NonNull {
			return nil, fmt.Errorf("variable $%s of type %s cannot be null", name, declared.String())
		}
		cv, err := coerceValue(val, varDef.TypeExpression())
		if err != nil {
			return nil, fmt.Errorf("variable $%s of type %s cannot be coerced: %v", name, declared.String(), err)
		}
		coerced[name] = cv
	}
	return coerced, nil
}

// coerceArgumentValues coerces the arguments supplied on a field part against
// the field definition, applying defaults for omitted arguments.
func coerceArgumentValues(s *executionState, fieldDef *schema.Field, field *document.FieldPart, path []any) map[string]any {
	coerced := make(map[string]any)
	for _, arg := range field.Arguments() {
		argDef := fieldDef.FindArgument(arg.Name())
		if argDef == nil {
			continue
		}
		val := suppliedValueToGo(arg.Value(), s.variables)
		cv, err := coerceValue(val, argDef.Type)
		if err != nil {
			s.addError(fmt.Sprintf("argument %q cannot be coerced: %v", arg.Name(), err), path)
			continue
		}
		coerced[arg.Name()] = cv
	}
	for _, argDef := range fieldDef.Arguments {
		if _, ok := coerced[argDef.Name]; !ok {
			if argDef.DefaultValue != nil {
				coerced[argDef.Name] = argDef.DefaultValue
			} else if schema.IsNonNull(argDef.Type) {
				s.addError(fmt.Sprintf("argument %q of required type was not provided", argDef.Name), path)
			}
		}
	}
	return coerced
}

// suppliedValueToGo converts a supplied value part to a runtime value,
// substituting variables.
func suppliedValueToGo(val *document.SuppliedValuePart, variables map[string]any) any {
	if val == nil {
		return nil
	}
	return valueFromAST(val.RawValue(), variables)
}

func valueFromAST(value *language.Value, variables map[string]any) any {
	if value == nil {
		return nil
	}
	if value.Kind == language.Variable {
		if v, ok := variables[value.Raw]; ok {
			return v
		}
		return nil
	}
	return astValueToGo(value)
}

// astValueToGo converts a literal AST value to a Go value.
func astValueToGo(value *language.Value) any {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case language.IntValue:
		iv, _ := strconv.Atoi(value.Raw)
		return iv
	case language.FloatValue:
		fv, _ := strconv.ParseFloat(value.Raw, 64)
		return fv
	case language.StringValue, language.BlockValue:
		return value.Raw
	case language.BooleanValue:
		return value.Raw == "true"
	case language.NullValue:
		return nil
	case language.EnumValue:
		return value.Raw
	case language.ListValue:
		out := make([]any, len(value.Children))
		for i, c := range value.Children {
			out[i] = astValueToGo(c.Value)
		}
		return out
	case language.ObjectValue:
		m := make(map[string]any)
		for _, f := range value.Children {
			m[f.Name] = astValueToGo(f.Value)
		}
		return m
	default:
		return nil
	}
}

// coerceValue coerces a value to the given type reference.
func coerceValue(value any, targetType *schema.TypeRef) (any, error) {
	if schema.IsNonNull(targetType) {
		if value == nil {
			return nil, fmt.Errorf("cannot provide null for non-null type")
		}
		return coerceValue(value, schema.Unwrap(targetType))
	}
	if value == nil {
		return nil, nil
	}
	if schema.IsList(targetType) {
		return coerceListValue(value, targetType)
	}

	switch schema.GetNamedType(targetType) {
	case "Int":
		return coerceToInt(value)
	case "Float":
		return coerceToFloat(value)
	case "String":
		return coerceToString(value)
	case "Boolean":
		return coerceToBoolean(value)
	case "ID":
		return coerceToID(value)
	default:
		// custom scalars, enums and input objects pass through as-is
		return value, nil
	}
}

func coerceListValue(value any, listType *schema.TypeRef) (any, error) {
	innerType := schema.Unwrap(listType)
	if slice, ok := value.([]any); ok {
		coercedSlice := make([]any, len(slice))
		for i, item := range slice {
			coercedItem, err := coerceValue(item, innerType)
			if err != nil {
				return nil, err
			}
			coercedSlice[i] = coercedItem
		}
		return coercedSlice, nil
	}

	// a single value coerces to a list of one
	coercedItem, err := coerceValue(value, innerType)
	if err != nil {
		return nil, err
	}
	return []any{coercedItem}, nil
}

func coerceToInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case float32:
		return int(v), nil
	case string:
		if intVal, err := strconv.Atoi(v); err == nil {
			return intVal, nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to int", value, value)
}

func coerceToFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		if floatVal, err := strconv.ParseFloat(v, 64); err == nil {
			return floatVal, nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to float", value, value)
}

func coerceToString(value any) (any, error) {
	if v, ok := value.(string); ok {
		return v, nil
	}
	return fmt.Sprintf("%v", value), nil
}

func coerceToBoolean(value any) (any, error) {
	if v, ok := value.(bool); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to boolean", value, value)
}

func coerceToID(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return fmt.Sprintf("%v", value), nil
	}
}
