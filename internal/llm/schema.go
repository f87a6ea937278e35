package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

var schemaTypes = map[string]genai.Type{
	"STRING":  genai.TypeString,
	"NUMBER":  genai.TypeNumber,
	"INTEGER": genai.TypeInteger,
	"BOOLEAN": genai.TypeBoolean,
	"ARRAY":   genai.TypeArray,
	"OBJECT":  genai.TypeObject,
}

// ConvertSchema converts a decoded JSON response schema into a Gemini schema.
// Type names are case-insensitive, so both "OBJECT" and "object" are accepted.
func ConvertSchema(raw map[string]any) (*genai.Schema, error) {
	return convertSchema(raw, "(root)")
}

func convertSchema(raw map[string]any, path string) (*genai.Schema, error) {
	typeName, _ := raw["type"].(string)
	t, ok := schemaTypes[strings.ToUpper(typeName)]
	if !ok {
		return nil, fmt.Errorf("%s: unsupported type %q", path, typeName)
	}

	schema := &genai.Schema{Type: t}
	if desc, ok := raw["description"].(string); ok {
		schema.Description = desc
	}
	if nullable, ok := raw["nullable"].(bool); ok {
		schema.Nullable = nullable
	}
	if enum, ok := raw["enum"].([]any); ok {
		for _, v := range enum {
			if s, ok := v.(string); ok {
				schema.Enum = append(schema.Enum, s)
			}
		}
	}

	switch t {
	case genai.TypeArray:
		items, ok := raw["items"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: array schema requires items", path)
		}
		itemSchema, err := convertSchema(items, path+"[]")
		if err != nil {
			return nil, err
		}
		schema.Items = itemSchema
	case genai.TypeObject:
		props, _ := raw["properties"].(map[string]any)
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)

		schema.Properties = make(map[string]*genai.Schema, len(props))
		for _, name := range names {
			prop, ok := props[name].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s.%s: property must be an object", path, name)
			}
			propSchema, err := convertSchema(prop, path+"."+name)
			if err != nil {
				return nil, err
			}
			schema.Properties[name] = propSchema
		}
		if required, ok := raw["required"].([]any); ok {
			for _, r := range required {
				if s, ok := r.(string); ok {
					schema.Required = append(schema.Required, s)
				}
			}
		}
	}

	return schema, nil
}
