package prompt

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/joestump/joe-copilot/internal/catalog"
)

// maxEnumValues bounds prompt size: enumerations this long or longer are
// left out of the rendered text entirely.
const maxEnumValues = 20

// undefinedType stands in for a schema that declares no type.
const undefinedType = "undefined"

const navigateToCommand = `navigateTo: This will navigate you to another page. This enables you to use functions that are available on that page. Available pages (in format "- 'page-name': description") are: %s. PARAMETERS: - pageName (string): The name of the page you want to navigate to. REQUIRED`

// renderCommands numbers navigateTo (when there is somewhere to go) and then
// each action of current, one entry per line.
func renderCommands(current catalog.Page, others []catalog.Page) string {
	var sb strings.Builder
	index := 1

	if len(others) > 0 {
		var pages strings.Builder
		for _, p := range others {
			pages.WriteString("\n- '" + p.Name + "': " + p.Description)
		}
		fmt.Fprintf(&sb, "%d. "+navigateToCommand+"\n", index, pages.String())
		index++
	}

	for _, action := range current.Actions {
		fmt.Fprintf(&sb, "%d. %s: %s.", index, action.Name, action.Description)
		if params := parameterClause(action); params != "" {
			sb.WriteString(" PARAMETERS: " + params)
		}
		sb.WriteByte('\n')
		index++
	}
	return sb.String()
}

// parameterClause lists declared parameters first, then the writable
// properties of the application/json request body.
func parameterClause(action catalog.Action) string {
	var sb strings.Builder

	for _, p := range action.Parameters {
		sb.WriteString(parameterLine(p.Name, p.Schema, p.Description))
		sb.WriteString(". ")
		if p.IsRequired() {
			sb.WriteString("REQUIRED")
		}
	}

	body, ok := action.JSONBody()
	if !ok {
		return sb.String()
	}
	switch body.Kind() {
	case catalog.KindObject:
		for pair := body.Properties.Oldest(); pair != nil; pair = pair.Next() {
			prop := pair.Value
			if prop != nil && prop.ReadOnly {
				continue
			}
			var description string
			if prop != nil {
				description = prop.Description
			}
			sb.WriteString(parameterLine(pair.Key, prop, description))
			sb.WriteByte(' ')
			if body.IsRequired(pair.Key) {
				sb.WriteString("REQUIRED")
			}
		}
	case catalog.KindEnum, catalog.KindPrimitive:
		// Only object bodies have named fields to offer the model.
	}
	return sb.String()
}

// parameterLine renders "\n- name (type[: enum])[: description]".
func parameterLine(name string, schema *catalog.Schema, description string) string {
	var sb strings.Builder
	sb.WriteString("\n- " + name + " (" + typeToken(schema))
	switch schema.Kind() {
	case catalog.KindEnum:
		if len(schema.Enum) < maxEnumValues {
			sb.WriteString(": " + joinEnum(schema.Enum))
		}
	case catalog.KindPrimitive, catalog.KindObject:
	}
	sb.WriteByte(')')
	if description != "" {
		sb.WriteString(": " + description)
	}
	return sb.String()
}

func typeToken(schema *catalog.Schema) string {
	if schema == nil || len(schema.Type) == 0 {
		return undefinedType
	}
	return schema.Type.String()
}

// joinEnum renders allowed values comma-separated, without spaces or quotes.
func joinEnum(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = enumValue(v)
	}
	return strings.Join(parts, ",")
}

// enumValue renders one allowed value the way a JavaScript array join
// would: nested lists flatten, objects become "[object Object]".
func enumValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return formatNumber(v)
	case int:
		return strconv.Itoa(v)
	case json.Number:
		return v.String()
	case []any:
		return joinEnum(v)
	case map[string]any:
		return "[object Object]"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// formatNumber prints f in shortest form, switching to exponent notation
// ("1e+21", "1e-7") outside [1e-6, 1e21).
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs < 1e21 && abs >= 1e-6 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}
