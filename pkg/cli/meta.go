package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/bilateral/pkg/stdimg"
)

// ParamType is a small enum for parameter types used in metadata.
type ParamType string

const (
	ParamTypeInt    ParamType = "int"
	ParamTypeFloat  ParamType = "float"
	ParamTypeBool   ParamType = "bool"
	ParamTypeString ParamType = "string"
	ParamTypeEnum   ParamType = "enum"
)

// ValidationRule is a machine-friendly representation of the constraints
// that a UI or client can use to validate input before invoking a command.
type ValidationRule struct {
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Min         *float64  `json:"min,omitempty"`
	EnumOptions []string  `json:"enumOptions,omitempty"` // valid when Type == ParamTypeEnum
	Example     string    `json:"example,omitempty"`
	Hint        string    `json:"hint,omitempty"`
}

// parseBoolLikeToString accepts common truthy/falsy forms and returns "true"/"false" string.
func parseBoolLikeToString(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return "true", nil
	case "0", "f", "false", "n", "no", "off":
		return "false", nil
	default:
		return "", fmt.Errorf("invalid boolean: %q", s)
	}
}

var (
	// Canonical spellings for enum parameters, keyed by parameter name.
	// Lookups are case-insensitive; the value stored is the canonical form.
	enumOptions = map[string][]string{
		"mode":       {"L", "LA", "YCbCr", "RGB", "RGBA"},
		"border":     {"exclude", "clamp", "reflect"},
		"rgbaPolicy": {"legacy", "corrected"},
		"type":       {"GAUSSIAN", "UNIFORM", "IMPULSE"},
	}

	// Strictly positive numeric parameters.
	positiveParams = map[string]bool{
		"diameter":   true,
		"sigmaSpace": true,
		"sigmaColor": true,
		"sigma":      true,
	}
)

func floatPtr(f float64) *float64 { return &f }

// --- stdimg integration helpers ---

// GenerateTooltipFromStdSpec produces a tooltip string from a stdimg.CommandSpec.
func GenerateTooltipFromStdSpec(c stdimg.CommandSpec) string {
	var sb strings.Builder
	if c.Description != "" {
		sb.WriteString(c.Description)
	} else {
		sb.WriteString("No description")
	}
	if len(c.Args) == 0 {
		sb.WriteString(" (no parameters)")
		return sb.String()
	}
	sb.WriteString(" Parameters:\n")
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		sb.WriteString(fmt.Sprintf("- %s (%s, %s)", a.Name, a.Type, req))
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// GenerateValidationRulesFromStdSpec creates ValidationRule entries from a stdimg.CommandSpec.
func GenerateValidationRulesFromStdSpec(c stdimg.CommandSpec) map[string]ValidationRule {
	rules := make(map[string]ValidationRule, len(c.Args))
	for _, a := range c.Args {
		var t ParamType
		switch strings.ToLower(a.Type) {
		case "int":
			t = ParamTypeInt
		case "float":
			t = ParamTypeFloat
		case "bool":
			t = ParamTypeBool
		case "enum":
			t = ParamTypeEnum
		default:
			t = ParamTypeString
		}
		r := ValidationRule{Type: t, Required: a.Required, Hint: a.Description, Example: a.Default}
		if positiveParams[a.Name] {
			r.Min = floatPtr(0)
		}
		if t == ParamTypeEnum {
			r.EnumOptions = enumOptions[a.Name]
		}
		rules[a.Name] = r
	}
	return rules
}

// StdMetaStore indexes stdimg.CommandSpec entries by name.
type StdMetaStore struct {
	Commands []stdimg.CommandSpec
	byName   map[string]stdimg.CommandSpec
}

// NewMetaStoreFromStdimg creates a StdMetaStore from stdimg.CommandSpec list.
func NewMetaStoreFromStdimg(cmds []stdimg.CommandSpec) *StdMetaStore {
	m := &StdMetaStore{Commands: cmds, byName: make(map[string]stdimg.CommandSpec, len(cmds))}
	for _, c := range cmds {
		m.byName[c.Name] = c
	}
	return m
}

// GetCommandHelp returns both tooltip and validation rules for a stdimg command.
func (m *StdMetaStore) GetCommandHelp(name string) (string, map[string]ValidationRule, error) {
	c, ok := m.byName[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown command: %s", name)
	}
	return GenerateTooltipFromStdSpec(c), GenerateValidationRulesFromStdSpec(c), nil
}

// NormalizeArgsFromStd checks args against the metadata of cmdName and
// returns them in canonical form: numbers reformatted, enum values in their
// canonical spelling, empty strings for omitted optional parameters.
func NormalizeArgsFromStd(store *StdMetaStore, cmdName string, args []string) ([]string, error) {
	if store == nil {
		return nil, fmt.Errorf("metadata store is nil")
	}
	c, ok := store.byName[cmdName]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", cmdName)
	}
	if len(args) > len(c.Args) {
		return nil, fmt.Errorf("%s: too many parameters (%d > %d)", cmdName, len(args), len(c.Args))
	}
	rules := GenerateValidationRulesFromStdSpec(c)
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		var raw string
		if i < len(args) {
			raw = strings.TrimSpace(args[i])
		}
		if raw == "" {
			if a.Required {
				return nil, fmt.Errorf("missing required parameter: %s", a.Name)
			}
			continue
		}
		vr := rules[a.Name]
		switch vr.Type {
		case ParamTypeInt:
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected integer, got %q", a.Name, raw)
			}
			if vr.Min != nil && float64(v) <= *vr.Min {
				return nil, fmt.Errorf("parameter %s: %d must be greater than %v", a.Name, v, *vr.Min)
			}
			out[i] = strconv.FormatInt(v, 10)
		case ParamTypeFloat:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected float, got %q", a.Name, raw)
			}
			if vr.Min != nil && !(f > *vr.Min) {
				return nil, fmt.Errorf("parameter %s: %v must be greater than %v", a.Name, f, *vr.Min)
			}
			out[i] = strconv.FormatFloat(f, 'g', -1, 64)
		case ParamTypeBool:
			bs, err := parseBoolLikeToString(raw)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", a.Name, err)
			}
			out[i] = bs
		case ParamTypeEnum:
			v, ok := canonicalEnum(vr.EnumOptions, raw)
			if !ok {
				return nil, fmt.Errorf("parameter %s: %q is not one of %s", a.Name, raw, strings.Join(vr.EnumOptions, "|"))
			}
			out[i] = v
		case ParamTypeString:
			out[i] = raw
		default:
			return nil, fmt.Errorf("parameter %s: unsupported param type %q", a.Name, vr.Type)
		}
	}
	return out, nil
}

// canonicalEnum returns the option matching val case-insensitively. An
// empty option list accepts anything.
func canonicalEnum(options []string, val string) (string, bool) {
	if len(options) == 0 {
		return val, true
	}
	for _, o := range options {
		if strings.EqualFold(o, val) {
			return o, true
		}
	}
	return "", false
}
