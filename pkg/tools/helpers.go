// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"encoding/json"
	"fmt"
)

// GetStringArg extracts a string argument from the args map, returning defaultVal if missing.
func GetStringArg(args map[string]any, key, defaultVal string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return defaultVal
	}
	s, ok := v.(string)
	if !ok {
		return defaultVal
	}
	return s
}

// GetIntArg extracts an int argument from the args map, returning defaultVal if missing.
func GetIntArg(args map[string]any, key string, defaultVal int) int {
	v, ok := args[key]
	if !ok || v == nil {
		return defaultVal
	}
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case int64:
		return int(val)
	default:
		return defaultVal
	}
}

// GetBoolArg extracts a bool argument from the args map, returning defaultVal if missing.
func GetBoolArg(args map[string]any, key string, defaultVal bool) bool {
	v, ok := args[key]
	if !ok || v == nil {
		return defaultVal
	}
	b, ok := v.(bool)
	if !ok {
		return defaultVal
	}
	return b
}

// FormatJSON renders a value as indented JSON for tool output.
func FormatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting result: %w", err)
	}
	return string(data), nil
}

// jsonResult marshals v and wraps it as a tool result, turning a marshal
// failure into a tool error rather than a protocol error.
func jsonResult(v any) (*ToolResult, error) {
	text, err := FormatJSON(v)
	if err != nil {
		return NewError(err.Error()), nil
	}
	return NewResult(text), nil
}
