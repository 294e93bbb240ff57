// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package tools

import (
	"strings"
	"testing"
)

func TestGetStringArg(t *testing.T) {
	args := map[string]any{
		"name":  "test",
		"empty": "",
		"num":   42,
	}

	if got := GetStringArg(args, "name", "default"); got != "test" {
		t.Errorf("GetStringArg(name) = %q, want %q", got, "test")
	}
	if got := GetStringArg(args, "missing", "default"); got != "default" {
		t.Errorf("GetStringArg(missing) = %q, want %q", got, "default")
	}
	if got := GetStringArg(args, "empty", "default"); got != "" {
		t.Errorf("GetStringArg(empty) = %q, want %q", got, "")
	}
	if got := GetStringArg(args, "num", "default"); got != "default" {
		t.Errorf("GetStringArg(num) = %q, want %q", got, "default")
	}
}

func TestGetIntArg(t *testing.T) {
	args := map[string]any{
		"float": float64(10),
		"int":   42,
		"str":   "not a number",
	}

	if got := GetIntArg(args, "float", 0); got != 10 {
		t.Errorf("GetIntArg(float) = %d, want 10", got)
	}
	if got := GetIntArg(args, "int", 0); got != 42 {
		t.Errorf("GetIntArg(int) = %d, want 42", got)
	}
	if got := GetIntArg(args, "missing", 7); got != 7 {
		t.Errorf("GetIntArg(missing) = %d, want 7", got)
	}
	if got := GetIntArg(args, "str", 7); got != 7 {
		t.Errorf("GetIntArg(str) = %d, want 7", got)
	}
}

func TestGetBoolArg(t *testing.T) {
	args := map[string]any{
		"yes": true,
		"no":  false,
		"str": "true",
	}

	if got := GetBoolArg(args, "yes", false); !got {
		t.Error("GetBoolArg(yes) = false, want true")
	}
	if got := GetBoolArg(args, "no", true); got {
		t.Error("GetBoolArg(no) = true, want false")
	}
	if got := GetBoolArg(args, "missing", true); !got {
		t.Error("GetBoolArg(missing) = false, want true")
	}
	if got := GetBoolArg(args, "str", false); got {
		t.Error("GetBoolArg(str) = true, want false")
	}
}

func TestFormatJSON(t *testing.T) {
	out, err := FormatJSON(map[string]any{"count": 2})
	if err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}
	if !strings.Contains(out, `"count": 2`) {
		t.Errorf("FormatJSON() = %q", out)
	}
}
