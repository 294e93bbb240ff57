// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kraklabs/rdfmcp/pkg/tools"
)

// runStats prints repository statistics for the configured backend.
func runStats(cfg *Config) int {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Query.TimeoutSeconds)*time.Second)
	defer cancel()

	be, err := newBackend(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitBackend
	}
	defer be.Close()

	result, err := tools.GetStatistics(ctx, be, map[string]any{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitBackend
	}
	if result.IsError {
		fmt.Fprintf(os.Stderr, "Error: %s\n", result.Text)
		return ExitBackend
	}

	fmt.Println(result.Text)
	return ExitSuccess
}
