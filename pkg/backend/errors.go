// Copyright (C) 2025-2026 Kraklabs. All rights reserved.
// Use of this source code is governed by the AGPL-3.0
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperation is returned when a backend cannot perform
	// the requested operation.
	ErrUnsupportedOperation = errors.New("operation not supported by this backend")

	// ErrRepositoryNotFound is returned for an unknown repository id.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrNoRepository is returned when an operation needs a repository but
	// none is selected.
	ErrNoRepository = errors.New("no repository selected")

	// ErrTimeout is returned when a query exceeds its deadline.
	ErrTimeout = errors.New("query timed out")
)

// QueryError reports a query the backend rejected: a parse failure, an
// unsupported construct, or a 4xx from the remote server.
type QueryError struct {
	Msg string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %s", e.Msg)
}

// ConnectionError reports a failure to reach the remote server.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot reach %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// timeoutOr maps context expiry to ErrTimeout, leaving other errors alone.
func timeoutOr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
