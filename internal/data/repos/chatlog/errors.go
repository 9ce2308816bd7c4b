package chatlog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUnavailable marks connection level failures worth retrying later.
	ErrUnavailable = errors.New("chat log unavailable")
	// ErrSchema means the collector tables are missing or have a different shape.
	ErrSchema = errors.New("chat log schema mismatch")
)

// MapError tags storage failures so callers can tell outages from bugs.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		code := strings.TrimSpace(pgErr.Code)
		switch {
		case code == "42P01", code == "42703":
			return fmt.Errorf("%s: %w: %w", op, ErrSchema, err) // undefined_table/undefined_column
		case strings.HasPrefix(code, "08"), code == "57P01", code == "53300":
			return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err) // connection/admin_shutdown/too_many_connections
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such table"), strings.Contains(msg, "no such column"):
		return fmt.Errorf("%s: %w: %w", op, ErrSchema, err)
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "broken pipe"):
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
