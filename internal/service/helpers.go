package service

import (
	"context"
	"errors"
	"time"

	"integrafacturacion/internal/apierror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var cien = decimal.NewFromInt(100)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// parseID turns a path or body id into a uuid, reporting the field on failure.
func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierror.ValidationFields(map[string]string{field: "uuid"})
	}
	return id, nil
}

// parseOptionalID returns uuid.Nil for an empty string.
func parseOptionalID(field, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	return parseID(field, raw)
}

// buscarErr maps a lookup error: missing rows become NotFound, typed errors
// pass through, anything else is an internal failure.
func buscarErr(err error, entidad string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(entidad)
	}
	if _, ok := apierror.As(err); ok {
		return err
	}
	return apierror.Internal(err)
}

// txErr preserves typed errors raised mid-transaction and wraps the rest.
func txErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apierror.As(err); ok {
		return err
	}
	return apierror.Internal(err)
}

// guardarErr maps an insert/update failure; unique violations (translated by
// the gorm dialector) become a Conflict with msg.
func guardarErr(err error, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.Conflict(msg)
	}
	return txErr(err)
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func optionalUUID(field string, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := parseID(field, *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func fecha(t time.Time) string { return t.Format(time.RFC3339) }

func fechaPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := fecha(*t)
	return &s
}
