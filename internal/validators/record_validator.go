// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"time"

	"github.com/MKhiriev/go-fin-keeper/models"
)

const (
	FieldType   = "type"
	FieldDate   = "date"
	FieldAmount = "amount"
	FieldName   = "name"
	FieldPeriod = "period"
)

// RecordValidator checks the content of domain records before they are
// accepted. Identity and provenance fields are never inspected.
type RecordValidator struct {
}

func NewRecordValidator() Validator {
	return &RecordValidator{}
}

func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Transaction:
		return v.validateTransaction(ctx, value, fields...)
	case *models.Transaction:
		return v.validateTransaction(ctx, *value, fields...)

	case models.Category:
		return v.validateCategory(ctx, value, fields...)
	case *models.Category:
		return v.validateCategory(ctx, *value, fields...)

	case models.Source:
		return v.validateSource(ctx, value, fields...)
	case *models.Source:
		return v.validateSource(ctx, *value, fields...)

	case models.Target:
		return v.validateTarget(ctx, value, fields...)
	case *models.Target:
		return v.validateTarget(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RecordValidator) validateTransaction(ctx context.Context, t models.Transaction, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldType, FieldDate, FieldAmount}
	}

	for _, f := range fields {
		switch f {
		case FieldType:
			if !isTransactionType(t.Type) {
				return ErrInvalidTransactionType
			}
		case FieldDate:
			if err := validateDate(t.Date); err != nil {
				return err
			}
		case FieldAmount:
			if t.Amount < 0 {
				return ErrNegativeAmount
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateCategory allows an empty type: such a category groups both
// directions.
func (v *RecordValidator) validateCategory(ctx context.Context, c models.Category, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldType}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if strings.TrimSpace(c.Name) == "" {
				return ErrEmptyName
			}
		case FieldType:
			if c.Type != "" && !isTransactionType(c.Type) {
				return ErrInvalidTransactionType
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateSource(ctx context.Context, s models.Source, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if strings.TrimSpace(s.Name) == "" {
				return ErrEmptyName
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateTarget(ctx context.Context, t models.Target, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldName, FieldAmount, FieldPeriod}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if strings.TrimSpace(t.Name) == "" {
				return ErrEmptyName
			}
		case FieldAmount:
			if t.Amount <= 0 {
				return ErrNonPositiveAmount
			}
		case FieldPeriod:
			if t.Period == "" {
				continue
			}
			if _, err := time.Parse("2006-01", t.Period); err != nil {
				return ErrInvalidPeriod
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func isTransactionType(t models.TransactionType) bool {
	return t == models.TransactionIncome || t == models.TransactionExpense
}

// validateDate accepts YYYY-MM-DD with an optional time part after it.
func validateDate(date string) error {
	date = strings.TrimSpace(date)
	if date == "" {
		return ErrEmptyDate
	}
	if len(date) < len(time.DateOnly) {
		return ErrInvalidDate
	}
	if _, err := time.Parse(time.DateOnly, date[:len(time.DateOnly)]); err != nil {
		return ErrInvalidDate
	}
	return nil
}
