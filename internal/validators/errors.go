// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidTransactionType = errors.New("type must be income or expense")
	ErrEmptyDate              = errors.New("date is required")
	ErrInvalidDate            = errors.New("date must be an ISO date")
	ErrNegativeAmount         = errors.New("amount must not be negative")
	ErrNonPositiveAmount      = errors.New("amount must be positive")
	ErrEmptyName              = errors.New("name is required")
	ErrInvalidPeriod          = errors.New("period must be YYYY-MM")
)
