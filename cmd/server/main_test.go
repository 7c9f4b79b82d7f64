// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-fin-keeper/internal/utils"
)

func TestTokenCommand(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"token", "--user", "42", "--token-sign-key", "secret"})

	require.NoError(t, root.Execute())

	signed := strings.TrimSpace(out.String())
	token, err := utils.ValidateAndParseJWTToken(signed, "secret", "go-fin-keeper")
	require.NoError(t, err)
	assert.Equal(t, int64(42), token.UserID)
}

func TestTokenCommand_RequiresSignKey(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"token"})

	assert.Error(t, root.Execute())
}
