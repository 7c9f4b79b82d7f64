// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserIDFromContext(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		want   int64
		wantOK bool
	}{
		{name: "present", ctx: context.WithValue(context.Background(), UserIDCtxKey, int64(42)), want: 42, wantOK: true},
		{name: "missing", ctx: context.Background()},
		{name: "wrong type", ctx: context.WithValue(context.Background(), UserIDCtxKey, "42")},
		{name: "plain string key does not collide", ctx: context.WithValue(context.Background(), "userID", int64(7))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GetUserIDFromContext(tt.ctx)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTraceIDContext(t *testing.T) {
	assert.Empty(t, GetTraceIDFromContext(context.Background()))

	ctx := WithTraceID(context.Background(), "trace-1")
	assert.Equal(t, "trace-1", GetTraceIDFromContext(ctx))
	assert.Equal(t, "traceID", TraceIDCtxKey.String())
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	n, err := WriteJSON(rec, map[string]int{"id": 1}, http.StatusCreated)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
	assert.Equal(t, rec.Body.Len(), n)
}

func TestWriteJSON_MarshalError(t *testing.T) {
	rec := httptest.NewRecorder()

	_, err := WriteJSON(rec, make(chan int), http.StatusOK)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, "nope", http.StatusConflict)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"message":"nope"}`, rec.Body.String())
}

func TestNewHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "/ping", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	require.NotNil(t, c.Client)
	assert.Equal(t, time.Second, c.GetClient().Timeout)

	resp, err := c.R().Get("/ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())
}

func TestNewHTTPClient_Independent(t *testing.T) {
	a := NewHTTPClient("http://a", 0)
	b := NewHTTPClient("http://b", 0)

	a.SetHeader("X-Test", "1")

	assert.NotSame(t, a.Client, b.Client)
	assert.Empty(t, b.Header.Get("X-Test"))
}

func TestUUIDGenerator(t *testing.T) {
	g := NewUUIDGenerator()
	a, b := g.Generate(), g.Generate()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Equal(t, byte('7'), a[14])
}

func TestTempIDGenerator_Monotonic(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	g := &TempIDGenerator{now: func() time.Time { return fixed }}

	first := g.Generate()
	second := g.Generate()

	assert.Equal(t, "tmp-1700000000000000000", first)
	assert.Equal(t, "tmp-1700000000000000001", second)
	assert.True(t, strings.HasPrefix(NewTempIDGenerator().Generate(), "tmp-"))
}

func TestJWT_RoundTrip(t *testing.T) {
	token, err := GenerateJWTToken("issuer", 917, time.Hour, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(917), token.UserID)

	parsed, err := ValidateAndParseJWTToken(token.SignedString, "secret", "issuer")
	require.NoError(t, err)
	assert.Equal(t, int64(917), parsed.UserID)

	id, err := ParseUserIDFromJWT(token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(917), id)
}

func TestJWT_Rejects(t *testing.T) {
	token, err := GenerateJWTToken("issuer", 1, time.Hour, "secret")
	require.NoError(t, err)

	_, err = ValidateAndParseJWTToken(token.SignedString, "other", "issuer")
	assert.Error(t, err, "wrong key")

	_, err = ValidateAndParseJWTToken(token.SignedString, "secret", "someone-else")
	assert.Error(t, err, "wrong issuer")

	expired, err := GenerateJWTToken("issuer", 1, -time.Minute, "secret")
	require.NoError(t, err)
	_, err = ValidateAndParseJWTToken(expired.SignedString, "secret", "issuer")
	assert.Error(t, err, "expired")

	_, err = GenerateJWTToken("", 1, time.Hour, "secret")
	assert.Error(t, err)

	_, err = ParseUserIDFromJWT("not-a-token")
	assert.Error(t, err)
}

func TestParseBearerToken(t *testing.T) {
	tok, err := ParseBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	for _, bad := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		_, err := ParseBearerToken(bad)
		assert.Error(t, err, bad)
	}
}
