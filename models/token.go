// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Token is a bearer token together with the user id carried in its subject
// claim. The user id scopes the local offline blobs.
type Token struct {
	SignedString string `json:"token"`
	UserID       int64  `json:"user_id"`
}
