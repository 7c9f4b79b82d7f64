// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"

	"github.com/MKhiriev/go-fin-keeper/models"
)

// LocalBlobKey names the blob holding offline creates, edits and tombstones
// of one collection, e.g. "transactions_user_7".
func LocalBlobKey(resource models.ResourceType, userID int64) string {
	return fmt.Sprintf("%s_user_%d", resource.Collection(), userID)
}

// SnapshotBlobKey names the cold-start snapshot of one collection, e.g.
// "transactions_snapshot_user_7".
func SnapshotBlobKey(resource models.ResourceType, userID int64) string {
	return fmt.Sprintf("%s_snapshot_user_%d", resource.Collection(), userID)
}
