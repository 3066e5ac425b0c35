package db

import (
	"testing"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	return database
}

func TestReadBlobMissingKey(t *testing.T) {
	database := setupTestDB(t)

	err, value := database.ReadBlob("users")
	if err != nil {
		t.Fatalf("Missing key should not be an error, got %v", err)
	}
	if value != nil {
		t.Errorf("Expected nil for missing key, got %s", value)
	}
}

func TestWriteAndReadBlob(t *testing.T) {
	database := setupTestDB(t)

	payload := []byte(`[{"id":"u1","name":"Alice"}]`)
	if err := database.WriteBlob(BlobUsers, payload); err != nil {
		t.Fatalf("WriteBlob failed: %v", err)
	}

	err, value := database.ReadBlob(BlobUsers)
	if err != nil {
		t.Fatalf("ReadBlob failed: %v", err)
	}
	if string(value) != string(payload) {
		t.Errorf("Expected %s, got %s", payload, value)
	}
}

func TestWriteBlobOverwritesWholesale(t *testing.T) {
	database := setupTestDB(t)

	if err := database.WriteBlob(BlobFriendRequests, []byte(`["a","b"]`)); err != nil {
		t.Fatalf("WriteBlob failed: %v", err)
	}
	if err := database.WriteBlob(BlobFriendRequests, []byte(`[]`)); err != nil {
		t.Fatalf("WriteBlob failed: %v", err)
	}

	err, value := database.ReadBlob(BlobFriendRequests)
	if err != nil {
		t.Fatalf("ReadBlob failed: %v", err)
	}
	if string(value) != `[]` {
		t.Errorf("Expected the second write to replace the first, got %s", value)
	}
}

func TestDeleteBlob(t *testing.T) {
	database := setupTestDB(t)

	if err := database.WriteBlob(BlobConversations, []byte(`[]`)); err != nil {
		t.Fatalf("WriteBlob failed: %v", err)
	}
	if err := database.DeleteBlob(BlobConversations); err != nil {
		t.Fatalf("DeleteBlob failed: %v", err)
	}

	err, value := database.ReadBlob(BlobConversations)
	if err != nil {
		t.Fatalf("ReadBlob failed: %v", err)
	}
	if value != nil {
		t.Errorf("Expected nil after delete, got %s", value)
	}
}

func TestBlobKeysAreIndependent(t *testing.T) {
	database := setupTestDB(t)

	if err := database.WriteBlob(BlobUsers, []byte(`["user"]`)); err != nil {
		t.Fatalf("WriteBlob failed: %v", err)
	}
	if err := database.WriteBlob(BlobCredentials, []byte(`{"a@b.c":"hash"}`)); err != nil {
		t.Fatalf("WriteBlob failed: %v", err)
	}

	err, users := database.ReadBlob(BlobUsers)
	if err != nil {
		t.Fatalf("ReadBlob failed: %v", err)
	}
	err, creds := database.ReadBlob(BlobCredentials)
	if err != nil {
		t.Fatalf("ReadBlob failed: %v", err)
	}

	if string(users) == string(creds) {
		t.Error("Keys must not share a value")
	}
}
