package models

import (
	"testing"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

func TestRecordIDString(t *testing.T) {
	id := surrealmodels.RecordID{Table: "session", ID: "s1"}
	got, err := RecordIDString(id)
	if err != nil {
		t.Fatalf("RecordIDString returned error: %v", err)
	}
	if got != "s1" {
		t.Errorf("RecordIDString = %q, want %q", got, "s1")
	}
}

func TestRecordIDStringNonString(t *testing.T) {
	id := surrealmodels.RecordID{Table: "session", ID: 42}
	if _, err := RecordIDString(id); err == nil {
		t.Error("expected error for non-string ID, got nil")
	}
}

func TestMustRecordIDStringPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-string ID")
		}
	}()
	MustRecordIDString(surrealmodels.RecordID{Table: "session", ID: 42})
}
