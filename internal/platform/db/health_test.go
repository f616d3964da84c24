package db

import (
	"encoding/json"
	"testing"
)

func TestHealthStatus_JSONShape(t *testing.T) {
	status := HealthStatus{
		Database: "up",
		PingMs:   3,
		Pool:     PoolStats{Total: 10, Idle: 5, Acquired: 5, Max: 20},
	}

	raw, err := json.Marshal(status)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["database"] != "up" {
		t.Errorf("expected database=up, got %v", decoded["database"])
	}
	if _, has := decoded["error"]; has {
		t.Error("error field must be omitted when healthy")
	}
}

func TestHealthStatus_DownIncludesError(t *testing.T) {
	status := HealthStatus{Database: "down", Error: "connection refused"}

	raw, err := json.Marshal(status)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["database"] != "down" {
		t.Errorf("expected database=down, got %v", decoded["database"])
	}
	if decoded["error"] != "connection refused" {
		t.Errorf("expected the error message, got %v", decoded["error"])
	}
}
