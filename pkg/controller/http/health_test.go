package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	controller "github.com/netneurolab/nntdata/pkg/controller/http"
	"github.com/netneurolab/nntdata/pkg/domain/model"
)

func TestHealthEndpoint(t *testing.T) {
	ctx := context.Background()
	uc := &mockDatasetUseCase{dataDir: "/var/cache/nnt-data"}

	server, err := controller.NewServer(
		ctx,
		uc,
		controller.WithAddr("localhost:0"),
	)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %v, want %v", w.Code, http.StatusOK)
	}

	var status model.HealthStatus
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if status.Status != "healthy" {
		t.Errorf("Status = %v, want healthy", status.Status)
	}

	if status.Service != "nntdata" {
		t.Errorf("Service = %v, want nntdata", status.Service)
	}

	if status.Version == "" {
		t.Error("Version should not be empty")
	}

	if status.DataDir != "/var/cache/nnt-data" {
		t.Errorf("DataDir = %v, want /var/cache/nnt-data", status.DataDir)
	}
}
