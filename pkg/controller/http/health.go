package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/netneurolab/nntdata/pkg/domain/interfaces"
	"github.com/netneurolab/nntdata/pkg/domain/model"
	"github.com/netneurolab/nntdata/pkg/domain/types"
)

// handleHealth handles health check requests
func handleHealth(uc interfaces.DatasetUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := &model.HealthStatus{
			Status:  "healthy",
			Service: "nntdata",
			Version: types.Version,
			DataDir: uc.DataDir(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(status); err != nil {
			ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
		}
	}
}
