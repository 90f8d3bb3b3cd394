package handler

import (
	"net/http"
)

type HealthResponse struct {
	Status string `json:"status"`
}

// Health reports process liveness. It deliberately checks nothing
// downstream; a degraded dependency should not take the process out of
// the load balancer.
func Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
