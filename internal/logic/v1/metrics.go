package v1

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/duynhne/form-service/internal/core/domain"
)

const (
	opCreate = "create"
	opList   = "list"
	opUpdate = "update"
	opDelete = "delete"
)

var storeOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "form_store_operations_total",
		Help: "Total number of form store calls by operation and result",
	},
	[]string{"operation", "result"},
)

// observeStoreOp counts one store call; not_found is not a store failure
func observeStoreOp(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrFormNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	storeOperations.WithLabelValues(op, result).Inc()
}
