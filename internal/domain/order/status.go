// Package order holds the order status lifecycle as observed by the
// storefront. The backend owns the state machine; the storefront only parses
// reported statuses and maps them onto the tracking timeline.
package order

import (
	"strings"

	"github.com/go-faster/errors"
)

// Status is the lifecycle stage of a placed order.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusInPreparation  Status = "IN_PREPARATION"
	StatusReady          Status = "READY"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

// ErrUnknownStatus is returned when the backend reports a status the
// storefront does not recognize.
var ErrUnknownStatus = errors.New("unknown order status")

// stageOrder is the fixed timeline rendered by the tracker. CANCELLED is not
// a stage: it branches off the timeline and is displayed distinctly.
var stageOrder = [...]Status{
	StatusPending,
	StatusInPreparation,
	StatusReady,
	StatusOutForDelivery,
	StatusDelivered,
}

// StageCount is the number of stages on the tracking timeline.
const StageCount = len(stageOrder)

// aliases maps the backend's Portuguese spellings onto canonical statuses.
// The dashboard endpoint reports these; the status endpoint reports the
// canonical English forms.
var aliases = map[string]Status{
	"PENDENTE":          StatusPending,
	"EM_PREPARACAO":     StatusInPreparation,
	"PRONTO":            StatusReady,
	"SAIU_PARA_ENTREGA": StatusOutForDelivery,
	"ENTREGUE":          StatusDelivered,
	"CANCELADO":         StatusCancelled,
}

// Parse normalizes a status string reported by the backend, accepting both
// canonical and Portuguese spellings.
func Parse(s string) (Status, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))

	switch Status(norm) {
	case StatusPending, StatusInPreparation, StatusReady, StatusOutForDelivery,
		StatusDelivered, StatusCancelled:
		return Status(norm), nil
	}
	if st, ok := aliases[norm]; ok {
		return st, nil
	}
	return "", errors.Wrapf(ErrUnknownStatus, "%q", s)
}

// StageIndex returns the status's position on the tracking timeline, 0-based.
// CANCELLED has no position and returns -1.
func (s Status) StageIndex() int {
	for i, st := range stageOrder {
		if s == st {
			return i
		}
	}
	return -1
}

// Terminal reports whether the status can no longer change. Polling stops
// once a terminal status is observed.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Cancelled reports whether the order left the timeline entirely.
func (s Status) Cancelled() bool {
	return s == StatusCancelled
}
