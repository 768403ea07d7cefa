package services

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/vsinha/eventprocure/pkg/domain/entities"
)

// OrderNumberAllocator hands out deterministic event order numbers of the
// form EV-<event prefix>-<n>
type OrderNumberAllocator struct {
	pattern *regexp.Regexp
}

// NewOrderNumberAllocator creates a new allocator
func NewOrderNumberAllocator() *OrderNumberAllocator {
	return &OrderNumberAllocator{
		pattern: regexp.MustCompile(`^EV-([A-Z0-9]+)-(\d+)$`),
	}
}

// Parse extracts the event prefix and ordinal from an order number
func (a *OrderNumberAllocator) Parse(orderNumber string) (string, int, error) {
	matches := a.pattern.FindStringSubmatch(orderNumber)
	if len(matches) != 3 {
		return "", 0, fmt.Errorf("invalid event order number: %s", orderNumber)
	}

	n, err := strconv.Atoi(matches[2])
	if err != nil {
		return "", 0, fmt.Errorf("invalid ordinal in order number %s: %v", orderNumber, err)
	}

	return matches[1], n, nil
}

// Allocate returns the order number for the supplier at position ordinal
// (1-based) unless another order of the event already holds it, in which
// case the next free ordinal is used.
func (a *OrderNumberAllocator) Allocate(eventID string, ordinal int, taken []string) string {
	used := make(map[string]bool, len(taken))
	for _, number := range taken {
		used[number] = true
	}

	n := ordinal
	for used[entities.EventOrderNumber(eventID, n)] {
		n++
	}
	return entities.EventOrderNumber(eventID, n)
}
