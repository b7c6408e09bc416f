// Package store is a stand-in for the platform purchase flow.
package store

import (
	"context"
	"errors"
	"slices"

	"github.com/aliskhannn/calearner-bot/internal/domain/entities"
)

var ErrStoreUnavailable = errors.New("store unavailable")

// Service approves purchases unless the SKU is configured as declined or failing.
type Service struct {
	declined []entities.SKU
	failing  []entities.SKU
}

func NewService(declined, failing []string) *Service {
	return &Service{
		declined: toSKUs(declined),
		failing:  toSKUs(failing),
	}
}

// Purchase reports whether the user completed the purchase of sku.
// A declined purchase is (false, nil); a broken store returns an error.
func (s *Service) Purchase(ctx context.Context, sku entities.SKU) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if slices.Contains(s.failing, sku) {
		return false, ErrStoreUnavailable
	}
	return !slices.Contains(s.declined, sku), nil
}

func toSKUs(raw []string) []entities.SKU {
	out := make([]entities.SKU, 0, len(raw))
	for _, r := range raw {
		out = append(out, entities.SKU(r))
	}
	return out
}
