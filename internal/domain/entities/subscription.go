package entities

import (
	"errors"
	"slices"
)

var ErrUnknownSKU = errors.New("unknown sku")

// PremiumType is the kind of premium plan a user holds.
type PremiumType string

const (
	PremiumNone     PremiumType = "none"
	PremiumMonthly  PremiumType = "monthly"
	PremiumYearly   PremiumType = "yearly"
	PremiumLifetime PremiumType = "lifetime"
)

// SKU is a store product identifier.
type SKU string

const (
	SKUSubMonthly  SKU = "sub_monthly"
	SKUSubYearly   SKU = "sub_yearly"
	SKUSubLifetime SKU = "sub_lifetime"
	SKUTrackSingle SKU = "track_single"
	SKUTrackCustom SKU = "track_custom"
)

// PlanSKU maps a premium plan to its store product.
func PlanSKU(plan PremiumType) (SKU, error) {
	switch plan {
	case PremiumMonthly:
		return SKUSubMonthly, nil
	case PremiumYearly:
		return SKUSubYearly, nil
	case PremiumLifetime:
		return SKUSubLifetime, nil
	}
	return "", ErrUnknownSKU
}

// TrackSKU returns the product that unlocks t.
func TrackSKU(t Track) SKU {
	if t.IsCustom() && t.Topic != "" {
		return SKUTrackCustom
	}
	return SKUTrackSingle
}

// SubscriptionState holds everything that decides track ownership.
type SubscriptionState struct {
	IsPremium             bool        `json:"isPremium"`
	PremiumType           PremiumType `json:"premiumType"`
	FreeTrackID           *TrackID    `json:"freeTrackId"`
	PurchasedTracks       []TrackID   `json:"purchasedTracks"`
	PurchasedCustomTopics []string    `json:"purchasedCustomTopics"` // lowercase
}

// NewSubscriptionState returns the state of a user who bought nothing.
func NewSubscriptionState() SubscriptionState {
	return SubscriptionState{
		PremiumType:           PremiumNone,
		PurchasedTracks:       []TrackID{},
		PurchasedCustomTopics: []string{},
	}
}

// IsOwned decides whether t can be viewed without a purchase prompt.
func IsOwned(t Track, sub SubscriptionState) bool {
	if sub.IsPremium {
		return true
	}
	if sub.FreeTrackID != nil && *sub.FreeTrackID == t.ID && !t.IsCustom() {
		return true
	}
	if t.IsCustom() && t.Topic != "" {
		return slices.Contains(sub.PurchasedCustomTopics, t.TopicKey())
	}
	return slices.Contains(sub.PurchasedTracks, t.ID)
}

// ApplyOnboarding registers t as the free track. The free track is assigned
// once; later calls leave it unchanged. A custom topic is granted as well.
func (s SubscriptionState) ApplyOnboarding(t Track) SubscriptionState {
	s = s.clone()
	if s.FreeTrackID == nil {
		s.FreeTrackID = ptr(t.ID)
	}
	if t.IsCustom() && t.Topic != "" {
		s.PurchasedCustomTopics = addUnique(s.PurchasedCustomTopics, t.TopicKey())
	}
	return s
}

// ApplyPurchase returns the state after a successful purchase of sku.
// target is the track a track SKU unlocks and is ignored for plans.
func (s SubscriptionState) ApplyPurchase(sku SKU, target Track) (SubscriptionState, error) {
	s = s.clone()
	switch sku {
	case SKUSubMonthly:
		s.IsPremium, s.PremiumType = true, PremiumMonthly
	case SKUSubYearly:
		s.IsPremium, s.PremiumType = true, PremiumYearly
	case SKUSubLifetime:
		s.IsPremium, s.PremiumType = true, PremiumLifetime
	case SKUTrackCustom:
		s.PurchasedCustomTopics = addUnique(s.PurchasedCustomTopics, target.TopicKey())
	case SKUTrackSingle:
		s.PurchasedTracks = addUnique(s.PurchasedTracks, target.ID)
	default:
		return s, ErrUnknownSKU
	}
	return s, nil
}

func (s SubscriptionState) clone() SubscriptionState {
	s.PurchasedTracks = slices.Clone(s.PurchasedTracks)
	s.PurchasedCustomTopics = slices.Clone(s.PurchasedCustomTopics)
	if s.FreeTrackID != nil {
		s.FreeTrackID = ptr(*s.FreeTrackID)
	}
	return s
}

func addUnique[T comparable](list []T, v T) []T {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
