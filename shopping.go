package findmystore

import (
	"math"
	"strings"
)

// PriceRow is one store's availability and price for a product.
type PriceRow struct {
	StoreID    int64    `json:"storeId"`
	Store      string   `json:"store"`
	City       string   `json:"city"`
	Category   Category `json:"category"`
	Verified   bool     `json:"verified"`
	Rating     float64  `json:"rating"`
	Qty        int      `json:"qty"`
	Price      *float64 `json:"price"` // Nil when the store does not carry the product
	DistanceKM *float64 `json:"distanceKm,omitempty"`
	MapLink    string   `json:"map"`
}

// Comparison is the result of comparing a product across stores.
type Comparison struct {
	Product  string      `json:"product"`
	Rows     []*PriceRow `json:"rows"`
	Cheapest *PriceRow   `json:"cheapest,omitempty"`
}

// Offer is the best available offer for a product.
type Offer struct {
	Product string  `json:"product"`
	Qty     int     `json:"qty"`
	Price   float64 `json:"price"`
	Store   *Store  `json:"store"`
}

// PlanMode selects the shopping list optimization strategy.
type PlanMode string

// PlanMode constants.
const (
	// PlanModeStores greedily covers the list with as few stores as possible,
	// preferring the store with the lowest average price per covered item.
	PlanModeStores PlanMode = "stores"

	// PlanModeBudget buys every item at its cheapest store, minimizing total cost.
	PlanModeBudget PlanMode = "budget"
)

// ParsePlanMode normalizes s into a PlanMode, ignoring case and
// surrounding space. Empty means PlanModeStores.
func ParsePlanMode(s string) (PlanMode, error) {
	switch PlanMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", PlanModeStores:
		return PlanModeStores, nil
	case PlanModeBudget:
		return PlanModeBudget, nil
	}
	return "", Errorf(EINVALID, "unknown plan mode %q", s)
}

// PlanOptions configures shopping list optimization.
type PlanOptions struct {
	Mode   PlanMode `json:"mode,omitempty"`
	Budget *float64 `json:"budget,omitempty"`
}

// PlanItem is a product bought at a planned store.
type PlanItem struct {
	Product string  `json:"product"`
	Price   float64 `json:"price"`
}

// StorePlan is the part of a shopping plan bought at one store.
type StorePlan struct {
	StoreID   int64      `json:"storeId"`
	StoreName string     `json:"storeName"`
	Items     []PlanItem `json:"items"`
	Subtotal  float64    `json:"subtotal"`
}

// ShoppingPlan is an optimized shopping list.
type ShoppingPlan struct {
	Mode         PlanMode     `json:"mode"`
	CoveredAll   bool         `json:"coveredAll"`
	Plan         []*StorePlan `json:"plan"`
	NotFound     []string     `json:"notFound"`
	TotalCost    float64      `json:"totalCost"`
	Budget       *float64     `json:"budget,omitempty"`
	WithinBudget *bool        `json:"withinBudget,omitempty"`
	Overage      *float64     `json:"overage,omitempty"`
}

// RoundCents rounds a currency amount to two decimals.
func RoundCents(f float64) float64 {
	return math.Round(f*100) / 100
}
