package shop

import (
	"context"
	"sort"
	"strings"

	"github.com/fwojciec/findmystore"
	"golang.org/x/sync/errgroup"
)

// OptimizeList plans where to buy a shopping list across the query's stores.
func (s *Service) OptimizeList(ctx context.Context, q findmystore.StoreQuery, items []string, opts findmystore.PlanOptions) (*findmystore.ShoppingPlan, error) {
	mode, err := findmystore.ParsePlanMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	if opts.Budget != nil && *opts.Budget < 0 {
		return nil, findmystore.Errorf(findmystore.EINVALID, "budget must not be negative")
	}

	needed := dedupeItems(items)
	if len(needed) == 0 {
		return nil, findmystore.Errorf(findmystore.EINVALID, "no items in shopping list")
	}

	stores, err := s.candidateStores(ctx, q)
	if err != nil {
		return nil, err
	}
	offers, err := s.offerings(ctx, stores, needed)
	if err != nil {
		return nil, err
	}

	var plan *findmystore.ShoppingPlan
	switch mode {
	case findmystore.PlanModeBudget:
		plan = planCheapest(offers, needed)
	default:
		plan = planFewestStores(offers, needed)
	}
	plan.Mode = mode

	if opts.Budget != nil {
		budget := *opts.Budget
		within := plan.TotalCost <= budget
		overage := findmystore.RoundCents(max(0, plan.TotalCost-budget))
		plan.Budget = &budget
		plan.WithinBudget = &within
		plan.Overage = &overage
	}
	return plan, nil
}

// dedupeItems trims items, drops blanks, and removes case-insensitive
// duplicates keeping the first spelling.
func dedupeItems(items []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		item = findmystore.NormalizeProduct(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// offering is what one store can supply from the list.
type offering struct {
	store  *findmystore.Store
	prices map[string]float64 // keyed by list item
}

// offerings collects, in store order, the available priced items of each store.
// Stores offering nothing are dropped.
func (s *Service) offerings(ctx context.Context, stores []*findmystore.Store, items []string) ([]*offering, error) {
	all := make([]*offering, len(stores))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for i, store := range stores {
		g.Go(func() error {
			statuses, err := s.checkItems(ctx, store, items)
			if err != nil {
				return err
			}
			o := &offering{store: store, prices: make(map[string]float64)}
			for j, st := range statuses {
				if st.Available() {
					o.prices[items[j]] = *st.Price
				}
			}
			all[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*offering
	for _, o := range all {
		if len(o.prices) > 0 {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Service) checkItems(ctx context.Context, store *findmystore.Store, items []string) ([]*findmystore.StockStatus, error) {
	out := make([]*findmystore.StockStatus, len(items))
	for i, item := range items {
		st, err := s.checkStock(ctx, store, item)
		if err != nil {
			return nil, err
		}
		out[i] = st
	}
	return out, nil
}

// planFewestStores greedily covers the list: each round picks the store with
// the lowest average price over the remaining items it covers. Earlier stores
// win ties.
func planFewestStores(offers []*offering, items []string) *findmystore.ShoppingPlan {
	remaining := make(map[string]bool, len(items))
	for _, item := range items {
		remaining[item] = true
	}
	available := append([]*offering(nil), offers...)

	plan := &findmystore.ShoppingPlan{Plan: []*findmystore.StorePlan{}}
	for len(remaining) > 0 {
		bestIdx := -1
		var bestCover []string
		var bestScore float64
		for i, o := range available {
			var cover []string
			var cost float64
			for _, item := range items {
				if price, ok := o.prices[item]; ok && remaining[item] {
					cover = append(cover, item)
					cost += price
				}
			}
			if len(cover) == 0 {
				continue
			}
			score := cost / float64(len(cover))
			if bestIdx < 0 || score < bestScore {
				bestIdx, bestCover, bestScore = i, cover, score
			}
		}
		if bestIdx < 0 {
			break
		}

		o := available[bestIdx]
		plan.Plan = append(plan.Plan, storePlan(o, bestCover))
		for _, item := range bestCover {
			delete(remaining, item)
		}
		available = append(available[:bestIdx], available[bestIdx+1:]...)
	}

	finishPlan(plan, items, remaining)
	return plan
}

// planCheapest buys every item at its cheapest store. Earlier stores win
// ties. Stores appear in the order of the first item bought there.
func planCheapest(offers []*offering, items []string) *findmystore.ShoppingPlan {
	remaining := make(map[string]bool)
	assigned := make(map[*offering][]string)
	var order []*offering

	for _, item := range items {
		var best *offering
		for _, o := range offers {
			price, ok := o.prices[item]
			if ok && (best == nil || price < best.prices[item]) {
				best = o
			}
		}
		if best == nil {
			remaining[item] = true
			continue
		}
		if _, ok := assigned[best]; !ok {
			order = append(order, best)
		}
		assigned[best] = append(assigned[best], item)
	}

	plan := &findmystore.ShoppingPlan{Plan: []*findmystore.StorePlan{}}
	for _, o := range order {
		plan.Plan = append(plan.Plan, storePlan(o, assigned[o]))
	}
	finishPlan(plan, items, remaining)
	return plan
}

func storePlan(o *offering, items []string) *findmystore.StorePlan {
	sp := &findmystore.StorePlan{StoreID: o.store.ID, StoreName: o.store.Name}
	var subtotal float64
	for _, item := range items {
		sp.Items = append(sp.Items, findmystore.PlanItem{Product: item, Price: o.prices[item]})
		subtotal += o.prices[item]
	}
	sort.Slice(sp.Items, func(i, j int) bool { return sp.Items[i].Product < sp.Items[j].Product })
	sp.Subtotal = findmystore.RoundCents(subtotal)
	return sp
}

func finishPlan(plan *findmystore.ShoppingPlan, items []string, remaining map[string]bool) {
	plan.NotFound = []string{}
	for _, item := range items {
		if remaining[item] {
			plan.NotFound = append(plan.NotFound, item)
		}
	}
	plan.CoveredAll = len(plan.NotFound) == 0

	var total float64
	for _, sp := range plan.Plan {
		for _, item := range sp.Items {
			total += item.Price
		}
	}
	plan.TotalCost = findmystore.RoundCents(total)
}
