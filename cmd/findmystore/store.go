package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fwojciec/findmystore"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *p)
}

func verifiedMark(v bool) string {
	if v {
		return "yes"
	}
	return ""
}

// Run executes the stores command.
func (c *StoresCmd) Run(deps *Dependencies) error {
	stores, err := deps.Shop.SearchStores(deps.Ctx, findmystore.StoreQuery{
		City:     c.City,
		Category: findmystore.Category(c.Category),
		RadiusKM: c.Radius,
		OpenNow:  c.OpenNow,
	})
	if err != nil {
		return err
	}
	if len(stores) == 0 {
		fmt.Fprintf(deps.Stdout, "No stores found in %s.\n", c.City)
		return nil
	}

	tw := newTable(deps.Stdout)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tRATING\tVERIFIED\tADDRESS")
	for _, s := range stores {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f (%d)\t%s\t%s\n",
			s.ID, s.Name, s.Category, s.Rating, s.RatingsTotal, verifiedMark(s.Verified), s.Address)
	}
	return tw.Flush()
}

// Run executes the stock command.
func (c *StockCmd) Run(deps *Dependencies) error {
	status, err := deps.Shop.CheckStock(deps.Ctx, c.StoreID, c.Product)
	if err != nil {
		return err
	}
	if !status.Available() {
		fmt.Fprintf(deps.Stdout, "%s is not available at %s.\n", status.Product, status.Store)
		return nil
	}
	note := ""
	if status.Estimated {
		note = " (estimated)"
	}
	fmt.Fprintf(deps.Stdout, "%s at %s: %d in stock at %s%s\n",
		status.Product, status.Store, status.Qty, formatPrice(status.Price), note)
	return nil
}

// Run executes the compare command.
func (c *CompareCmd) Run(deps *Dependencies) error {
	cmp, err := deps.Shop.ComparePrices(deps.Ctx, findmystore.StoreQuery{
		City:     c.City,
		Category: findmystore.Category(c.Category),
	}, c.Product)
	if err != nil {
		return err
	}

	tw := newTable(deps.Stdout)
	fmt.Fprintln(tw, "ID\tSTORE\tQTY\tPRICE\tVERIFIED\tDISTANCE")
	for _, r := range cmp.Rows {
		dist := "-"
		if r.DistanceKM != nil {
			dist = fmt.Sprintf("%.1f km", *r.DistanceKM)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\n",
			r.StoreID, r.Store, r.Qty, formatPrice(r.Price), verifiedMark(r.Verified), dist)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if cmp.Cheapest != nil {
		fmt.Fprintf(deps.Stdout, "\nCheapest: %s at %s\n", cmp.Cheapest.Store, formatPrice(cmp.Cheapest.Price))
	}
	return nil
}

// Run executes the cheapest command.
func (c *CheapestCmd) Run(deps *Dependencies) error {
	offer, err := deps.Shop.FindCheapest(deps.Ctx, findmystore.StoreQuery{
		City:     c.City,
		Category: findmystore.Category(c.Category),
	}, c.Product, c.MaxPrice)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "%s: %.2f at %s (store %d, %d in stock)\n",
		offer.Product, offer.Price, offer.Store.Name, offer.Store.ID, offer.Qty)
	return nil
}

// Run executes the plan command.
func (c *PlanCmd) Run(deps *Dependencies) error {
	mode, err := findmystore.ParsePlanMode(c.Mode)
	if err != nil {
		return err
	}
	plan, err := deps.Shop.OptimizeList(deps.Ctx, findmystore.StoreQuery{
		City:     c.City,
		Category: findmystore.Category(c.Category),
	}, c.Items, findmystore.PlanOptions{Mode: mode, Budget: c.Budget})
	if err != nil {
		return err
	}

	for _, sp := range plan.Plan {
		fmt.Fprintf(deps.Stdout, "%s (store %d)\n", sp.StoreName, sp.StoreID)
		for _, it := range sp.Items {
			fmt.Fprintf(deps.Stdout, "  %-24s %10.2f\n", it.Product, it.Price)
		}
		fmt.Fprintf(deps.Stdout, "  %-24s %10.2f\n", "subtotal", sp.Subtotal)
	}
	fmt.Fprintf(deps.Stdout, "Total: %.2f\n", plan.TotalCost)
	if len(plan.NotFound) > 0 {
		fmt.Fprintf(deps.Stdout, "Not found: %v\n", plan.NotFound)
	}
	if plan.WithinBudget != nil {
		if *plan.WithinBudget {
			fmt.Fprintf(deps.Stdout, "Within budget of %.2f\n", *plan.Budget)
		} else {
			fmt.Fprintf(deps.Stdout, "Over budget of %.2f by %.2f\n", *plan.Budget, *plan.Overage)
		}
	}
	return nil
}

// Run executes the directions command.
func (c *DirectionsCmd) Run(deps *Dependencies) error {
	link, err := deps.Shop.Directions(deps.Ctx, c.StoreID, c.Origin)
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, link)
	return nil
}
