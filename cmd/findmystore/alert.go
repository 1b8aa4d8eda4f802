package main

import (
	"fmt"

	"github.com/fwojciec/findmystore"
)

// Run executes the subscribe command.
func (c *SubscribeCmd) Run(deps *Dependencies) error {
	sub := &findmystore.Subscription{
		Email:    c.Email,
		Product:  c.Product,
		City:     c.City,
		MaxPrice: c.MaxPrice,
	}
	if err := deps.Shop.Subscribe(deps.Ctx, sub); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Subscribed %s to %s in %s (id %s)\n", sub.Email, sub.Product, sub.City, sub.ID)
	return nil
}

// Run executes the unsubscribe command.
func (c *UnsubscribeCmd) Run(deps *Dependencies) error {
	if err := deps.Shop.Unsubscribe(deps.Ctx, c.ID); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Removed subscription %s\n", c.ID)
	return nil
}

// Run executes the subscriptions command.
func (c *SubscriptionsCmd) Run(deps *Dependencies) error {
	var filter findmystore.SubscriptionFilter
	if c.Email != "" {
		filter.Email = &c.Email
	}
	subs, err := deps.Shop.ListSubscriptions(deps.Ctx, filter)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Fprintln(deps.Stdout, "No subscriptions.")
		return nil
	}

	tw := newTable(deps.Stdout)
	fmt.Fprintln(tw, "ID\tEMAIL\tPRODUCT\tCITY\tMAX PRICE")
	for _, s := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Email, s.Product, s.City, formatPrice(s.MaxPrice))
	}
	return tw.Flush()
}

// Run executes the restock command.
func (c *RestockCmd) Run(deps *Dependencies) error {
	res, err := deps.Shop.Restock(deps.Ctx, c.StoreID, c.Product, c.Qty, c.Price)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "%s at store %d: %d in stock at %.2f\n",
		res.Item.Product, res.Item.StoreID, res.Item.Qty, res.Item.Price)
	fmt.Fprintf(deps.Stdout, "Alerts: %d matched, %d sent, %d failed\n", res.Matched, res.Notified, res.Failed)
	return nil
}

// Run executes the alerts command.
func (c *AlertsCmd) Run(deps *Dependencies) error {
	filter := findmystore.AlertFilter{Limit: c.Limit}
	if c.Subscription != "" {
		filter.SubscriptionID = &c.Subscription
	}
	if c.Status != "" {
		status := findmystore.AlertStatus(c.Status)
		filter.Status = &status
	}
	alerts, err := deps.Shop.ListAlerts(deps.Ctx, filter)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		fmt.Fprintln(deps.Stdout, "No alerts.")
		return nil
	}

	tw := newTable(deps.Stdout)
	fmt.Fprintln(tw, "TIME\tKIND\tSTATUS\tPRODUCT\tSTORE\tPRICE\tERROR")
	for _, a := range alerts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.2f\t%s\n",
			a.CreatedAt.Format("2006-01-02 15:04"), a.Kind, a.Status, a.Product, a.StoreID, a.Price, a.Error)
	}
	return tw.Flush()
}
