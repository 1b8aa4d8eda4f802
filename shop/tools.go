package shop

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/fwojciec/findmystore"
)

// Compile-time interface verification.
var _ findmystore.Toolbox = (*Toolbox)(nil)

// Tool names.
const (
	ToolFindStores      = "find_stores"
	ToolCheckInventory  = "check_inventory"
	ToolFindCheapest    = "find_cheapest"
	ToolOptimizeList    = "optimize_shopping_list"
	ToolGetDirections   = "get_directions"
	ToolSubscribeAlert  = "subscribe_alert"
	ToolSearchDocuments = "search_documents"
)

// Toolbox exposes Service operations to the chat assistant. Search is
// optional; without it the search_documents tool is not offered.
type Toolbox struct {
	Service *Service
	Search  findmystore.SearchService
}

// NewToolbox creates a Toolbox.
func NewToolbox(svc *Service, search findmystore.SearchService) *Toolbox {
	return &Toolbox{Service: svc, Search: search}
}

func categoryEnum() []string {
	out := make([]string, len(findmystore.Categories))
	for i, c := range findmystore.Categories {
		out[i] = string(c)
	}
	return out
}

// Tools lists the available tools.
func (t *Toolbox) Tools() []findmystore.ToolSpec {
	tools := []findmystore.ToolSpec{
		{
			Name:        ToolFindStores,
			Description: "Find stores in a city, optionally by category. Returns store IDs used by the other tools.",
			Params: []findmystore.ToolParam{
				{Name: "city", Type: findmystore.ToolParamString, Description: "City name, e.g. Hyderabad", Required: true},
				{Name: "category", Type: findmystore.ToolParamString, Description: "Store category", Enum: categoryEnum()},
				{Name: "radius_km", Type: findmystore.ToolParamNumber, Description: "Search radius in kilometers (default 6)"},
				{Name: "open_now", Type: findmystore.ToolParamBoolean, Description: "Only stores open now"},
			},
		},
		{
			Name:        ToolCheckInventory,
			Description: "Check the stock and price of a product at a store.",
			Params: []findmystore.ToolParam{
				{Name: "store_id", Type: findmystore.ToolParamInteger, Description: "Store ID from find_stores", Required: true},
				{Name: "product", Type: findmystore.ToolParamString, Description: "Product name", Required: true},
			},
		},
		{
			Name:        ToolFindCheapest,
			Description: "Find the store with the lowest price for an in-stock product.",
			Params: []findmystore.ToolParam{
				{Name: "product", Type: findmystore.ToolParamString, Description: "Product name", Required: true},
				{Name: "city", Type: findmystore.ToolParamString, Description: "City to search; omit to use all known stores"},
				{Name: "max_price", Type: findmystore.ToolParamNumber, Description: "Maximum acceptable price in rupees"},
			},
		},
		{
			Name:        ToolOptimizeList,
			Description: "Plan where to buy a shopping list. Mode 'stores' uses as few stores as possible; 'budget' minimizes total cost.",
			Params: []findmystore.ToolParam{
				{Name: "items", Type: findmystore.ToolParamStringArray, Description: "Products to buy", Required: true},
				{Name: "city", Type: findmystore.ToolParamString, Description: "City to search; omit to use all known stores"},
				{Name: "mode", Type: findmystore.ToolParamString, Description: "Plan mode", Enum: []string{string(findmystore.PlanModeStores), string(findmystore.PlanModeBudget)}},
				{Name: "budget", Type: findmystore.ToolParamNumber, Description: "Spending cap in rupees"},
			},
		},
		{
			Name:        ToolGetDirections,
			Description: "Get a Google Maps driving directions link to a store.",
			Params: []findmystore.ToolParam{
				{Name: "store_id", Type: findmystore.ToolParamInteger, Description: "Store ID from find_stores", Required: true},
				{Name: "origin", Type: findmystore.ToolParamString, Description: "Starting address or 'lat,lng'"},
			},
		},
		{
			Name:        ToolSubscribeAlert,
			Description: "Subscribe an email address to restock alerts for a product in a city. With max_price it becomes a deal alert.",
			Params: []findmystore.ToolParam{
				{Name: "product", Type: findmystore.ToolParamString, Description: "Product name", Required: true},
				{Name: "city", Type: findmystore.ToolParamString, Description: "City name", Required: true},
				{Name: "email", Type: findmystore.ToolParamString, Description: "Email address for alerts", Required: true},
				{Name: "max_price", Type: findmystore.ToolParamNumber, Description: "Only alert at or below this price"},
			},
		},
	}
	if t.Search != nil {
		tools = append(tools, findmystore.ToolSpec{
			Name:        ToolSearchDocuments,
			Description: "Search the user's uploaded documents (flyers, receipts, price lists) for relevant passages.",
			Params: []findmystore.ToolParam{
				{Name: "query", Type: findmystore.ToolParamString, Description: "What to look for", Required: true},
				{Name: "limit", Type: findmystore.ToolParamInteger, Description: "Number of passages (default 5)"},
			},
		})
	}
	return tools
}

// Call invokes a tool by name.
func (t *Toolbox) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	a := toolArgs(args)
	switch name {
	case ToolFindStores:
		if err := a.require("city"); err != nil {
			return nil, err
		}
		return t.Service.SearchStores(ctx, findmystore.StoreQuery{
			City:     a.text("city"),
			Category: findmystore.Category(a.text("category")),
			RadiusKM: a.number("radius_km"),
			OpenNow:  a.boolean("open_now"),
		})

	case ToolCheckInventory:
		if err := a.require("store_id", "product"); err != nil {
			return nil, err
		}
		id, err := a.integer("store_id")
		if err != nil {
			return nil, err
		}
		return t.Service.CheckStock(ctx, id, a.text("product"))

	case ToolFindCheapest:
		if err := a.require("product"); err != nil {
			return nil, err
		}
		return t.Service.FindCheapest(ctx, findmystore.StoreQuery{City: a.text("city")}, a.text("product"), a.numberPtr("max_price"))

	case ToolOptimizeList:
		if err := a.require("items"); err != nil {
			return nil, err
		}
		return t.Service.OptimizeList(ctx, findmystore.StoreQuery{City: a.text("city")}, a.list("items"),
			findmystore.PlanOptions{Mode: findmystore.PlanMode(a.text("mode")), Budget: a.numberPtr("budget")})

	case ToolGetDirections:
		if err := a.require("store_id"); err != nil {
			return nil, err
		}
		id, err := a.integer("store_id")
		if err != nil {
			return nil, err
		}
		link, err := t.Service.Directions(ctx, id, a.text("origin"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"store_id": id, "url": link}, nil

	case ToolSubscribeAlert:
		if err := a.require("product", "city", "email"); err != nil {
			return nil, err
		}
		sub := &findmystore.Subscription{
			Email:    a.text("email"),
			Product:  a.text("product"),
			City:     a.text("city"),
			MaxPrice: a.numberPtr("max_price"),
		}
		if err := t.Service.Subscribe(ctx, sub); err != nil {
			return nil, err
		}
		return sub, nil

	case ToolSearchDocuments:
		if t.Search == nil {
			break
		}
		if err := a.require("query"); err != nil {
			return nil, err
		}
		limit, _ := a.integer("limit")
		results, err := t.Search.Search(ctx, a.text("query"), findmystore.SearchOptions{Limit: int(limit)})
		if err != nil {
			return nil, err
		}
		out := make([]map[string]any, len(results))
		for i, r := range results {
			out[i] = map[string]any{
				"source":  r.Chunk.Metadata.Source,
				"score":   r.Score,
				"content": r.Chunk.Content,
			}
		}
		return out, nil
	}
	return nil, findmystore.Errorf(findmystore.ENOTFOUND, "unknown tool %q", name)
}

// toolArgs reads loosely typed JSON arguments from the model.
type toolArgs map[string]any

func (a toolArgs) require(names ...string) error {
	for _, n := range names {
		v, ok := a[n]
		if !ok || v == nil {
			return findmystore.Errorf(findmystore.EINVALID, "missing argument %q", n)
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			return findmystore.Errorf(findmystore.EINVALID, "missing argument %q", n)
		}
	}
	return nil
}

func (a toolArgs) text(name string) string {
	switch v := a[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (a toolArgs) numberPtr(name string) *float64 {
	switch v := a[name].(type) {
	case float64:
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}

func (a toolArgs) number(name string) float64 {
	if p := a.numberPtr(name); p != nil {
		return *p
	}
	return 0
}

func (a toolArgs) integer(name string) (int64, error) {
	switch v := a[name].(type) {
	case nil:
		return 0, nil
	case string:
		var n int64
		if _, err := fmt.Sscan(v, &n); err != nil {
			return 0, findmystore.Errorf(findmystore.EINVALID, "argument %q must be an integer", name)
		}
		return n, nil
	}
	p := a.numberPtr(name)
	if p == nil || *p != math.Trunc(*p) {
		return 0, findmystore.Errorf(findmystore.EINVALID, "argument %q must be an integer", name)
	}
	return int64(*p), nil
}

func (a toolArgs) boolean(name string) bool {
	switch v := a[name].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

func (a toolArgs) list(name string) []string {
	switch v := a[name].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return strings.Split(v, ",")
	}
	return nil
}
