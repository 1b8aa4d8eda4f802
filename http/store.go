package http

import (
	"net/http"

	"github.com/fwojciec/findmystore"
)

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, findmystore.Categories)
}

func (s *Server) handleStores(w http.ResponseWriter, r *http.Request) {
	q, err := storeQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stores, err := s.Shop.SearchStores(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if stores == nil {
		stores = []*findmystore.Store{}
	}
	writeJSON(w, http.StatusOK, stores)
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status, err := s.Shop.CheckStock(r.Context(), id, r.URL.Query().Get("product"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleDirections(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	link, err := s.Shop.Directions(r.Context(), id, r.URL.Query().Get("origin"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"storeId": id, "url": link})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q, err := storeQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cmp, err := s.Shop.ComparePrices(r.Context(), q, r.URL.Query().Get("product"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

func (s *Server) handleCheapest(w http.ResponseWriter, r *http.Request) {
	q, err := storeQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	maxPrice, err := queryFloat(r, "max_price")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	offer, err := s.Shop.FindCheapest(r.Context(), q, r.URL.Query().Get("product"), maxPrice)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// shoppingListRequest is the body of POST /api/shopping-list.
type shoppingListRequest struct {
	City     string   `json:"city"`
	Category string   `json:"category"`
	RadiusKM float64  `json:"radiusKm"`
	Items    []string `json:"items"`
	Mode     string   `json:"mode"`
	Budget   *float64 `json:"budget"`
}

func (s *Server) handleShoppingList(w http.ResponseWriter, r *http.Request) {
	var req shoppingListRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	mode, err := findmystore.ParsePlanMode(req.Mode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := findmystore.StoreQuery{City: req.City, Category: findmystore.Category(req.Category), RadiusKM: req.RadiusKM}
	plan, err := s.Shop.OptimizeList(r.Context(), q, req.Items, findmystore.PlanOptions{Mode: mode, Budget: req.Budget})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
