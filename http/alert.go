package http

import (
	"net/http"
	"strings"

	"github.com/fwojciec/findmystore"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleSubscriptions(w http.ResponseWriter, r *http.Request) {
	var filter findmystore.SubscriptionFilter
	if email := strings.TrimSpace(r.URL.Query().Get("email")); email != "" {
		filter.Email = &email
	}
	if product := strings.TrimSpace(r.URL.Query().Get("product")); product != "" {
		filter.Product = &product
	}
	subs, err := s.Shop.ListSubscriptions(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if subs == nil {
		subs = []*findmystore.Subscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var sub findmystore.Subscription
	if err := decodeJSON(w, r, &sub); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Shop.Subscribe(r.Context(), &sub); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, &sub)
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	if err := s.Shop.Unsubscribe(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	var filter findmystore.AlertFilter
	if id := strings.TrimSpace(r.URL.Query().Get("subscription_id")); id != "" {
		filter.SubscriptionID = &id
	}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		st := findmystore.AlertStatus(status)
		filter.Status = &st
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter.Limit = limit

	alerts, err := s.Shop.ListAlerts(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if alerts == nil {
		alerts = []*findmystore.Alert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

// restockRequest is the body of POST /api/restock.
type restockRequest struct {
	StoreID int64    `json:"storeId"`
	Product string   `json:"product"`
	Qty     int      `json:"qty"`
	Price   *float64 `json:"price"`
}

func (s *Server) handleRestock(w http.ResponseWriter, r *http.Request) {
	var req restockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.Shop.Restock(r.Context(), req.StoreID, req.Product, req.Qty, req.Price)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
