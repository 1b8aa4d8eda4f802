package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/findmystore"
	"github.com/fwojciec/findmystore/ingest"
	"github.com/fwojciec/findmystore/shop"
)

// Dependencies holds all services and configuration for command execution.
// Asker, Chatter and Importer are nil when not configured. Search is always
// set and falls back to keyword ranking without Gemini embeddings.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config Config

	Shop      *shop.Service
	Documents findmystore.DocumentService
	Ingester  *ingest.Ingester
	Importer  *ingest.Importer
	Search    findmystore.SearchService
	Asker     findmystore.Asker
	Chatter   findmystore.Chatter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Serve         ServeCmd         `cmd:"" help:"Serve the web page and JSON API"`
	Stores        StoresCmd        `cmd:"" help:"Find stores in a city"`
	Stock         StockCmd         `cmd:"" help:"Check a product at a store"`
	Compare       CompareCmd       `cmd:"" help:"Compare a product across stores"`
	Cheapest      CheapestCmd      `cmd:"" help:"Find the cheapest available offer"`
	Plan          PlanCmd          `cmd:"" help:"Optimize a shopping list across stores"`
	Directions    DirectionsCmd    `cmd:"" help:"Print a directions link to a store"`
	Subscribe     SubscribeCmd     `cmd:"" help:"Subscribe to restock alerts"`
	Unsubscribe   UnsubscribeCmd   `cmd:"" help:"Remove an alert subscription"`
	Subscriptions SubscriptionsCmd `cmd:"" help:"List alert subscriptions"`
	Restock       RestockCmd       `cmd:"" help:"Restock a product and notify subscribers"`
	Alerts        AlertsCmd        `cmd:"" help:"List sent alerts"`
	Ingest        IngestCmd        `cmd:"" help:"Upload documents (pdf, docx, txt, md, html)"`
	Import        ImportCmd        `cmd:"" help:"Import web pages as documents"`
	Docs          DocsCmd          `cmd:"" help:"List documents"`
	RmDoc         RmDocCmd         `cmd:"" name:"rm-doc" help:"Delete a document"`
	Export        ExportCmd        `cmd:"" help:"Export documents as Markdown files"`
	Search        SearchCmd        `cmd:"" help:"Search your documents"`
	Ask           AskCmd           `cmd:"" help:"Ask a question about your documents"`
	Chat          ChatCmd          `cmd:"" help:"Chat with the shopping assistant"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8501" help:"Listen address"`
}

// StoresCmd is the "stores" subcommand.
type StoresCmd struct {
	City     string  `arg:"" help:"City name"`
	Category string  `short:"c" help:"Store category"`
	Radius   float64 `short:"r" help:"Search radius in km (default 6)"`
	OpenNow  bool    `help:"Only stores open now"`
}

// StockCmd is the "stock" subcommand.
type StockCmd struct {
	StoreID int64  `arg:"" help:"Store ID"`
	Product string `arg:"" help:"Product name"`
}

// CompareCmd is the "compare" subcommand.
type CompareCmd struct {
	Product  string `arg:"" help:"Product name"`
	City     string `short:"C" help:"City name"`
	Category string `short:"c" help:"Store category"`
}

// CheapestCmd is the "cheapest" subcommand.
type CheapestCmd struct {
	Product  string   `arg:"" help:"Product name"`
	City     string   `short:"C" help:"City name"`
	Category string   `short:"c" help:"Store category"`
	MaxPrice *float64 `help:"Maximum price"`
}

// PlanCmd is the "plan" subcommand.
type PlanCmd struct {
	Items    []string `arg:"" help:"Products to buy"`
	City     string   `short:"C" help:"City name"`
	Category string   `short:"c" help:"Store category"`
	Mode     string   `default:"stores" help:"stores: fewest stores; budget: cheapest per item"`
	Budget   *float64 `help:"Spending cap"`
}

// DirectionsCmd is the "directions" subcommand.
type DirectionsCmd struct {
	StoreID int64  `arg:"" help:"Store ID"`
	Origin  string `help:"Starting address or lat,lng"`
}

// SubscribeCmd is the "subscribe" subcommand.
type SubscribeCmd struct {
	Email    string   `arg:"" help:"Email address"`
	Product  string   `arg:"" help:"Product name"`
	City     string   `arg:"" help:"City name"`
	MaxPrice *float64 `help:"Only alert at or below this price"`
}

// UnsubscribeCmd is the "unsubscribe" subcommand.
type UnsubscribeCmd struct {
	ID string `arg:"" help:"Subscription ID"`
}

// SubscriptionsCmd is the "subscriptions" subcommand.
type SubscriptionsCmd struct {
	Email string `help:"Filter by email"`
}

// RestockCmd is the "restock" subcommand.
type RestockCmd struct {
	StoreID int64    `arg:"" help:"Store ID"`
	Product string   `arg:"" help:"Product name"`
	Qty     int      `short:"q" help:"Units added (default 10)"`
	Price   *float64 `help:"New price"`
}

// AlertsCmd is the "alerts" subcommand.
type AlertsCmd struct {
	Subscription string `help:"Filter by subscription ID"`
	Status       string `help:"Filter by status (sent, failed, skipped)"`
	Limit        int    `default:"20" help:"Maximum alerts shown"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Paths []string `arg:"" type:"existingfile" help:"Files to upload"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	URLs    []string `arg:"" name:"url" help:"Page URLs"`
	Browser bool     `help:"Render pages in a headless browser"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct{}

// RmDocCmd is the "rm-doc" subcommand.
type RmDocCmd struct {
	ID string `arg:"" help:"Document ID"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir string `arg:"" help:"Output directory (replaced)"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string   `arg:"" help:"Search terms"`
	Doc   []string `short:"d" help:"Restrict to document IDs (repeatable)"`
	Limit int      `short:"n" help:"Results to show (default 5)"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string   `arg:"" help:"Question to ask"`
	Doc      []string `short:"d" help:"Restrict to document IDs (repeatable)"`
	Limit    int      `short:"n" help:"Passages to retrieve (default 5)"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct {
	Session string `help:"Resume a chat session"`
}

// errNoGemini is returned by commands that need the Gemini API.
var errNoGemini = findmystore.Errorf(findmystore.EUNAVAILABLE, "GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
