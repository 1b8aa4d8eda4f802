package main

import (
	fmshttp "github.com/fwojciec/findmystore/http"
)

// Run executes the serve command until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := fmshttp.NewServer()
	s.Logger = deps.Logger
	s.Shop = deps.Shop
	s.Documents = deps.Documents
	s.Ingester = deps.Ingester
	s.Importer = deps.Importer
	s.Search = deps.Search
	s.Asker = deps.Asker
	s.Chatter = deps.Chatter

	if deps.Asker == nil {
		deps.Logger.Warn("GEMINI_API_KEY not set; ask and chat are disabled")
	}
	return s.ListenAndServe(deps.Ctx, c.Addr)
}
