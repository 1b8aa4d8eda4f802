// Package findmystore provides a retail shopping assistant. It finds nearby
// stores, compares product availability and prices across them, plans a
// shopping list at minimum cost, delivers restock and deal alerts by email,
// answers questions over uploaded documents, and exposes all of it to an LLM
// chat assistant as callable tools.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, googlemaps/).
package findmystore
