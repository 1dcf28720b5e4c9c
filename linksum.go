// Package linksum fetches web pages, extracts their text, summarizes and tags
// them with a language model, and persists the result for later retrieval
// over HTTP, webhooks and MCP tools.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, goquery/).
package linksum
