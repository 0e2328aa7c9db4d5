// Package reading defines the glucose Reading sample and decodes the remote
// store's JSON document into one.
//
// The store serves the nested shape
// {"main": {"glucose": N, "timestamp": epoch, "time": S}, "fetched_at_unix": epoch};
// older documents carry a flat {"glucose": N}. Parse prefers the nested form
// and falls back to flat. The device timestamp is optional — without it,
// freshness degrades to contact-recency only.
package reading
