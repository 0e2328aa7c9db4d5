// Package fetch performs one network acquisition attempt per cycle against
// the configured store endpoint.
//
// fetch.go builds the HTTP client once (auth header injection, TLS knobs,
// request timeout) and exposes Poll, which returns the raw document bytes or
// a NetworkError-class failure. link.go handles link re-establishment: when
// the reachability probe fails, the ordered candidate networks are joined one
// at a time, each attempt bounded by its own timeout, stopping at the first
// that restores the probe. No candidate succeeding fails the cycle with
// ErrLinkDown before any request is made.
//
// Poll never retries within a cycle beyond the link fallback — retry cadence
// belongs to the scheduler's next tick. Poll mutates nothing outside itself.
package fetch
