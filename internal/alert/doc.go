// Package alert implements the debounced low-glucose warning.
//
// machine.go is the per-cycle state machine: it tracks whether the reading
// is inside the low zone and fires on the entry edge, so a value that stays
// low produces one warning (one-shot policy) or one warning per configured
// repeat interval (repeat policy) instead of one per cycle. Leaving the zone
// resets silently. Liveness never gates firing — a low reading alerts even
// when stale or offline, and the verdict is carried in the notification body
// so the reader can judge it.
//
// notify.go delivers fired alerts to the configured webhooks (slack, teams,
// generic http). Delivery is fire-and-forget: failures are logged and never
// reach the cycle loop.
package alert
