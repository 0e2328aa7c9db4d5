// Package display encodes a classified reading into the three output
// surfaces: the icon raster (background color + centered rounded value),
// the discrete red/amber/green LED trio, and the 4-digit 7-segment clock.
//
// All encoders are pure: identical (value, category, verdict) inputs yield
// byte-identical frames, with no clock access inside the package. The
// scheduler computes frames once per cycle and hands them to sinks, which
// only draw.
//
// The clock encoding displays a decimal reading on an integer-pair display
// as HOURS:MINUTES with HOURS = floor(value) and MINUTES = round(100·frac),
// carrying 100 minutes into the next hour. It is lossy above two fractional
// digits of precision.
package display
