// Package domain models the NOAA Storm Events database extract and the
// health and economic impact reports derived from it.
//
// # Data Source
//
// The input is the NOAA National Weather Service Storm Data CSV (distributed
// as StormData.csv.bz2), one row per recorded event from 1950 onwards. Only a
// handful of its 37 columns matter here:
//
//	EVTYPE      free-text event type, e.g. "TORNADO", "TSTM WIND", "FLASH FLOOD"
//	FATALITIES  deaths directly attributed to the event
//	INJURIES    injuries directly attributed to the event
//	PROPDMG     property damage coefficient
//	PROPDMGEXP  property damage magnitude code
//	CROPDMG     crop damage coefficient
//	CROPDMGEXP  crop damage magnitude code
//	REFNUM      row reference number (diagnostics only)
//
// # Event Types
//
// EVTYPE was entered by hand for decades and is not normalized: "TSTM WIND",
// "THUNDERSTORM WIND" and "THUNDERSTORM WINDS" all appear, as do trailing
// spaces and mixed case. Grouping uses exact string equality, so "FLOOD" and
// "flood" are separate categories. Cleaning the taxonomy is left to the
// consumer of the report.
//
// # Damage Magnitude Codes
//
// Damage amounts are stored as a coefficient plus a one-character exponent
// code. The recognized codes are:
//
//	B      billions   (x 1e9)
//	M, m   millions   (x 1e6)
//	K, k   thousands  (x 1e3)
//	h      hundreds   (x 1e2)
//
// Uppercase "H" is deliberately not mapped to hundreds; it falls through with
// every other code ("", "+", "-", "?", digits) to a multiplier of 1. See
// [NormalizeDamage].
//
// # Missing Values
//
// Empty cells and the literal "NA" are treated as zero. Other unparseable
// numerics also contribute zero but are reported as a [FieldError] so the
// pipeline can log and count them.
//
// # Pareto Tables
//
// Each report table keeps the top N event types by its key measure and folds
// the rest into a synthetic "OTHERS" row, so every table has exactly N+1
// rows. See [Rank].
package domain
