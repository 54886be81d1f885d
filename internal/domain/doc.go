// Package domain models the structured incident record extracted from
// free-text incident reports.
//
// # Input Conventions
//
// Reports arrive as informal prose, mostly Portuguese with some English,
// and lean heavily on relative time expressions:
//
//	"Ontem às 14h houve falha no servidor"
//	"Hoje pela manhã ocorreu um problema na rede"
//	"Database outage in Brasília 2 hours ago"
//
// Relative day words (ontem/yesterday, hoje/today, anteontem) are resolved
// against a reference instant, normally "now" from the package clock. A time
// of day without a date inherits the reference date; a date without a time
// resolves to 00:00.
//
// Clock notation varies by locale. The 24-hour "14h"/"14h30" form, "14:00",
// the 12-hour "2pm" form, and the Portuguese "às 14" shorthand are all
// accepted. When a report mixes cues, the 24-hour form wins as the more
// specific signal. Day-period words map to fixed hours: morning 08:00,
// afternoon 15:00, night 20:00.
//
// # Canonical Timestamp
//
// Occurrence times use "YYYY-MM-DD HH:MM" (TimeLayout), 24-hour clock, no
// timezone suffix. The timezone is implicit in the reference-instant source.
// Resolution is idempotent: a canonical string resolves to itself.
//
// # Validation
//
// Candidates pass through one validation boundary so downstream code always
// works with a known-shape value. Lenient validation clears a malformed
// occurrence time; strict validation (model path) reports it, letting the
// model extractor downgrade confidence instead of silently trusting bad
// output. A record missing its incident type is never returned as success
// in either mode.
package domain
