// SPDX-License-Identifier: MIT

// Package tracks turns a relaxed per-segment activation vector into discrete
// tracks.
//
// What
//
//  1. Active-set selection: a segment is active when its activation is
//     strictly greater than a cutoff. The default cutoff (AboveMinimum) is
//     the global minimum of the whole vector, so only the segments tied at
//     the minimum are excluded. The cutoff is a named, overridable
//     parameter: WithThreshold(Fixed(c)) or any custom Threshold.
//  2. Chaining: active segments live in a fixed array; a roaring bitmap of
//     live indices is the pool. A seed is taken from the pool and every live
//     segment joined to the growing chain end-to-start (s.From == c.To or
//     c.From == s.To) is consumed transitively, flood-fill style. Each
//     candidate is checked for membership before it is consumed. The hit
//     IDs touched by one flood fill form one track.
//  3. Materialization: hit IDs are resolved against the event's flat hit
//     list, first match wins. Unresolved IDs are dropped, counted in
//     Result.Dropped and logged at warn level; a chain whose hits all fail to
//     resolve produces no track.
//
// Every segment ends up in at most one track. An empty active set yields
// no tracks and no error.
//
// Complexity: O(S + A·d) for S segments, A active segments and d the
// average number of active segments meeting at a hit.
package tracks
