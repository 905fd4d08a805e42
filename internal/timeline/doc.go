// Package timeline splits a finite media duration into the windows the
// detection pipeline processes one at a time.
//
// Two strategies are supported: disjoint fixed-size windows, and overlapping
// windows advancing by a fixed step. Overlap exists so a term spoken across a
// fixed-window boundary still appears whole in at least one window.
package timeline
