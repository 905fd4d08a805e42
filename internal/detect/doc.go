// Package detect implements the per-window detection protocol: exact lexical
// matching, fuzzy pattern matching over cleaned transcript text, banding of
// the adaptive classifier's probability, fusion of the three methods into a
// single confidence, and the word-timing heuristic that places a matched term
// inside its window.
//
// Detection is pure computation over already-available inputs; any collaborator
// failure upstream simply arrives here as an absent method.
package detect
