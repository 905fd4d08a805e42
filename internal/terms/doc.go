// Package terms loads the term catalog the detectors match against.
//
// A catalog maps each canonical term to an opaque action tag (the tag's
// meaning belongs to the rendering side) and optionally carries an ordered
// list of fuzzy patterns per term. A built-in catalog ships embedded; a user
// catalog file merges over it, user entries winning on conflict.
package terms
