// Package props defines the value model for component properties.
//
// A props mapping is open-ended: keys are plain strings and values are a
// closed union over scalars, ordered lists, and nested mappings of arbitrary
// finite depth. The union is explicit (see Kind) rather than an untyped any,
// which keeps the registry's shallow-replacement merge precise: a Value is
// always replaced wholesale, never partially rewritten in place.
//
// Values are plain Go data. Clone produces a deep copy, Equal compares deep
// structure, and both Value and Map round-trip through their natural JSON
// shapes.
package props
