package dispatching

import "tgo/pkg/types"

// Description is the set of update kinds a handler can possibly accept
// (spec.md §4.7 "Handler description"). The dispatcher's AllowedUpdates
// is the root handler's Description, fed straight to the long-poll
// listener's allowed_updates parameter.
type Description map[types.Kind]struct{}

// Kinds builds a Description from an explicit list of kinds.
func Kinds(ks ...types.Kind) Description {
	d := make(Description, len(ks))
	for _, k := range ks {
		d[k] = struct{}{}
	}
	return d
}

// AllKinds is the Description naming every update kind this framework
// knows about — the fallback when no handler has narrowed interest
// (spec.md §9 open question "allowed_updates derivation", resolved in
// DESIGN.md to default to "subscribe to everything").
func AllKinds() Description {
	return Kinds(types.AllKinds...)
}

// Union merges two descriptions (spec.md §4.7 "Combinators union-merge
// descriptions for branches"): a Branch can handle anything any of its
// children can.
func (d Description) Union(o Description) Description {
	out := make(Description, len(d)+len(o))
	for k := range d {
		out[k] = struct{}{}
	}
	for k := range o {
		out[k] = struct{}{}
	}
	return out
}

// Intersect narrows two descriptions (spec.md §4.7 "intersect for
// chains"): a Then-sequenced pair of handlers can only ever actually
// fire for a kind both stages are willing to touch — e.g. a filter
// narrowed to KindMessage sequenced with an endpoint contributes nothing
// for any other kind, however permissive the endpoint's own description.
func (d Description) Intersect(o Description) Description {
	out := make(Description)
	for k := range d {
		if _, ok := o[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// Slice renders d as the []string allowed_updates payload expects.
func (d Description) Slice() []string {
	out := make([]string, 0, len(d))
	for k := range d {
		out = append(out, string(k))
	}
	return out
}
