package dispatching

import (
	"reflect"

	"tgo/pkg/types"
)

// Handler is a value that, given a Context, either resolves the update
// (returning handled=true, possibly with an error) or declines
// (handled=false), per spec.md §4.7. Handlers compose via Then (chain)
// and Branch (alternative selection).
type Handler struct {
	desc Description
	run  func(ctx *Context) (handled bool, err error)
}

func newHandler(desc Description, run func(*Context) (bool, error)) Handler {
	return Handler{desc: desc, run: run}
}

// Description returns the set of update kinds h could possibly accept.
func (h Handler) Description() Description { return h.desc }

// Then sequences next after h (spec.md §4.7 "Chain"): h runs first, and
// next only runs if h accepted. This is how filter/filter_map compose
// with the endpoint that consumes their narrowed context — a bare filter
// has nothing to do on its own, so "accepted" for a filter means
// "continue into the rest of the chain", mirroring how Update::filter_*
// is used with .branch/.endpoint in the original source. The combined
// description is the intersection (spec.md §4.7): the pair only ever
// fires for a kind both stages recognize.
func (h Handler) Then(next Handler) Handler {
	return newHandler(h.desc.Intersect(next.desc), func(ctx *Context) (bool, error) {
		handled, err := h.run(ctx)
		if err != nil || !handled {
			return handled, err
		}
		return next.run(ctx)
	})
}

// Branch is the entry combinator (spec.md §4.7 "Branch (entry)"): it
// walks children in declaration order until one accepts. Its
// description is the union of every child's (a branch can handle
// anything any alternative can).
func Branch(children ...Handler) Handler {
	desc := Description{}
	for _, c := range children {
		desc = desc.Union(c.desc)
	}
	return newHandler(desc, func(ctx *Context) (bool, error) {
		for _, c := range children {
			handled, err := c.run(ctx)
			if handled || err != nil {
				return handled, err
			}
		}
		return false, nil
	})
}

// Filter builds a handler that accepts iff pred resolves true against
// the context. pred is an arbitrary function whose parameters are
// resolved from the Context by type, exactly like Endpoint — e.g.
// func(types.Message) bool. desc names the update kinds pred is
// meaningful for.
func Filter(desc Description, pred any) Handler {
	fn := reflect.ValueOf(pred)
	fnType := fn.Type()
	return newHandler(desc, func(ctx *Context) (bool, error) {
		out := fn.Call(ctx.resolveArgs(fnType))
		return out[0].Bool(), nil
	})
}

// FilterMap accepts iff fn yields a value and ok=true, injecting the
// value into the context for downstream handlers (spec.md §4.7
// "filter_map"). Go's lack of method type parameters makes this a
// free function rather than a Handler method.
func FilterMap[T any](desc Description, fn func(ctx *Context) (T, bool)) Handler {
	return newHandler(desc, func(ctx *Context) (bool, error) {
		v, ok := fn(ctx)
		if !ok {
			return false, nil
		}
		ctx.Set(v)
		return true, nil
	})
}

// Endpoint builds a terminal handler that always accepts and runs fn
// (spec.md §4.7 "endpoint(fn): terminal; always accepts"). fn's
// parameters are resolved from the Context by type; an optional
// trailing error return is propagated to the dispatcher's error
// handler.
func Endpoint(fn any) Handler {
	v := reflect.ValueOf(fn)
	t := v.Type()
	errType := reflect.TypeOf((*error)(nil)).Elem()

	return newHandler(AllKinds(), func(ctx *Context) (bool, error) {
		out := v.Call(ctx.resolveArgs(t))
		if len(out) == 0 {
			return true, nil
		}
		last := out[len(out)-1]
		if last.Type() == errType && !last.IsNil() {
			return true, last.Interface().(error)
		}
		return true, nil
	})
}

// --- Update-kind projectors (spec.md §4.7) ---

// FilterMessage accepts only KindMessage updates, injecting the
// contained types.Message into the context.
func FilterMessage() Handler {
	return FilterMap(Kinds(types.KindMessage), func(ctx *Context) (types.Message, bool) {
		u, _ := Get[types.Update](ctx)
		if u.Message == nil {
			return types.Message{}, false
		}
		return *u.Message, true
	})
}

// FilterCallbackQuery accepts only KindCallbackQuery updates, injecting
// the contained types.CallbackQuery into the context.
func FilterCallbackQuery() Handler {
	return FilterMap(Kinds(types.KindCallbackQuery), func(ctx *Context) (types.CallbackQuery, bool) {
		u, _ := Get[types.Update](ctx)
		if u.CallbackQuery == nil {
			return types.CallbackQuery{}, false
		}
		return *u.CallbackQuery, true
	})
}

// FilterInlineQuery accepts only KindInlineQuery updates, injecting the
// contained types.InlineQuery into the context.
func FilterInlineQuery() Handler {
	return FilterMap(Kinds(types.KindInlineQuery), func(ctx *Context) (types.InlineQuery, bool) {
		u, _ := Get[types.Update](ctx)
		if u.InlineQuery == nil {
			return types.InlineQuery{}, false
		}
		return *u.InlineQuery, true
	})
}

// FilterChatJoinRequest accepts only KindChatJoinRequest updates,
// injecting the contained types.ChatJoinRequest into the context.
func FilterChatJoinRequest() Handler {
	return FilterMap(Kinds(types.KindChatJoinRequest), func(ctx *Context) (types.ChatJoinRequest, bool) {
		u, _ := Get[types.Update](ctx)
		if u.ChatJoinRequest == nil {
			return types.ChatJoinRequest{}, false
		}
		return *u.ChatJoinRequest, true
	})
}
