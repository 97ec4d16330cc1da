package op

import (
	"context"
	"fmt"
)

// collectionComponent implements §4.10: iterate a child over a collection
// addressed by a namespace key.
type collectionComponent struct {
	name  string
	key   string
	child Component
}

// Collection iterates child once per key of the collection addressed by
// key within each param slot and within the context, merging each
// iteration's params/context/errors back together with errors prefixed by
// [key, iterationKey, ...] (§4.10).
func Collection(name, key string, child Component) Component {
	return &collectionComponent{name: name, key: key, child: child}
}

func (c *collectionComponent) Name() string { return c.name }

// Signature is the child's arity with accepts_context forced true, since
// Collection always builds a per-iteration context (§4.10).
func (c *collectionComponent) Signature() Signature {
	return Signature{Arity: c.child.Signature().Arity, AcceptsContext: true}
}

func (c *collectionComponent) Call(ctx context.Context, params Params, cc Context) Result {
	slotEntries := make([][]entry, len(params))
	for i, p := range params {
		v, _ := Dig(p, Pointer{c.key})
		slotEntries[i] = toEntries(v)
	}
	ctxValue, _ := cc[c.key]
	ctxEntries := toEntries(ctxValue)

	sources := append(append([][]entry{}, slotEntries...), ctxEntries)
	keys := unionKeys(sources)
	isSeq := allInt(keys)

	paramSeqs := make([][]Value, len(params))
	paramMaps := make([]*OrderedMap, len(params))
	for i := range params {
		if isSeq {
			paramSeqs[i] = make([]Value, 0, len(keys))
		} else {
			paramMaps[i] = NewOrderedMap()
		}
	}

	var ctxSeq []Value
	var ctxMap *OrderedMap
	if isSeq {
		ctxSeq = make([]Value, 0, len(keys))
	} else {
		ctxMap = NewOrderedMap()
	}

	var errs []Error
	var onSuccess, onFailure []CallbackOutcome

	for _, k := range keys {
		iterParams := make(Params, len(params))
		for i := range params {
			v, _ := lookupEntry(slotEntries[i], k)
			iterParams[i] = v
		}
		iterCtxValue, _ := lookupEntry(ctxEntries, k)
		iterCtx := mergeContext(cc, Context{c.key: iterCtxValue})

		childResult := c.child.Call(ctx, iterParams, iterCtx)

		for i := range params {
			var pv Value
			if i < len(childResult.Params()) {
				pv = childResult.Params()[i]
			}
			if isSeq {
				paramSeqs[i] = append(paramSeqs[i], pv)
			} else {
				paramMaps[i].Set(fmt.Sprint(k), pv)
			}
		}

		if isSeq {
			ctxSeq = append(ctxSeq, Value(childResult.Context()))
		} else {
			ctxMap.Set(fmt.Sprint(k), Value(childResult.Context()))
		}

		for _, e := range childResult.Errors() {
			errs = append(errs, e.WithPath(Path{c.key, k}))
		}
		onSuccess = append(onSuccess, childResult.OnSuccess()...)
		onFailure = append(onFailure, childResult.OnFailure()...)
	}

	outParams := make(Params, len(params))
	for i, p := range params {
		if isSeq {
			outParams[i] = withKeySet(p, c.key, paramSeqs[i])
		} else {
			outParams[i] = withKeySet(p, c.key, paramMaps[i])
		}
	}

	var collected Value
	if isSeq {
		collected = ctxSeq
	} else {
		collected = ctxMap
	}
	outContext := mergeContext(cc, Context{c.key: collected})

	res := NewSuccess(c, outParams, outContext)
	return res.ApplyChanges(
		WithErrors(errs),
		WithOnSuccess(onSuccess),
		WithOnFailure(onFailure),
	)
}
