// Package hook implements the validated hook mechanism relay_with_hooks
// and handle_signal invoke between two transport calls.
//
// Per the redesign note in spec.md §9, a hook here is not a raw code
// pointer: it is the typed Fn signature, so the compiler already
// guarantees it is a legitimate function value. Validator keeps the
// original's defense-in-depth behavior — reject any hook whose code
// address was not explicitly allow-listed, and panic rather than call
// it — for the case where a hook value crossed a component boundary
// (e.g. was reconstructed from a saved descriptor) and might not be
// what it claims.
//
// https://github.com/wookey-project/libu2f2
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
package hook

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/wookey-project/libu2f2/ipcerr"
)

// Fn is the hook signature used by both relay_with_hooks (pre/post) and
// handle_signal. A nil Fn always means "no hook" and is never validated
// or called.
type Fn func() error

// Region is an allow-listed range of code addresses, [Start, End).
type Region struct {
	Start uintptr
	End   uintptr
}

// addr returns fn's code entry point. Two Fn values created from the
// same function literal share an address regardless of any captured
// closure state, exactly like a C function pointer would.
func addr(fn Fn) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// RegionForFn returns the single-address Region covering fn's own code
// entry point, for allow-listing one specific hook function.
func RegionForFn(fn Fn) Region {
	a := addr(fn)
	return Region{Start: a, End: a + 1}
}

// Validator holds the allow-listed code regions hooks are checked
// against before they are invoked.
type Validator struct {
	mu      sync.RWMutex
	regions []Region
}

// NewValidator returns a Validator allow-listing the given regions.
func NewValidator(regions ...Region) *Validator {
	v := &Validator{}
	v.regions = append(v.regions, regions...)
	return v
}

// Allow adds fn's code address to the allow list. It is the common case:
// a task registers the exact hook functions it intends to pass to
// relay_with_hooks/handle_signal once, up front.
func (v *Validator) Allow(fn Fn) {
	if fn == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.regions = append(v.regions, RegionForFn(fn))
}

// AllowRegion adds an arbitrary code range to the allow list.
func (v *Validator) AllowRegion(r Region) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.regions = append(v.regions, r)
}

// Validate panics with an *ipcerr.Error{Kind: Fatal} if fn is non-nil
// and its code address is not inside any allow-listed region. A nil fn
// is always valid — "no hook" is not a hook address to check.
func (v *Validator) Validate(fn Fn) {
	if fn == nil {
		return
	}

	a := addr(fn)

	v.mu.RLock()
	defer v.mu.RUnlock()

	for _, r := range v.regions {
		if a >= r.Start && a < r.End {
			return
		}
	}

	panic(ipcerr.New(ipcerr.Fatal, "hook.Validate", fmt.Errorf("address %#x outside allowed code regions", a)))
}
