package scenedep

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// TypeToken is a stable identifier for a bindable dependency type. Tokens
// are small integers assigned once per distinct type and reused for the
// lifetime of the process, so containers can key their storage off a plain
// integer instead of a reflect.Type.
type TypeToken int32

// tokenInfo caches the per-type facts the containers need so reflection
// only ever happens once per type.
type tokenInfo struct {
	typ reflect.Type

	// refLike is true for kinds that are shared by reference when bound
	// (pointers, interfaces, maps, slices, channels, functions). Everything
	// else is stored as an inline copy. These are also exactly the kinds
	// whose values can be a typed nil.
	refLike bool
}

// Global token registry to avoid repeated reflection operations.
var (
	tokenByType sync.Map // map[reflect.Type]TypeToken
	infoByToken sync.Map // map[TypeToken]*tokenInfo
	tokenSeq    int32
)

// TokenFor returns the token for the type T, assigning one if the type has
// not been seen before. This works for interface types as well as concrete
// types.
func TokenFor[T any]() TypeToken {
	return tokenOf(reflect.TypeOf((*T)(nil)).Elem())
}

// tokenOf returns the token for the given reflected type, assigning one if
// necessary.
func tokenOf(t reflect.Type) TypeToken {
	if tok, ok := tokenByType.Load(t); ok {
		return tok.(TypeToken)
	}

	candidate := TypeToken(atomic.AddInt32(&tokenSeq, 1))
	actual, _ := tokenByType.LoadOrStore(t, candidate)
	tok := actual.(TypeToken)

	// Storing the info again on a lost race is harmless; the content is
	// derived purely from the type.
	infoByToken.Store(tok, &tokenInfo{
		typ:     t,
		refLike: isRefKind(t),
	})
	return tok
}

// infoOf returns the cached info for a previously assigned token, or nil if
// the token was never assigned.
func infoOf(tok TypeToken) *tokenInfo {
	if info, ok := infoByToken.Load(tok); ok {
		return info.(*tokenInfo)
	}
	return nil
}

// typeOfToken returns the reflect.Type a token was assigned for. This is
// used for diagnostics and error reporting only.
func typeOfToken(tok TypeToken) reflect.Type {
	if info := infoOf(tok); info != nil {
		return info.typ
	}
	return nil
}

func isRefKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}
	return false
}
