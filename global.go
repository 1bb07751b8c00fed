package scenedep

import (
	"context"
	"log"
	"reflect"
)

// TimingMode selects how much timing instrumentation resolution performs.
type TimingMode int

const (
	// TimingDisable will disable timing for all registries.
	TimingDisable TimingMode = iota

	// TimingResolution will start a timing context for each FindContext
	// call, named for the requested type. This is useful to see where
	// resolution time is being spent. Callers must have established a
	// timing root on the context (timing.Root) for the results to land
	// anywhere.
	TimingResolution
)

// EnableTiming controls timing instrumentation for all registries.
var EnableTiming = TimingDisable

// EnableWarnings controls whether non-fatal diagnostics (missing
// dependencies, failed resolutions) are written to the standard logger.
// Resolution outcomes are unaffected either way.
var EnableWarnings = true

func warnf(format string, args ...any) {
	if !EnableWarnings {
		return
	}
	log.Printf(format, args...)
}

// Bind stores value in the container keyed by the static type T. This is
// the usual way to bind: unlike Container.BindAny it can register a
// concrete value under an interface type. Binding a second value of the
// same type overwrites the first. Nil values are skipped without storing
// anything.
func Bind[T any](c *Container, value T) {
	tok := TokenFor[T]()
	if infoOf(tok).refLike && reflect.ValueOf(&value).Elem().IsNil() {
		return
	}
	c.bind(tok, value)
}

// Unbind removes the binding of type T from the container if present, and
// is a no-op otherwise.
func Unbind[T any](c *Container) {
	c.Unbind(TokenFor[T]())
}

// Has reports whether the container holds a binding of type T.
func Has[T any](c *Container) bool {
	return c.Has(TokenFor[T]())
}

// Get returns the container's bound value of type T. If no binding exists
// the zero value is returned and a warning is logged; a missing dependency
// is never fatal.
func Get[T any](c *Container) T {
	v, ok := TryGet[T](c)
	if !ok {
		warnf("scenedep: missing dependency: %v", typeOfToken(TokenFor[T]()))
	}
	return v
}

// TryGet returns the container's bound value of type T along with a boolean
// indicating whether the binding was found. Unlike Get, nothing is logged
// when the binding is missing.
func TryGet[T any](c *Container) (T, bool) {
	var zero T
	v, ok := c.GetAny(TokenFor[T]())
	if !ok {
		return zero, false
	}
	return v.(T), true
}

// Resolve finds the nearest container holding a T, starting from the given
// hierarchy node, and returns its bound value. The boolean is false if no
// container in any tier could answer the query, in which case the zero
// value is returned.
func Resolve[T any](ctx context.Context, r *Registry, node Node, group int) (T, bool) {
	var zero T
	c, err := r.FindContext(ctx, node, TokenFor[T](), group)
	if err != nil {
		return zero, false
	}
	return TryGet[T](c)
}

// ResolveWithError behaves exactly like Resolve but returns the
// *DependencyError describing the failure, which carries the registry's
// Status dump for debugging.
func ResolveWithError[T any](ctx context.Context, r *Registry, node Node, group int) (T, error) {
	var zero T
	c, err := r.FindContext(ctx, node, TokenFor[T](), group)
	if err != nil {
		return zero, err
	}
	v, ok := TryGet[T](c)
	if !ok {
		// FindContext matched on presence, so this only happens if the
		// binding was removed between the two calls.
		return zero, &DependencyError{
			Message:        "dependency unbound during resolution",
			ReferencedType: typeOfToken(TokenFor[T]()),
			Group:          group,
			Status:         r.Status(),
		}
	}
	return v, nil
}
