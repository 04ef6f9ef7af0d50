package container

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Use errors.Is against these, or errors.As against the
// richer struct types below when the caller needs the identifier/chain.
var (
	// ErrNotFound means an identifier has no binding, instance, or
	// resolvable class.
	ErrNotFound = errors.New("container: not found")

	// ErrNotInstantiable means an identifier exists but cannot be
	// constructed (interface, or a concrete with no usable constructor).
	ErrNotInstantiable = errors.New("container: not instantiable")

	// ErrUnresolvable means a constructor parameter cannot be supplied
	// from any source.
	ErrUnresolvable = errors.New("container: unresolvable parameter")

	// ErrCircular means an identifier reappeared on the resolving stack.
	ErrCircular = errors.New("container: circular dependency")

	// ErrTypeMismatch means an instance or parameter violates the
	// declared type.
	ErrTypeMismatch = errors.New("container: type mismatch")

	// ErrInvalidBinding means a scoped or contextual binding carries an
	// unsupported payload kind.
	ErrInvalidBinding = errors.New("container: invalid binding")

	// ErrInvalidUsage means a builder method was called out of order.
	ErrInvalidUsage = errors.New("container: invalid usage")

	// ErrCompilationFailed means the compiler could not write or
	// serialize its plan.
	ErrCompilationFailed = errors.New("container: compilation failed")
)

// NotFoundError is raised when id has no binding, instance, or resolvable
// class.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("container: [%s] has no binding, instance, or resolvable class", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotInstantiableError is raised when id exists but cannot be built.
type NotInstantiableError struct {
	ID     string
	Reason string
}

func (e *NotInstantiableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("container: [%s] is not instantiable: %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("container: [%s] is not instantiable", e.ID)
}

func (e *NotInstantiableError) Unwrap() error { return ErrNotInstantiable }

// UnresolvableError is raised when a constructor parameter has no source.
type UnresolvableError struct {
	ID        string
	Param     string
	ParamType string
}

func (e *UnresolvableError) Error() string {
	return fmt.Sprintf("container: cannot resolve parameter [%s %s] of [%s]", e.Param, e.ParamType, e.ID)
}

func (e *UnresolvableError) Unwrap() error { return ErrUnresolvable }

// CircularError is raised when id reappears on the resolving stack.
type CircularError struct {
	ID    string
	Chain []string
}

func (e *CircularError) Error() string {
	return fmt.Sprintf("container: circular dependency detected resolving [%s]: %s",
		e.ID, strings.Join(append(append([]string{}, e.Chain...), e.ID), " -> "))
}

func (e *CircularError) Unwrap() error { return ErrCircular }

// TypeMismatchError is raised by Instance() and parameter binding.
type TypeMismatchError struct {
	ID       string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("container: [%s] expected %s, got %s", e.ID, e.Expected, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// InvalidBindingError is raised by Scoped() and contextual Give*() helpers.
type InvalidBindingError struct {
	ID     string
	Kind   string
	Reason string
}

func (e *InvalidBindingError) Error() string {
	return fmt.Sprintf("container: invalid binding for [%s] (%s): %s", e.ID, e.Kind, e.Reason)
}

func (e *InvalidBindingError) Unwrap() error { return ErrInvalidBinding }

// InvalidUsageError is raised when builder methods are called out of order.
type InvalidUsageError struct {
	Reason string
}

func (e *InvalidUsageError) Error() string {
	return fmt.Sprintf("container: invalid usage: %s", e.Reason)
}

func (e *InvalidUsageError) Unwrap() error { return ErrInvalidUsage }

// CompilationFailedError is raised by Compile() when the plan cannot be
// written or serialized.
type CompilationFailedError struct {
	Reason string
	Cause  error
}

func (e *CompilationFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("container: compilation failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("container: compilation failed: %s", e.Reason)
}

func (e *CompilationFailedError) Unwrap() error { return ErrCompilationFailed }

// ResolutionFailedError is the catch-all wrapper around any error surfacing
// from Get. It carries the identifier, a snapshot of the resolving chain at
// the point of failure, suggestions derived from the identifier, and the
// underlying cause. If cause is already a *ResolutionFailedError it is
// returned unchanged by wrapFailure instead of being wrapped again.
type ResolutionFailedError struct {
	ID             string
	ResolvingChain []string
	Suggestions    []string
	Cause          error
}

func (e *ResolutionFailedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "container: failed to resolve [%s]", e.ID)
	if len(e.ResolvingChain) > 0 {
		fmt.Fprintf(&b, " (chain: %s)", strings.Join(e.ResolvingChain, " -> "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " [suggestions: %s]", strings.Join(e.Suggestions, "; "))
	}
	return b.String()
}

func (e *ResolutionFailedError) Unwrap() error { return e.Cause }

// wrapFailure wraps err as a *ResolutionFailedError unless it already is one,
// attaching id, a snapshot of the resolving chain, and suggestions derived
// from the identifier and the underlying error kind.
func wrapFailure(id string, chain []string, err error) error {
	if err == nil {
		return nil
	}
	var already *ResolutionFailedError
	if errors.As(err, &already) {
		return err
	}
	return &ResolutionFailedError{
		ID:             id,
		ResolvingChain: append([]string{}, chain...),
		Suggestions:    suggestionsFor(id, err),
		Cause:          err,
	}
}

// suggestionsFor derives human-facing hints from the identifier and the
// failure kind, per spec: interface-not-bound, abstract-not-bound,
// class-not-autoloadable, circular-detected.
func suggestionsFor(id string, err error) []string {
	var out []string
	switch {
	case errors.Is(err, ErrCircular):
		out = append(out, fmt.Sprintf("a cycle was detected while building [%s]; break it with Lazy(id) or a setter", id))
	case errors.Is(err, ErrNotInstantiable):
		out = append(out, fmt.Sprintf("[%s] looks like an interface or abstract identifier; bind a concrete with Bind/Singleton", id))
	case errors.Is(err, ErrNotFound):
		out = append(out, fmt.Sprintf("[%s] is not bound and is not a known concrete type; register it with Bind, or check for a typo", id))
	case errors.Is(err, ErrUnresolvable):
		out = append(out, fmt.Sprintf("a constructor parameter of [%s] has no default, is not nullable, and is not bound", id))
	}
	return out
}
