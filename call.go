package container

import (
	"fmt"
	"reflect"
)

// Call invokes fn, resolving each parameter fn does not already have a
// value for in overrides, via the same resolution path Get uses — the
// "method injection" supplement spec's design notes call out as something
// a complete container offers alongside constructor injection. overrides
// takes precedence over autowiring, keyed by parameter index.
func (c *Container) Call(fn any, overrides map[int]any) (any, error) {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		return nil, &InvalidUsageError{Reason: fmt.Sprintf("Call target must be a function, got %T", fn)}
	}
	fnType := fnVal.Type()

	args := make([]reflect.Value, fnType.NumIn())
	st := &resolveState{}
	for i := 0; i < fnType.NumIn(); i++ {
		if ov, ok := overrides[i]; ok {
			args[i] = reflect.ValueOf(ov)
			continue
		}
		pt := fnType.In(i)
		v, err := c.autowireParam(pt, st)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	out := fnVal.Call(args)
	return unpackCallResult(out)
}

// CallStatic resolves className via Get, then calls method on the resolved
// receiver the same way Call resolves a free function's parameters.
func (c *Container) CallStatic(className, method string, overrides map[int]any) (any, error) {
	recv, err := c.Get(className)
	if err != nil {
		return nil, err
	}

	params, methodFn, err := c.introspector.GetMethodParams(className, method)
	if err != nil {
		return nil, err
	}

	recvVal := reflect.ValueOf(recv)
	args := make([]reflect.Value, len(params)+1)
	args[0] = recvVal
	st := &resolveState{}
	for i, p := range params {
		if ov, ok := overrides[i]; ok {
			args[i+1] = reflect.ValueOf(ov)
			continue
		}
		v, err := c.autowireParam(p.Type, st)
		if err != nil {
			return nil, err
		}
		args[i+1] = v
	}
	return unpackCallResult(methodFn.Call(args))
}

// autowireParam resolves a plain reflect.Type by checking whether its
// string form names a bound identifier or registered class, falling back
// to the zero value for nilable kinds.
func (c *Container) autowireParam(pt reflect.Type, st *resolveState) (reflect.Value, error) {
	name := pt.String()
	if c.registry.Has(name) || c.introspector.Has(name) {
		v, err := c.resolve(name, st)
		if err != nil {
			return reflect.Value{}, err
		}
		return coerce(v, pt)
	}
	switch pt.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return reflect.Zero(pt), nil
	default:
		return reflect.Value{}, &UnresolvableError{Param: name, ParamType: name}
	}
}

func unpackCallResult(out []reflect.Value) (any, error) {
	if len(out) == 0 {
		return nil, nil
	}
	last := out[len(out)-1]
	if len(out) > 1 && isErrorType(last.Type()) {
		var err error
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		if len(out) == 2 {
			return out[0].Interface(), err
		}
		return out[:len(out)-1], err
	}
	if len(out) == 1 {
		return out[0].Interface(), nil
	}
	vals := make([]any, len(out))
	for i, v := range out {
		vals[i] = v.Interface()
	}
	return vals, nil
}
