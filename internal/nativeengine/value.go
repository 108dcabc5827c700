package nativeengine

import (
	"fmt"
	"strconv"

	"github.com/ionos-cloud/v8ref"
)

// Func is a script-visible function in this engine: a plain Go closure,
// the way the teacher's FunctionCallback is a plain Go callback invoked
// from cgo. recv and args are already-live Values in the same isolate; ec
// is the ExecContext it is running under, whose Done() a long-running Func
// should poll cooperatively to honor a timeout interrupt (spec §4.4).
type Func func(ec *ExecContext, recv *Value, args []*Value) (*Value, error)

// Value is this engine's stand-in for the teacher's *v8go.Value: a handle
// to one of the seven script-visible kinds (spec §6). Exactly one of prim,
// obj, fn, promise is meaningful. For KindObject, kind alone does not say
// which: a plain object uses obj, an error or opaque host value uses prim,
// and a promise uses promise.
type Value struct {
	kind    v8ref.ValueKind
	prim    any
	obj     *Object
	fn      Func
	promise *Promise
	isError bool
}

// Null and Undefined are the two shared zero-ary values every isolate's
// heap contains (mirrors the teacher's Isolate.null/undefined cache).
var (
	Null      = &Value{kind: v8ref.KindNull}
	Undefined = &Value{kind: v8ref.KindUndefined}
)

// NewObject creates a fresh, empty object Value.
func NewObject() *Value {
	return &Value{kind: v8ref.KindObject, obj: newObject()}
}

// NewFunction wraps fn as a callable Value.
func NewFunction(fn Func) *Value {
	return &Value{kind: v8ref.KindFunction, fn: fn}
}

// NewError wraps msg as an engine-native error object (spec §4.7 "engine
// errors are copied as-is").
func NewError(msg string) *Value {
	return &Value{kind: v8ref.KindObject, prim: msg, isError: true}
}

// NewPromise creates a promise Value paired with the Promise used to
// settle it from Go code, the way a host binding would resolve/reject a
// promise it handed to script.
func NewPromise() (*Value, *Promise) {
	p := newPromise()
	return &Value{kind: v8ref.KindObject, promise: p}, p
}

// FromGo builds a Value tree from a detached Go value without needing an
// isolate lock: constructing the tree touches no isolate-owned state until
// it is captured into a RemoteHandle or stored on an Object. Host code
// (and this package's own tests) uses it to seed values before an isolate
// even exists.
func FromGo(v any) *Value { return newValueFrom(v) }

// newValueFrom classifies a detached Go value the way transferIn's call to
// ExecContext.NewValue needs to (spec §4.2): primitives become primitive
// Values, map[string]any/[]any become objects/arrays recursively, and
// anything else this engine doesn't understand is wrapped as an opaque
// External-equivalent object so it can still cross as a Reference.
func newValueFrom(v any) *Value {
	switch vv := v.(type) {
	case nil:
		// Go has one nil, script has two "absent" values; default to
		// undefined since that's what an omitted receiver/argument means
		// in every §8 scenario that passes one (S2, S4).
		return Undefined
	case bool:
		return &Value{kind: v8ref.KindBoolean, prim: vv}
	case string:
		return &Value{kind: v8ref.KindString, prim: vv}
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return &Value{kind: v8ref.KindNumber, prim: vv}
	case error:
		return NewError(vv.Error())
	case map[string]any:
		obj := newObject()
		for k, e := range vv {
			obj.set(k, newValueFrom(e))
		}
		return &Value{kind: v8ref.KindObject, obj: obj}
	case []any:
		obj := newObject()
		for i, e := range vv {
			obj.set(strconv.Itoa(i), newValueFrom(e))
		}
		obj.set("length", &Value{kind: v8ref.KindNumber, prim: len(vv)})
		return &Value{kind: v8ref.KindObject, obj: obj}
	case Func:
		return NewFunction(vv)
	default:
		// Opaque host value (e.g. a *v8ref.ReferenceHandle passed as a
		// call argument): kept, not inspected, per spec §3 "Extern".
		return &Value{kind: v8ref.KindObject, prim: vv}
	}
}

// Kind satisfies v8ref.Value.
func (v *Value) Kind() v8ref.ValueKind { return v.kind }

// IsCallable satisfies v8ref.Value.
func (v *Value) IsCallable() bool { return v.fn != nil }

// IsError satisfies v8ref.Value.
func (v *Value) IsError() bool { return v.isError }

// DeepCopy satisfies v8ref.Value: recursively detaches this value into
// plain Go data, failing for functions and promises, which the teacher's
// own JSON codec (json.go) likewise refuses to serialize.
func (v *Value) DeepCopy() (any, error) {
	switch v.kind {
	case v8ref.KindNull:
		return nil, nil
	case v8ref.KindUndefined:
		return nil, nil
	case v8ref.KindFunction:
		return nil, fmt.Errorf("function value is not copyable")
	case v8ref.KindObject:
		if v.promise != nil {
			return nil, fmt.Errorf("promise value is not copyable")
		}
		if v.obj == nil {
			return v.prim, nil
		}
		props := v.obj.snapshot()
		if isArrayShaped(props) {
			arr := make([]any, len(props)-1)
			for k, e := range props {
				if k == "length" {
					continue
				}
				idx, _ := strconv.Atoi(k)
				c, err := e.DeepCopy()
				if err != nil {
					return nil, err
				}
				arr[idx] = c
			}
			return arr, nil
		}
		out := make(map[string]any, len(props))
		for k, e := range props {
			c, err := e.DeepCopy()
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	default:
		return v.prim, nil
	}
}

func isArrayShaped(props map[string]*Value) bool {
	lv, ok := props["length"]
	if !ok || lv.kind != v8ref.KindNumber {
		return false
	}
	n, ok := lv.prim.(int)
	if !ok || n != len(props)-1 {
		return false
	}
	for i := 0; i < n; i++ {
		if _, ok := props[strconv.Itoa(i)]; !ok {
			return false
		}
	}
	return true
}

func keyString(key any) (string, error) {
	switch k := key.(type) {
	case string:
		return k, nil
	case int:
		return strconv.Itoa(k), nil
	case int32:
		return strconv.Itoa(int(k)), nil
	case int64:
		return strconv.FormatInt(k, 10), nil
	default:
		return "", fmt.Errorf("unsupported key type %T", key)
	}
}

// Get satisfies v8ref.Value (ECMA-262 7.3 [[Get]]); a missing property
// yields Undefined rather than an error, the ECMA-262 default.
func (v *Value) Get(key any) (v8ref.Value, error) {
	k, err := keyString(key)
	if err != nil {
		return nil, err
	}
	if v.obj == nil {
		return Undefined, nil
	}
	prop, ok := v.obj.get(k)
	if !ok {
		return Undefined, nil
	}
	return prop, nil
}

// Set satisfies v8ref.Value ([[Set]]): val must be a Value this engine
// produced (always true for values v8ref routes through ExecContext.NewValue).
func (v *Value) Set(key any, val v8ref.Value) (bool, error) {
	k, err := keyString(key)
	if err != nil {
		return false, err
	}
	nv, ok := val.(*Value)
	if !ok {
		return false, fmt.Errorf("foreign value cannot be set on a native object")
	}
	if v.obj == nil {
		return false, fmt.Errorf("value is not an object")
	}
	v.obj.set(k, nv)
	return true, nil
}

// Delete satisfies v8ref.Value.
func (v *Value) Delete(key any) bool {
	k, err := keyString(key)
	if err != nil || v.obj == nil {
		return false
	}
	return v.obj.delete(k)
}

// Call satisfies v8ref.Value.
func (v *Value) Call(ec v8ref.ExecContext, receiver v8ref.Value, args []v8ref.Value) (v8ref.Value, error) {
	if v.fn == nil {
		return nil, fmt.Errorf("value is not callable")
	}
	nec, _ := ec.(*ExecContext)
	rv, _ := receiver.(*Value)
	nargs := make([]*Value, len(args))
	for i, a := range args {
		nv, ok := a.(*Value)
		if !ok {
			return nil, fmt.Errorf("foreign value cannot be passed as an argument")
		}
		nargs[i] = nv
	}
	return v.fn(nec, rv, nargs)
}

// AsPromise satisfies v8ref.Value.
func (v *Value) AsPromise() (v8ref.Promise, bool) {
	if v.promise == nil {
		return nil, false
	}
	return v.promise, true
}
