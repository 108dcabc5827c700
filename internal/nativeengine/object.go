package nativeengine

import "sync"

// Object is this engine's stand-in for the teacher's *v8go.Object: a
// mutable property bag. Arrays are represented as an Object whose keys
// happen to be "0", "1", ... — this engine has no separate array type,
// mirroring how spec §6's type tags collapse both into "object".
type Object struct {
	mu    sync.Mutex
	props map[string]*Value
}

func newObject() *Object {
	return &Object{props: make(map[string]*Value)}
}

func (o *Object) get(key string) (*Value, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.props[key]
	return v, ok
}

func (o *Object) set(key string, v *Value) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.props[key] = v
}

func (o *Object) delete(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, existed := o.props[key]
	delete(o.props, key)
	return existed
}

// SetProperty sets a property on the global object directly, for a host
// setting up script-visible state (e.g. S2's `global.x = 7`) without a
// round trip through a ReferenceHandle.
func (o *Object) SetProperty(key string, v *Value) { o.set(key, v) }

// GetProperty reads a property on the global object directly.
func (o *Object) GetProperty(key string) (*Value, bool) { return o.get(key) }

func (o *Object) snapshot() map[string]*Value {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]*Value, len(o.props))
	for k, v := range o.props {
		out[k] = v
	}
	return out
}
