package v8ref

import "testing"

func TestValueKindString(t *testing.T) {
	tests := [...]struct {
		kind ValueKind
		want string
	}{
		{KindNull, "null"},
		{KindUndefined, "undefined"},
		{KindNumber, "number"},
		{KindString, "string"},
		{KindBoolean, "boolean"},
		{KindObject, "object"},
		{KindFunction, "function"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ValueKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestValueKindIsPrimitive(t *testing.T) {
	primitive := [...]ValueKind{KindNull, KindUndefined, KindNumber, KindString, KindBoolean}
	for _, k := range primitive {
		if !k.isPrimitive() {
			t.Errorf("%v.isPrimitive() = false, want true", k)
		}
	}
	nonPrimitive := [...]ValueKind{KindObject, KindFunction}
	for _, k := range nonPrimitive {
		if k.isPrimitive() {
			t.Errorf("%v.isPrimitive() = true, want false", k)
		}
	}
}

func TestTransferOptionsIsZero(t *testing.T) {
	if !(TransferOptions{}).isZero() {
		t.Error("zero-value TransferOptions.isZero() = false, want true")
	}
	if (TransferOptions{Reference: true}).isZero() {
		t.Error("TransferOptions{Reference: true}.isZero() = true, want false")
	}
}
