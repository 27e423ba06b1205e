package wasmvm

import (
	"context"
	"math"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/oak/errors"
	"github.com/wippyai/oak/marshal"
	"github.com/wippyai/oak/resource"
	"github.com/wippyai/oak/value"
)

// coreTypes flattens kinds to core wasm value types.
func coreTypes(kinds ...value.Kind) []api.ValueType {
	var types []api.ValueType
	for _, k := range kinds {
		switch k {
		case value.KindNone:
		case value.KindInt, value.KindRef:
			types = append(types, api.ValueTypeI64)
		case value.KindBool:
			types = append(types, api.ValueTypeI32)
		case value.KindFloat:
			types = append(types, api.ValueTypeF64)
		case value.KindVec3:
			types = append(types, api.ValueTypeF64, api.ValueTypeF64, api.ValueTypeF64)
		case value.KindQuat:
			types = append(types, api.ValueTypeF64, api.ValueTypeF64, api.ValueTypeF64, api.ValueTypeF64)
		case value.KindText:
			types = append(types, api.ValueTypeI32, api.ValueTypeI32)
		default:
			errors.Fatal(errors.PhaseMarshal, "kind %s has no core wasm representation", k)
		}
	}
	return types
}

// lift pushes the flattened host call parameters onto frame.
func lift(frame *marshal.Slots, mod api.Module, kinds []value.Kind, classes []string, stack []uint64) error {
	i := 0
	for n, k := range kinds {
		switch k {
		case value.KindInt:
			frame.PushInteger(int64(stack[i]))
			i++
		case value.KindBool:
			frame.PushBool(api.DecodeI32(stack[i]) != 0)
			i++
		case value.KindFloat:
			frame.PushNumber(api.DecodeF64(stack[i]))
			i++
		case value.KindVec3, value.KindQuat:
			for j := 0; j < k.Arity(); j++ {
				frame.PushNumber(api.DecodeF64(stack[i]))
				i++
			}
		case value.KindText:
			s, err := readText(mod, api.DecodeU32(stack[i]), api.DecodeU32(stack[i+1]))
			if err != nil {
				return err
			}
			frame.PushText(s)
			i += 2
		case value.KindRef:
			frame.PushRef(value.Ref{Class: classes[n], Handle: resource.Handle(stack[i])})
			i++
		}
	}
	return nil
}

// lower writes v to the front of stack as results of a host function.
func lower(ctx context.Context, mod api.Module, v value.Value, stack []uint64) error {
	switch v.Kind() {
	case value.KindNone:
	case value.KindInt:
		stack[0] = api.EncodeI64(v.AsInt())
	case value.KindBool:
		stack[0] = encodeBool(v.AsBool())
	case value.KindFloat:
		stack[0] = api.EncodeF64(v.AsFloat())
	case value.KindVec3:
		p := v.AsVec3()
		stack[0] = api.EncodeF64(p.X)
		stack[1] = api.EncodeF64(p.Y)
		stack[2] = api.EncodeF64(p.Z)
	case value.KindQuat:
		q := v.AsQuat()
		stack[0] = api.EncodeF64(q.W)
		stack[1] = api.EncodeF64(q.X)
		stack[2] = api.EncodeF64(q.Y)
		stack[3] = api.EncodeF64(q.Z)
	case value.KindText:
		ptr, size, err := writeText(ctx, mod, v.AsText())
		if err != nil {
			return err
		}
		stack[0] = api.EncodeU32(ptr)
		stack[1] = api.EncodeU32(size)
	case value.KindRef:
		stack[0] = uint64(v.AsRef().Handle)
	}
	return nil
}

// encodeArgs converts staged slots to the parameters of a guest export.
// Numeric slots convert to whatever core type the export declares; text
// occupies a pointer and a length and is copied into the guest.
func encodeArgs(ctx context.Context, mod api.Module, slots []marshal.Slot, params []api.ValueType) ([]uint64, error) {
	out := make([]uint64, 0, len(params))
	for _, slot := range slots {
		i := len(out)
		if slot.Kind == marshal.SlotText {
			if i+1 >= len(params) || params[i] != api.ValueTypeI32 || params[i+1] != api.ValueTypeI32 {
				return nil, argCountError(len(slots), params)
			}
			ptr, size, err := writeText(ctx, mod, slot.Text)
			if err != nil {
				return nil, err
			}
			out = append(out, api.EncodeU32(ptr), api.EncodeU32(size))
			continue
		}
		if i >= len(params) {
			return nil, argCountError(len(slots), params)
		}
		out = append(out, encodeSlot(slot, params[i]))
	}
	if len(out) != len(params) {
		return nil, argCountError(len(slots), params)
	}
	return out, nil
}

func encodeSlot(slot marshal.Slot, t api.ValueType) uint64 {
	switch t {
	case api.ValueTypeI32:
		return api.EncodeI32(int32(slotInt(slot)))
	case api.ValueTypeI64:
		return api.EncodeI64(slotInt(slot))
	case api.ValueTypeF32:
		return api.EncodeF32(float32(slotFloat(slot)))
	case api.ValueTypeF64:
		return api.EncodeF64(slotFloat(slot))
	default:
		return 0
	}
}

func slotInt(slot marshal.Slot) int64 {
	switch slot.Kind {
	case marshal.SlotInteger:
		return slot.Int
	case marshal.SlotNumber:
		return int64(math.Trunc(slot.Number))
	case marshal.SlotBool:
		if slot.Bool {
			return 1
		}
	case marshal.SlotRef:
		return int64(slot.Ref.Handle)
	}
	return 0
}

func slotFloat(slot marshal.Slot) float64 {
	switch slot.Kind {
	case marshal.SlotNumber:
		return slot.Number
	case marshal.SlotInteger:
		return float64(slot.Int)
	case marshal.SlotBool:
		if slot.Bool {
			return 1
		}
	}
	return 0
}

func encodeBool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func argCountError(slots int, params []api.ValueType) error {
	return errors.New(errors.PhaseCall, errors.KindInvalidInput).
		Detail("%d argument slots do not match parameters %v", slots, valueTypeNames(params)).
		Build()
}

func valueTypeNames(types []api.ValueType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = api.ValueTypeName(t)
	}
	return names
}
