package luavm

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/oak/value"
)

// Top returns the number of slots in the current frame.
func (vm *VM) Top() int { return vm.cur.GetTop() }

// Pop removes up to n slots.
func (vm *VM) Pop(n int) {
	if top := vm.cur.GetTop(); n > top {
		n = top
	}
	if n > 0 {
		vm.cur.Pop(n)
	}
}

func (vm *VM) PushNumber(f float64) { vm.cur.Push(lua.LNumber(f)) }
func (vm *VM) PushInteger(i int64) { vm.cur.Push(lua.LNumber(float64(i))) }
func (vm *VM) PushBool(b bool) { vm.cur.Push(lua.LBool(b)) }
func (vm *VM) PushText(s string) { vm.cur.Push(lua.LString(s)) }

// PushRef pushes r as userdata of its class, or nil for the zero handle.
func (vm *VM) PushRef(r value.Ref) {
	if r.Handle == 0 {
		vm.cur.Push(lua.LNil)
		return
	}
	ud := vm.cur.NewUserData()
	ud.Value = r
	if mt, ok := vm.classes[r.Class]; ok {
		ud.Metatable = mt
	}
	vm.cur.Push(ud)
}

func (vm *VM) Number(i int) float64 { return float64(lua.LVAsNumber(vm.cur.Get(i))) }
func (vm *VM) Integer(i int) int64 { return int64(float64(lua.LVAsNumber(vm.cur.Get(i)))) }
func (vm *VM) Bool(i int) bool { return lua.LVAsBool(vm.cur.Get(i)) }
func (vm *VM) Text(i int) string { return lua.LVAsString(vm.cur.Get(i)) }

// Ref returns the reference in slot i, or the zero Ref.
func (vm *VM) Ref(i int) value.Ref {
	r, _ := asRef(vm.cur.Get(i))
	return r
}
