package wasmvm

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/oak/bind"
	"github.com/wippyai/oak/marshal"
	"github.com/wippyai/oak/value"
)

// instantiateHosts builds the host modules defined since the last load.
func (vm *VM) instantiateHosts(ctx context.Context) error {
	for _, owner := range vm.owners {
		if vm.hosts[owner] {
			continue
		}
		b := vm.rt.NewHostModuleBuilder(owner)
		for _, e := range vm.entries[owner] {
			params := coreTypes(e.Params()...)
			results := coreTypes(e.Return)
			b = b.NewFunctionBuilder().
				WithGoModuleFunction(vm.hostFunc(e), params, results).
				WithName(e.Owner + "." + e.Name).
				Export(e.Name)
		}
		if _, err := b.Instantiate(ctx); err != nil {
			return err
		}
		vm.hosts[owner] = true
		vm.log.Debug("host module instantiated",
			zap.String("module", owner),
			zap.Int("functions", len(vm.entries[owner])))
	}
	return nil
}

// hostFunc runs e against a fresh frame built from the guest's flattened
// parameters. Errors are raised as panics, which wazero turns into the
// error returned by the guest call.
func (vm *VM) hostFunc(e *bind.Entry) api.GoModuleFunc {
	kinds := e.Params()
	classes := e.ParamClasses()
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		frame := marshal.NewSlots(e.Arity())
		if err := lift(frame, mod, kinds, classes, stack); err != nil {
			panic(err)
		}
		if _, err := vm.invoke(e, frame); err != nil {
			panic(err)
		}
		if e.Return == value.KindNone {
			return
		}
		if err := lower(ctx, mod, marshal.Pop(frame, e.Return), stack); err != nil {
			panic(err)
		}
	}
}

// invoke runs the adapter, holding any panic so it survives wazero's
// recovery.
func (vm *VM) invoke(e *bind.Entry, frame *marshal.Slots) (int, error) {
	defer func() {
		if r := recover(); r != nil {
			if vm.fatal == nil {
				vm.fatal = r
			}
			panic(r)
		}
	}()
	return e.Adapter(frame)
}
