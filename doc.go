// Package oak is a small scripted scene engine. Native Go code owns worlds,
// entities and views; scripts written in Lua or compiled to WebAssembly
// drive them through a fixed set of bound functions.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	oak/                 Root package with the Memory and Allocator interfaces
//	├── value/           Values that cross the script boundary
//	├── marshal/         Pushing and popping values on a VM stack
//	├── resource/        Generation-checked handle table
//	├── bind/            Binding registry: modules, classes and adapters
//	├── script/          Call protocol over a VM
//	├── luavm/           gopher-lua VM
//	├── wasmvm/          wazero VM
//	├── sg/              Scene graph: worlds, entities, components
//	├── graphics/        Graphic worlds, views and frame rendering
//	├── driver/          Trace and terminal drivers
//	├── input/           Pointer event queue
//	├── system/          Frame clock and the system script module
//	├── bindings/        The system, sg and graphics script modules
//	├── config/          HCL configuration
//	├── app/             Application shell and frame loop
//	├── errors/          Structured error types
//	└── cmd/oak/         Command line runner and terminal UI
//
// # Quick Start
//
// Run a script for a few frames without a window:
//
//	cfg := config.Default()
//	cfg.Script = "main.lua"
//
//	a := app.New(cfg, app.WithLogger(log))
//	defer a.Shutdown()
//
//	if err := a.Initialize(ctx); err != nil {
//	    log.Fatal("initialize", zap.Error(err))
//	}
//	a.Step(60)
//
// # Calling Scripts
//
// Native code calls scripted functions through the call protocol. A call
// names a global function, appends its arguments and runs it:
//
//	if eng.StartCall("update") {
//	    eng.AppendFloat(dt)
//	    eng.EndCall()
//	}
//
// A missing function is not an error: StartCall reports false and the
// engine stays idle. Runtime errors raised by the script are reported to the
// error sink and returned by EndCall.
//
// # Binding Native Code
//
// Modules expose functions; classes expose objects as opaque handles:
//
//	reg := bind.NewRegistry()
//	views := bind.RegisterClass[graphics.View](reg, "View")
//	bind.Method1(views, "setPriority", (*graphics.View).SetPriority)
//
//	m := reg.RegisterModule("graphics", eng)
//	bind.Func1R(m, "createView", eng.CreateView)
//
// Handles are released when the native object goes away, so a script that
// keeps one gets a stale handle error instead of reaching freed state.
//
// # Thread Safety
//
// An App and everything it owns are used from a single goroutine. The frame
// loop, input dispatch and script calls all run on it.
package oak
