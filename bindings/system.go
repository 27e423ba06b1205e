package bindings

import (
	"github.com/wippyai/oak/bind"
	"github.com/wippyai/oak/system"
)

// RegisterSystem publishes mod as the system module.
func RegisterSystem(reg *bind.Registry, mod *system.Module) *bind.Module {
	m := reg.RegisterModule("system", mod)
	bind.Func1(m, "logInfo", mod.LogInfo)
	bind.Func1(m, "logWarning", mod.LogWarning)
	bind.Func1(m, "logError", mod.LogError)
	bind.Func0R(m, "getTime", mod.GetTime)
	bind.Func0R(m, "getElapsedTime", mod.GetElapsedTime)
	return m
}
