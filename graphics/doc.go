// Package graphics keeps per-world render state in step with the scene
// graph and draws prioritised views through a Driver.
//
// The Engine listens to a sg.WorldManager. Each world gets exactly one
// GraphicWorld for its lifetime; views are created against a world and
// must be destroyed before it. RenderFrame clears the target and renders
// every view in ascending priority order. Views of equal priority render in
// creation order.
//
// The engine also claims the component class names Camera, Cube and
// DemoQuad so declared or scripted entities can attach renderable behavior.
package graphics
