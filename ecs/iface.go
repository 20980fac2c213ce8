package ecs

import "unsafe"

// iface mirrors the runtime layout of an empty interface. It is used to pull the
// data pointer out of an `any` holding a *T without going through reflect.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}
