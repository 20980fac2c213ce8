package ecs

// System is one behaviour run by the Scheduler every frame.
// Exported Query and Singleton fields are bound to the storage on Register;
// other fields are private state that persists between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}
