package ecs

// UpdateFrame is handed to every system during one Scheduler.Once call.
type UpdateFrame struct {
	// DeltaTime is the frame duration in seconds.
	DeltaTime float64
	// Elapsed is the sum of all DeltaTime values passed to the scheduler so far,
	// including this frame.
	Elapsed float64
	// Tick counts Once calls, starting at 1.
	Tick     uint64
	Commands *Commands
	Storage  *Storage
}

func newUpdateFrame(dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
