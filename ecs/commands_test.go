package ecs_test

import (
	"testing"

	"github.com/plus3/tanks/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flush(storage *ecs.Storage, fn func(commands *ecs.Commands)) {
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		fn(frame.Commands)
	}))
	scheduler.Once(0)
}

func TestCommandsSpawn(t *testing.T) {
	storage := newTestStorage()

	flush(storage, func(commands *ecs.Commands) {
		commands.Spawn(Position{X: 1}, Velocity{DX: 1})
		commands.Spawn(Position{X: 2})
		assert.Equal(t, 2, commands.Pending())
		assert.Equal(t, 0, storage.EntityCount(), "nothing applied before flush")
	})

	assert.Equal(t, 2, storage.EntityCount())
}

func TestCommandsDelete(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{})
	keep := storage.Spawn(Position{})

	flush(storage, func(commands *ecs.Commands) {
		commands.Delete(id)
		commands.Delete(id)
	})

	assert.False(t, storage.Alive(id))
	assert.True(t, storage.Alive(keep))
	assert.Equal(t, 1, storage.EntityCount())
}

func TestCommandsEditsOnDeletedEntityAreDropped(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{})

	flush(storage, func(commands *ecs.Commands) {
		commands.AddComponent(id, Velocity{})
		commands.RemoveComponent(id, typeOf[Position]())
		commands.Delete(id)
	})

	assert.Equal(t, 0, storage.EntityCount())
	assert.Nil(t, storage.GetArchetype(Position{}, Velocity{}), "no migration happened")
}

func TestCommandsRemoveThenAdd(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{X: 9}, Velocity{DX: 1})

	flush(storage, func(commands *ecs.Commands) {
		commands.AddComponent(id, Health{Current: 3, Max: 3})
		commands.AddComponent(id, Name{Value: "moved"})
		commands.RemoveComponent(id, typeOf[Velocity]())
	})

	view := ecs.NewView[struct {
		ecs.EntityId
		*Position
		*Health
		*Name
		Velocity *Velocity `ecs:"optional"`
	}](storage)

	count := 0
	for item := range view.Values() {
		count++
		assert.Equal(t, float32(9), item.Position.X)
		assert.Equal(t, 3, item.Health.Current)
		assert.Equal(t, "moved", item.Name.Value)
		assert.Nil(t, item.Velocity)
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, storage.EntityCount())
}

func TestCommandsDeferRunsLast(t *testing.T) {
	storage := newTestStorage()
	var seen int

	flush(storage, func(commands *ecs.Commands) {
		commands.Defer(func() { seen = storage.EntityCount() })
		commands.Spawn(Position{})
		commands.Spawn(Position{})
	})

	assert.Equal(t, 2, seen)
}

func TestCommandsDeferCanReferenceSpawned(t *testing.T) {
	storage := newTestStorage()
	var ref *ecs.EntityRef

	flush(storage, func(commands *ecs.Commands) {
		commands.Spawn(Name{Value: "parent"})
		commands.Defer(func() {
			for id := range ecs.NewView[struct {
				ecs.EntityId
				*Name
			}](storage).Iter() {
				ref = storage.CreateEntityRef(id)
			}
		})
	})

	require.NotNil(t, ref)
	id, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.Equal(t, "parent", ecs.ReadComponent[Name](storage, id).Value)
}
