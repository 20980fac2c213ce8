package ecs_test

import (
	"testing"

	"github.com/plus3/tanks/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityRefIsShared(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{})

	ref := storage.CreateEntityRef(id)
	require.NotNil(t, ref)
	assert.Same(t, ref, storage.CreateEntityRef(id))
	assert.Equal(t, id, ref.Id)
}

func TestEntityRefFollowsMigration(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{X: 1})
	ref := storage.CreateEntityRef(id)

	id = storage.AddComponent(id, Velocity{})
	resolved, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.Equal(t, id, resolved)
	assert.Same(t, storage.GetArchetypeById(id.ArchetypeId()), ref.Archetype)

	id = storage.RemoveComponent(id, typeOf[Position]())
	resolved, ok = storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.Equal(t, id, resolved)
}

func TestEntityRefInvalidatedByDelete(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{})
	ref := storage.CreateEntityRef(id)

	storage.Delete(id)

	_, ok := storage.ResolveEntityRef(ref)
	assert.False(t, ok)
	assert.Nil(t, ref.Archetype)

	// the reused slot does not resurrect the old ref
	storage.Spawn(Position{})
	_, ok = storage.ResolveEntityRef(ref)
	assert.False(t, ok)
}

func TestEntityRefDeadEntity(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{})
	storage.Delete(id)

	assert.Nil(t, storage.CreateEntityRef(id))
	assert.Nil(t, storage.CreateEntityRef(ecs.NewEntityId(123, 0)))
}

func TestInvalidateEntityRef(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{})
	ref := storage.CreateEntityRef(id)

	assert.True(t, storage.InvalidateEntityRef(ref))
	assert.False(t, storage.InvalidateEntityRef(ref))
	assert.True(t, storage.Alive(id), "entity survives")

	fresh := storage.CreateEntityRef(id)
	require.NotNil(t, fresh)
	assert.NotSame(t, ref, fresh)
}
