package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/tanks/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func TestQueryRequiresExecute(t *testing.T) {
	storage := newTestStorage()
	query := ecs.NewQuery[struct{ *Position }](storage)

	assert.Panics(t, func() { query.Iter() })
	assert.Panics(t, func() { query.Values() })
	assert.Panics(t, func() { query.Count() })
	assert.Panics(t, func() { query.Single() })
}

func TestQuerySnapshot(t *testing.T) {
	storage := newTestStorage()
	storage.Spawn(Position{X: 1})

	query := ecs.NewQuery[struct{ *Position }](storage)
	query.Execute()
	assert.Equal(t, 1, query.Count())

	storage.Spawn(Position{X: 2})
	storage.Spawn(Position{X: 3}, Velocity{})
	assert.Equal(t, 1, query.Count(), "cache holds until the next Execute")

	query.Execute()
	assert.Equal(t, 3, query.Count(), "new archetype is picked up")

	var sum float32
	for item := range query.Values() {
		sum += item.Position.X
	}
	assert.Equal(t, float32(6), sum)
}

func TestQueryIterStopsEarly(t *testing.T) {
	storage := newTestStorage()
	for range 5 {
		storage.Spawn(Position{})
	}

	query := ecs.NewQuery[struct{ *Position }](storage)
	query.Execute()

	visited := 0
	for range query.Iter() {
		visited++
		if visited == 2 {
			break
		}
	}
	assert.Equal(t, 2, visited)
}

func TestQuerySingle(t *testing.T) {
	storage := newTestStorage()
	query := ecs.NewQuery[struct {
		ecs.EntityId
		*Name
	}](storage)

	query.Execute()
	_, _, ok := query.Single()
	assert.False(t, ok)

	id := storage.Spawn(Name{Value: "player"})
	query.Execute()
	gotId, item, ok := query.Single()
	require.True(t, ok)
	assert.Equal(t, id, gotId)
	assert.Equal(t, "player", item.Name.Value)

	storage.Spawn(Name{Value: "other"})
	query.Execute()
	_, _, ok = query.Single()
	assert.False(t, ok)
}

func TestQueryGet(t *testing.T) {
	storage := newTestStorage()
	query := ecs.NewQuery[struct{ *Health }](storage)

	id := storage.Spawn(Health{Current: 5})
	item := query.Get(id)
	require.NotNil(t, item, "Get does not depend on Execute")
	assert.Equal(t, 5, item.Health.Current)
}
