package ecs

import (
	"reflect"
	"unsafe"
)

type singletonEntry struct {
	typ     reflect.Type
	value   reflect.Value // pointer to the stored T
	dataPtr unsafe.Pointer
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// AddSingleton stores a global component that belongs to no entity. Passing a
// *T stores that pointer, so the caller keeps a live handle; passing a T stores
// a copy. Adding a type that already exists overwrites the value in place, which
// keeps pointers held by Singleton accessors valid.
func (s *Storage) AddSingleton(value any) {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		panic("cannot add nil singleton")
	}

	typ := v.Type()
	isPtr := typ.Kind() == reflect.Ptr
	if isPtr {
		if v.IsNil() {
			panic("cannot add nil singleton")
		}
		typ = typ.Elem()
	}

	if existing := s.singletons[typ]; existing != nil {
		if isPtr {
			existing.value.Elem().Set(v.Elem())
		} else {
			existing.value.Elem().Set(v)
		}
		return
	}

	ptr := v
	if !isPtr {
		ptr = reflect.New(typ)
		ptr.Elem().Set(v)
	}

	s.singletons[typ] = &singletonEntry{
		typ:     typ,
		value:   ptr,
		dataPtr: ptr.UnsafePointer(),
	}
}

// ReadSingleton points *target at the stored singleton. target must be a **T.
// Returns false if no singleton of type T exists.
func (s *Storage) ReadSingleton(target any) bool {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton target must be a pointer to a pointer")
	}

	entry := s.singletons[v.Elem().Type().Elem()]
	if entry == nil {
		return false
	}
	v.Elem().Set(entry.value)
	return true
}

// RemoveSingleton drops the singleton of the given type.
func (s *Storage) RemoveSingleton(t reflect.Type) {
	delete(s.singletons, t)
}

// Singleton provides cached access to one singleton component. Use this for
// global game state, configuration, or other data with exactly one instance.
type Singleton[T any] struct {
	storage       *Storage
	componentPtr  unsafe.Pointer
	componentType reflect.Type
}

// NewSingleton returns an accessor for T, creating the singleton from the
// initializer (or the zero value) when it does not exist yet. An existing
// singleton is left untouched.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	componentType := reflect.TypeFor[T]()

	if storage.getSingletonEntry(componentType) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}

	return &Singleton[T]{
		storage:       storage,
		componentPtr:  storage.getSingletonEntry(componentType).dataPtr,
		componentType: componentType,
	}
}

// Init binds the accessor to a storage. The Scheduler calls this for every
// Singleton field of a registered system.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.componentType = reflect.TypeFor[T]()
	s.updateCache()
}

// Get returns a pointer to the singleton, or nil if it has not been added yet.
func (s *Singleton[T]) Get() *T {
	if s.componentPtr == nil {
		s.updateCache()
	}
	return (*T)(s.componentPtr)
}

func (s *Singleton[T]) updateCache() {
	if s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(s.componentType); entry != nil {
		s.componentPtr = entry.dataPtr
	} else {
		s.componentPtr = nil
	}
}

// Exists returns true if the singleton component has been added to storage
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}
