package debugui

import (
	"reflect"
	"strings"
	"sync"
)

// FieldInfo describes one exported field shown by the inspectors.
type FieldInfo struct {
	Name string
	// Label is the yaml key when the field has one, otherwise Name.
	Label     string
	Type      reflect.Type
	Index     int
	IsPointer bool
	IsStruct  bool
	ReadOnly  bool
}

// ReflectionCache memoizes the field layout of inspected types.
//
// A `debug:"-"` tag hides a field, `debug:"readonly"` shows it without an
// editor.
type ReflectionCache struct {
	mu         sync.RWMutex
	fieldCache map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{
		fieldCache: make(map[reflect.Type][]FieldInfo),
	}
}

func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	rc.mu.RLock()
	cached, ok := rc.fieldCache[t]
	rc.mu.RUnlock()
	if ok {
		return cached
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	if cached, ok := rc.fieldCache[t]; ok {
		return cached
	}

	fields := collectFields(t)
	rc.fieldCache[t] = fields
	return fields
}

func collectFields(t reflect.Type) []FieldInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}

	var fields []FieldInfo
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		debugTag := field.Tag.Get("debug")
		if debugTag == "-" {
			continue
		}

		label := field.Name
		if key, _, _ := strings.Cut(field.Tag.Get("yaml"), ","); key != "" && key != "-" {
			label = key
		}

		fieldType := field.Type
		isPointer := fieldType.Kind() == reflect.Ptr
		if isPointer {
			fieldType = fieldType.Elem()
		}

		fields = append(fields, FieldInfo{
			Name:      field.Name,
			Label:     label,
			Type:      fieldType,
			Index:     i,
			IsPointer: isPointer,
			IsStruct:  fieldType.Kind() == reflect.Struct,
			ReadOnly:  debugTag == "readonly",
		})
	}
	return fields
}

var globalReflectionCache = NewReflectionCache()
