package debugui

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/tanks/ecs"
)

func NewComponentInspectorComponent(browser *EntityBrowserComponent) ComponentInspectorComponent {
	return ComponentInspectorComponent{browser: browser}
}

func (ci *ComponentInspectorComponent) Render(storage *ecs.Storage) {
	imgui.SetNextWindowPosV(imgui.NewVec2(480, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 360), imgui.CondOnce)
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	entityId, ok := ci.browser.Selected(storage)
	if !ok {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	archetype := storage.GetArchetypeById(entityId.ArchetypeId())
	if archetype == nil {
		imgui.Text(fmt.Sprintf("Entity %s not found", entityId))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %s", entityId))
	imgui.Text(fmt.Sprintf("Archetype: 0x%X", archetype.ID()))
	if imgui.Button("Delete Entity") {
		storage.Delete(entityId)
		imgui.End()
		return
	}
	imgui.Separator()

	for _, compType := range archetype.Types() {
		component := storage.GetComponent(entityId, compType)
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(compType.String()) {
			editValue(compType.Name(), reflect.ValueOf(component).Elem(), false)
			imgui.TreePop()
		}
	}

	imgui.End()
}

// Render draws the watched value in its own window.
func (w *WatchComponent) Render() {
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 420), imgui.CondOnce)
	if !imgui.BeginV(w.Title, nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	val := reflect.ValueOf(w.Value)
	switch {
	case !val.IsValid():
		imgui.Text("nil")
	case val.Kind() == reflect.Ptr && val.IsNil():
		imgui.Text("nil")
	case val.Kind() == reflect.Ptr:
		editValue(w.Title, val.Elem(), false)
	default:
		editValue(w.Title, val, true)
	}

	imgui.End()
}

// editValue draws an editor for val. Edits are written straight into val, so
// it must be addressable for anything but readOnly display. It reports whether
// the user changed the value.
func editValue(label string, val reflect.Value, readOnly bool) bool {
	readOnly = readOnly || !val.CanSet()

	switch val.Kind() {
	case reflect.Struct:
		fields := globalReflectionCache.GetFields(val.Type())
		if len(fields) == 0 {
			imgui.Text(fmt.Sprintf("%s: %v", label, val.Interface()))
			return false
		}
		changed := false
		for _, field := range fields {
			fieldVal := val.Field(field.Index)
			imgui.PushIDStr(field.Name)
			if field.IsStruct && !field.IsPointer {
				if imgui.TreeNodeStr(field.Label) {
					changed = editValue(field.Label, fieldVal, readOnly || field.ReadOnly) || changed
					imgui.TreePop()
				}
			} else {
				changed = editValue(field.Label, fieldVal, readOnly || field.ReadOnly) || changed
			}
			imgui.PopID()
		}
		return changed

	case reflect.Array:
		changed := false
		for i := range val.Len() {
			imgui.PushIDInt(int32(i))
			changed = editValue(fmt.Sprintf("%s[%d]", label, i), val.Index(i), readOnly) || changed
			imgui.PopID()
		}
		return changed

	case reflect.Ptr:
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", label))
			return false
		}
		if val.Elem().Kind() == reflect.Struct {
			imgui.Text(fmt.Sprintf("%s: %T", label, val.Interface()))
		} else {
			imgui.Text(fmt.Sprintf("%s: %v", label, val.Elem().Interface()))
		}
		return false

	case reflect.Slice, reflect.Map:
		imgui.Text(fmt.Sprintf("%s: [%d items]", label, val.Len()))
		return false

	case reflect.Func:
		imgui.Text(fmt.Sprintf("%s: func", label))
		return false
	}

	if readOnly {
		imgui.Text(fmt.Sprintf("%s: %v", label, val.Interface()))
		return false
	}

	imgui.Text(fmt.Sprintf("%s:", label))
	imgui.SameLine()
	imgui.SetNextItemWidth(150)
	id := "##" + label

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v, ok := int32Value(val); ok {
			if imgui.InputInt(id, &v) {
				return setInteger(val, int64(v))
			}
			return false
		}
		// Too wide for an int input: edit the decimal text instead.
		text := formatInteger(val)
		flags := imgui.InputTextFlagsCharsDecimal | imgui.InputTextFlagsEnterReturnsTrue
		if imgui.InputTextWithHint(id, "", &text, flags, nil) {
			return parseInteger(val, text)
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		if imgui.InputFloat(id, &v) {
			val.SetFloat(float64(v))
			return true
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(id, &v) {
			val.SetBool(v)
			return true
		}

	case reflect.String:
		v := val.String()
		if imgui.InputTextWithHint(id, "", &v, imgui.InputTextFlagsNone, nil) {
			val.SetString(v)
			return true
		}

	default:
		imgui.Text(fmt.Sprintf("%v", val.Interface()))
	}
	return false
}

// int32Value returns an integer field as an int32 when its current value fits.
func int32Value(val reflect.Value) (int32, bool) {
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := val.Int()
		return int32(n), n >= math.MinInt32 && n <= math.MaxInt32
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := val.Uint()
		return int32(n), n <= math.MaxInt32
	}
	return 0, false
}

// setInteger stores n unless it is out of range for the field.
func setInteger(val reflect.Value, n int64) bool {
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if val.OverflowInt(n) {
			return false
		}
		val.SetInt(n)
		return true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n < 0 || val.OverflowUint(uint64(n)) {
			return false
		}
		val.SetUint(uint64(n))
		return true
	}
	return false
}

func formatInteger(val reflect.Value) string {
	switch val.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(val.Uint(), 10)
	}
	return strconv.FormatInt(val.Int(), 10)
}

// parseInteger parses decimal text at the field's own bit size. Invalid or
// out-of-range text leaves the field unchanged.
func parseInteger(val reflect.Value, text string) bool {
	text = strings.TrimSpace(text)
	bits := val.Type().Bits()
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, bits)
		if err != nil {
			return false
		}
		val.SetInt(n)
		return true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(text, 10, bits)
		if err != nil {
			return false
		}
		val.SetUint(n)
		return true
	}
	return false
}
