package debugui

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/tanks/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityId
	ArchetypeID    uint32
	ComponentTypes []string
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	typeNames     []string
	changes       uint64
	valid         bool
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache: &EntityBrowserCache{
			sortAscending: true,
		},
		requiredTypes:      make(map[string]bool),
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserComponent) Render(storage *ecs.Storage) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(460, 360), imgui.CondOnce)
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.refresh(storage)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.ClearFilters()
	}
	if eb.filterArchetypeId != nil {
		imgui.Text(fmt.Sprintf("Archetype 0x%X only", *eb.filterArchetypeId))
	}

	if imgui.TreeNodeStr("Required Components") {
		for _, name := range eb.cache.typeNames {
			required := eb.requiredTypes[name]
			if imgui.Checkbox(name, &required) {
				eb.RequireType(name, required)
			}
		}
		imgui.TreePop()
	}

	filteredEntities := eb.filteredEntities()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 240), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.SortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
			filteredEntities = eb.filteredEntities()
		}

		selectedId, hasSelection := eb.Selected(storage)
		startIdx := min(eb.currentPage*eb.maxEntitiesPerPage, len(filteredEntities))
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := hasSelection && selectedId == entity.ID
			if imgui.SelectableBoolV(entity.ID.String(), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.Select(storage, entity.ID)
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", entity.ArchetypeID))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		eb.currentPage = min(eb.currentPage, totalPages-1)
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		eb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// refresh rebuilds the cached entity list after any spawn, delete or
// migration in storage.
func (eb *EntityBrowserComponent) refresh(storage *ecs.Storage) {
	if changes := storage.Changes(); !eb.cache.valid || changes != eb.cache.changes {
		eb.rebuildCache(storage)
		eb.cache.changes = changes
		eb.cache.valid = true
	}
}

func (eb *EntityBrowserComponent) rebuildCache(storage *ecs.Storage) {
	eb.cache.entities = eb.cache.entities[:0]
	typeNames := make(map[string]bool)

	for _, archetype := range storage.GetArchetypes() {
		componentTypes := make([]string, len(archetype.Types()))
		for i, t := range archetype.Types() {
			componentTypes[i] = t.String()
			typeNames[componentTypes[i]] = true
		}

		for entityId := range archetype.Iter() {
			eb.cache.entities = append(eb.cache.entities, EntityInfo{
				ID:             entityId,
				ArchetypeID:    archetype.ID(),
				ComponentTypes: componentTypes,
			})
		}
	}

	eb.cache.typeNames = slices.Sorted(maps.Keys(typeNames))
	eb.sortEntities()
}

// SortBy orders the listing by column: 0 entity id, 1 archetype, 2 components.
func (eb *EntityBrowserComponent) SortBy(column int, ascending bool) {
	eb.cache.sortColumn = column
	eb.cache.sortAscending = ascending
	eb.sortEntities()
}

func (eb *EntityBrowserComponent) sortEntities() {
	sort.SliceStable(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		if !eb.cache.sortAscending {
			a, b = b, a
		}

		var less bool

		switch eb.cache.sortColumn {
		case 1:
			less = a.ArchetypeID < b.ArchetypeID
		case 2:
			less = strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		default:
			less = a.ID < b.ID
		}
		return less
	})
}

// FilterArchetype limits the listing to one archetype.
func (eb *EntityBrowserComponent) FilterArchetype(id uint32) {
	eb.filterArchetypeId = &id
	eb.currentPage = 0
}

// RequireType limits the listing to entities that have the named component.
func (eb *EntityBrowserComponent) RequireType(name string, required bool) {
	if required {
		eb.requiredTypes[name] = true
	} else {
		delete(eb.requiredTypes, name)
	}
	eb.currentPage = 0
}

func (eb *EntityBrowserComponent) ClearFilters() {
	eb.filterText = ""
	eb.filterArchetypeId = nil
	clear(eb.requiredTypes)
	eb.currentPage = 0
}

func (eb *EntityBrowserComponent) filteredEntities() []EntityInfo {
	if eb.filterText == "" && eb.filterArchetypeId == nil && len(eb.requiredTypes) == 0 {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		if eb.filterArchetypeId != nil && entity.ArchetypeID != *eb.filterArchetypeId {
			continue
		}
		if !hasAllTypes(entity.ComponentTypes, eb.requiredTypes) {
			continue
		}

		if eb.filterText != "" {
			idStr := entity.ID.String()
			archStr := fmt.Sprintf("0x%x", entity.ArchetypeID)
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(archStr, filterLower) &&
				!strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func hasAllTypes(componentTypes []string, required map[string]bool) bool {
	matched := 0
	for _, name := range componentTypes {
		if required[name] {
			matched++
		}
	}
	return matched == len(required)
}

// Select remembers entity through an EntityRef so the selection survives
// component adds and removes.
func (eb *EntityBrowserComponent) Select(storage *ecs.Storage, entity ecs.EntityId) {
	eb.selected = storage.CreateEntityRef(entity)
}

// Selected returns the current id of the selected entity. ok is false when
// nothing is selected or the entity was deleted.
func (eb *EntityBrowserComponent) Selected(storage *ecs.Storage) (ecs.EntityId, bool) {
	if eb.selected == nil {
		return 0, false
	}
	return storage.ResolveEntityRef(eb.selected)
}
