package game

import (
	"github.com/plus3/tanks/ecs"
)

const maxHierarchyDepth = 16

// WorldTransform composes the entity's Transform with its ancestors'. ok is
// false when the entity has no Transform or one of its parents is gone.
func WorldTransform(storage *ecs.Storage, id ecs.EntityId) (GlobalTransform, bool) {
	var result GlobalTransform
	for range maxHierarchyDepth {
		local := ecs.ReadComponent[Transform](storage, id)
		if local == nil {
			return GlobalTransform{}, false
		}

		result = GlobalTransform{
			Translation: local.Translation.Add(result.Translation.Rotate(local.Rotation)),
			Rotation:    NormalizeAngle(local.Rotation + result.Rotation),
		}

		parent := ecs.ReadComponent[Parent](storage, id)
		if parent == nil {
			return result, true
		}
		parentId, ok := storage.ResolveEntityRef(parent.Ref)
		if !ok {
			return GlobalTransform{}, false
		}
		id = parentId
	}
	return GlobalTransform{}, false
}

// TransformPropagateSystem writes GlobalTransform for every entity. Children
// whose parent no longer exists are despawned with it.
type TransformPropagateSystem struct {
	Roots ecs.Query[struct {
		*Transform
		*GlobalTransform
		Parent *Parent `ecs:"without"`
	}]
	Children ecs.Query[struct {
		ecs.EntityId
		*GlobalTransform
		*Parent
	}]
}

func (s *TransformPropagateSystem) Execute(frame *ecs.UpdateFrame) {
	for root := range s.Roots.Values() {
		*root.GlobalTransform = GlobalTransform(*root.Transform)
	}

	for id, child := range s.Children.Iter() {
		global, ok := WorldTransform(frame.Storage, id)
		if !ok {
			frame.Commands.Delete(id)
			continue
		}
		*child.GlobalTransform = global
	}
}
