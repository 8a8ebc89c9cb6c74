package npc

import (
	"github.com/google/uuid"
)

// Override mutates a freshly created NPC before it is returned. Used for name
// and behavior overrides in spawn directives.
type Override func(*NPC)

// WithName overrides the NPC's display name.
func WithName(name string) Override {
	return func(n *NPC) { n.Name = name }
}

// WithBehavior overrides the NPC's behavior type.
func WithBehavior(behavior string) Override {
	return func(n *NPC) { n.BehaviorType = behavior }
}

// WithLocation places the NPC at the given region and room.
func WithLocation(regionID, roomID string) Override {
	return func(n *NPC) {
		n.CurrentRegionID = regionID
		n.CurrentRoomID = roomID
	}
}

// CreateFromTemplate builds a live NPC from a template. instanceID may be ""
// to generate one. Returns nil when the template is unknown.
func CreateFromTemplate(templates map[string]*Template, templateID, instanceID string, overrides ...Override) *NPC {
	tmpl, ok := templates[templateID]
	if !ok {
		return nil
	}
	if instanceID == "" {
		instanceID = "npc_" + uuid.NewString()[:8]
	}

	n := &NPC{
		InstanceID: instanceID,
		TemplateID: tmpl.ID,
		Name:       tmpl.Name,
		Level:      tmpl.Level,
		Faction:    tmpl.Faction,
		Alive:      true,
	}
	for _, o := range overrides {
		o(n)
	}
	return n
}
