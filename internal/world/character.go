package world

// ToolKind classifies inventory items by the interaction they enable.
type ToolKind int

const (
	ToolNone ToolKind = iota
	ToolAxe
	ToolPickaxe
	ToolHoe
	ToolWateringCan
	ToolScythe
	ToolMeleeWeapon
	ToolSlingshot
	ToolFishingRod
	ToolMilkPail
	ToolShears
)

var toolKindNames = map[ToolKind]string{
	ToolNone:        "none",
	ToolAxe:         "axe",
	ToolPickaxe:     "pickaxe",
	ToolHoe:         "hoe",
	ToolWateringCan: "watering_can",
	ToolScythe:      "scythe",
	ToolMeleeWeapon: "melee_weapon",
	ToolSlingshot:   "slingshot",
	ToolFishingRod:  "fishing_rod",
	ToolMilkPail:    "milk_pail",
	ToolShears:      "shears",
}

func (k ToolKind) String() string {
	if name, ok := toolKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseToolKind maps a tool name back to its kind.
func ParseToolKind(name string) ToolKind {
	for kind, candidate := range toolKindNames {
		if candidate == name {
			return kind
		}
	}
	return ToolNone
}

// IsMelee reports whether the tool can strike adjacent hostiles. The scythe
// counts because it is a melee weapon in all but name.
func (k ToolKind) IsMelee() bool {
	return k == ToolMeleeWeapon || k == ToolScythe
}

// IsChargeable reports whether holding the click charges the tool.
func (k ToolKind) IsChargeable() bool {
	return k == ToolHoe || k == ToolWateringCan
}

// Item is one inventory slot.
type Item struct {
	Name string   `json:"name" yaml:"name"`
	Tool ToolKind `json:"tool" yaml:"-"`
}

// Status captures the flags that gate input.
type Status struct {
	Fainted         bool `json:"fainted"`
	Eating          bool `json:"eating"`
	ForcedAnimation bool `json:"forcedAnimation"`
	UsingTool       bool `json:"usingTool"`
	Mounted         bool `json:"mounted"`
}

// Incapacitated reports whether the character cannot accept a new click.
func (s Status) Incapacitated() bool {
	return s.Fainted || s.Eating || s.ForcedAnimation
}

// Character is a read-only snapshot of the acting character for one tick.
type Character struct {
	ID          string  `json:"id"`
	Position    Vec2    `json:"position"`
	Facing      Facing  `json:"facing"`
	Status      Status  `json:"status"`
	Inventory   []Item  `json:"inventory"`
	CurrentItem int     `json:"currentItem"`
	Speed       float64 `json:"speed"`
}

// Tile reports the tile under the character.
func (c Character) Tile() Tile {
	return TileAt(c.Position)
}

// HeldItem returns the currently selected item.
func (c Character) HeldItem() (Item, bool) {
	if c.CurrentItem < 0 || c.CurrentItem >= len(c.Inventory) {
		return Item{}, false
	}
	return c.Inventory[c.CurrentItem], true
}

// HeldTool returns the kind of the selected item, ToolNone if nothing is held.
func (c Character) HeldTool() ToolKind {
	item, ok := c.HeldItem()
	if !ok {
		return ToolNone
	}
	return item.Tool
}

// FindTool returns the first inventory index holding the tool kind, or -1.
func (c Character) FindTool(kind ToolKind) int {
	if kind == ToolNone {
		return -1
	}
	for i, item := range c.Inventory {
		if item.Tool == kind {
			return i
		}
	}
	return -1
}

// Actor is the host-side handle the controller drives. Writes take effect
// when the host advances its own movement for the tick.
type Actor interface {
	Snapshot() Character
	SetIntent(dx, dy float64)
	SetFacing(f Facing)
	SelectItem(index int)
	ReleaseTool()
	Dismount()
}
