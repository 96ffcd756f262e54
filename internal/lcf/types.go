// Package lcf defines the project record store: the database, the map-tree, and individual
// map files of a snapshot, plus the Store seam used to load and save them.
package lcf

// Record is implemented by every positional database record.
type Record interface {
	RecordID() int
	RecordName() string
}

// Music is a background music reference.
type Music struct {
	Name    string `yaml:"name"`
	FadeIn  int    `yaml:"fade_in"`
	Volume  int    `yaml:"volume"`
	Tempo   int    `yaml:"tempo"`
	Balance int    `yaml:"balance"`
}

// EventCommand is one scripted instruction: a numeric code, a string payload, and parameters.
type EventCommand struct {
	Code       int    `yaml:"code"`
	Indent     int    `yaml:"indent,omitempty"`
	String     string `yaml:"string,omitempty"`
	Parameters []int  `yaml:"parameters,omitempty"`
}

// Param returns the i-th parameter, or 0 when the command carries fewer parameters.
func (c EventCommand) Param(i int) int {
	if i < 0 || i >= len(c.Parameters) {
		return 0
	}
	return c.Parameters[i]
}

// CommonEventTrigger controls when a common event runs.
type CommonEventTrigger string

const (
	TriggerAutomatic CommonEventTrigger = "automatic"
	TriggerParallel  CommonEventTrigger = "parallel"
	TriggerCall      CommonEventTrigger = "call"
)

// CommonEvent is a database-level script.
type CommonEvent struct {
	ID         int                `yaml:"id"`
	Name       string             `yaml:"name"`
	Trigger    CommonEventTrigger `yaml:"trigger"`
	SwitchFlag bool               `yaml:"switch_flag,omitempty"`
	SwitchID   int                `yaml:"switch_id,omitempty"`
	Commands   []EventCommand     `yaml:"commands,omitempty"`
}

func (r CommonEvent) RecordID() int      { return r.ID }
func (r CommonEvent) RecordName() string { return r.Name }

// Chipset is a tileset entry: a chipset image plus passability and terrain tables.
type Chipset struct {
	ID             int    `yaml:"id"`
	Name           string `yaml:"name"`
	ChipsetName    string `yaml:"chipset_name"`
	TerrainData    []int  `yaml:"terrain_data,omitempty"`
	PassableLower  []int  `yaml:"passable_lower,omitempty"`
	PassableUpper  []int  `yaml:"passable_upper,omitempty"`
	AnimationType  int    `yaml:"animation_type,omitempty"`
	AnimationSpeed int    `yaml:"animation_speed,omitempty"`
}

func (r Chipset) RecordID() int      { return r.ID }
func (r Chipset) RecordName() string { return r.Name }

// Switch is a named boolean game flag.
type Switch struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

func (r Switch) RecordID() int      { return r.ID }
func (r Switch) RecordName() string { return r.Name }

// Variable is a named integer game variable.
type Variable struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
}

func (r Variable) RecordID() int      { return r.ID }
func (r Variable) RecordName() string { return r.Name }

// AnimationCell is one sprite placement inside an animation frame.
type AnimationCell struct {
	Valid        bool `yaml:"valid"`
	CellID       int  `yaml:"cell_id"`
	X            int  `yaml:"x"`
	Y            int  `yaml:"y"`
	Zoom         int  `yaml:"zoom"`
	Transparency int  `yaml:"transparency"`
}

// AnimationFrame is one frame of a battle animation.
type AnimationFrame struct {
	ID    int             `yaml:"id"`
	Cells []AnimationCell `yaml:"cells,omitempty"`
}

// Animation is a battle animation entry.
type Animation struct {
	ID            int              `yaml:"id"`
	Name          string           `yaml:"name"`
	AnimationName string           `yaml:"animation_name"`
	Large         bool             `yaml:"large,omitempty"`
	Scope         int              `yaml:"scope,omitempty"`
	Position      int              `yaml:"position,omitempty"`
	Frames        []AnimationFrame `yaml:"frames,omitempty"`
}

func (r Animation) RecordID() int      { return r.ID }
func (r Animation) RecordName() string { return r.Name }

// Database holds the five positional record lists of a snapshot.
type Database struct {
	CommonEvents []CommonEvent `yaml:"common_events"`
	Chipsets     []Chipset     `yaml:"chipsets"`
	Switches     []Switch      `yaml:"switches"`
	Variables    []Variable    `yaml:"variables"`
	Animations   []Animation   `yaml:"animations"`
}

// MapInfo is the map-tree metadata for one map id.
type MapInfo struct {
	ID        int    `yaml:"id"`
	Name      string `yaml:"name"`
	Parent    int    `yaml:"parent"`
	Type      int    `yaml:"type,omitempty"`
	MusicType int    `yaml:"music_type,omitempty"`
	Music     Music  `yaml:"music"`
}

// TreeMap is the map-tree. Maps[i].ID equals i; index 0 is the project root.
type TreeMap struct {
	Maps       []MapInfo `yaml:"maps"`
	TreeOrder  []int     `yaml:"tree_order,omitempty"`
	ActiveNode int       `yaml:"active_node,omitempty"`
}

// Info returns the entry for a map id, if the tree is long enough and aligned.
func (t *TreeMap) Info(id int) (MapInfo, bool) {
	if t == nil || id < 0 || id >= len(t.Maps) {
		return MapInfo{}, false
	}
	info := t.Maps[id]
	if info.ID != id {
		return MapInfo{}, false
	}
	return info, true
}

// EventPage is one conditional page of a map event.
type EventPage struct {
	ID       int            `yaml:"id"`
	Commands []EventCommand `yaml:"commands,omitempty"`
}

// Event is a scripted object placed on a map tile.
type Event struct {
	ID    int         `yaml:"id"`
	Name  string      `yaml:"name"`
	X     int         `yaml:"x"`
	Y     int         `yaml:"y"`
	Pages []EventPage `yaml:"pages,omitempty"`
}

// Map is the payload of a single map file.
type Map struct {
	ChipsetID  int     `yaml:"chipset_id"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	LowerLayer []int   `yaml:"lower_layer,omitempty"`
	UpperLayer []int   `yaml:"upper_layer,omitempty"`
	Events     []Event `yaml:"events,omitempty"`
}
