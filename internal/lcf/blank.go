package lcf

const (
	blankMapWidth        = 20
	blankMapHeight       = 15
	blankAnimationFrames = 20
)

// BlankCommonEvent returns the default common event stored at id.
func BlankCommonEvent(id int) CommonEvent {
	return CommonEvent{ID: id, Trigger: TriggerCall}
}

// BlankChipset returns the default tileset stored at id.
func BlankChipset(id int) Chipset {
	return Chipset{ID: id}
}

// BlankSwitch returns the default switch stored at id.
func BlankSwitch(id int) Switch {
	return Switch{ID: id}
}

// BlankVariable returns the default variable stored at id.
func BlankVariable(id int) Variable {
	return Variable{ID: id}
}

// BlankAnimation returns the default animation stored at id, with numbered empty frames.
func BlankAnimation(id int) Animation {
	frames := make([]AnimationFrame, blankAnimationFrames)
	for i := range frames {
		frames[i] = AnimationFrame{ID: i + 1}
	}
	return Animation{ID: id, Frames: frames}
}

// BlankMapInfo returns a map-tree entry that only carries its id.
func BlankMapInfo(id int) MapInfo {
	return MapInfo{ID: id}
}

// BlankMap returns the empty map a removed map file is reset to.
func BlankMap() *Map {
	size := blankMapWidth * blankMapHeight
	return &Map{
		ChipsetID:  1,
		Width:      blankMapWidth,
		Height:     blankMapHeight,
		LowerLayer: make([]int, size),
		UpperLayer: make([]int, size),
	}
}
