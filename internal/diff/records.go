package diff

import (
	"reflect"

	"github.com/klauern/cusubmit/internal/lcf"
	"github.com/klauern/cusubmit/internal/logging"
	"github.com/klauern/cusubmit/internal/model"
)

// Record kinds used in log lines and alignment errors.
const (
	KindCommonEvent = "common event"
	KindTileset     = "tileset"
	KindSwitch      = "switch"
	KindVariable    = "variable"
	KindAnimation   = "animation"
)

// RecordChange is one differing position of a positional record list.
type RecordChange[R lcf.Record] struct {
	Status model.Status
	ID     int
	Name   string
	// Record is the side that names the change: base when Removed, modified otherwise.
	Record R
}

// DiffRecords compares two positional record lists.
//
// Only positions below the shorter length are visited. Equal positions are
// skipped. An empty base name classifies the position as Added, an empty
// modified name as Removed, and anything else as Modified. With strictIDs a
// differing position whose stored ids do not equal position+1 on both sides is
// skipped and reported in the returned alignment errors.
func DiffRecords[R lcf.Record](kind string, base, modified []R, strictIDs bool) ([]RecordChange[R], []error) {
	n := min(len(base), len(modified))

	var (
		changes []RecordChange[R]
		errs    []error
	)
	for i := range n {
		b, m := base[i], modified[i]
		if reflect.DeepEqual(b, m) {
			continue
		}

		id := i + 1
		if strictIDs {
			if err := checkAlignment(kind, i, b, m); err != nil {
				logging.Debug("skipping misaligned record",
					logging.Record(kind),
					logging.ID(id),
					logging.Err(err),
				)
				errs = append(errs, err)
				continue
			}
		}

		switch {
		case b.RecordName() == "":
			changes = append(changes, RecordChange[R]{Status: model.StatusAdded, ID: id, Name: m.RecordName(), Record: m})
		case m.RecordName() == "":
			changes = append(changes, RecordChange[R]{Status: model.StatusRemoved, ID: id, Name: b.RecordName(), Record: b})
		default:
			changes = append(changes, RecordChange[R]{Status: model.StatusModified, ID: id, Name: m.RecordName(), Record: m})
		}
	}

	if len(errs) > 0 {
		logging.Warn("skipped misaligned records", logging.Record(kind), logging.Count(len(errs)))
	}
	if len(changes) > 0 {
		logging.Debug("compared records", logging.Record(kind), logging.Count(len(changes)))
	}
	return changes, errs
}

func checkAlignment[R lcf.Record](kind string, position int, records ...R) error {
	for _, r := range records {
		if r.RecordID() != position+1 {
			return &model.AlignmentError{
				Kind:     kind,
				Position: position,
				Expected: position + 1,
				Got:      r.RecordID(),
			}
		}
	}
	return nil
}

// diffDatabase fills the five record lists of a changelog.
func diffDatabase(cl *model.Changelog, base, modified *lcf.Database, strictIDs bool) []error {
	var errs []error

	commonEvents, e := DiffRecords(KindCommonEvent, base.CommonEvents, modified.CommonEvents, strictIDs)
	errs = append(errs, e...)
	for _, c := range commonEvents {
		cl.CommonEvents = append(cl.CommonEvents, model.CommonEvent{Status: c.Status, ID: c.ID, Name: c.Name})
	}

	tilesets, e := DiffRecords(KindTileset, base.Chipsets, modified.Chipsets, strictIDs)
	errs = append(errs, e...)
	for _, c := range tilesets {
		cl.Tilesets = append(cl.Tilesets, model.TilesetInfo{
			Status:      c.Status,
			ID:          c.ID,
			Name:        c.Name,
			ChipsetName: c.Record.ChipsetName,
		})
	}

	switches, e := DiffRecords(KindSwitch, base.Switches, modified.Switches, strictIDs)
	errs = append(errs, e...)
	for _, c := range switches {
		cl.Switches = append(cl.Switches, model.Switch{Status: c.Status, ID: c.ID, Name: c.Name})
	}

	variables, e := DiffRecords(KindVariable, base.Variables, modified.Variables, strictIDs)
	errs = append(errs, e...)
	for _, c := range variables {
		cl.Variables = append(cl.Variables, model.Variable{Status: c.Status, ID: c.ID, Name: c.Name})
	}

	animations, e := DiffRecords(KindAnimation, base.Animations, modified.Animations, strictIDs)
	errs = append(errs, e...)
	for _, c := range animations {
		cl.Animations = append(cl.Animations, model.Animation{
			Status:        c.Status,
			ID:            c.ID,
			Name:          c.Name,
			AnimationName: c.Record.AnimationName,
		})
	}

	return errs
}
