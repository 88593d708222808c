package dom

// CharacterData is the mutable text buffer shared by Text and Comment nodes.
// Offsets and counts are in UTF-16 code units. Mutations are synchronous and
// must be serialized by the caller.
type CharacterData Node

// charData holds the buffer of a character data node.
type charData struct {
	units []uint16
	phase MutationPhase
}

// MutationPhase is the stage of the mutation cycle a buffer is in.
type MutationPhase int

const (
	PhaseIdle MutationPhase = iota
	PhaseValidating
	PhaseApplying
	PhaseNotifying
)

func (p MutationPhase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseApplying:
		return "applying"
	case PhaseNotifying:
		return "notifying"
	default:
		return "idle"
	}
}

// AsNode returns the underlying Node.
func (cd *CharacterData) AsNode() *Node {
	return (*Node)(cd)
}

// Data returns the buffer contents.
func (cd *CharacterData) Data() string {
	return fromUnits(cd.charData.units)
}

// Length returns the buffer length in UTF-16 code units.
func (cd *CharacterData) Length() int {
	return len(cd.charData.units)
}

// Phase returns the current mutation phase. Callbacks fired while the
// buffer notifies its owner observe PhaseNotifying.
func (cd *CharacterData) Phase() MutationPhase {
	return cd.charData.phase
}

// SubstringData returns count code units starting at offset. count is
// clamped to the end of the buffer.
func (cd *CharacterData) SubstringData(offset, count int) (string, error) {
	realCount, err := cd.checkOffset(offset, count)
	if err != nil {
		return "", err
	}
	return fromUnits(cd.charData.units[offset : offset+realCount]), nil
}

// SetData replaces the whole buffer. Setting the current value is a no-op.
func (cd *CharacterData) SetData(data string) {
	if data == cd.Data() {
		return
	}
	defer cd.setPhase(PhaseIdle)
	cd.setPhase(PhaseValidating)
	oldLength := cd.Length()
	newUnits := toUnits(data)
	cd.setDataAndUpdate(newUnits, 0, oldLength, len(newUnits))

	doc := cd.AsNode().document()
	if doc == nil {
		return
	}
	doc.textRemoved(cd.AsNode(), 0, oldLength)
	if doc.documentData.textEvents == SymmetricTextEvents {
		doc.textInserted(cd.AsNode(), 0, len(newUnits))
	}
}

// AppendData appends data to the end of the buffer.
func (cd *CharacterData) AppendData(data string) {
	defer cd.setPhase(PhaseIdle)
	cd.setPhase(PhaseValidating)
	old := cd.charData.units
	appended := toUnits(data)
	newUnits := make([]uint16, 0, len(old)+len(appended))
	newUnits = append(append(newUnits, old...), appended...)
	cd.setDataAndUpdate(newUnits, len(old), 0, len(appended))

	if doc := cd.AsNode().document(); doc != nil && doc.documentData.textEvents == SymmetricTextEvents {
		doc.textInserted(cd.AsNode(), len(old), len(appended))
	}
}

// InsertData inserts data at offset. It fails with ErrIndexOutOfRange when
// offset is greater than Length().
func (cd *CharacterData) InsertData(offset int, data string) error {
	return cd.replace(offset, 0, data, false, true)
}

// DeleteData removes count code units starting at offset. count is clamped
// to the end of the buffer.
func (cd *CharacterData) DeleteData(offset, count int) error {
	return cd.replace(offset, count, "", true, false)
}

// ReplaceData replaces count code units starting at offset with data.
func (cd *CharacterData) ReplaceData(offset, count int, data string) error {
	return cd.replace(offset, count, data, true, true)
}

func (cd *CharacterData) replace(offset, count int, data string, reportRemoved, reportInserted bool) error {
	defer cd.setPhase(PhaseIdle)
	cd.setPhase(PhaseValidating)
	realCount, err := cd.checkOffset(offset, count)
	if err != nil {
		return err
	}

	old := cd.charData.units
	inserted := toUnits(data)
	newUnits := make([]uint16, 0, len(old)-realCount+len(inserted))
	newUnits = append(newUnits, old[:offset]...)
	newUnits = append(newUnits, inserted...)
	newUnits = append(newUnits, old[offset+realCount:]...)
	cd.setDataAndUpdate(newUnits, offset, realCount, len(inserted))

	if doc := cd.AsNode().document(); doc != nil {
		if reportRemoved {
			doc.textRemoved(cd.AsNode(), offset, realCount)
		}
		if reportInserted {
			doc.textInserted(cd.AsNode(), offset, len(inserted))
		}
	}
	return nil
}

// ParserAppendData appends text[offset:] to the buffer without letting the
// buffer grow beyond lengthLimit code units. When the limit falls inside a
// grapheme cluster the append stops at the preceding cluster boundary. It
// returns the number of code units appended, which may be zero.
//
// Parser appends do not queue mutation records.
func (cd *CharacterData) ParserAppendData(text string, offset, lengthLimit int) int {
	return cd.ParserAppendUnits(EncodeUTF16(text), offset, lengthLimit)
}

// ParserAppendUnits is ParserAppendData for text that is already encoded.
func (cd *CharacterData) ParserAppendUnits(text UTF16Text, offset, lengthLimit int) int {
	units := text.units
	oldLength := cd.Length()
	if offset < 0 || offset > len(units) || lengthLimit <= oldLength {
		return 0
	}

	available := len(units) - offset
	limit := min(available, lengthLimit-oldLength)
	if limit < available {
		limit = graphemeBoundaryBefore(units[offset:], limit)
	}
	if limit == 0 {
		return 0
	}

	defer cd.setPhase(PhaseIdle)
	cd.setPhase(PhaseApplying)
	cd.charData.units = append(cd.charData.units, units[offset:offset+limit]...)

	cd.setPhase(PhaseNotifying)
	if r := cd.renderer; r != nil {
		r.OnContentReplaced(oldLength, 0, limit)
	}
	if doc := cd.AsNode().document(); doc != nil {
		doc.incrementVersion()
	}
	if parent := cd.parentNode; parent != nil {
		parent.childrenChanged()
	}
	return limit
}

// checkOffset validates offset against the current length and returns count
// clamped to the remaining length.
func (cd *CharacterData) checkOffset(offset, count int) (int, error) {
	length := cd.Length()
	if offset < 0 || offset > length {
		return 0, ErrIndexSize("The offset is greater than the node's length.")
	}
	if count < 0 {
		count = 0
	}
	if offset+count > length {
		count = length - offset
	}
	return count, nil
}

// setDataAndUpdate installs newUnits and notifies, in order: the renderer,
// live ranges, the revision counter, mutation observers and the parent.
func (cd *CharacterData) setDataAndUpdate(newUnits []uint16, offset, removed, inserted int) {
	cd.setPhase(PhaseApplying)
	oldData := cd.Data()
	cd.charData.units = newUnits

	cd.setPhase(PhaseNotifying)
	node := cd.AsNode()
	if r := cd.renderer; r != nil {
		r.OnContentReplaced(offset, removed, inserted)
	}
	doc := node.document()
	if doc != nil {
		doc.updateRangesForReplaceData(node, offset, removed, inserted)
		doc.incrementVersion()
		doc.notifyMutation(&MutationRecord{
			Type:        MutationCharacterData,
			Target:      node,
			OldValue:    oldData,
			HasOldValue: true,
		})
	}
	if parent := node.parentNode; parent != nil {
		parent.childrenChanged()
	}
}

func (cd *CharacterData) setPhase(p MutationPhase) {
	cd.charData.phase = p
}
