package dom

// Mutation record types.
const (
	MutationChildList     = "childList"
	MutationAttributes    = "attributes"
	MutationCharacterData = "characterData"
)

// MutationRecord describes a single mutation, shaped like the records
// MutationObserver delivers to scripts.
type MutationRecord struct {
	Type            string
	Target          *Node
	AddedNodes      []*Node
	RemovedNodes    []*Node
	PreviousSibling *Node
	NextSibling     *Node
	AttributeName   string
	OldValue        string
	// HasOldValue distinguishes an empty old value from an absent one.
	HasOldValue bool
}

// ChangeNotificationBus receives change notifications for a document.
type ChangeNotificationBus interface {
	// NotifyChildrenChanged is called after owner's children or the data of
	// one of its character data children changed.
	NotifyChildrenChanged(owner *Node)

	// NotifyMutation is called for each observable mutation.
	NotifyMutation(record *MutationRecord)
}

// MutationCallback is an interface for receiving notifications about DOM
// mutations. This is used to implement MutationObserver functionality.
type MutationCallback interface {
	OnChildrenChanged(owner *Node)
	OnMutation(record *MutationRecord)
}

// RendererSync mirrors a character data node into a renderer. It is called
// after the node's buffer changed.
type RendererSync interface {
	OnContentReplaced(offset, removedLength, insertedLength int)
}

// TextListener receives text inserted/removed events, the hooks document
// markers and spell checking use.
type TextListener interface {
	TextInserted(node *Node, offset, length int)
	TextRemoved(node *Node, offset, length int)
}

// RegisterMutationCallback registers a callback to receive mutation
// notifications for this document.
func (d *Document) RegisterMutationCallback(callback MutationCallback) {
	if callback == nil {
		return
	}
	d.documentData.callbacks = append(d.documentData.callbacks, callback)
}

// UnregisterMutationCallback removes a callback from the document.
func (d *Document) UnregisterMutationCallback(callback MutationCallback) {
	callbacks := d.documentData.callbacks
	for i, cb := range callbacks {
		if cb == callback {
			d.documentData.callbacks = append(callbacks[:i:i], callbacks[i+1:]...)
			return
		}
	}
}

// ClearMutationCallbacks removes all callbacks for the document.
func (d *Document) ClearMutationCallbacks() {
	d.documentData.callbacks = nil
}

// notifyMutation forwards a record to the bus and registered callbacks.
func (d *Document) notifyMutation(record *MutationRecord) {
	if d.documentData.bus != nil {
		d.documentData.bus.NotifyMutation(record)
	}
	for _, cb := range d.documentData.callbacks {
		cb.OnMutation(record)
	}
}

// notifyChildrenChanged forwards a children-changed notification.
func (d *Document) notifyChildrenChanged(owner *Node) {
	if d.documentData.bus != nil {
		d.documentData.bus.NotifyChildrenChanged(owner)
	}
	for _, cb := range d.documentData.callbacks {
		cb.OnChildrenChanged(owner)
	}
}
