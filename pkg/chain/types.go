package chain

import (
	"context"
	"fmt"
	"strings"
)

type CallKind string

const (
	CallCreateCollection CallKind = "create_collection"
	CallMintItem         CallKind = "mint_item"
	CallSetItemMetadata  CallKind = "set_item_metadata"
)

type EventKind string

const (
	EventCollectionCreated EventKind = "collection_created"
	EventItemIssued        EventKind = "item_issued"
	EventItemMetadataSet   EventKind = "item_metadata_set"
)

// DefaultMetadataLimit is the largest metadata payload accepted when no
// limit is configured.
const DefaultMetadataLimit = 100

// CollectionSettings configures a new collection. Zero MaxSupply means
// unbounded.
type CollectionSettings struct {
	Name      string
	Symbol    string
	Memo      string
	MaxSupply int64
}

// Call is a chain operation before it is encoded by a Connection.
type Call struct {
	Kind         CallKind
	CollectionID uint64
	ItemID       uint64
	Admin        string
	Recipient    string
	Metadata     []byte
	Settings     CollectionSettings
}

func (c Call) String() string {
	switch c.Kind {
	case CallCreateCollection:
		return fmt.Sprintf("%s(admin=%s)", c.Kind, c.Admin)
	case CallMintItem:
		return fmt.Sprintf("%s(collection=%d, item=%d, recipient=%s)", c.Kind, c.CollectionID, c.ItemID, c.Recipient)
	default:
		return fmt.Sprintf("%s(collection=%d, item=%d, bytes=%d)", c.Kind, c.CollectionID, c.ItemID, len(c.Metadata))
	}
}

// CreateCollectionCall creates a collection administered by admin.
func CreateCollectionCall(admin string, settings CollectionSettings) Call {
	return Call{Kind: CallCreateCollection, Admin: strings.TrimSpace(admin), Settings: settings}
}

// MintItemCall issues itemID of collectionID to recipient.
func MintItemCall(collectionID, itemID uint64, recipient string) Call {
	return Call{
		Kind:         CallMintItem,
		CollectionID: collectionID,
		ItemID:       itemID,
		Recipient:    strings.TrimSpace(recipient),
	}
}

// SetItemMetadataCall attaches metadata (normally a content locator) to an
// item. Payloads longer than limit fail with ErrMetadataTooLong; a
// non-positive limit means DefaultMetadataLimit.
func SetItemMetadataCall(collectionID, itemID uint64, metadata []byte, limit int) (Call, error) {
	if err := CheckMetadata(metadata, limit); err != nil {
		return Call{}, err
	}
	return Call{
		Kind:         CallSetItemMetadata,
		CollectionID: collectionID,
		ItemID:       itemID,
		Metadata:     append([]byte(nil), metadata...),
	}, nil
}

// CheckMetadata enforces the metadata bound.
func CheckMetadata(metadata []byte, limit int) error {
	if limit <= 0 {
		limit = DefaultMetadataLimit
	}
	if len(metadata) == 0 {
		return fmt.Errorf("metadata is required")
	}
	if len(metadata) > limit {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrMetadataTooLong, len(metadata), limit)
	}
	return nil
}

// Event is a domain event emitted by a finalized transaction.
type Event struct {
	Kind         EventKind
	CollectionID uint64
	ItemID       uint64
	Owner        string
	TxHash       string
	Attributes   map[string]string
}

func FindEvent(events []Event, kind EventKind) (Event, bool) {
	for _, event := range events {
		if event.Kind == kind {
			return event, true
		}
	}
	return Event{}, false
}

type TxStatus string

const (
	StatusBroadcast TxStatus = "broadcast"
	StatusInBlock   TxStatus = "in_block"
	StatusFinalized TxStatus = "finalized"
	StatusInvalid   TxStatus = "invalid"
	StatusDropped   TxStatus = "dropped"
	StatusUsurped   TxStatus = "usurped"
	StatusError     TxStatus = "error"
)

// StatusUpdate is one step of a transaction's progress stream. Events and
// DispatchError are meaningful once the transaction is in a block.
type StatusUpdate struct {
	Status        TxStatus
	TxHash        string
	BlockHash     string
	Events        []Event
	DispatchError string
	Reason        string
	Err           error
}

type StorageKind string

const (
	StorageCollection   StorageKind = "collection"
	StorageItem         StorageKind = "item"
	StorageItemMetadata StorageKind = "item_metadata"
)

type StorageKey struct {
	Kind         StorageKind
	CollectionID uint64
	ItemID       uint64
}

func CollectionKey(collectionID uint64) StorageKey {
	return StorageKey{Kind: StorageCollection, CollectionID: collectionID}
}

func ItemKey(collectionID, itemID uint64) StorageKey {
	return StorageKey{Kind: StorageItem, CollectionID: collectionID, ItemID: itemID}
}

func ItemMetadataKey(collectionID, itemID uint64) StorageKey {
	return StorageKey{Kind: StorageItemMetadata, CollectionID: collectionID, ItemID: itemID}
}

// StorageEntry is the decoded value of a storage read.
type StorageEntry struct {
	Owner      string
	Metadata   []byte
	Deleted    bool
	Attributes map[string]string
}

// Connection is an authenticated link to the chain.
type Connection interface {
	Build(ctx context.Context, call Call, payer string) (*Envelope, error)
	SubmitSigned(ctx context.Context, envelope *Envelope) (<-chan StatusUpdate, error)
	// StorageRead returns nil when the key holds no value.
	StorageRead(ctx context.Context, key StorageKey) (*StorageEntry, error)
	LatestBlockEvents(ctx context.Context) ([]Event, error)
}

// Signer produces signatures for the paying account.
type Signer interface {
	PublicIdentity() string
	Sign(payload []byte) []byte
}
