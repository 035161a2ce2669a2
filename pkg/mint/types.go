package mint

import (
	"fmt"
	"strings"

	"github.com/hashgraph-online/asset-publisher-go/pkg/chain"
	"github.com/hashgraph-online/asset-publisher-go/pkg/descriptor"
	"github.com/hashgraph-online/asset-publisher-go/pkg/pinning"
	"github.com/hashgraph-online/asset-publisher-go/pkg/publish"
)

type Phase string

const (
	PhaseLinking    Phase = Phase(publish.PhaseLinking)
	PhasePinning    Phase = Phase(publish.PhasePinning)
	PhaseSubmission Phase = "submission"
	PhaseMetadata   Phase = "metadata"
)

// Reconciliation is the storage state observed after a transaction
// finalized without its expected event.
type Reconciliation string

const (
	ReconciledPresent Reconciliation = "present"
	ReconciledAbsent  Reconciliation = "absent"
	ReconciledUnknown Reconciliation = "unknown"
)

type BatchRequest struct {
	DescriptorDir string
	// AssetDir defaults to DescriptorDir.
	AssetDir    string
	Settings    chain.CollectionSettings
	FirstItemID uint64
}

type ItemRequest struct {
	CollectionID   uint64
	ItemID         uint64
	DescriptorPath string
	AssetPath      string
	AssetDir       string
}

// Outcome is the result of one item. Err is nil on success; otherwise Phase
// names the failed step.
type Outcome struct {
	ItemID uint64
	// IssuedItemID is the item the chain reported as issued.
	IssuedItemID    uint64
	DescriptorPath  string
	MetadataLocator pinning.Locator
	Minted          bool
	MetadataSet     bool
	MintTxHash      string
	MetadataTxHash  string
	Phase           Phase
	Err             error
	Reconciled      Reconciliation
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

type BatchResult struct {
	RunID        string
	CollectionID uint64
	Outcomes     []Outcome
}

func (r BatchResult) Succeeded() int {
	count := 0
	for _, outcome := range r.Outcomes {
		if outcome.Succeeded() {
			count++
		}
	}
	return count
}

func (r BatchResult) Failures() []Outcome {
	failures := make([]Outcome, 0)
	for _, outcome := range r.Outcomes {
		if !outcome.Succeeded() {
			failures = append(failures, outcome)
		}
	}
	return failures
}

type CollectionResult struct {
	CollectionID uint64
	TxHash       string
	Admin        string
}

// CollectionEventMissingError reports a finalized create-collection
// transaction without a collection-created event. Candidates lists recent
// collection events for the operator to inspect; none of them is assumed to
// be the new collection.
type CollectionEventMissingError struct {
	TxHash     string
	Candidates []chain.Event
	Err        error
}

func (e *CollectionEventMissingError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("collection transaction %s finalized without a creation event: %v", e.TxHash, e.Err)
	}
	ids := make([]string, 0, len(e.Candidates))
	for _, candidate := range e.Candidates {
		ids = append(ids, fmt.Sprintf("%d", candidate.CollectionID))
	}
	return fmt.Sprintf(
		"collection transaction %s finalized without a creation event (recent candidates: %s): %v",
		e.TxHash,
		strings.Join(ids, ", "),
		e.Err,
	)
}

func (e *CollectionEventMissingError) Unwrap() error {
	return e.Err
}

// ItemInfo is the on-chain state of an item and, when fetched, its
// published descriptor.
type ItemInfo struct {
	CollectionID    uint64
	ItemID          uint64
	Exists          bool
	Owner           string
	MetadataLocator string
	Document        []byte
	Descriptor      *descriptor.Descriptor
}

// CollectionInfo is the on-chain state of a collection. Supplies are kept
// as reported by the chain.
type CollectionInfo struct {
	CollectionID uint64
	Exists       bool
	Owner        string
	Deleted      bool
	Name         string
	Symbol       string
	Memo         string
	TotalSupply  string
	MaxSupply    string
	Attributes   map[string]string
}
