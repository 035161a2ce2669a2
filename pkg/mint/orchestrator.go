package mint

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashgraph-online/asset-publisher-go/pkg/assets"
	"github.com/hashgraph-online/asset-publisher-go/pkg/chain"
	"github.com/hashgraph-online/asset-publisher-go/pkg/descriptor"
	"github.com/hashgraph-online/asset-publisher-go/pkg/logging"
	"github.com/hashgraph-online/asset-publisher-go/pkg/pinning"
	"github.com/hashgraph-online/asset-publisher-go/pkg/publish"
)

// Submitter sends chain calls; *chain.Submitter implements it.
type Submitter interface {
	Submit(ctx context.Context, call chain.Call, expected chain.EventKind) (chain.Receipt, error)
	MetadataLimit() int
	Connection() chain.Connection
	Signer() chain.Signer
}

// Publisher pins a descriptor and its asset; *publish.Assembler implements it.
type Publisher interface {
	Assemble(ctx context.Context, request publish.Request) (publish.Publication, error)
}

// Fetcher reads published content; *pinning.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, locator pinning.Locator) ([]byte, error)
}

type Config struct {
	Submitter Submitter
	Publisher Publisher
	Fetcher   Fetcher
	// Recipient receives minted items; it defaults to the signer's identity.
	Recipient string
	Logger    *logging.Logger
	Metrics   Metrics
}

type Orchestrator struct {
	submitter Submitter
	publisher Publisher
	fetcher   Fetcher
	recipient string
	logger    *logging.Logger
	metrics   Metrics
}

func NewOrchestrator(config Config) (*Orchestrator, error) {
	if config.Submitter == nil {
		return nil, fmt.Errorf("submitter is required")
	}
	if config.Publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	recipient := strings.TrimSpace(config.Recipient)
	if recipient == "" {
		recipient = config.Submitter.Signer().PublicIdentity()
	}
	metrics := config.Metrics
	if metrics == nil {
		metrics = Noop{}
	}
	return &Orchestrator{
		submitter: config.Submitter,
		publisher: config.Publisher,
		fetcher:   config.Fetcher,
		recipient: recipient,
		logger:    logging.OrNop(config.Logger),
		metrics:   metrics,
	}, nil
}

// CreateCollection creates a collection administered by the signer. A
// finalized transaction without a creation event yields a
// *CollectionEventMissingError wrapping chain.ErrExpectedEventMissing.
func (o *Orchestrator) CreateCollection(ctx context.Context, settings chain.CollectionSettings) (CollectionResult, error) {
	admin := o.submitter.Signer().PublicIdentity()
	o.logger.Info("creating collection", "admin", admin, "name", settings.Name)

	receipt, err := o.submitter.Submit(ctx, chain.CreateCollectionCall(admin, settings), chain.EventCollectionCreated)
	if errors.Is(err, chain.ErrExpectedEventMissing) {
		candidates := o.collectionCandidates(ctx)
		o.logger.Warn("collection created without event", "tx", receipt.TxHash, "candidates", len(candidates))
		return CollectionResult{TxHash: receipt.TxHash, Admin: admin}, &CollectionEventMissingError{
			TxHash:     receipt.TxHash,
			Candidates: candidates,
			Err:        err,
		}
	}
	if err != nil {
		return CollectionResult{}, fmt.Errorf("failed to create collection: %w", err)
	}

	o.logger.Info("collection created", "collection_id", receipt.Event.CollectionID, "tx", receipt.TxHash)
	return CollectionResult{CollectionID: receipt.Event.CollectionID, TxHash: receipt.TxHash, Admin: admin}, nil
}

func (o *Orchestrator) collectionCandidates(ctx context.Context) []chain.Event {
	events, err := o.submitter.Connection().LatestBlockEvents(ctx)
	if err != nil {
		o.logger.Warn("failed to read recent events", "error", err)
		return nil
	}
	candidates := make([]chain.Event, 0)
	for _, event := range events {
		if event.Kind == chain.EventCollectionCreated {
			candidates = append(candidates, event)
		}
	}
	return candidates
}

// PublishCollection creates a collection and mints every descriptor of
// request.DescriptorDir into it.
func (o *Orchestrator) PublishCollection(ctx context.Context, request BatchRequest) (BatchResult, error) {
	collection, err := o.CreateCollection(ctx, request.Settings)
	if err != nil {
		return BatchResult{}, err
	}
	return o.MintBatch(ctx, collection.CollectionID, request)
}

// MintBatch mints one item per descriptor in listing order, assigning item
// IDs from request.FirstItemID. Item failures are recorded and do not stop
// the batch; a cancelled context stops it between items.
func (o *Orchestrator) MintBatch(ctx context.Context, collectionID uint64, request BatchRequest) (BatchResult, error) {
	runID := uuid.NewString()
	result := BatchResult{RunID: runID, CollectionID: collectionID}
	logger := o.logger.With("run_id", runID, "collection_id", collectionID)

	paths, err := descriptor.List(request.DescriptorDir)
	if err != nil {
		return result, err
	}
	assetDir := request.AssetDir
	if strings.TrimSpace(assetDir) == "" {
		assetDir = request.DescriptorDir
	}
	logger.Info("starting batch", "descriptors", len(paths), "first_item_id", request.FirstItemID)

	for index, path := range paths {
		if err := ctx.Err(); err != nil {
			logger.Warn("batch interrupted", "completed", len(result.Outcomes), "error", err)
			return result, err
		}
		outcome := o.publishAndMint(ctx, logger, ItemRequest{
			CollectionID:   collectionID,
			ItemID:         request.FirstItemID + uint64(index),
			DescriptorPath: path,
			AssetDir:       assetDir,
		})
		result.Outcomes = append(result.Outcomes, outcome)
	}

	logger.Info("batch finished", "succeeded", result.Succeeded(), "failed", len(result.Failures()))
	return result, nil
}

// MintItem mints a single item. With a descriptor the item is published and
// its metadata set; without one only the mint is submitted. An asset
// without a descriptor is rejected before anything is pinned or submitted.
func (o *Orchestrator) MintItem(ctx context.Context, request ItemRequest) (Outcome, error) {
	logger := o.logger.With("collection_id", request.CollectionID, "item_id", request.ItemID)

	if strings.TrimSpace(request.DescriptorPath) == "" {
		started := time.Now()
		outcome := Outcome{ItemID: request.ItemID}
		if strings.TrimSpace(request.AssetPath) != "" {
			outcome = o.fail(logger, outcome, PhaseLinking, &assets.InputError{
				Code:    assets.AmbiguousInput,
				Path:    request.AssetPath,
				Message: "a descriptor must be provided when an asset is given",
			})
		} else {
			outcome = o.mint(ctx, logger, request, outcome)
		}
		o.complete(outcome, started)
		return outcome, outcome.Err
	}

	outcome := o.publishAndMint(ctx, logger, request)
	return outcome, outcome.Err
}

// SetMetadata publishes the descriptor of an existing item and attaches its
// locator.
func (o *Orchestrator) SetMetadata(ctx context.Context, request ItemRequest) (Outcome, error) {
	started := time.Now()
	logger := o.logger.With("collection_id", request.CollectionID, "item_id", request.ItemID)
	outcome := Outcome{ItemID: request.ItemID, IssuedItemID: request.ItemID, DescriptorPath: request.DescriptorPath}

	publication, failed := o.publish(ctx, logger, request, &outcome)
	if failed {
		o.complete(outcome, started)
		return outcome, outcome.Err
	}
	outcome = o.setMetadata(ctx, logger, request.CollectionID, request.ItemID, publication.MetadataLocator, outcome)
	o.complete(outcome, started)
	return outcome, outcome.Err
}

func (o *Orchestrator) publishAndMint(ctx context.Context, logger *logging.Logger, request ItemRequest) Outcome {
	started := time.Now()
	logger = logger.With("item_id", request.ItemID, "descriptor", filepath.Base(request.DescriptorPath))
	outcome := Outcome{ItemID: request.ItemID, DescriptorPath: request.DescriptorPath}

	publication, failed := o.publish(ctx, logger, request, &outcome)
	if failed {
		o.complete(outcome, started)
		return outcome
	}

	outcome = o.mint(ctx, logger, request, outcome)
	if outcome.Err != nil {
		o.complete(outcome, started)
		return outcome
	}

	outcome = o.setMetadata(ctx, logger, request.CollectionID, outcome.IssuedItemID, publication.MetadataLocator, outcome)
	o.complete(outcome, started)
	return outcome
}

func (o *Orchestrator) publish(
	ctx context.Context,
	logger *logging.Logger,
	request ItemRequest,
	outcome *Outcome,
) (publish.Publication, bool) {
	logger.Debug("publishing descriptor")
	publication, err := o.publisher.Assemble(ctx, publish.Request{
		DescriptorPath: request.DescriptorPath,
		AssetPath:      request.AssetPath,
		AssetDir:       request.AssetDir,
	})
	if err != nil {
		phase := PhaseLinking
		var phaseErr *publish.PhaseError
		if errors.As(err, &phaseErr) {
			phase = Phase(phaseErr.Phase)
		}
		*outcome = o.fail(logger, *outcome, phase, err)
		return publish.Publication{}, true
	}
	outcome.MetadataLocator = publication.MetadataLocator
	logger.Info("descriptor published", "metadata", publication.MetadataLocator, "image", publication.ImageLocator)
	return publication, false
}

func (o *Orchestrator) mint(ctx context.Context, logger *logging.Logger, request ItemRequest, outcome Outcome) Outcome {
	receipt, err := o.submitter.Submit(
		ctx,
		chain.MintItemCall(request.CollectionID, request.ItemID, o.recipient),
		chain.EventItemIssued,
	)
	outcome.MintTxHash = receipt.TxHash
	if errors.Is(err, chain.ErrExpectedEventMissing) {
		outcome.Reconciled = o.reconcile(ctx, chain.ItemKey(request.CollectionID, request.ItemID), nil)
		logger.Warn("mint finalized without issued event", "tx", receipt.TxHash, "reconciled", outcome.Reconciled)
		if outcome.Reconciled != ReconciledPresent {
			return o.fail(logger, outcome, PhaseSubmission, err)
		}
		outcome.Minted = true
		outcome.IssuedItemID = request.ItemID
		return outcome
	}
	if err != nil {
		return o.fail(logger, outcome, PhaseSubmission, err)
	}

	outcome.Minted = true
	outcome.IssuedItemID = receipt.Event.ItemID
	if receipt.Event.ItemID != request.ItemID {
		logger.Warn("chain issued a different item", "requested", request.ItemID, "issued", receipt.Event.ItemID)
	}
	logger.Info("item minted", "tx", receipt.TxHash)
	return outcome
}

func (o *Orchestrator) setMetadata(
	ctx context.Context,
	logger *logging.Logger,
	collectionID uint64,
	itemID uint64,
	locator pinning.Locator,
	outcome Outcome,
) Outcome {
	call, err := chain.SetItemMetadataCall(collectionID, itemID, []byte(locator.String()), o.submitter.MetadataLimit())
	if err != nil {
		return o.fail(logger, outcome, PhaseMetadata, err)
	}

	receipt, err := o.submitter.Submit(ctx, call, chain.EventItemMetadataSet)
	outcome.MetadataTxHash = receipt.TxHash
	if errors.Is(err, chain.ErrExpectedEventMissing) {
		outcome.Reconciled = o.reconcile(ctx, chain.ItemMetadataKey(collectionID, itemID), call.Metadata)
		logger.Warn("metadata finalized without event", "tx", receipt.TxHash, "reconciled", outcome.Reconciled)
		if outcome.Reconciled != ReconciledPresent {
			return o.fail(logger, outcome, PhaseMetadata, err)
		}
		outcome.MetadataSet = true
		return outcome
	}
	if err != nil {
		return o.fail(logger, outcome, PhaseMetadata, err)
	}

	outcome.MetadataSet = true
	logger.Info("metadata set", "metadata", locator, "tx", receipt.TxHash)
	return outcome
}

// reconcile reads key after a missing event. With expected set, the stored
// metadata must match it to count as present.
func (o *Orchestrator) reconcile(ctx context.Context, key chain.StorageKey, expected []byte) Reconciliation {
	entry, err := o.submitter.Connection().StorageRead(ctx, key)
	result := ReconciledUnknown
	switch {
	case err != nil:
		o.logger.Warn("storage read failed", "kind", key.Kind, "error", err)
	case entry == nil:
		result = ReconciledAbsent
	case expected != nil && string(entry.Metadata) != string(expected):
		result = ReconciledAbsent
	default:
		result = ReconciledPresent
	}
	o.metrics.IncReconciled(string(result))
	return result
}

func (o *Orchestrator) fail(logger *logging.Logger, outcome Outcome, phase Phase, err error) Outcome {
	outcome.Phase = phase
	outcome.Err = err
	logger.Error("item failed", "phase", phase, "error", err)
	o.metrics.IncPhaseFailed(string(phase))
	return outcome
}

func (o *Orchestrator) complete(outcome Outcome, started time.Time) {
	o.metrics.ObserveItemDuration(time.Since(started).Seconds())
	if outcome.Err != nil {
		o.metrics.IncItemCompleted("failed")
		return
	}
	o.metrics.IncItemCompleted("succeeded")
}

// InspectCollection reads a collection's chain state. A collection that
// does not exist is reported with Exists false and no error.
func (o *Orchestrator) InspectCollection(ctx context.Context, collectionID uint64) (CollectionInfo, error) {
	info := CollectionInfo{CollectionID: collectionID}
	entry, err := o.submitter.Connection().StorageRead(ctx, chain.CollectionKey(collectionID))
	if err != nil {
		return info, err
	}
	if entry == nil {
		return info, nil
	}
	info.Exists = true
	info.Owner = entry.Owner
	info.Deleted = entry.Deleted
	info.Attributes = entry.Attributes
	info.Name = entry.Attributes["name"]
	info.Symbol = entry.Attributes["symbol"]
	info.Memo = entry.Attributes["memo"]
	info.TotalSupply = entry.Attributes["total_supply"]
	info.MaxSupply = entry.Attributes["max_supply"]
	return info, nil
}

// InspectItem reads an item's chain state and, when fetch is set, the
// descriptor its metadata points at.
func (o *Orchestrator) InspectItem(ctx context.Context, collectionID uint64, itemID uint64, fetch bool) (ItemInfo, error) {
	info := ItemInfo{CollectionID: collectionID, ItemID: itemID}
	connection := o.submitter.Connection()

	item, err := connection.StorageRead(ctx, chain.ItemKey(collectionID, itemID))
	if err != nil {
		return info, err
	}
	if item == nil {
		return info, nil
	}
	info.Exists = true
	info.Owner = item.Owner

	metadata := item.Metadata
	if len(metadata) == 0 {
		entry, err := connection.StorageRead(ctx, chain.ItemMetadataKey(collectionID, itemID))
		if err != nil {
			return info, err
		}
		if entry != nil {
			metadata = entry.Metadata
		}
	}
	info.MetadataLocator = string(metadata)

	if !fetch || info.MetadataLocator == "" {
		return info, nil
	}
	if o.fetcher == nil {
		return info, fmt.Errorf("no content fetcher configured")
	}
	document, err := o.fetcher.Fetch(ctx, pinning.Locator(info.MetadataLocator))
	if err != nil {
		return info, fmt.Errorf("failed to fetch item metadata: %w", err)
	}
	info.Document = document
	parsed, err := descriptor.Parse(document, ".json")
	if err != nil {
		return info, fmt.Errorf("failed to parse item metadata: %w", err)
	}
	info.Descriptor = parsed
	return info, nil
}
