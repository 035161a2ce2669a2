package hederachain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashgraph-online/asset-publisher-go/pkg/chain"
	"github.com/hashgraph-online/asset-publisher-go/pkg/mirror"
	"github.com/hashgraph-online/asset-publisher-go/pkg/shared"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// Connection implements chain.Connection for Hedera.
type Connection struct {
	hederaClient *hedera.Client
	mirrorClient *mirror.Client
	treasury     hedera.AccountID
	network      string
	shardNum     uint64
	realmNum     uint64
}

type hederaSigner interface {
	chain.Signer
	PublicKey() hedera.PublicKey
}

// Dial opens a Connection whose operator and treasury is signer's account.
func Dial(ctx context.Context, config Config, signer *KeySigner) (*Connection, error) {
	if signer == nil {
		return nil, fmt.Errorf("signer is required")
	}
	network, err := shared.NormalizeNetwork(config.Network)
	if err != nil {
		return nil, err
	}

	mirrorClient, err := mirror.NewClient(mirror.Config{
		Network:    network,
		BaseURL:    config.MirrorBaseURL,
		APIKey:     config.MirrorAPIKey,
		HTTPClient: config.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	hederaClient, err := shared.NewHederaClient(network)
	if err != nil {
		return nil, err
	}
	hederaClient.SetOperatorWith(signer.AccountID(), signer.PublicKey(), signer.Sign)

	return newConnection(hederaClient, mirrorClient, signer.AccountID(), network, config), nil
}

func newConnection(
	hederaClient *hedera.Client,
	mirrorClient *mirror.Client,
	treasury hedera.AccountID,
	network string,
	config Config,
) *Connection {
	return &Connection{
		hederaClient: hederaClient,
		mirrorClient: mirrorClient,
		treasury:     treasury,
		network:      network,
		shardNum:     config.ShardNum,
		realmNum:     config.RealmNum,
	}
}

func (c *Connection) Network() string {
	return c.network
}

func (c *Connection) Close() error {
	if c.hederaClient == nil {
		return nil
	}
	return c.hederaClient.Close()
}

// TokenID maps a collection ID to its token.
func (c *Connection) TokenID(collectionID uint64) hedera.TokenID {
	return hedera.TokenID{Shard: c.shardNum, Realm: c.realmNum, Token: collectionID}
}

// CollectionID maps a token ID string ("0.0.1234") to its collection ID.
func CollectionID(tokenID string) (uint64, error) {
	parsed, err := hedera.TokenIDFromString(strings.TrimSpace(tokenID))
	if err != nil {
		return 0, fmt.Errorf("invalid token ID: %w", err)
	}
	return parsed.Token, nil
}

// Build freezes the Hedera transaction for call with payer as the paying
// account. The payer must be the collection treasury.
func (c *Connection) Build(ctx context.Context, call chain.Call, payer string) (*chain.Envelope, error) {
	payerID, err := hedera.AccountIDFromString(strings.TrimSpace(payer))
	if err != nil {
		return nil, fmt.Errorf("invalid payer account ID: %w", err)
	}
	if payerID.String() != c.treasury.String() {
		return nil, fmt.Errorf("payer %s is not the treasury account %s", payerID.String(), c.treasury.String())
	}
	transactionID := hedera.TransactionIDGenerate(payerID)

	switch call.Kind {
	case chain.CallCreateCollection:
		if call.Admin != "" && call.Admin != c.treasury.String() {
			return nil, fmt.Errorf("collection admin %s must be the treasury account %s", call.Admin, c.treasury.String())
		}
		adminKey := c.hederaClient.GetOperatorPublicKey()
		transaction, err := BuildCreateCollectionTx(c.treasury, adminKey, call.Settings)
		if err != nil {
			return nil, err
		}
		frozen, err := transaction.SetTransactionID(transactionID).FreezeWith(c.hederaClient)
		if err != nil {
			return nil, fmt.Errorf("failed to freeze create collection transaction: %w", err)
		}
		payload, err := frozen.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("failed to encode transaction: %w", err)
		}
		return c.envelope(call, payload, frozen, func(key hedera.PublicKey, signer chain.Signer) any {
			return frozen.SignWith(key, signer.Sign)
		}), nil

	case chain.CallMintItem:
		if call.Recipient != "" && call.Recipient != c.treasury.String() {
			return nil, fmt.Errorf("recipient %s must be the treasury account %s", call.Recipient, c.treasury.String())
		}
		frozen, err := BuildMintItemTx(c.TokenID(call.CollectionID)).
			SetTransactionID(transactionID).
			FreezeWith(c.hederaClient)
		if err != nil {
			return nil, fmt.Errorf("failed to freeze mint transaction: %w", err)
		}
		payload, err := frozen.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("failed to encode transaction: %w", err)
		}
		return c.envelope(call, payload, frozen, func(key hedera.PublicKey, signer chain.Signer) any {
			return frozen.SignWith(key, signer.Sign)
		}), nil

	case chain.CallSetItemMetadata:
		if err := chain.CheckMetadata(call.Metadata, MetadataLimit); err != nil {
			return nil, err
		}
		frozen, err := hedera.NewTokenUpdateNftsTransaction().
			SetTokenID(c.TokenID(call.CollectionID)).
			SetSerialNumbers([]int64{SerialForItem(call.ItemID)}).
			SetMetadata(call.Metadata).
			SetTransactionID(transactionID).
			FreezeWith(c.hederaClient)
		if err != nil {
			return nil, fmt.Errorf("failed to freeze metadata update transaction: %w", err)
		}
		payload, err := frozen.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("failed to encode transaction: %w", err)
		}
		return c.envelope(call, payload, frozen, func(key hedera.PublicKey, signer chain.Signer) any {
			return frozen.SignWith(key, signer.Sign)
		}), nil

	default:
		return nil, fmt.Errorf("unsupported call kind %q", call.Kind)
	}
}

func (c *Connection) envelope(
	call chain.Call,
	payload []byte,
	frozen any,
	sign func(key hedera.PublicKey, signer chain.Signer) any,
) *chain.Envelope {
	return chain.NewEnvelope(call, payload, frozen, func(_ any, signer chain.Signer) (any, error) {
		keyed, ok := signer.(hederaSigner)
		if !ok {
			return nil, fmt.Errorf("signer %s does not expose a Hedera public key", signer.PublicIdentity())
		}
		return sign(keyed.PublicKey(), signer), nil
	})
}

// SubmitSigned executes the transaction. Precheck failures are returned
// directly; the receipt is awaited in the background and reported on the
// returned channel.
func (c *Connection) SubmitSigned(ctx context.Context, envelope *chain.Envelope) (<-chan chain.StatusUpdate, error) {
	if envelope == nil || envelope.State() != chain.StateSigned {
		return nil, fmt.Errorf("%w: envelope must be signed", chain.ErrInvalidState)
	}

	response, err := hedera.TransactionExecute(envelope.Native, c.hederaClient)
	if err != nil {
		return nil, classifyExecuteError(err)
	}
	transactionID := response.TransactionID.String()

	updates := make(chan chain.StatusUpdate, 2)
	updates <- chain.StatusUpdate{Status: chain.StatusBroadcast, TxHash: transactionID}

	go func() {
		defer close(updates)
		receipt, receiptErr := response.GetReceipt(c.hederaClient)
		if receiptErr != nil {
			var receiptStatus hedera.ErrHederaReceiptStatus
			if errors.As(receiptErr, &receiptStatus) {
				updates <- chain.StatusUpdate{
					Status:        chain.StatusFinalized,
					TxHash:        transactionID,
					DispatchError: receiptStatus.Status.String(),
				}
				return
			}
			updates <- chain.StatusUpdate{Status: chain.StatusError, TxHash: transactionID, Err: receiptErr}
			return
		}

		view := receiptView{
			TransactionID: transactionID,
			Status:        receipt.Status.String(),
			SerialNumbers: receipt.SerialNumbers,
		}
		if receipt.TokenID != nil {
			tokenNum := receipt.TokenID.Token
			view.TokenNum = &tokenNum
		}
		updates <- finalizedUpdate(envelope.Call, view, c.treasury.String())
	}()

	return updates, nil
}

func classifyExecuteError(err error) error {
	var precheck hedera.ErrHederaPreCheckStatus
	if errors.As(err, &precheck) {
		return &chain.RejectedError{Status: chain.StatusInvalid, Reason: precheck.Status.String()}
	}
	return &chain.TransportError{Op: "execute transaction", Err: err}
}

// StorageRead answers collection and item queries from the mirror node.
func (c *Connection) StorageRead(ctx context.Context, key chain.StorageKey) (*chain.StorageEntry, error) {
	tokenID := c.TokenID(key.CollectionID).String()

	switch key.Kind {
	case chain.StorageCollection:
		token, err := c.mirrorClient.GetToken(ctx, tokenID)
		if err != nil {
			return nil, &chain.TransportError{Op: "read collection " + tokenID, Err: err}
		}
		if token == nil {
			return nil, nil
		}
		return &chain.StorageEntry{
			Owner:   token.TreasuryAccountID,
			Deleted: token.Deleted,
			Attributes: map[string]string{
				"name":         token.Name,
				"symbol":       token.Symbol,
				"total_supply": token.TotalSupply,
				"max_supply":   token.MaxSupply,
				"memo":         token.Memo,
				"token_id":     token.TokenID,
			},
		}, nil

	case chain.StorageItem, chain.StorageItemMetadata:
		nft, err := c.mirrorClient.GetNft(ctx, tokenID, SerialForItem(key.ItemID))
		if err != nil {
			return nil, &chain.TransportError{Op: fmt.Sprintf("read item %s/%d", tokenID, key.ItemID), Err: err}
		}
		if nft == nil {
			return nil, nil
		}
		metadata, err := mirror.DecodeNftMetadata(*nft)
		if err != nil {
			return nil, fmt.Errorf("failed to decode item metadata: %w", err)
		}
		if key.Kind == chain.StorageItemMetadata && len(metadata) == 0 {
			return nil, nil
		}
		return &chain.StorageEntry{
			Owner:    nft.AccountID,
			Metadata: metadata,
			Deleted:  nft.Deleted,
			Attributes: map[string]string{
				"token_id":      nft.TokenID,
				"serial_number": fmt.Sprintf("%d", nft.SerialNumber),
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage kind %q", key.Kind)
	}
}

// LatestBlockEvents derives domain events from the transactions of the most
// recent mirror node block.
func (c *Connection) LatestBlockEvents(ctx context.Context) ([]chain.Event, error) {
	block, err := c.mirrorClient.GetLatestBlock(ctx)
	if err != nil {
		return nil, &chain.TransportError{Op: "read latest block", Err: err}
	}
	if block == nil {
		return nil, nil
	}
	transactions, err := c.mirrorClient.GetBlockTransactions(ctx, *block)
	if err != nil {
		return nil, &chain.TransportError{Op: "read block transactions", Err: err}
	}
	return eventsFromTransactions(transactions), nil
}
