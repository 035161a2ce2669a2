package hederachain

import (
	"fmt"
	"strings"

	"github.com/hashgraph-online/asset-publisher-go/pkg/chain"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

const (
	// MetadataLimit is the largest NFT metadata payload Hedera accepts.
	MetadataLimit = 100

	maxTokenSymbolLength = 100
)

func BuildCreateCollectionTx(
	treasury hedera.AccountID,
	key hedera.PublicKey,
	settings chain.CollectionSettings,
) (*hedera.TokenCreateTransaction, error) {
	name := strings.TrimSpace(settings.Name)
	if name == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	symbol := strings.TrimSpace(settings.Symbol)
	if symbol == "" {
		symbol = strings.ToUpper(strings.ReplaceAll(name, " ", ""))
	}
	if len(symbol) > maxTokenSymbolLength {
		symbol = symbol[:maxTokenSymbolLength]
	}
	if settings.MaxSupply < 0 {
		return nil, fmt.Errorf("max supply must not be negative")
	}

	transaction := hedera.NewTokenCreateTransaction().
		SetTokenName(name).
		SetTokenSymbol(symbol).
		SetTokenType(hedera.TokenTypeNonFungibleUnique).
		SetDecimals(0).
		SetInitialSupply(0).
		SetTreasuryAccountID(treasury).
		SetAdminKey(key).
		SetSupplyKey(key).
		SetMetadataKey(key)

	if settings.MaxSupply > 0 {
		transaction.SetSupplyType(hedera.TokenSupplyTypeFinite).SetMaxSupply(settings.MaxSupply)
	} else {
		transaction.SetSupplyType(hedera.TokenSupplyTypeInfinite)
	}
	if memo := strings.TrimSpace(settings.Memo); memo != "" {
		transaction.SetTokenMemo(memo)
	}

	return transaction, nil
}

// BuildMintItemTx mints one NFT with empty metadata; the metadata is set by
// a follow-up TokenUpdateNfts transaction.
func BuildMintItemTx(tokenID hedera.TokenID) *hedera.TokenMintTransaction {
	return hedera.NewTokenMintTransaction().
		SetTokenID(tokenID).
		SetMetadata([]byte{})
}

// SerialForItem maps an item ID to its NFT serial number.
func SerialForItem(itemID uint64) int64 {
	return int64(itemID) + 1
}

// ItemForSerial maps an NFT serial number back to its item ID.
func ItemForSerial(serial int64) (uint64, error) {
	if serial <= 0 {
		return 0, fmt.Errorf("serial number must be positive, got %d", serial)
	}
	return uint64(serial - 1), nil
}
