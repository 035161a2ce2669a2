package hederachain

import (
	"testing"

	"github.com/hashgraph-online/asset-publisher-go/pkg/chain"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

func TestBuildCreateCollectionTx(t *testing.T) {
	treasury, _ := hedera.AccountIDFromString("0.0.1001")
	privateKey, _ := hedera.PrivateKeyGenerateEd25519()

	transaction, err := BuildCreateCollectionTx(treasury, privateKey.PublicKey(), chain.CollectionSettings{
		Name:      "Night Gallery",
		Memo:      "launch",
		MaxSupply: 50,
	})
	if err != nil {
		t.Fatalf("BuildCreateCollectionTx failed: %v", err)
	}
	if transaction.GetTokenName() != "Night Gallery" {
		t.Fatalf("unexpected token name: %s", transaction.GetTokenName())
	}
	if transaction.GetTokenSymbol() != "NIGHTGALLERY" {
		t.Fatalf("unexpected derived symbol: %s", transaction.GetTokenSymbol())
	}
	if transaction.GetTreasuryAccountID().String() != "0.0.1001" {
		t.Fatalf("unexpected treasury: %s", transaction.GetTreasuryAccountID().String())
	}
	if transaction.GetTokenMemo() != "launch" {
		t.Fatalf("unexpected memo: %s", transaction.GetTokenMemo())
	}
	if transaction.GetMaxSupply() != 50 {
		t.Fatalf("unexpected max supply: %d", transaction.GetMaxSupply())
	}
}

func TestBuildCreateCollectionTxValidation(t *testing.T) {
	treasury, _ := hedera.AccountIDFromString("0.0.1001")
	privateKey, _ := hedera.PrivateKeyGenerateEd25519()

	if _, err := BuildCreateCollectionTx(treasury, privateKey.PublicKey(), chain.CollectionSettings{}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := BuildCreateCollectionTx(treasury, privateKey.PublicKey(), chain.CollectionSettings{Name: "x", MaxSupply: -1}); err == nil {
		t.Fatal("expected error for negative max supply")
	}
}

func TestBuildMintItemTx(t *testing.T) {
	tokenID, _ := hedera.TokenIDFromString("0.0.4321")
	transaction := BuildMintItemTx(tokenID)
	if transaction.GetTokenID().String() != "0.0.4321" {
		t.Fatalf("unexpected token ID: %s", transaction.GetTokenID().String())
	}
	metadata := transaction.GetMetadatas()
	if len(metadata) != 1 || len(metadata[0]) != 0 {
		t.Fatalf("expected a single empty metadata entry, got %v", metadata)
	}
}

func TestSerialMapping(t *testing.T) {
	if SerialForItem(0) != 1 || SerialForItem(41) != 42 {
		t.Fatal("unexpected serial mapping")
	}
	itemID, err := ItemForSerial(42)
	if err != nil || itemID != 41 {
		t.Fatalf("unexpected item mapping: %d %v", itemID, err)
	}
	if _, err := ItemForSerial(0); err == nil {
		t.Fatal("expected error for serial 0")
	}
}
