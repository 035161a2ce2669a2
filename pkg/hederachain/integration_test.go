package hederachain

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hashgraph-online/asset-publisher-go/pkg/chain"
	"github.com/hashgraph-online/asset-publisher-go/pkg/shared"
)

func TestHederaChainIntegration_CreateMintAndSetMetadata(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION") != "1" {
		t.Skip("set RUN_INTEGRATION=1 to run live integration tests")
	}

	operatorConfig, err := shared.OperatorConfigFromEnv()
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}
	if strings.EqualFold(operatorConfig.Network, shared.NetworkMainnet) && os.Getenv("ALLOW_MAINNET_INTEGRATION") != "1" {
		t.Skip("resolved mainnet credentials; set ALLOW_MAINNET_INTEGRATION=1 to allow live mainnet writes")
	}

	signer, err := KeySignerFromOperator(operatorConfig)
	if err != nil {
		t.Fatalf("failed to build signer: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	connection, err := Dial(ctx, Config{Network: operatorConfig.Network}, signer)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer connection.Close()

	submitter, err := chain.NewSubmitter(connection, signer, chain.SubmitterConfig{MetadataLimit: MetadataLimit})
	if err != nil {
		t.Fatalf("NewSubmitter failed: %v", err)
	}

	created, err := submitter.Submit(ctx, chain.CreateCollectionCall(signer.PublicIdentity(), chain.CollectionSettings{
		Name:   "asset-publisher integration",
		Symbol: "APINT",
	}), chain.EventCollectionCreated)
	if err != nil {
		t.Fatalf("create collection failed: %v", err)
	}
	collectionID := created.Event.CollectionID
	t.Logf("created collection %d in %s", collectionID, created.TxHash)

	minted, err := submitter.Submit(ctx, chain.MintItemCall(collectionID, 0, signer.PublicIdentity()), chain.EventItemIssued)
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if minted.Event.ItemID != 0 {
		t.Fatalf("expected item 0, got %d", minted.Event.ItemID)
	}

	metadataCall, err := chain.SetItemMetadataCall(collectionID, 0, []byte("ipfs://bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy"), MetadataLimit)
	if err != nil {
		t.Fatalf("failed to build metadata call: %v", err)
	}
	if _, err := submitter.Submit(ctx, metadataCall, chain.EventItemMetadataSet); err != nil {
		t.Fatalf("set metadata failed: %v", err)
	}

	var entry *chain.StorageEntry
	for attempt := 0; attempt < 10; attempt++ {
		entry, err = connection.StorageRead(ctx, chain.ItemMetadataKey(collectionID, 0))
		if err == nil && entry != nil {
			break
		}
		time.Sleep(3 * time.Second)
	}
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("storage read failed: %v", err)
	}
	if entry == nil {
		t.Fatal("expected mirror node to report item metadata")
	}
	if !strings.HasPrefix(string(entry.Metadata), "ipfs://") {
		t.Fatalf("unexpected metadata: %q", entry.Metadata)
	}
}
