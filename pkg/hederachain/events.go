package hederachain

import (
	"github.com/hashgraph-online/asset-publisher-go/pkg/chain"
	"github.com/hashgraph-online/asset-publisher-go/pkg/mirror"
)

const receiptSuccess = "SUCCESS"

// finalizedUpdate turns a receipt into the final status update for call.
func finalizedUpdate(call chain.Call, receipt receiptView, treasury string) chain.StatusUpdate {
	update := chain.StatusUpdate{Status: chain.StatusFinalized, TxHash: receipt.TransactionID}
	if receipt.Status != receiptSuccess {
		update.DispatchError = receipt.Status
		return update
	}
	update.Events = eventsFromReceipt(call, receipt, treasury)
	return update
}

func eventsFromReceipt(call chain.Call, receipt receiptView, treasury string) []chain.Event {
	switch call.Kind {
	case chain.CallCreateCollection:
		if receipt.TokenNum == nil {
			return nil
		}
		return []chain.Event{{
			Kind:         chain.EventCollectionCreated,
			CollectionID: *receipt.TokenNum,
			Owner:        treasury,
			TxHash:       receipt.TransactionID,
		}}

	case chain.CallMintItem:
		events := make([]chain.Event, 0, len(receipt.SerialNumbers))
		for _, serial := range receipt.SerialNumbers {
			itemID, err := ItemForSerial(serial)
			if err != nil {
				continue
			}
			events = append(events, chain.Event{
				Kind:         chain.EventItemIssued,
				CollectionID: call.CollectionID,
				ItemID:       itemID,
				Owner:        treasury,
				TxHash:       receipt.TransactionID,
			})
		}
		return events

	case chain.CallSetItemMetadata:
		return []chain.Event{{
			Kind:         chain.EventItemMetadataSet,
			CollectionID: call.CollectionID,
			ItemID:       call.ItemID,
			TxHash:       receipt.TransactionID,
			Attributes:   map[string]string{"metadata": string(call.Metadata)},
		}}

	default:
		return nil
	}
}

// eventsFromTransactions maps successful mirror node token transactions to
// domain events.
func eventsFromTransactions(transactions []mirror.Transaction) []chain.Event {
	events := make([]chain.Event, 0)
	for _, transaction := range transactions {
		if transaction.Result != receiptSuccess {
			continue
		}
		switch transaction.Name {
		case "TOKENCREATION":
			collectionID, ok := entityCollectionID(transaction.EntityID)
			if !ok {
				continue
			}
			events = append(events, chain.Event{
				Kind:         chain.EventCollectionCreated,
				CollectionID: collectionID,
				TxHash:       transaction.TransactionID,
			})
		case "TOKENMINT":
			for _, transfer := range transaction.NftTransfers {
				if transfer.SenderAccountID != "" {
					continue
				}
				collectionID, err := CollectionID(transfer.TokenID)
				if err != nil {
					continue
				}
				itemID, err := ItemForSerial(transfer.SerialNumber)
				if err != nil {
					continue
				}
				events = append(events, chain.Event{
					Kind:         chain.EventItemIssued,
					CollectionID: collectionID,
					ItemID:       itemID,
					Owner:        transfer.ReceiverAccountID,
					TxHash:       transaction.TransactionID,
				})
			}
		case "TOKENUPDATENFTS":
			collectionID, ok := entityCollectionID(transaction.EntityID)
			if !ok {
				continue
			}
			events = append(events, chain.Event{
				Kind:         chain.EventItemMetadataSet,
				CollectionID: collectionID,
				TxHash:       transaction.TransactionID,
			})
		}
	}
	return events
}

func entityCollectionID(entityID *string) (uint64, bool) {
	if entityID == nil {
		return 0, false
	}
	collectionID, err := CollectionID(*entityID)
	if err != nil {
		return 0, false
	}
	return collectionID, true
}
