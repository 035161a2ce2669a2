package hederachain

import "net/http"

type Config struct {
	Network       string
	MirrorBaseURL string
	MirrorAPIKey  string
	HTTPClient    *http.Client
	// ShardNum and RealmNum locate collection tokens; collection IDs carry
	// only the token number.
	ShardNum uint64
	RealmNum uint64
}

// receiptView is the part of a transaction receipt that events derive from.
type receiptView struct {
	TransactionID string
	Status        string
	TokenNum      *uint64
	SerialNumbers []int64
}
