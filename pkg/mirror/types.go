package mirror

type Key struct {
	Type string `json:"_type"`
	Key  string `json:"key"`
}

type TokenInfo struct {
	TokenID           string `json:"token_id"`
	Name              string `json:"name"`
	Symbol            string `json:"symbol"`
	Type              string `json:"type"`
	Memo              string `json:"memo"`
	TreasuryAccountID string `json:"treasury_account_id"`
	TotalSupply       string `json:"total_supply"`
	MaxSupply         string `json:"max_supply"`
	SupplyType        string `json:"supply_type"`
	CreatedTimestamp  string `json:"created_timestamp"`
	Deleted           bool   `json:"deleted"`
	AdminKey          *Key   `json:"admin_key"`
	SupplyKey         *Key   `json:"supply_key"`
	MetadataKey       *Key   `json:"metadata_key"`
}

type Nft struct {
	AccountID         string `json:"account_id"`
	CreatedTimestamp  string `json:"created_timestamp"`
	ModifiedTimestamp string `json:"modified_timestamp"`
	Deleted           bool   `json:"deleted"`
	Metadata          string `json:"metadata"`
	SerialNumber      int64  `json:"serial_number"`
	TokenID           string `json:"token_id"`
	Spender           string `json:"spender"`
}

type BlockTimestamp struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Block struct {
	Count        int            `json:"count"`
	Hash         string         `json:"hash"`
	Name         string         `json:"name"`
	Number       int64          `json:"number"`
	PreviousHash string         `json:"previous_hash"`
	Timestamp    BlockTimestamp `json:"timestamp"`
}

type blocksResponse struct {
	Blocks []Block `json:"blocks"`
}

type Transaction struct {
	ChargedTxFee       int64         `json:"charged_tx_fee"`
	ConsensusTimestamp string        `json:"consensus_timestamp"`
	EntityID           *string       `json:"entity_id"`
	Name               string        `json:"name"`
	Node               string        `json:"node"`
	Result             string        `json:"result"`
	TransactionHash    string        `json:"transaction_hash"`
	TransactionID      string        `json:"transaction_id"`
	NftTransfers       []NftTransfer `json:"nft_transfers"`
}

type NftTransfer struct {
	ReceiverAccountID string `json:"receiver_account_id"`
	SenderAccountID   string `json:"sender_account_id"`
	SerialNumber      int64  `json:"serial_number"`
	TokenID           string `json:"token_id"`
	IsApproval        bool   `json:"is_approval"`
}

type transactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
	Links        struct {
		Next string `json:"next"`
	} `json:"links"`
}
