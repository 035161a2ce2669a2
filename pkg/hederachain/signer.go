package hederachain

import (
	"fmt"
	"strings"

	"github.com/hashgraph-online/asset-publisher-go/pkg/shared"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// KeySigner signs with an operator private key. Its public identity is the
// operator account ID.
type KeySigner struct {
	accountID  hedera.AccountID
	privateKey hedera.PrivateKey
}

func NewKeySigner(accountID string, privateKey string) (*KeySigner, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, fmt.Errorf("operator account ID is required")
	}
	parsedAccountID, err := hedera.AccountIDFromString(strings.TrimSpace(accountID))
	if err != nil {
		return nil, fmt.Errorf("invalid operator account ID: %w", err)
	}
	parsedKey, err := shared.ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	return &KeySigner{accountID: parsedAccountID, privateKey: parsedKey}, nil
}

// KeySignerFromOperator builds a signer from resolved operator credentials.
func KeySignerFromOperator(config shared.OperatorConfig) (*KeySigner, error) {
	return NewKeySigner(config.AccountID, config.PrivateKey)
}

func (s *KeySigner) PublicIdentity() string {
	return s.accountID.String()
}

func (s *KeySigner) Sign(payload []byte) []byte {
	return s.privateKey.Sign(payload)
}

func (s *KeySigner) AccountID() hedera.AccountID {
	return s.accountID
}

func (s *KeySigner) PublicKey() hedera.PublicKey {
	return s.privateKey.PublicKey()
}
