package client

import (
	"encoding/hex"
	"strings"

	"github.com/ballotchain/ballot-node/core/transaction"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/btcsuite/btcd/btcec"
	"github.com/pkg/errors"
)

// Signer holds the secp256k1 key of an owner or a voter
type Signer struct {
	key *btcec.PrivateKey
}

// GenerateKey creates a signer with a fresh random key
func GenerateKey() (*Signer, error) {
	key, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	return &Signer{key: key}, nil
}

// KeyFromHex restores a signer from a hex encoded private key, 0x prefix is optional
func KeyFromHex(s string) (*Signer, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "decode private key")
	}
	if len(raw) != btcec.PrivKeyBytesLen {
		return nil, errors.Errorf("private key must be %d bytes, got %d", btcec.PrivKeyBytesLen, len(raw))
	}

	key, _ := btcec.PrivKeyFromBytes(btcec.S256(), raw)
	return &Signer{key: key}, nil
}

func NewSigner(key *btcec.PrivateKey) *Signer {
	return &Signer{key: key}
}

func (s *Signer) Address() types.Address {
	return transaction.PubKeyToAddress(s.key.PubKey())
}

// Hex returns the private key as 0x prefixed hex
func (s *Signer) Hex() string {
	return "0x" + hex.EncodeToString(s.key.Serialize())
}

// Sign builds and signs a transaction with the given nonce
func (s *Signer) Sign(nonce uint64, data transaction.Data) ([]byte, error) {
	tx, err := transaction.NewTransaction(nonce, data, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build transaction")
	}
	if err := tx.Sign(s.key); err != nil {
		return nil, errors.Wrap(err, "sign transaction")
	}
	return tx.Serialize()
}
