package transaction

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ballotchain/ballot-node/core/state"
	"github.com/ballotchain/ballot-node/core/types"
	"github.com/btcsuite/btcd/btcec"
	"github.com/tendermint/go-amino"
	"golang.org/x/crypto/sha3"
)

// TxType of transaction is determined by a single byte.
type TxType byte

func (t TxType) String() string {
	return "0x" + hex.EncodeToString([]byte{byte(t)})
}

const (
	TypeAddCandidate   TxType = 0x01
	TypeAuthorizeVoter TxType = 0x02
	TypeStartElection  TxType = 0x03
	TypeEndElection    TxType = 0x04
	TypeVote           TxType = 0x05
)

const signatureLength = 65

var (
	ErrInvalidSig = errors.New("invalid transaction signature")

	cdc = amino.NewCodec()
)

type Transaction struct {
	Nonce         uint64
	ChainID       types.ChainID
	Type          TxType
	Data          RawData
	Payload       []byte
	SignatureData []byte

	decodedData Data
	sender      *types.Address
}

type RawData []byte

type Data interface {
	String() string
	Run(tx *Transaction, context state.Interface, currentBlock uint64) Response
	TxType() TxType
}

// NewTransaction builds an unsigned transaction of data for the current chain
func NewTransaction(nonce uint64, data Data, payload []byte) (*Transaction, error) {
	raw, err := encodeData(data)
	if err != nil {
		return nil, err
	}

	return &Transaction{
		Nonce:       nonce,
		ChainID:     types.CurrentChainID,
		Type:        data.TxType(),
		Data:        raw,
		Payload:     payload,
		decodedData: data,
	}, nil
}

func (tx *Transaction) Serialize() ([]byte, error) {
	return cdc.MarshalBinaryBare(tx)
}

func (tx *Transaction) String() string {
	sender, _ := tx.Sender()

	return fmt.Sprintf("TX nonce:%d from:%s payload:%s data:%s",
		tx.Nonce, sender.String(), tx.Payload, tx.decodedData.String())
}

func (tx *Transaction) GetDecodedData() Data {
	return tx.decodedData
}

func (tx *Transaction) SetDecodedData(data Data) {
	tx.decodedData = data
}

// Sign signs the transaction hash and caches the signer as its sender
func (tx *Transaction) Sign(prv *btcec.PrivateKey) error {
	h := tx.Hash()
	sig, err := btcec.SignCompact(btcec.S256(), prv, h[:], false)
	if err != nil {
		return err
	}

	tx.SignatureData = sig
	sender := PubKeyToAddress(prv.PubKey())
	tx.sender = &sender

	return nil
}

func (tx *Transaction) MustSender() types.Address {
	sender, err := tx.Sender()
	if err != nil {
		panic(err)
	}
	return sender
}

// Sender recovers the address whose key signed the transaction
func (tx *Transaction) Sender() (types.Address, error) {
	if tx.sender != nil {
		return *tx.sender, nil
	}

	if len(tx.SignatureData) != signatureLength {
		return types.Address{}, ErrInvalidSig
	}

	h := tx.Hash()
	pub, _, err := btcec.RecoverCompact(btcec.S256(), tx.SignatureData, h[:])
	if err != nil {
		return types.Address{}, ErrInvalidSig
	}

	sender := PubKeyToAddress(pub)
	tx.sender = &sender
	return sender, nil
}

// Hash is the keccak256 of the transaction encoded without its signature
func (tx *Transaction) Hash() types.Hash {
	unsigned := Transaction{
		Nonce:   tx.Nonce,
		ChainID: tx.ChainID,
		Type:    tx.Type,
		Data:    tx.Data,
		Payload: tx.Payload,
	}

	bz, err := cdc.MarshalBinaryBare(unsigned)
	if err != nil {
		panic(err)
	}

	return keccakHash(bz)
}

// PubKeyToAddress derives the address of a secp256k1 public key
func PubKeyToAddress(pub *btcec.PublicKey) types.Address {
	h := keccakHash(pub.SerializeUncompressed()[1:])
	return types.BytesToAddress(h[12:])
}

func keccakHash(data []byte) (h types.Hash) {
	hw := sha3.NewLegacyKeccak256()
	hw.Write(data)
	hw.Sum(h[:0])
	return h
}

func encodeData(data Data) (RawData, error) {
	return cdc.MarshalBinaryBare(data)
}

// DecodeFromBytes decodes a signed transaction together with its typed data
func DecodeFromBytes(buf []byte) (*Transaction, error) {
	tx := new(Transaction)
	if err := cdc.UnmarshalBinaryBare(buf, tx); err != nil {
		return nil, err
	}

	data, ok := getData(tx.Type)
	if !ok {
		return nil, fmt.Errorf("unknown tx type: %s", tx.Type)
	}

	// data types whose every field is empty encode to no bytes at all
	if len(tx.Data) > 0 {
		if err := cdc.UnmarshalBinaryBare(tx.Data, data); err != nil {
			return nil, err
		}
	}

	tx.decodedData = data

	return tx, nil
}
