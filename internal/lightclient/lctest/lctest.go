// Package lctest builds sealed header chains and receipt proofs for tests
// of the light client and its consumers.
package lctest

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/meshplus/ethbridge/internal/lightclient"
)

const blockTime = 13

func Genesis() *types.Header {
	return &types.Header{
		UncleHash:   types.EmptyUncleHash,
		Root:        types.EmptyRootHash,
		TxHash:      types.EmptyRootHash,
		ReceiptHash: types.EmptyRootHash,
		Difficulty:  big.NewInt(1),
		Number:      big.NewInt(0),
		GasLimit:    8000000,
		Time:        1600000000,
	}
}

// Mine returns a sealed child of parent
func Mine(parent *types.Header, difficulty int64, receiptHash common.Hash) *types.Header {
	header := Child(parent, difficulty, receiptHash)
	Seal(header)
	return header
}

// Child returns an unsealed child of parent
func Child(parent *types.Header, difficulty int64, receiptHash common.Hash) *types.Header {
	return &types.Header{
		ParentHash:  parent.Hash(),
		UncleHash:   types.EmptyUncleHash,
		Root:        types.EmptyRootHash,
		TxHash:      types.EmptyRootHash,
		ReceiptHash: receiptHash,
		Difficulty:  big.NewInt(difficulty),
		Number:      new(big.Int).Add(parent.Number, big.NewInt(1)),
		GasLimit:    parent.GasLimit,
		Time:        parent.Time + blockTime,
	}
}

// Seal searches a nonce satisfying the light client seal rule. Keep
// difficulties small.
func Seal(header *types.Header) {
	for nonce := uint64(0); ; nonce++ {
		header.Nonce = types.EncodeNonce(nonce)
		if lightclient.VerifySeal(header) {
			return
		}
	}
}

// Extend mines n empty headers on top of parent
func Extend(parent *types.Header, n int, difficulty int64) []*types.Header {
	headers := make([]*types.Header, 0, n)
	for i := 0; i < n; i++ {
		parent = Mine(parent, difficulty, types.EmptyRootHash)
		headers = append(headers, parent)
	}
	return headers
}

// ReceiptTrie is a receipt trie keyed by rlp(index), as committed to by a
// block's receipts root.
type ReceiptTrie struct {
	trie *trie.Trie
}

func NewReceiptTrie(receipts []*types.Receipt) (*ReceiptTrie, error) {
	tr, err := trie.New(common.Hash{}, trie.NewDatabase(memorydb.New()))
	if err != nil {
		return nil, err
	}
	for i, receipt := range receipts {
		key, err := rlp.EncodeToBytes(uint64(i))
		if err != nil {
			return nil, err
		}
		value, err := rlp.EncodeToBytes(receipt)
		if err != nil {
			return nil, err
		}
		if err := tr.TryUpdate(key, value); err != nil {
			return nil, err
		}
	}
	return &ReceiptTrie{trie: tr}, nil
}

func (rt *ReceiptTrie) Root() common.Hash {
	return rt.trie.Hash()
}

// Proof returns the trie nodes proving the receipt at index
func (rt *ReceiptTrie) Proof(index uint64) ([][]byte, error) {
	key, err := rlp.EncodeToBytes(index)
	if err != nil {
		return nil, err
	}
	nodes := &nodeList{}
	if err := rt.trie.Prove(key, 0, nodes); err != nil {
		return nil, err
	}
	return *nodes, nil
}

// Receipt returns a successful legacy receipt holding logs
func Receipt(logs ...*types.Log) *types.Receipt {
	receipt := &types.Receipt{
		Type:              types.LegacyTxType,
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: 21000,
		Logs:              logs,
	}
	receipt.Bloom = types.CreateBloom(types.Receipts{receipt})
	return receipt
}

type nodeList [][]byte

func (n *nodeList) Put(key []byte, value []byte) error {
	*n = append(*n, common.CopyBytes(value))
	return nil
}

func (n *nodeList) Delete(key []byte) error {
	return nil
}
