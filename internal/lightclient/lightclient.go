package lightclient

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/trie"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
	"github.com/sirupsen/logrus"
)

// LightClient tracks the canonical header chain of the external chain by
// accumulated difficulty, and answers receipt inclusion queries against it.
type LightClient struct {
	config Config
	logger logrus.FieldLogger
}

var _ Verifier = (*LightClient)(nil)

func New(config Config, logger logrus.FieldLogger) *LightClient {
	return &LightClient{
		config: config,
		logger: logger,
	}
}

// InitGenesis stores the trusted starting header. difficulty is the total
// difficulty of the chain up to and including header.
func (lc *LightClient) InitGenesis(st state.Store, header *types.Header, difficulty *big.Int) error {
	if st.Has(headKey()) {
		return ErrAlreadyInitialized
	}
	if header.Number == nil {
		header.Number = new(big.Int)
	}
	if difficulty == nil {
		difficulty = new(big.Int)
	}

	if err := lc.persist(st, header, difficulty); err != nil {
		return err
	}
	state.PutUint64(st, oldestKey(), header.Number.Uint64())

	lc.logger.WithFields(logrus.Fields{
		"hash":       header.Hash().String(),
		"number":     header.Number.Uint64(),
		"difficulty": difficulty.String(),
	}).Info("Initialize light client")
	return nil
}

// Head returns the latest verified header
func (lc *LightClient) Head(st state.Store) (*Head, error) {
	head := &Head{}
	ok, err := state.GetRLP(st, headKey(), head)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInitialized
	}
	return head, nil
}

// Header returns a retained header and its total difficulty
func (lc *LightClient) Header(st state.Store, hash common.Hash) (*types.Header, *big.Int, bool, error) {
	stored, ok, err := lc.getHeader(st, hash)
	if err != nil || !ok {
		return nil, nil, ok, err
	}
	return stored.Header, stored.TotalDifficulty, true, nil
}

// CanonicalHash returns the hash of the canonical header at number
func (lc *LightClient) CanonicalHash(st state.Store, number uint64) (common.Hash, bool) {
	v := st.Get(canonicalKey(number))
	if v == nil {
		return common.Hash{}, false
	}
	return common.BytesToHash(v), true
}

// ImportHeader verifies header against its parent and makes it the new
// head. It returns the new verified height. Nothing is written on failure.
func (lc *LightClient) ImportHeader(st state.Store, header *types.Header) (uint64, error) {
	head, err := lc.Head(st)
	if err != nil {
		return 0, err
	}
	if header.Number == nil || header.Difficulty == nil {
		return 0, fmt.Errorf("header without number or difficulty: %w", ErrNonContiguousParent)
	}
	number := header.Number.Uint64()

	parent, ok, err := lc.getHeader(st, header.ParentHash)
	if err != nil {
		return 0, err
	}
	if !ok || !lc.isCanonical(st, parent.Header) {
		return 0, fmt.Errorf("unknown parent %s: %w", header.ParentHash, ErrNonContiguousParent)
	}
	if number != parent.Header.Number.Uint64()+1 || number < head.Number {
		return 0, fmt.Errorf("header %d on parent %d with head %d: %w",
			number, parent.Header.Number.Uint64(), head.Number, ErrNonContiguousParent)
	}
	if header.Time <= parent.Header.Time {
		return 0, fmt.Errorf("timestamp %d not after parent %d: %w", header.Time, parent.Header.Time, ErrInvalidTimestamp)
	}
	if header.Difficulty.Sign() <= 0 {
		return 0, fmt.Errorf("zero difficulty: %w", ErrStaleDifficulty)
	}
	td := new(big.Int).Add(parent.TotalDifficulty, header.Difficulty)
	if td.Cmp(head.TotalDifficulty) <= 0 {
		return 0, fmt.Errorf("total difficulty %s not above %s: %w", td, head.TotalDifficulty, ErrStaleDifficulty)
	}
	if !VerifySeal(header) {
		return 0, fmt.Errorf("header %s: %w", header.Hash(), ErrInvalidProofOfWork)
	}

	// a sibling of the head with more work replaces it
	if number == head.Number {
		st.Delete(headerKey(head.Hash))
		lc.logger.WithFields(logrus.Fields{
			"number":   number,
			"orphaned": head.Hash.String(),
		}).Info("Replace head")
	}
	if err := lc.persist(st, header, td); err != nil {
		return 0, err
	}
	if err := lc.prune(st, number); err != nil {
		return 0, err
	}

	lc.logger.WithFields(logrus.Fields{
		"hash":   header.Hash().String(),
		"number": number,
		"td":     td.String(),
	}).Info("Import header")
	return number, nil
}

// VerifyInclusion checks proof against the receipts root of a finalized
// canonical header and returns the proven receipt.
func (lc *LightClient) VerifyInclusion(st state.Store, proof model.Proof) (*types.Receipt, error) {
	head, err := lc.Head(st)
	if err != nil {
		return nil, err
	}
	stored, ok, err := lc.getHeader(st, proof.BlockHash)
	if err != nil {
		return nil, err
	}
	if !ok || !lc.isCanonical(st, stored.Header) {
		return nil, fmt.Errorf("block %s: %w", proof.BlockHash, ErrHeaderNotVerified)
	}
	number := stored.Header.Number.Uint64()
	if number+lc.config.DescendantsUntilFinal > head.Number {
		return nil, fmt.Errorf("block %d not final at head %d: %w", number, head.Number, ErrHeaderNotVerified)
	}

	db := memorydb.New()
	for _, node := range proof.Nodes {
		if err := db.Put(crypto.Keccak256(node), node); err != nil {
			return nil, err
		}
	}
	key, err := rlp.EncodeToBytes(proof.TxIndex)
	if err != nil {
		return nil, err
	}
	value, err := trie.VerifyProof(stored.Header.ReceiptHash, key, db)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrInvalidProof)
	}
	if len(value) == 0 {
		return nil, fmt.Errorf("no receipt at index %d: %w", proof.TxIndex, ErrInvalidProof)
	}

	receipt, err := decodeReceipt(value)
	if err != nil {
		return nil, fmt.Errorf("decode receipt: %s: %w", err.Error(), ErrInvalidProof)
	}
	return receipt, nil
}

// VerifyLog verifies the receipt holding log
func (lc *LightClient) VerifyLog(st state.Store, log *types.Log, proof model.Proof) error {
	receipt, err := lc.VerifyInclusion(st, proof)
	if err != nil {
		return err
	}
	for _, l := range receipt.Logs {
		if sameLog(l, log) {
			return nil
		}
	}
	return fmt.Errorf("log not in receipt %d of %s: %w", proof.TxIndex, proof.BlockHash, ErrInvalidProof)
}

func (lc *LightClient) isCanonical(st state.Store, header *types.Header) bool {
	hash, ok := lc.CanonicalHash(st, header.Number.Uint64())
	return ok && hash == header.Hash()
}

func (lc *LightClient) getHeader(st state.Store, hash common.Hash) (*storedHeader, bool, error) {
	stored := &storedHeader{}
	ok, err := state.GetRLP(st, headerKey(hash), stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	return stored, true, nil
}

func (lc *LightClient) persist(st state.Store, header *types.Header, td *big.Int) error {
	hash := header.Hash()
	if err := state.PutRLP(st, headerKey(hash), &storedHeader{Header: header, TotalDifficulty: td}); err != nil {
		return err
	}
	st.Put(canonicalKey(header.Number.Uint64()), hash.Bytes())

	return state.PutRLP(st, headKey(), &Head{
		Hash:            hash,
		Number:          header.Number.Uint64(),
		TotalDifficulty: td,
	})
}

// prune drops canonical headers that fell out of the retention window
func (lc *LightClient) prune(st state.Store, number uint64) error {
	if lc.config.HeadersToKeep == 0 || number < lc.config.HeadersToKeep {
		return nil
	}
	oldest, err := state.GetUint64(st, oldestKey())
	if err != nil {
		return err
	}
	bound := number - lc.config.HeadersToKeep
	for ; oldest <= bound; oldest++ {
		if hash, ok := lc.CanonicalHash(st, oldest); ok {
			st.Delete(headerKey(hash))
			st.Delete(canonicalKey(oldest))
		}
	}
	state.PutUint64(st, oldestKey(), oldest)
	return nil
}

func sameLog(a, b *types.Log) bool {
	if a.Address != b.Address || len(a.Topics) != len(b.Topics) || !bytes.Equal(a.Data, b.Data) {
		return false
	}
	for i := range a.Topics {
		if a.Topics[i] != b.Topics[i] {
			return false
		}
	}
	return true
}

// decodeReceipt accepts both legacy receipts and typed receipt envelopes as
// stored in the receipt trie.
func decodeReceipt(data []byte) (*types.Receipt, error) {
	if data[0] <= 0x7f {
		wrapped, err := rlp.EncodeToBytes(data)
		if err != nil {
			return nil, err
		}
		data = wrapped
	}
	receipt := &types.Receipt{}
	if err := rlp.DecodeBytes(data, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}
