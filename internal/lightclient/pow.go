package lightclient

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

var two256 = new(big.Int).Exp(big.NewInt(2), big.NewInt(256), nil)

// SealHash is the hash of the header without its seal fields (mix digest
// and nonce), the same preimage ethash signs over.
func SealHash(header *types.Header) common.Hash {
	enc := []interface{}{
		header.ParentHash,
		header.UncleHash,
		header.Coinbase,
		header.Root,
		header.TxHash,
		header.ReceiptHash,
		header.Bloom,
		header.Difficulty,
		header.Number,
		header.GasLimit,
		header.GasUsed,
		header.Time,
		header.Extra,
	}
	if header.BaseFee != nil {
		enc = append(enc, header.BaseFee)
	}
	data, err := rlp.EncodeToBytes(enc)
	if err != nil {
		panic("can't encode: " + err.Error())
	}
	return crypto.Keccak256Hash(data)
}

// PowHash mixes the seal hash with the header nonce
func PowHash(header *types.Header) common.Hash {
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], header.Nonce.Uint64())
	return crypto.Keccak256Hash(SealHash(header).Bytes(), nonce[:])
}

// Target is the largest pow hash accepted for the given difficulty
func Target(difficulty *big.Int) *big.Int {
	return new(big.Int).Div(two256, difficulty)
}

// VerifySeal checks powHash <= 2^256 / difficulty. The difficulty itself is
// taken as declared, it is not re-derived from the parent.
func VerifySeal(header *types.Header) bool {
	if header.Difficulty == nil || header.Difficulty.Sign() <= 0 {
		return false
	}
	pow := new(big.Int).SetBytes(PowHash(header).Bytes())
	return pow.Cmp(Target(header.Difficulty)) <= 0
}
