package lightclient

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
)

//go:generate mockgen -destination mock_lightclient/mock_lightclient.go -package mock_lightclient -source types.go

var (
	ErrInvalidProofOfWork  = errors.New("lightclient: invalid proof of work")
	ErrNonContiguousParent = errors.New("lightclient: non contiguous parent")
	ErrStaleDifficulty     = errors.New("lightclient: stale difficulty")
	ErrInvalidTimestamp    = errors.New("lightclient: invalid timestamp")
	ErrHeaderNotVerified   = errors.New("lightclient: header not verified")
	ErrInvalidProof        = errors.New("lightclient: invalid proof")
	ErrNotInitialized      = errors.New("lightclient: not initialized")
	ErrAlreadyInitialized  = errors.New("lightclient: already initialized")
)

// Verifier is what inbound channels need from the light client
type Verifier interface {
	// VerifyLog succeeds when proof shows a finalized receipt holding log
	VerifyLog(st state.Store, log *types.Log, proof model.Proof) error
}

// Head is the latest verified header
type Head struct {
	Hash            common.Hash
	Number          uint64
	TotalDifficulty *big.Int
}

type storedHeader struct {
	Header          *types.Header
	TotalDifficulty *big.Int
}

type Config struct {
	// DescendantsUntilFinal is how many headers must sit on top of a block
	// before proofs against it are accepted.
	DescendantsUntilFinal uint64
	// HeadersToKeep bounds the retained canonical history
	HeadersToKeep uint64
}

func DefaultConfig() Config {
	return Config{
		DescendantsUntilFinal: 35,
		HeadersToKeep:         50000,
	}
}
