package lightclient_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/meshplus/bitxhub-kit/log"
	"github.com/meshplus/ethbridge/internal/lightclient"
	"github.com/meshplus/ethbridge/internal/lightclient/lctest"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func prepare(t require.TestingT, config lightclient.Config) (*lightclient.LightClient, *state.Cache, *types.Header) {
	lc := lightclient.New(config, log.NewWithModule("light_client"))
	st := state.NewMemStore()
	genesis := lctest.Genesis()
	require.Nil(t, lc.InitGenesis(st, genesis, big.NewInt(1)))
	return lc, st, genesis
}

func testConfig() lightclient.Config {
	return lightclient.Config{DescendantsUntilFinal: 2, HeadersToKeep: 100}
}

func TestImportHeader(t *testing.T) {
	lc, st, genesis := prepare(t, testConfig())

	require.Equal(t, lightclient.ErrAlreadyInitialized, lc.InitGenesis(st, genesis, big.NewInt(1)))

	parent := genesis
	for i := 1; i <= 3; i++ {
		header := lctest.Mine(parent, 4, types.EmptyRootHash)
		height, err := lc.ImportHeader(st, header)
		require.Nil(t, err)
		require.Equal(t, uint64(i), height)
		parent = header
	}

	head, err := lc.Head(st)
	require.Nil(t, err)
	require.Equal(t, parent.Hash(), head.Hash)
	require.Equal(t, uint64(3), head.Number)
	require.Equal(t, big.NewInt(13), head.TotalDifficulty)

	hash, ok := lc.CanonicalHash(st, 2)
	require.True(t, ok)
	require.Equal(t, parent.ParentHash, hash)
}

func TestImportNonContiguousParent(t *testing.T) {
	lc, st, genesis := prepare(t, testConfig())
	headers := lctest.Extend(genesis, 3, 2)
	for _, h := range headers {
		_, err := lc.ImportHeader(st, h)
		require.Nil(t, err)
	}
	writes := st.Len()

	orphan := lctest.Mine(&types.Header{Number: big.NewInt(3), Time: 1, GasLimit: 1}, 2, types.EmptyRootHash)
	_, err := lc.ImportHeader(st, orphan)
	require.True(t, errors.Is(err, lightclient.ErrNonContiguousParent))

	// a fork below the head cannot lower the head number
	fork := lctest.Mine(headers[0], 100, types.EmptyRootHash)
	_, err = lc.ImportHeader(st, fork)
	require.True(t, errors.Is(err, lightclient.ErrNonContiguousParent))

	// wrong number on a known parent
	skip := lctest.Child(headers[2], 2, types.EmptyRootHash)
	skip.Number = big.NewInt(5)
	lctest.Seal(skip)
	_, err = lc.ImportHeader(st, skip)
	require.True(t, errors.Is(err, lightclient.ErrNonContiguousParent))

	require.Equal(t, writes, st.Len())
}

func TestImportInvalidProofOfWork(t *testing.T) {
	lc, st, genesis := prepare(t, testConfig())

	header := lctest.Child(genesis, 1<<40, types.EmptyRootHash)
	header.Nonce = types.EncodeNonce(0)
	require.False(t, lightclient.VerifySeal(header))

	_, err := lc.ImportHeader(st, header)
	require.True(t, errors.Is(err, lightclient.ErrInvalidProofOfWork))

	head, err := lc.Head(st)
	require.Nil(t, err)
	require.Equal(t, genesis.Hash(), head.Hash)
}

func TestImportStaleDifficulty(t *testing.T) {
	lc, st, genesis := prepare(t, testConfig())

	first := lctest.Mine(genesis, 4, types.EmptyRootHash)
	_, err := lc.ImportHeader(st, first)
	require.Nil(t, err)

	// same work on a sibling does not win
	sibling := lctest.Child(genesis, 4, types.EmptyRootHash)
	sibling.Extra = []byte("sibling")
	lctest.Seal(sibling)
	_, err = lc.ImportHeader(st, sibling)
	require.True(t, errors.Is(err, lightclient.ErrStaleDifficulty))

	// importing the head again does not either
	_, err = lc.ImportHeader(st, first)
	require.True(t, errors.Is(err, lightclient.ErrStaleDifficulty))

	zero := lctest.Child(first, 0, types.EmptyRootHash)
	_, err = lc.ImportHeader(st, zero)
	require.True(t, errors.Is(err, lightclient.ErrStaleDifficulty))

	// more work on a sibling replaces the head
	heavier := lctest.Child(genesis, 8, types.EmptyRootHash)
	heavier.Extra = []byte("heavier")
	lctest.Seal(heavier)
	height, err := lc.ImportHeader(st, heavier)
	require.Nil(t, err)
	require.Equal(t, uint64(1), height)

	head, err := lc.Head(st)
	require.Nil(t, err)
	require.Equal(t, heavier.Hash(), head.Hash)
	require.Equal(t, big.NewInt(9), head.TotalDifficulty)

	_, _, ok, err := lc.Header(st, first.Hash())
	require.Nil(t, err)
	require.False(t, ok)
}

func TestImportInvalidTimestamp(t *testing.T) {
	lc, st, genesis := prepare(t, testConfig())

	header := lctest.Child(genesis, 2, types.EmptyRootHash)
	header.Time = genesis.Time
	lctest.Seal(header)
	_, err := lc.ImportHeader(st, header)
	require.True(t, errors.Is(err, lightclient.ErrInvalidTimestamp))
}

func TestPruneHeaders(t *testing.T) {
	lc, st, genesis := prepare(t, lightclient.Config{DescendantsUntilFinal: 0, HeadersToKeep: 5})

	headers := lctest.Extend(genesis, 8, 2)
	for _, h := range headers {
		_, err := lc.ImportHeader(st, h)
		require.Nil(t, err)
	}

	for _, h := range append([]*types.Header{genesis}, headers[:3]...) {
		_, _, ok, err := lc.Header(st, h.Hash())
		require.Nil(t, err)
		require.False(t, ok, "header %d should be pruned", h.Number.Uint64())
	}
	for _, h := range headers[3:] {
		_, _, ok, err := lc.Header(st, h.Hash())
		require.Nil(t, err)
		require.True(t, ok)
	}
}

func TestImportMonotone(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lc, st, genesis := prepare(t, testConfig())
		tip := genesis
		var siblingOf *types.Header

		steps := rapid.IntRange(1, 12).Draw(t, "steps").(int)
		for i := 0; i < steps; i++ {
			before, err := lc.Head(st)
			require.Nil(t, err)

			difficulty := rapid.Int64Range(1, 8).Draw(t, "difficulty").(int64)
			parent := tip
			if siblingOf != nil && rapid.Bool().Draw(t, "fork").(bool) {
				parent = siblingOf
			}
			header := lctest.Child(parent, difficulty, types.EmptyRootHash)
			header.Extra = []byte{byte(i)}
			lctest.Seal(header)

			_, err = lc.ImportHeader(st, header)
			after, headErr := lc.Head(st)
			require.Nil(t, headErr)
			if err != nil {
				require.Equal(t, before, after)
				continue
			}
			require.Equal(t, 1, after.TotalDifficulty.Cmp(before.TotalDifficulty))
			require.GreaterOrEqual(t, after.Number, before.Number)
			siblingOf = parent
			tip = header
		}
	})
}

type receiptFixture struct {
	block *types.Header
	log   *types.Log
	proof model.Proof
}

func proveLog(t *testing.T, parent *types.Header) *receiptFixture {
	target := &types.Log{
		Address: common.HexToAddress("0xB1185EDE04202fE62D38F5db72F71e38Ff3E8305"),
		Topics:  []common.Hash{common.HexToHash("0x01")},
		Data:    []byte("payload"),
	}
	receipts := []*types.Receipt{
		lctest.Receipt(),
		lctest.Receipt(&types.Log{Address: common.HexToAddress("0x02"), Data: []byte("other")}, target),
		lctest.Receipt(),
	}
	rt, err := lctest.NewReceiptTrie(receipts)
	require.Nil(t, err)
	nodes, err := rt.Proof(1)
	require.Nil(t, err)

	block := lctest.Mine(parent, 2, rt.Root())
	return &receiptFixture{
		block: block,
		log:   target,
		proof: model.Proof{BlockHash: block.Hash(), TxIndex: 1, Nodes: nodes},
	}
}

func TestVerifyInclusion(t *testing.T) {
	lc, st, genesis := prepare(t, testConfig())
	fixture := proveLog(t, genesis)

	// valid proof against a header not yet imported
	_, err := lc.VerifyInclusion(st, fixture.proof)
	require.True(t, errors.Is(err, lightclient.ErrHeaderNotVerified))

	_, err = lc.ImportHeader(st, fixture.block)
	require.Nil(t, err)

	// imported but not final yet
	_, err = lc.VerifyInclusion(st, fixture.proof)
	require.True(t, errors.Is(err, lightclient.ErrHeaderNotVerified))

	for _, h := range lctest.Extend(fixture.block, 2, 2) {
		_, err := lc.ImportHeader(st, h)
		require.Nil(t, err)
	}

	receipt, err := lc.VerifyInclusion(st, fixture.proof)
	require.Nil(t, err)
	require.Equal(t, 2, len(receipt.Logs))
	require.Nil(t, lc.VerifyLog(st, fixture.log, fixture.proof))

	forged := *fixture.log
	forged.Data = []byte("forged")
	err = lc.VerifyLog(st, &forged, fixture.proof)
	require.True(t, errors.Is(err, lightclient.ErrInvalidProof))

	wrongIndex := fixture.proof
	wrongIndex.TxIndex = 0
	err = lc.VerifyLog(st, fixture.log, wrongIndex)
	require.True(t, errors.Is(err, lightclient.ErrInvalidProof))

	truncated := fixture.proof
	truncated.Nodes = truncated.Nodes[:1]
	_, err = lc.VerifyInclusion(st, truncated)
	require.True(t, errors.Is(err, lightclient.ErrInvalidProof))

	_, err = lc.VerifyInclusion(st, model.Proof{BlockHash: common.HexToHash("0xdead"), Nodes: fixture.proof.Nodes})
	require.True(t, errors.Is(err, lightclient.ErrHeaderNotVerified))
}

func TestVerifyInclusionOnOrphan(t *testing.T) {
	lc, st, genesis := prepare(t, lightclient.Config{DescendantsUntilFinal: 0, HeadersToKeep: 100})
	fixture := proveLog(t, genesis)

	_, err := lc.ImportHeader(st, fixture.block)
	require.Nil(t, err)
	require.Nil(t, lc.VerifyLog(st, fixture.log, fixture.proof))

	heavier := lctest.Child(genesis, 16, types.EmptyRootHash)
	lctest.Seal(heavier)
	_, err = lc.ImportHeader(st, heavier)
	require.Nil(t, err)

	err = lc.VerifyLog(st, fixture.log, fixture.proof)
	require.True(t, errors.Is(err, lightclient.ErrHeaderNotVerified))
}
