package runtime

import (
	"errors"
	"io/ioutil"
	"math/big"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meshplus/bitxhub-kit/storage"
	"github.com/meshplus/bitxhub-kit/storage/leveldb"
	"github.com/meshplus/ethbridge/internal/apps"
	"github.com/meshplus/ethbridge/internal/channel"
	"github.com/meshplus/ethbridge/internal/lightclient/lctest"
	"github.com/meshplus/ethbridge/internal/repo"
	"github.com/meshplus/ethbridge/pkg/model"
	"github.com/stretchr/testify/require"
)

var (
	sender    = common.HexToAddress("0xBe68fC2d8249eb60bfCf0e71D5A0d2F2e292c4eD")
	recipient = common.HexToAddress("0x89b4AB1eF20763630df9743ACF155865600daFF2")
	bob       = model.AccountID{0x8e, 0xaf, 0x04, 0x15}
)

type testRuntime struct {
	*Runtime
	config *Config
	store  storage.Storage
	dir    string
}

func accountOf(t *testing.T, s string) model.AccountID {
	id, err := model.HexToAccountID(s)
	require.Nil(t, err)
	return id
}

func testGenesis(t *testing.T) *repo.Genesis {
	data, err := rlp.EncodeToBytes(lctest.Genesis())
	require.Nil(t, err)

	g := repo.DefaultGenesis()
	g.LightClient.InitialHeader = hexutil.Encode(data)
	g.LightClient.InitialDifficulty = "1"
	g.LightClient.DescendantsUntilFinal = 1
	g.LightClient.HeadersToKeep = 100
	g.Assets = append(g.Assets, repo.AssetGenesis{
		Asset:   "native",
		Account: repo.AliceAccount,
		Amount:  "1000",
	})
	return g
}

func prepare(t *testing.T, g *repo.Genesis) *testRuntime {
	dir, err := ioutil.TempDir("", "runtime")
	require.Nil(t, err)

	config, err := ParseGenesis(g)
	require.Nil(t, err)

	store, err := leveldb.New(dir)
	require.Nil(t, err)

	r, err := New(store, config)
	require.Nil(t, err)
	require.Nil(t, r.InitGenesis())

	return &testRuntime{Runtime: r, config: config, store: store, dir: dir}
}

func (tr *testRuntime) close() {
	tr.store.Close()
	os.RemoveAll(tr.dir)
}

// publish mines an external block holding the given channel events and one
// descendant, and returns the headers with the proven messages
func publish(t *testing.T, parent *types.Header, kinds []model.ChannelID, envs []*channel.Envelope) ([]*types.Header, []*model.InboundMessage) {
	receipts := make([]*types.Receipt, 0, len(envs))
	encoded := make([][]byte, 0, len(envs))
	for i, env := range envs {
		l, data, err := channel.EncodeEnvelope(kinds[i], env)
		require.Nil(t, err)
		receipts = append(receipts, lctest.Receipt(l))
		encoded = append(encoded, data)
	}
	rt, err := lctest.NewReceiptTrie(receipts)
	require.Nil(t, err)

	block := lctest.Mine(parent, 2, rt.Root())
	headers := append([]*types.Header{block}, lctest.Extend(block, 1, 2)...)

	msgs := make([]*model.InboundMessage, 0, len(envs))
	for i, data := range encoded {
		nodes, err := rt.Proof(uint64(i))
		require.Nil(t, err)
		msgs = append(msgs, &model.InboundMessage{
			Data:  data,
			Proof: model.Proof{BlockHash: block.Hash(), TxIndex: uint64(i), Nodes: nodes},
		})
	}
	return headers, msgs
}

func TestInitGenesis(t *testing.T) {
	tr := prepare(t, testGenesis(t))
	defer tr.close()

	// applying genesis again on the same store is a no-op
	require.Nil(t, tr.InitGenesis())

	height, err := tr.Height()
	require.Nil(t, err)
	require.Equal(t, uint64(0), height)

	head, err := tr.LightClientHead()
	require.Nil(t, err)
	require.Equal(t, lctest.Genesis().Hash(), head.Hash)

	require.Equal(t, "1000000000000000000", tr.Balance(model.ETH(), accountOf(t, repo.FerdieAccount)).String())
	require.Equal(t, "1000", tr.Balance(model.Native(), accountOf(t, repo.AliceAccount)).String())

	other, err := ParseGenesis(repo.DefaultGenesis())
	require.Nil(t, err)
	r, err := New(tr.store, other)
	require.Nil(t, err)
	err = r.InitGenesis()
	require.True(t, errors.Is(err, ErrGenesisMismatch))
}

func TestApplyBlockOutOfOrder(t *testing.T) {
	tr := prepare(t, testGenesis(t))
	defer tr.close()

	_, err := tr.ApplyBlock(&Block{Number: 2})
	require.True(t, errors.Is(err, ErrBlockOutOfOrder))

	_, err = tr.ApplyBlock(&Block{Number: 1})
	require.Nil(t, err)

	_, err = tr.ApplyBlock(&Block{Number: 1})
	require.True(t, errors.Is(err, ErrBlockOutOfOrder))
}

func TestApplyBlockWithoutGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "runtime")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	store, err := leveldb.New(dir)
	require.Nil(t, err)
	defer store.Close()

	config, err := ParseGenesis(testGenesis(t))
	require.Nil(t, err)
	r, err := New(store, config)
	require.Nil(t, err)

	_, err = r.ApplyBlock(&Block{Number: 1})
	require.True(t, errors.Is(err, ErrNotInitialized))
}

func TestApplyBlockRoundTrip(t *testing.T) {
	g := testGenesis(t)
	tr := prepare(t, g)
	defer tr.close()

	alice := accountOf(t, repo.AliceAccount)
	ferdie := accountOf(t, repo.FerdieAccount)
	treasury := accountOf(t, repo.TreasuryAccount)

	toAlice, err := apps.ETHMintPayload(sender, alice, big.NewInt(100))
	require.Nil(t, err)
	toBob, err := apps.ETHMintPayload(sender, bob, big.NewInt(50))
	require.Nil(t, err)

	headers, msgs := publish(t, lctest.Genesis(),
		[]model.ChannelID{model.BasicChannel, model.IncentivizedChannel},
		[]*channel.Envelope{
			{
				Channel: tr.config.BasicInbound.SourceChannel,
				Source:  tr.config.Apps.ETH,
				Nonce:   1,
				Payload: toAlice,
			},
			{
				Channel: tr.config.IncentivizedInbound.SourceChannel,
				Source:  tr.config.Apps.ETH,
				Nonce:   1,
				Fee:     big.NewInt(1000),
				Payload: toBob,
			},
		})

	burned := new(big.Int).Exp(big.NewInt(10), big.NewInt(17), nil)
	receipt, err := tr.ApplyBlock(&Block{
		Number: 1,
		Extrinsics: []*Extrinsic{
			{Origin: ferdie, Call: &ImportHeader{Header: headers[0]}},
			{Origin: ferdie, Call: &ImportHeader{Header: headers[1]}},
			{Origin: ferdie, Call: &SubmitBasic{Message: msgs[0]}},
			{Origin: ferdie, Call: &SubmitIncentivized{Message: msgs[1]}},
			// replayed nonce
			{Origin: ferdie, Call: &SubmitBasic{Message: msgs[0]}},
			// alice cannot pay the outbound fee, her burn is rolled back
			{Origin: alice, Call: &BurnETH{Channel: model.IncentivizedChannel, Recipient: recipient, Amount: big.NewInt(10)}},
			{Origin: ferdie, Call: &BurnETH{Channel: model.IncentivizedChannel, Recipient: recipient, Amount: burned}},
			{Origin: alice, Call: &LockDOT{Channel: model.BasicChannel, Recipient: recipient, Amount: big.NewInt(400)}},
		},
	})
	require.Nil(t, err)
	require.Equal(t, 2, receipt.Failed)

	failed := 0
	for _, e := range receipt.Events {
		if e.Name == "ExtrinsicFailed" {
			failed++
		}
	}
	require.Equal(t, 2, failed)

	require.Equal(t, big.NewInt(100), tr.Balance(model.ETH(), alice))
	require.Equal(t, big.NewInt(50), tr.Balance(model.ETH(), bob))
	require.Equal(t, big.NewInt(200), tr.Balance(model.ETH(), treasury))

	expected, _ := new(big.Int).SetString("1000000000000000000", 10)
	expected.Add(expected, big.NewInt(800))
	expected.Sub(expected, burned)
	expected.Sub(expected, tr.OutboundFee())
	require.Equal(t, expected, tr.Balance(model.ETH(), ferdie))

	require.Equal(t, big.NewInt(600), tr.Balance(model.Native(), alice))
	require.Equal(t, big.NewInt(400), tr.Balance(model.Native(), apps.DefaultDOTSovereign))

	for _, ch := range []model.ChannelID{model.BasicChannel, model.IncentivizedChannel} {
		nonce, err := tr.InboundNonce(ch)
		require.Nil(t, err)
		require.Equal(t, uint64(1), nonce)

		nonce, err = tr.OutboundNonce(ch)
		require.Nil(t, err)
		require.Equal(t, uint64(1), nonce)

		pending, err := tr.Pending(ch)
		require.Nil(t, err)
		require.Empty(t, pending)
	}

	digest, err := tr.Digest(1)
	require.Nil(t, err)
	require.Len(t, digest, 2)
	require.Equal(t, receipt.Digest, digest)
	for _, item := range digest {
		batch, err := tr.Batch(item.Channel, item.Nonce)
		require.Nil(t, err)
		require.Len(t, batch.Messages, 1)
		require.Equal(t, item.Commitment, batch.Commitment)
		require.Equal(t, uint64(1), batch.Block)
	}

	head, err := tr.LightClientHead()
	require.Nil(t, err)
	require.Equal(t, uint64(2), head.Number)

	// nothing queued, nothing sealed
	receipt, err = tr.ApplyBlock(&Block{Number: 2})
	require.Nil(t, err)
	require.Empty(t, receipt.Digest)
	digest, err = tr.Digest(2)
	require.Nil(t, err)
	require.Empty(t, digest)

	// state survives a restart
	require.Nil(t, tr.store.Close())
	store, err := leveldb.New(tr.dir)
	require.Nil(t, err)
	tr.store = store
	r, err := New(store, tr.config)
	require.Nil(t, err)
	require.Nil(t, r.InitGenesis())

	height, err := r.Height()
	require.Nil(t, err)
	require.Equal(t, uint64(2), height)
	require.Equal(t, big.NewInt(100), r.Balance(model.ETH(), alice))
}

func TestFailedExtrinsicLeavesNoWrites(t *testing.T) {
	tr := prepare(t, testGenesis(t))
	defer tr.close()

	alice := accountOf(t, repo.AliceAccount)
	ferdie := accountOf(t, repo.FerdieAccount)

	receipt, err := tr.ApplyBlock(&Block{
		Number: 1,
		Extrinsics: []*Extrinsic{
			// only alice may use the basic channel
			{Origin: ferdie, Call: &BurnETH{Channel: model.BasicChannel, Recipient: recipient, Amount: big.NewInt(10)}},
			// more than alice holds
			{Origin: alice, Call: &LockDOT{Channel: model.BasicChannel, Recipient: recipient, Amount: big.NewInt(1001)}},
			{Origin: ferdie, Call: &ImportHeader{Header: lctest.Child(lctest.Genesis(), 0, types.EmptyRootHash)}},
		},
	})
	require.Nil(t, err)
	require.Equal(t, 3, receipt.Failed)
	require.Empty(t, receipt.Digest)

	require.Equal(t, "1000000000000000000", tr.Balance(model.ETH(), ferdie).String())
	require.Equal(t, big.NewInt(1000), tr.Balance(model.Native(), alice))

	head, err := tr.LightClientHead()
	require.Nil(t, err)
	require.Equal(t, uint64(0), head.Number)

	height, err := tr.Height()
	require.Nil(t, err)
	require.Equal(t, uint64(1), height)
}

func TestQueryUnknownChannel(t *testing.T) {
	tr := prepare(t, testGenesis(t))
	defer tr.close()

	_, err := tr.InboundNonce(model.ChannelID(7))
	require.True(t, errors.Is(err, ErrUnknownChannel))
	_, err = tr.Batch(model.ChannelID(7), 1)
	require.True(t, errors.Is(err, ErrUnknownChannel))
}
