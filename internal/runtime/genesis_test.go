package runtime

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meshplus/ethbridge/internal/apps"
	"github.com/meshplus/ethbridge/internal/channel/incentivized"
	"github.com/meshplus/ethbridge/internal/lightclient/lctest"
	"github.com/meshplus/ethbridge/internal/repo"
	"github.com/meshplus/ethbridge/pkg/model"
	"github.com/stretchr/testify/require"
)

func TestParseDefaultGenesis(t *testing.T) {
	config, err := ParseGenesis(repo.DefaultGenesis())
	require.Nil(t, err)

	require.Equal(t, uint64(0), config.InitialHeader.Number.Uint64())
	require.Equal(t, int64(0), config.InitialDifficulty.Int64())
	require.Equal(t, uint64(35), config.LightClient.DescendantsUntilFinal)
	require.Equal(t, incentivized.Perbill(800000000), config.IncentivizedInbound.RewardFraction)
	require.Equal(t, "10000000000000000", config.IncentivizedOutbound.Fee.String())
	require.Equal(t, uint64(1), config.BasicOutbound.Queue.Interval)
	require.Equal(t, uint64(20), config.IncentivizedOutbound.Queue.MaxMessagesPerCommit)
	require.Equal(t, apps.DefaultDOTSovereign, config.Apps.DOTSovereign)
	require.Equal(t, common.HexToAddress("0x3f0839385DB9cBEa8E73AdA6fa0CFe07E321F61d"), config.Apps.ETH)

	require.Len(t, config.Balances, 1)
	require.Equal(t, model.ETH(), config.Balances[0].Asset)
	require.Equal(t, big.NewInt(1000000000000000000), config.Balances[0].Amount)
}

func TestParseGenesisHeader(t *testing.T) {
	header := lctest.Genesis()
	data, err := rlp.EncodeToBytes(header)
	require.Nil(t, err)

	g := repo.DefaultGenesis()
	g.LightClient.InitialHeader = hexutil.Encode(data)
	config, err := ParseGenesis(g)
	require.Nil(t, err)
	require.Equal(t, header.Hash(), config.InitialHeader.Hash())

	g.LightClient.InitialHeader = "0x1234"
	_, err = ParseGenesis(g)
	require.NotNil(t, err)
}

func TestParseGenesisRejects(t *testing.T) {
	cases := map[string]func(g *repo.Genesis){
		"reward above hundred percent": func(g *repo.Genesis) {
			g.IncentivizedInbound.RewardFraction = 101
		},
		"zero source channel": func(g *repo.Genesis) {
			g.BasicInbound.SourceChannel = "0x0000000000000000000000000000000000000000"
		},
		"malformed source channel": func(g *repo.Genesis) {
			g.IncentivizedInbound.SourceChannel = "channel"
		},
		"zero interval": func(g *repo.Genesis) {
			g.IncentivizedOutbound.Interval = 0
		},
		"short principal": func(g *repo.Genesis) {
			g.BasicOutbound.Principal = "0xd435"
		},
		"negative fee": func(g *repo.Genesis) {
			g.IncentivizedOutbound.Fee = "-1"
		},
		"shared app address": func(g *repo.Genesis) {
			g.Apps.ERC20 = g.Apps.ETH
		},
		"unknown asset": func(g *repo.Genesis) {
			g.Assets[0].Asset = "btc"
		},
		"bad difficulty": func(g *repo.Genesis) {
			g.LightClient.InitialDifficulty = "many"
		},
	}

	for name, mutate := range cases {
		g := repo.DefaultGenesis()
		mutate(g)
		_, err := ParseGenesis(g)
		require.NotNil(t, err, name)
	}
}
