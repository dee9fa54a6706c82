package runtime

import (
	"fmt"
	"math/big"

	mapset "github.com/deckarep/golang-set"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meshplus/ethbridge/internal/apps"
	"github.com/meshplus/ethbridge/internal/channel"
	"github.com/meshplus/ethbridge/internal/channel/basic"
	"github.com/meshplus/ethbridge/internal/channel/incentivized"
	"github.com/meshplus/ethbridge/internal/lightclient"
	"github.com/meshplus/ethbridge/internal/repo"
	"github.com/meshplus/ethbridge/pkg/model"
)

// Config holds the validated genesis of every module
type Config struct {
	LightClient          lightclient.Config
	InitialHeader        *types.Header
	InitialDifficulty    *big.Int
	BasicInbound         basic.InboundConfig
	BasicOutbound        basic.OutboundConfig
	IncentivizedInbound  incentivized.InboundConfig
	IncentivizedOutbound incentivized.OutboundConfig
	Apps                 AppsConfig
	Balances             []Balance
}

type AppsConfig struct {
	ETH          common.Address
	ERC20        common.Address
	DOT          common.Address
	ERC721       common.Address
	DOTSovereign model.AccountID
}

// Balance is an initial ledger entry
type Balance struct {
	Asset   model.AssetID
	Account model.AccountID
	Amount  *big.Int
}

// ParseGenesis validates the raw bootstrap values once
func ParseGenesis(g *repo.Genesis) (*Config, error) {
	var (
		config = &Config{}
		err    error
	)

	config.LightClient = lightclient.Config{
		DescendantsUntilFinal: g.LightClient.DescendantsUntilFinal,
		HeadersToKeep:         g.LightClient.HeadersToKeep,
	}
	if config.InitialHeader, err = parseHeader(g.LightClient.InitialHeader); err != nil {
		return nil, err
	}
	if config.InitialDifficulty, err = parseAmount("light_client.initial_difficulty", g.LightClient.InitialDifficulty); err != nil {
		return nil, err
	}

	queue := channel.QueueConfig{
		MaxPayloadSize:       g.Queue.MaxPayloadSize,
		MaxMessagesPerCommit: g.Queue.MaxMessagesPerCommit,
		BatchRetention:       g.Queue.BatchRetention,
	}

	if config.BasicInbound.SourceChannel, err = parseAddress("basic_inbound.source_channel", g.BasicInbound.SourceChannel); err != nil {
		return nil, err
	}
	if config.BasicOutbound.Principal, err = parseAccount("basic_outbound.principal", g.BasicOutbound.Principal); err != nil {
		return nil, err
	}
	if g.BasicOutbound.Interval == 0 {
		return nil, fmt.Errorf("basic_outbound.interval must be positive")
	}
	config.BasicOutbound.Queue = queue
	config.BasicOutbound.Queue.Interval = g.BasicOutbound.Interval

	if config.IncentivizedInbound.SourceChannel, err = parseAddress("incentivized_inbound.source_channel", g.IncentivizedInbound.SourceChannel); err != nil {
		return nil, err
	}
	if config.IncentivizedInbound.RewardFraction, err = incentivized.PerbillFromPercent(g.IncentivizedInbound.RewardFraction); err != nil {
		return nil, fmt.Errorf("incentivized_inbound.reward_fraction: %w", err)
	}
	if config.IncentivizedInbound.Treasury, err = parseAccount("incentivized_inbound.treasury", g.IncentivizedInbound.Treasury); err != nil {
		return nil, err
	}
	if config.IncentivizedOutbound.Fee, err = parseAmount("incentivized_outbound.fee", g.IncentivizedOutbound.Fee); err != nil {
		return nil, err
	}
	if g.IncentivizedOutbound.Interval == 0 {
		return nil, fmt.Errorf("incentivized_outbound.interval must be positive")
	}
	config.IncentivizedOutbound.Queue = queue
	config.IncentivizedOutbound.Queue.Interval = g.IncentivizedOutbound.Interval

	if config.Apps, err = parseApps(g.Apps); err != nil {
		return nil, err
	}

	for i, a := range g.Assets {
		field := fmt.Sprintf("assets[%d]", i)
		asset, err := model.ParseAssetID(a.Asset)
		if err != nil {
			return nil, fmt.Errorf("%s.asset: %w", field, err)
		}
		account, err := parseAccount(field+".account", a.Account)
		if err != nil {
			return nil, err
		}
		amount, err := parseAmount(field+".amount", a.Amount)
		if err != nil {
			return nil, err
		}
		config.Balances = append(config.Balances, Balance{Asset: asset, Account: account, Amount: amount})
	}

	return config, nil
}

func parseApps(g repo.AppsGenesis) (AppsConfig, error) {
	var (
		config AppsConfig
		err    error
	)
	if config.ETH, err = parseAddress("apps.eth", g.ETH); err != nil {
		return config, err
	}
	if config.ERC20, err = parseAddress("apps.erc20", g.ERC20); err != nil {
		return config, err
	}
	if config.DOT, err = parseAddress("apps.dot", g.DOT); err != nil {
		return config, err
	}
	if config.ERC721, err = parseAddress("apps.erc721", g.ERC721); err != nil {
		return config, err
	}

	addresses := mapset.NewSet(config.ETH, config.ERC20, config.DOT, config.ERC721)
	if addresses.Cardinality() != 4 {
		return config, fmt.Errorf("apps: application addresses must be distinct")
	}

	config.DOTSovereign = apps.DefaultDOTSovereign
	if g.DOTSovereign != "" {
		if config.DOTSovereign, err = parseAccount("apps.dot_sovereign", g.DOTSovereign); err != nil {
			return config, err
		}
	}
	return config, nil
}

func parseHeader(s string) (*types.Header, error) {
	header := &types.Header{}
	if s != "" {
		data, err := hexutil.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("light_client.initial_header: %w", err)
		}
		if err := rlp.DecodeBytes(data, header); err != nil {
			return nil, fmt.Errorf("light_client.initial_header: %w", err)
		}
	}
	if header.Number == nil {
		header.Number = new(big.Int)
	}
	if header.Difficulty == nil {
		header.Difficulty = new(big.Int)
	}
	return header, nil
}

func parseAddress(field, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%s: invalid address %q", field, s)
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return addr, fmt.Errorf("%s: zero address", field)
	}
	return addr, nil
}

func parseAccount(field, s string) (model.AccountID, error) {
	account, err := model.HexToAccountID(s)
	if err != nil {
		return account, fmt.Errorf("%s: %w", field, err)
	}
	if account.IsZero() {
		return account, fmt.Errorf("%s: zero account", field)
	}
	return account, nil
}

func parseAmount(field, s string) (*big.Int, error) {
	amount, ok := math.ParseBig256(s)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("%s: invalid amount %q", field, s)
	}
	return amount, nil
}
