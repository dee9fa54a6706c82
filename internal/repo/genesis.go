package repo

import (
	"fmt"

	"github.com/meshplus/bitxhub-kit/fileutil"
	"github.com/spf13/viper"
)

// Well known development accounts
const (
	AliceAccount    = "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	FerdieAccount   = "0x1cbd2d43530a44705ad088af313e18f80b53ef16b36177cd4b77b846f2a5f07c"
	TreasuryAccount = "0x6d6f646c70792f74727372790000000000000000000000000000000000000000"
)

// Genesis is the raw bootstrap configuration. It is validated and turned
// into typed module configs by the runtime.
type Genesis struct {
	LightClient          LightClientGenesis          `mapstructure:"light_client" toml:"light_client" json:"light_client"`
	BasicInbound         BasicInboundGenesis         `mapstructure:"basic_inbound" toml:"basic_inbound" json:"basic_inbound"`
	BasicOutbound        BasicOutboundGenesis        `mapstructure:"basic_outbound" toml:"basic_outbound" json:"basic_outbound"`
	IncentivizedInbound  IncentivizedInboundGenesis  `mapstructure:"incentivized_inbound" toml:"incentivized_inbound" json:"incentivized_inbound"`
	IncentivizedOutbound IncentivizedOutboundGenesis `mapstructure:"incentivized_outbound" toml:"incentivized_outbound" json:"incentivized_outbound"`
	Queue                QueueGenesis                `mapstructure:"queue" toml:"queue" json:"queue"`
	Apps                 AppsGenesis                 `mapstructure:"apps" toml:"apps" json:"apps"`
	Assets               []AssetGenesis              `mapstructure:"assets" toml:"assets" json:"assets"`
}

type LightClientGenesis struct {
	// InitialHeader is the hex rlp of the trusted header, empty for the
	// zero header
	InitialHeader         string `mapstructure:"initial_header" toml:"initial_header" json:"initial_header"`
	InitialDifficulty     string `mapstructure:"initial_difficulty" toml:"initial_difficulty" json:"initial_difficulty"`
	DescendantsUntilFinal uint64 `mapstructure:"descendants_until_final" toml:"descendants_until_final" json:"descendants_until_final"`
	HeadersToKeep         uint64 `mapstructure:"headers_to_keep" toml:"headers_to_keep" json:"headers_to_keep"`
}

type BasicInboundGenesis struct {
	SourceChannel string `mapstructure:"source_channel" toml:"source_channel" json:"source_channel"`
}

type BasicOutboundGenesis struct {
	Principal string `mapstructure:"principal" toml:"principal" json:"principal"`
	Interval  uint64 `mapstructure:"interval" toml:"interval" json:"interval"`
}

type IncentivizedInboundGenesis struct {
	SourceChannel string `mapstructure:"source_channel" toml:"source_channel" json:"source_channel"`
	// RewardFraction is a percentage
	RewardFraction uint64 `mapstructure:"reward_fraction" toml:"reward_fraction" json:"reward_fraction"`
	Treasury       string `mapstructure:"treasury" toml:"treasury" json:"treasury"`
}

type IncentivizedOutboundGenesis struct {
	Fee      string `mapstructure:"fee" toml:"fee" json:"fee"`
	Interval uint64 `mapstructure:"interval" toml:"interval" json:"interval"`
}

type QueueGenesis struct {
	MaxPayloadSize       uint64 `mapstructure:"max_payload_size" toml:"max_payload_size" json:"max_payload_size"`
	MaxMessagesPerCommit uint64 `mapstructure:"max_messages_per_commit" toml:"max_messages_per_commit" json:"max_messages_per_commit"`
	BatchRetention       uint64 `mapstructure:"batch_retention" toml:"batch_retention" json:"batch_retention"`
}

type AppsGenesis struct {
	ETH          string `mapstructure:"eth" toml:"eth" json:"eth"`
	ERC20        string `mapstructure:"erc20" toml:"erc20" json:"erc20"`
	DOT          string `mapstructure:"dot" toml:"dot" json:"dot"`
	ERC721       string `mapstructure:"erc721" toml:"erc721" json:"erc721"`
	DOTSovereign string `mapstructure:"dot_sovereign" toml:"dot_sovereign" json:"dot_sovereign"`
}

type AssetGenesis struct {
	Asset   string `mapstructure:"asset" toml:"asset" json:"asset"`
	Account string `mapstructure:"account" toml:"account" json:"account"`
	Amount  string `mapstructure:"amount" toml:"amount" json:"amount"`
}

// DefaultGenesis returns the development bootstrap values
func DefaultGenesis() *Genesis {
	return &Genesis{
		LightClient: LightClientGenesis{
			InitialDifficulty:     "0",
			DescendantsUntilFinal: 35,
			HeadersToKeep:         50000,
		},
		BasicInbound: BasicInboundGenesis{
			SourceChannel: "0xB1185EDE04202fE62D38F5db72F71e38Ff3E8305",
		},
		BasicOutbound: BasicOutboundGenesis{
			Principal: AliceAccount,
			Interval:  1,
		},
		IncentivizedInbound: IncentivizedInboundGenesis{
			SourceChannel:  "0x8cF6147918A5CBb672703F879f385036f8793a24",
			RewardFraction: 80,
			Treasury:       TreasuryAccount,
		},
		IncentivizedOutbound: IncentivizedOutboundGenesis{
			Fee:      "10000000000000000",
			Interval: 1,
		},
		Queue: QueueGenesis{
			MaxPayloadSize:       256,
			MaxMessagesPerCommit: 20,
			BatchRetention:       1000,
		},
		Apps: AppsGenesis{
			ETH:    "0x3f0839385DB9cBEa8E73AdA6fa0CFe07E321F61d",
			ERC20:  "0x440eDFFA1352B13227e8eE646f3Ea37456deC701",
			DOT:    "0x3f839E70117C64744930De8567Ae7A5363487cA3",
			ERC721: "0xF67EFf5250cD974E6e86c9B53dc5290905Bd8916",
		},
		Assets: []AssetGenesis{
			{Asset: "eth", Account: FerdieAccount, Amount: "1000000000000000000"},
		},
	}
}

// LoadGenesis reads a toml or json genesis file
func LoadGenesis(path string) (*Genesis, error) {
	if !fileutil.Exist(path) {
		return nil, fmt.Errorf("genesis file %s does not exist", path)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read genesis: %w", err)
	}

	genesis := &Genesis{}
	if err := v.Unmarshal(genesis); err != nil {
		return nil, fmt.Errorf("unmarshal genesis: %w", err)
	}
	return genesis, nil
}
