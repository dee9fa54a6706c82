package model

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AccountID identifies an account on the parachain side. The runtime makes
// no assumption on how the 32 bytes were derived.
type AccountID [32]byte

// HexToAccountID parses a 0x prefixed 32 byte hex string
func HexToAccountID(s string) (AccountID, error) {
	var id AccountID
	data, err := hexutil.Decode(s)
	if err != nil {
		return id, fmt.Errorf("decode account %s: %w", s, err)
	}
	if len(data) != len(id) {
		return id, fmt.Errorf("account %s: expected %d bytes, got %d", s, len(id), len(data))
	}
	copy(id[:], data)
	return id, nil
}

func (a AccountID) String() string {
	return hexutil.Encode(a[:])
}

func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(input []byte) error {
	id, err := HexToAccountID(string(input))
	if err != nil {
		return err
	}
	*a = id
	return nil
}

type AssetKind uint8

const (
	AssetETH AssetKind = iota
	AssetERC20
	AssetNative
	AssetERC721
)

// AssetID identifies a balance class in the ledger. Token is only set for
// ERC20 and ERC721 assets, TokenID only for ERC721.
type AssetID struct {
	Kind    AssetKind
	Token   common.Address
	TokenID common.Hash
}

func ETH() AssetID {
	return AssetID{Kind: AssetETH}
}

func Native() AssetID {
	return AssetID{Kind: AssetNative}
}

func ERC20(token common.Address) AssetID {
	return AssetID{Kind: AssetERC20, Token: token}
}

func ERC721(token common.Address, tokenID *big.Int) AssetID {
	return AssetID{Kind: AssetERC721, Token: token, TokenID: common.BigToHash(tokenID)}
}

// String renders the asset as eth, native, erc20:<token> or
// erc721:<token>:<id>. ParseAssetID is the inverse.
func (a AssetID) String() string {
	switch a.Kind {
	case AssetETH:
		return "eth"
	case AssetNative:
		return "native"
	case AssetERC20:
		return "erc20:" + strings.ToLower(a.Token.Hex())
	case AssetERC721:
		return fmt.Sprintf("erc721:%s:%s", strings.ToLower(a.Token.Hex()), a.TokenID.Big().String())
	default:
		return fmt.Sprintf("unknown(%d)", a.Kind)
	}
}

func ParseAssetID(s string) (AssetID, error) {
	parts := strings.Split(strings.ToLower(s), ":")
	switch {
	case len(parts) == 1 && parts[0] == "eth":
		return ETH(), nil
	case len(parts) == 1 && (parts[0] == "native" || parts[0] == "dot"):
		return Native(), nil
	case len(parts) == 2 && parts[0] == "erc20":
		if !common.IsHexAddress(parts[1]) {
			return AssetID{}, fmt.Errorf("invalid token address %s", parts[1])
		}
		return ERC20(common.HexToAddress(parts[1])), nil
	case len(parts) == 3 && parts[0] == "erc721":
		if !common.IsHexAddress(parts[1]) {
			return AssetID{}, fmt.Errorf("invalid token address %s", parts[1])
		}
		id, ok := new(big.Int).SetString(parts[2], 0)
		if !ok || id.Sign() < 0 {
			return AssetID{}, fmt.Errorf("invalid token id %s", parts[2])
		}
		return ERC721(common.HexToAddress(parts[1]), id), nil
	}

	return AssetID{}, fmt.Errorf("unknown asset %s", s)
}

// ChannelID distinguishes the two channel families. Each family has one
// inbound and one outbound instance.
type ChannelID uint8

const (
	BasicChannel ChannelID = iota
	IncentivizedChannel
)

func (c ChannelID) String() string {
	switch c {
	case BasicChannel:
		return "basic"
	case IncentivizedChannel:
		return "incentivized"
	default:
		return fmt.Sprintf("channel(%d)", uint8(c))
	}
}

func ParseChannelID(s string) (ChannelID, error) {
	switch strings.ToLower(s) {
	case "basic":
		return BasicChannel, nil
	case "incentivized":
		return IncentivizedChannel, nil
	}
	return 0, fmt.Errorf("unknown channel %s", s)
}

// MessageID is unique per delivered inbound message
type MessageID struct {
	Channel ChannelID
	Nonce   uint64
}

func (m MessageID) String() string {
	return fmt.Sprintf("%s-%d", m.Channel, m.Nonce)
}

// Proof is a receipt trie inclusion proof: the raw trie nodes on the path
// from the receipts root of BlockHash down to the receipt at TxIndex.
type Proof struct {
	BlockHash common.Hash
	TxIndex   uint64
	Nodes     [][]byte
}

// InboundMessage is what a relayer submits: the rlp encoded event log the
// source channel contract emitted, and the proof of the receipt holding it.
type InboundMessage struct {
	Data  []byte
	Proof Proof
}
