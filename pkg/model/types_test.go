package model

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestParseAssetID(t *testing.T) {
	token := common.HexToAddress("0x774667629726ec1FaBEbCEc0D9139bD1C8f72a23")

	for _, asset := range []AssetID{ETH(), Native(), ERC20(token), ERC721(token, big.NewInt(42))} {
		parsed, err := ParseAssetID(asset.String())
		require.Nil(t, err)
		require.Equal(t, asset, parsed)
	}

	dot, err := ParseAssetID("DOT")
	require.Nil(t, err)
	require.Equal(t, Native(), dot)

	for _, bad := range []string{"", "btc", "erc20:0x12", "erc721:" + token.Hex(), "erc721:" + token.Hex() + ":x"} {
		_, err := ParseAssetID(bad)
		require.NotNil(t, err, bad)
	}
}

func TestHexToAccountID(t *testing.T) {
	s := "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	id, err := HexToAccountID(s)
	require.Nil(t, err)
	require.Equal(t, s, id.String())
	require.False(t, id.IsZero())

	text, err := id.MarshalText()
	require.Nil(t, err)
	var decoded AccountID
	require.Nil(t, decoded.UnmarshalText(text))
	require.Equal(t, id, decoded)

	_, err = HexToAccountID("0xd435")
	require.NotNil(t, err)
	_, err = HexToAccountID("d43593")
	require.NotNil(t, err)
}

func TestParseChannelID(t *testing.T) {
	ch, err := ParseChannelID("Incentivized")
	require.Nil(t, err)
	require.Equal(t, IncentivizedChannel, ch)
	require.Equal(t, "basic", BasicChannel.String())

	_, err = ParseChannelID("fast")
	require.NotNil(t, err)
}
