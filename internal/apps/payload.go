package apps

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/meshplus/ethbridge/pkg/model"
)

// The encoders below produce what the application contracts on the
// external chain put in channel messages.

func ETHMintPayload(sender common.Address, recipient model.AccountID, amount *big.Int) ([]byte, error) {
	return ethContract.Pack("mint", sender, [32]byte(recipient), amount)
}

func ERC20MintPayload(token, sender common.Address, recipient model.AccountID, amount *big.Int) ([]byte, error) {
	return erc20Contract.Pack("mint", token, sender, [32]byte(recipient), amount)
}

func DOTUnlockPayload(sender common.Address, recipient model.AccountID, amount *big.Int) ([]byte, error) {
	return dotContract.Pack("unlock", sender, [32]byte(recipient), amount)
}

func ERC721MintPayload(token common.Address, tokenID *big.Int, sender common.Address, recipient model.AccountID) ([]byte, error) {
	return erc721Contract.Pack("mint", token, tokenID, sender, [32]byte(recipient))
}
