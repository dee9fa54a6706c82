package apps

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// inbound calls decoded from external payloads, outbound calls encoded
// for the application contracts on the external chain
const (
	ethABI = `[
		{"type":"function","name":"mint","inputs":[
			{"name":"sender","type":"address"},{"name":"recipient","type":"bytes32"},{"name":"amount","type":"uint256"}]},
		{"type":"function","name":"unlock","inputs":[
			{"name":"sender","type":"bytes32"},{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}]}
	]`
	erc20ABI = `[
		{"type":"function","name":"mint","inputs":[
			{"name":"token","type":"address"},{"name":"sender","type":"address"},{"name":"recipient","type":"bytes32"},{"name":"amount","type":"uint256"}]},
		{"type":"function","name":"unlock","inputs":[
			{"name":"token","type":"address"},{"name":"sender","type":"bytes32"},{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}]}
	]`
	dotABI = `[
		{"type":"function","name":"unlock","inputs":[
			{"name":"sender","type":"address"},{"name":"recipient","type":"bytes32"},{"name":"amount","type":"uint256"}]},
		{"type":"function","name":"mint","inputs":[
			{"name":"sender","type":"bytes32"},{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}]}
	]`
	erc721ABI = `[
		{"type":"function","name":"mint","inputs":[
			{"name":"token","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"sender","type":"address"},{"name":"recipient","type":"bytes32"}]},
		{"type":"function","name":"unlock","inputs":[
			{"name":"token","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"sender","type":"bytes32"},{"name":"recipient","type":"address"}]}
	]`
)

var (
	ethContract    = mustParse(ethABI)
	erc20Contract  = mustParse(erc20ABI)
	dotContract    = mustParse(dotABI)
	erc721Contract = mustParse(erc721ABI)
)

func mustParse(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// unpackCall checks the selector of payload and unpacks the arguments
func unpackCall(contract abi.ABI, name string, payload []byte) ([]interface{}, error) {
	method, ok := contract.Methods[name]
	if !ok {
		return nil, fmt.Errorf("method %s: %w", name, ErrInvalidPayload)
	}
	if len(payload) < 4 || !bytes.Equal(payload[:4], method.ID) {
		return nil, fmt.Errorf("expected %s selector: %w", method.Sig, ErrInvalidPayload)
	}
	values, err := method.Inputs.Unpack(payload[4:])
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %s: %w", name, err.Error(), ErrInvalidPayload)
	}
	if len(values) != len(method.Inputs) {
		return nil, fmt.Errorf("unpack %s: %w", name, ErrInvalidPayload)
	}
	return values, nil
}
