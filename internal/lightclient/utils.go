package lightclient

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

func headKey() []byte {
	return []byte("lc-head")
}

func oldestKey() []byte {
	return []byte("lc-oldest")
}

func headerKey(hash common.Hash) []byte {
	return []byte(fmt.Sprintf("lc-header-%s", hash.Hex()))
}

func canonicalKey(number uint64) []byte {
	return []byte(fmt.Sprintf("lc-canonical-%d", number))
}
