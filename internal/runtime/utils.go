package runtime

import "fmt"

func genesisKey() []byte {
	return []byte("runtime-genesis")
}

func heightKey() []byte {
	return []byte("runtime-height")
}

func digestKey(number uint64) []byte {
	return []byte(fmt.Sprintf("runtime-digest-%d", number))
}
