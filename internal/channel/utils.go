package channel

import (
	"fmt"

	"github.com/meshplus/ethbridge/pkg/model"
)

func inboundNonceKey(kind model.ChannelID) []byte {
	return []byte(fmt.Sprintf("channel-%s-inbound-nonce", kind))
}

func outboundNonceKey(kind model.ChannelID) []byte {
	return []byte(fmt.Sprintf("channel-%s-outbound-nonce", kind))
}

func pendingKey(kind model.ChannelID) []byte {
	return []byte(fmt.Sprintf("channel-%s-pending", kind))
}

func batchKey(kind model.ChannelID, nonce uint64) []byte {
	return []byte(fmt.Sprintf("channel-%s-batch-%d", kind, nonce))
}
