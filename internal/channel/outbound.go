package channel

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/cbergoon/merkletree"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
)

var messageArgs abi.Arguments

func init() {
	parsed, err := abi.JSON(strings.NewReader(`[{"type":"function","name":"message","inputs":[
		{"name":"target","type":"address"},
		{"name":"fee","type":"uint256"},
		{"name":"payload","type":"bytes"}]}]`))
	if err != nil {
		panic(err)
	}
	messageArgs = parsed.Methods["message"].Inputs
}

// OutboundMessage is one entry of a batch, addressed to an application
// contract on the external chain.
type OutboundMessage struct {
	Target  common.Address
	Fee     *big.Int
	Payload []byte
}

// Batch is a sealed set of outbound messages. Relayers read it by nonce and
// submit it together with the commitment.
type Batch struct {
	Channel    model.ChannelID
	Nonce      uint64
	Block      uint64
	Messages   []OutboundMessage
	Fee        *big.Int
	Commitment common.Hash
}

type QueueConfig struct {
	Interval             uint64
	MaxPayloadSize       uint64
	MaxMessagesPerCommit uint64
	BatchRetention       uint64
}

// Queue holds pending outbound messages of one channel and seals them into
// batches at interval boundaries.
type Queue struct {
	kind   model.ChannelID
	config QueueConfig
}

func NewQueue(kind model.ChannelID, config QueueConfig) *Queue {
	return &Queue{kind: kind, config: config}
}

// Push checks size limits and appends msg to the pending queue
func (q *Queue) Push(st state.Store, msg OutboundMessage) error {
	if q.config.MaxPayloadSize != 0 && uint64(len(msg.Payload)) > q.config.MaxPayloadSize {
		return fmt.Errorf("payload of %d bytes: %w", len(msg.Payload), ErrPayloadTooLarge)
	}
	pending, err := q.Pending(st)
	if err != nil {
		return err
	}
	if q.config.MaxMessagesPerCommit != 0 && uint64(len(pending)) >= q.config.MaxMessagesPerCommit {
		return fmt.Errorf("%d messages pending: %w", len(pending), ErrQueueFull)
	}
	if msg.Fee == nil {
		msg.Fee = new(big.Int)
	}
	return state.PutRLP(st, pendingKey(q.kind), append(pending, msg))
}

func (q *Queue) Pending(st state.Store) ([]OutboundMessage, error) {
	var pending []OutboundMessage
	if _, err := state.GetRLP(st, pendingKey(q.kind), &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

// Commit seals the pending queue when block is a multiple of the interval.
// An empty queue is not sealed and consumes no nonce.
func (q *Queue) Commit(st state.Store, block uint64) (*Batch, error) {
	if q.config.Interval == 0 || block%q.config.Interval != 0 {
		return nil, nil
	}
	pending, err := q.Pending(st)
	if err != nil || len(pending) == 0 {
		return nil, err
	}

	nonce, err := q.Nonce(st)
	if err != nil {
		return nil, err
	}
	nonce++

	fee := new(big.Int)
	for _, m := range pending {
		fee.Add(fee, m.Fee)
	}
	commitment, err := Commitment(pending)
	if err != nil {
		return nil, err
	}
	batch := &Batch{
		Channel:    q.kind,
		Nonce:      nonce,
		Block:      block,
		Messages:   pending,
		Fee:        fee,
		Commitment: commitment,
	}
	if err := state.PutRLP(st, batchKey(q.kind, nonce), batch); err != nil {
		return nil, err
	}
	state.PutUint64(st, outboundNonceKey(q.kind), nonce)
	st.Delete(pendingKey(q.kind))

	if q.config.BatchRetention != 0 && nonce > q.config.BatchRetention {
		st.Delete(batchKey(q.kind, nonce-q.config.BatchRetention))
	}
	return batch, nil
}

// Nonce returns the nonce of the latest sealed batch
func (q *Queue) Nonce(st state.Store) (uint64, error) {
	return state.GetUint64(st, outboundNonceKey(q.kind))
}

// Batch returns a sealed batch. Batches that fell out of the retention
// window are reported as stale.
func (q *Queue) Batch(st state.Store, nonce uint64) (*Batch, error) {
	latest, err := q.Nonce(st)
	if err != nil {
		return nil, err
	}
	if nonce == 0 || nonce > latest {
		return nil, fmt.Errorf("%s batch %d: %w", q.kind, nonce, ErrBatchNotFound)
	}
	if q.config.BatchRetention != 0 && nonce+q.config.BatchRetention <= latest {
		return nil, fmt.Errorf("%s batch %d: %w", q.kind, nonce, ErrStaleBatch)
	}

	batch := &Batch{}
	ok, err := state.GetRLP(st, batchKey(q.kind, nonce), batch)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s batch %d: %w", q.kind, nonce, ErrStaleBatch)
	}
	return batch, nil
}

type leaf struct {
	data []byte
}

func (l *leaf) CalculateHash() ([]byte, error) {
	return crypto.Keccak256(l.data), nil
}

func (l *leaf) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(*leaf)
	if !ok {
		return false, fmt.Errorf("unexpected content %T", other)
	}
	return bytes.Equal(l.data, o.data), nil
}

// EncodeMessage returns the abi encoding of a message, the leaf preimage of
// the batch commitment.
func EncodeMessage(m OutboundMessage) ([]byte, error) {
	fee := m.Fee
	if fee == nil {
		fee = new(big.Int)
	}
	return messageArgs.Pack(m.Target, fee, m.Payload)
}

// Commitment is the merkle root over the abi encoded messages
func Commitment(messages []OutboundMessage) (common.Hash, error) {
	contents := make([]merkletree.Content, 0, len(messages))
	for _, m := range messages {
		data, err := EncodeMessage(m)
		if err != nil {
			return common.Hash{}, fmt.Errorf("encode message: %w", err)
		}
		contents = append(contents, &leaf{data: data})
	}

	tree, err := merkletree.NewTree(contents)
	if err != nil {
		return common.Hash{}, fmt.Errorf("init merkle tree: %w", err)
	}
	return common.BytesToHash(tree.MerkleRoot()), nil
}
