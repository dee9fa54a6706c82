package channel

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/meshplus/ethbridge/internal/channel/mock_channel"
	"github.com/meshplus/ethbridge/internal/lightclient"
	"github.com/meshplus/ethbridge/internal/lightclient/mock_lightclient"
	"github.com/meshplus/ethbridge/internal/state"
	"github.com/meshplus/ethbridge/pkg/model"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	sourceChannel = common.HexToAddress("0xB1185EDE04202fE62D38F5db72F71e38Ff3E8305")
	ethApp        = common.HexToAddress("0x3f0839385DB9cBEa8E73AdA6fa0CFe07E321F61d")
)

func message(t *testing.T, kind model.ChannelID, env *Envelope) *model.InboundMessage {
	_, data, err := EncodeEnvelope(kind, env)
	require.Nil(t, err)
	return &model.InboundMessage{Data: data, Proof: model.Proof{BlockHash: common.HexToHash("0x01")}}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	env := &Envelope{
		Channel: sourceChannel,
		Source:  ethApp,
		Nonce:   7,
		Fee:     big.NewInt(10000),
		Payload: []byte{0xde, 0xad},
	}
	log, data, err := EncodeEnvelope(model.IncentivizedChannel, env)
	require.Nil(t, err)

	decodedLog, decoded, err := DecodeEnvelope(model.IncentivizedChannel, data)
	require.Nil(t, err)
	require.Equal(t, log.Topics, decodedLog.Topics)
	require.Equal(t, env.Source, decoded.Source)
	require.Equal(t, env.Nonce, decoded.Nonce)
	require.Equal(t, 0, env.Fee.Cmp(decoded.Fee))
	require.Equal(t, env.Payload, decoded.Payload)

	// a basic log is not an incentivized one
	_, data, err = EncodeEnvelope(model.BasicChannel, env)
	require.Nil(t, err)
	_, _, err = DecodeEnvelope(model.IncentivizedChannel, data)
	require.True(t, errors.Is(err, ErrInvalidEnvelope))

	_, _, err = DecodeEnvelope(model.BasicChannel, []byte{0x01, 0x02})
	require.True(t, errors.Is(err, ErrInvalidEnvelope))
}

func TestValidate(t *testing.T) {
	mockCtl := gomock.NewController(t)
	defer mockCtl.Finish()
	verifier := mock_lightclient.NewMockVerifier(mockCtl)
	st := state.NewMemStore()

	// wrong source channel fails before the proof is looked at
	wrong := message(t, model.BasicChannel, &Envelope{Channel: common.HexToAddress("0x01"), Source: ethApp, Nonce: 1})
	_, err := Validate(st, verifier, model.BasicChannel, sourceChannel, wrong)
	require.True(t, errors.Is(err, ErrInvalidSourceChannel))

	good := message(t, model.BasicChannel, &Envelope{Channel: sourceChannel, Source: ethApp, Nonce: 1, Payload: []byte("x")})
	verifier.EXPECT().VerifyLog(gomock.Any(), gomock.Any(), good.Proof).Return(lightclient.ErrHeaderNotVerified)
	_, err = Validate(st, verifier, model.BasicChannel, sourceChannel, good)
	require.True(t, errors.Is(err, lightclient.ErrHeaderNotVerified))

	verifier.EXPECT().VerifyLog(gomock.Any(), gomock.Any(), good.Proof).Return(nil).AnyTimes()
	env, err := Validate(st, verifier, model.BasicChannel, sourceChannel, good)
	require.Nil(t, err)
	require.Equal(t, uint64(1), env.Nonce)
	require.Equal(t, 0, st.Len())

	gap := message(t, model.BasicChannel, &Envelope{Channel: sourceChannel, Source: ethApp, Nonce: 3})
	gap.Proof = good.Proof
	_, err = Validate(st, verifier, model.BasicChannel, sourceChannel, gap)
	require.True(t, errors.Is(err, ErrNonceGap))
}

func TestDeliver(t *testing.T) {
	mockCtl := gomock.NewController(t)
	defer mockCtl.Finish()
	dispatcher := mock_channel.NewMockDispatcher(mockCtl)
	st := state.NewMemStore()

	env := &Envelope{Channel: sourceChannel, Source: ethApp, Nonce: 1, Payload: []byte("mint")}
	dispatcher.EXPECT().Dispatch(gomock.Any(), model.MessageID{Channel: model.BasicChannel, Nonce: 1}, ethApp, []byte("mint")).
		DoAndReturn(func(s state.Store, id model.MessageID, source common.Address, payload []byte) error {
			s.Put([]byte("app"), []byte("applied"))
			return nil
		})
	delivery, err := Deliver(st, dispatcher, model.BasicChannel, env)
	require.Nil(t, err)
	require.True(t, delivery.Dispatched())
	require.Equal(t, []byte("applied"), st.Get([]byte("app")))

	// a rejected payload still consumes the nonce, its writes are dropped
	env = &Envelope{Channel: sourceChannel, Source: ethApp, Nonce: 2, Payload: []byte("bad")}
	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any(), ethApp, []byte("bad")).
		DoAndReturn(func(s state.Store, id model.MessageID, source common.Address, payload []byte) error {
			s.Put([]byte("bad"), []byte("written"))
			return errors.New("decode payload")
		})
	delivery, err = Deliver(st, dispatcher, model.BasicChannel, env)
	require.Nil(t, err)
	require.False(t, delivery.Dispatched())
	require.False(t, st.Has([]byte("bad")))

	nonce, err := InboundNonce(st, model.BasicChannel)
	require.Nil(t, err)
	require.Equal(t, uint64(2), nonce)
}

func TestNonceSequence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var last uint64
		accepted := []uint64{}
		steps := rapid.IntRange(1, 50).Draw(t, "steps").(int)
		for i := 0; i < steps; i++ {
			nonce := rapid.Uint64Range(0, last+3).Draw(t, "nonce").(uint64)
			err := CheckNonce(last, nonce)
			switch {
			case nonce <= last:
				require.True(t, errors.Is(err, ErrNonceReplay))
			case nonce > last+1:
				require.True(t, errors.Is(err, ErrNonceGap))
			default:
				require.Nil(t, err)
				accepted = append(accepted, nonce)
				last = nonce
			}
		}
		for i, n := range accepted {
			require.Equal(t, uint64(i+1), n)
		}
	})
}

func TestQueueCommit(t *testing.T) {
	st := state.NewMemStore()
	q := NewQueue(model.BasicChannel, QueueConfig{Interval: 2, MaxPayloadSize: 8, MaxMessagesPerCommit: 2, BatchRetention: 2})

	// nothing pending, nothing sealed
	batch, err := q.Commit(st, 2)
	require.Nil(t, err)
	require.Nil(t, batch)

	require.Nil(t, q.Push(st, OutboundMessage{Target: ethApp, Payload: []byte("one")}))
	require.True(t, errors.Is(q.Push(st, OutboundMessage{Target: ethApp, Payload: make([]byte, 9)}), ErrPayloadTooLarge))
	require.Nil(t, q.Push(st, OutboundMessage{Target: ethApp, Payload: []byte("two")}))
	require.True(t, errors.Is(q.Push(st, OutboundMessage{Target: ethApp, Payload: []byte("three")}), ErrQueueFull))

	// off interval
	batch, err = q.Commit(st, 3)
	require.Nil(t, err)
	require.Nil(t, batch)

	batch, err = q.Commit(st, 4)
	require.Nil(t, err)
	require.Equal(t, uint64(1), batch.Nonce)
	require.Equal(t, uint64(4), batch.Block)
	require.Equal(t, 2, len(batch.Messages))
	require.Equal(t, []byte("one"), batch.Messages[0].Payload)

	commitment, err := Commitment(batch.Messages)
	require.Nil(t, err)
	require.Equal(t, commitment, batch.Commitment)

	pending, err := q.Pending(st)
	require.Nil(t, err)
	require.Equal(t, 0, len(pending))

	stored, err := q.Batch(st, 1)
	require.Nil(t, err)
	require.Equal(t, batch.Commitment, stored.Commitment)

	_, err = q.Batch(st, 2)
	require.True(t, errors.Is(err, ErrBatchNotFound))

	for block := uint64(6); block <= 8; block += 2 {
		require.Nil(t, q.Push(st, OutboundMessage{Target: ethApp, Payload: []byte{byte(block)}}))
		_, err := q.Commit(st, block)
		require.Nil(t, err)
	}
	_, err = q.Batch(st, 1)
	require.True(t, errors.Is(err, ErrStaleBatch))
	_, err = q.Batch(st, 2)
	require.Nil(t, err)
	_, err = q.Batch(st, 3)
	require.Nil(t, err)
}

func TestCommitmentDependsOnContent(t *testing.T) {
	a := []OutboundMessage{{Target: ethApp, Fee: big.NewInt(1), Payload: []byte("a")}}
	b := []OutboundMessage{{Target: ethApp, Fee: big.NewInt(2), Payload: []byte("a")}}
	ca, err := Commitment(a)
	require.Nil(t, err)
	cb, err := Commitment(b)
	require.Nil(t, err)
	require.NotEqual(t, ca, cb)
}
