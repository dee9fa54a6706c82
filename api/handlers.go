package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/meshplus/ethbridge"
	"github.com/meshplus/ethbridge/internal/channel"
	"github.com/meshplus/ethbridge/internal/runtime"
	"github.com/meshplus/ethbridge/pkg/model"
)

type messageResponse struct {
	Target  string        `json:"target"`
	Fee     string        `json:"fee"`
	Payload hexutil.Bytes `json:"payload"`
}

type batchResponse struct {
	Channel    string            `json:"channel"`
	Nonce      uint64            `json:"nonce"`
	Block      uint64            `json:"block"`
	Fee        string            `json:"fee"`
	Commitment string            `json:"commitment"`
	Messages   []messageResponse `json:"messages"`
}

type digestItemResponse struct {
	Channel    string `json:"channel"`
	Nonce      uint64 `json:"nonce"`
	Commitment string `json:"commitment"`
}

func (s *Server) status(c *gin.Context) {
	height, err := s.runtime.Height()
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"height":  height,
		"version": ethbridge.CurrentVersion,
	})
}

func (s *Server) lightClientHead(c *gin.Context) {
	head, err := s.runtime.LightClientHead()
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hash":             head.Hash.Hex(),
		"number":           head.Number,
		"total_difficulty": head.TotalDifficulty.String(),
	})
}

func (s *Server) balance(c *gin.Context) {
	asset, err := model.ParseAssetID(c.Param("asset"))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	account, err := model.HexToAccountID(c.Param("account"))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"asset":   asset.String(),
		"account": account.String(),
		"balance": s.runtime.Balance(asset, account).String(),
	})
}

func (s *Server) inboundNonce(c *gin.Context) {
	s.nonce(c, s.runtime.InboundNonce)
}

func (s *Server) outboundNonce(c *gin.Context) {
	s.nonce(c, s.runtime.OutboundNonce)
}

func (s *Server) nonce(c *gin.Context, get func(model.ChannelID) (uint64, error)) {
	ch, ok := s.channelParam(c)
	if !ok {
		return
	}
	nonce, err := get(ch)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"channel": ch.String(),
		"nonce":   nonce,
	})
}

func (s *Server) pending(c *gin.Context) {
	ch, ok := s.channelParam(c)
	if !ok {
		return
	}
	pending, err := s.runtime.Pending(ch)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"channel":  ch.String(),
		"messages": messages(pending),
	})
}

func (s *Server) batch(c *gin.Context) {
	ch, ok := s.channelParam(c)
	if !ok {
		return
	}
	nonce, err := strconv.ParseUint(c.Param("nonce"), 10, 64)
	if err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid nonce %s", c.Param("nonce")))
		return
	}

	batch, err := s.runtime.Batch(ch, nonce)
	switch {
	case errors.Is(err, channel.ErrBatchNotFound):
		s.fail(c, http.StatusNotFound, err)
		return
	case errors.Is(err, channel.ErrStaleBatch):
		s.fail(c, http.StatusGone, err)
		return
	case err != nil:
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, batchResponse{
		Channel:    batch.Channel.String(),
		Nonce:      batch.Nonce,
		Block:      batch.Block,
		Fee:        batch.Fee.String(),
		Commitment: batch.Commitment.Hex(),
		Messages:   messages(batch.Messages),
	})
}

func (s *Server) digest(c *gin.Context) {
	number, err := strconv.ParseUint(c.Param("number"), 10, 64)
	if err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid block number %s", c.Param("number")))
		return
	}
	digest, err := s.runtime.Digest(number)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"number": number,
		"items":  digestItems(digest),
	})
}

func (s *Server) channelParam(c *gin.Context) (model.ChannelID, bool) {
	ch, err := model.ParseChannelID(c.Param("channel"))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return 0, false
	}
	return ch, true
}

func messages(msgs []channel.OutboundMessage) []messageResponse {
	res := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		fee := "0"
		if m.Fee != nil {
			fee = m.Fee.String()
		}
		res = append(res, messageResponse{
			Target:  m.Target.Hex(),
			Fee:     fee,
			Payload: m.Payload,
		})
	}
	return res
}

func digestItems(digest []runtime.DigestItem) []digestItemResponse {
	res := make([]digestItemResponse, 0, len(digest))
	for _, item := range digest {
		res = append(res, digestItemResponse{
			Channel:    item.Channel.String(),
			Nonce:      item.Nonce,
			Commitment: item.Commitment.Hex(),
		})
	}
	return res
}
