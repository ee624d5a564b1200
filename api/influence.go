package api

import (
	"math/big"
	"strconv"

	"github.com/MinterTeam/influence-pool/core/code"
	"github.com/gin-gonic/gin"
)

type InfluenceResponse struct {
	Address    string `json:"address"`
	Score      string `json:"score"`
	Total      string `json:"total"`
	Cursor     uint64 `json:"cursor"`
	ClaimsLeft uint64 `json:"claims_left"`
}

func (s *Service) Influence(c *gin.Context) {
	address, valid := addressParam(c)
	if !valid {
		return
	}

	ok(c, InfluenceResponse{
		Address:    address.String(),
		Score:      s.distributor.InfluenceOf(address).String(),
		Total:      s.distributor.TotalInfluence().String(),
		Cursor:     s.distributor.Cursor(address),
		ClaimsLeft: s.distributor.ClaimsLeft(address),
	})
}

type InfluenceOfResponse struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Share   string `json:"share"`
}

func (s *Service) InfluenceOf(c *gin.Context) {
	address, valid := addressParam(c)
	if !valid {
		return
	}

	amount, success := big.NewInt(0).SetString(c.Query("amount"), 10)
	if !success {
		fail(c, code.New(code.InvalidInput, "invalid amount", nil))
		return
	}

	share, err := s.distributor.GetInfluenceOf(address, amount)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, InfluenceOfResponse{
		Address: address.String(),
		Amount:  amount.String(),
		Share:   share.String(),
	})
}

type HistoryResponse struct {
	Address string `json:"address"`
	Index   uint64 `json:"index"`
	Score   string `json:"score"`
}

func (s *Service) History(c *gin.Context) {
	address, valid := addressParam(c)
	if !valid {
		return
	}

	index, err := strconv.ParseUint(c.Param("index"), 10, 64)
	if err != nil {
		fail(c, code.New(code.InvalidInput, "invalid index", nil))
		return
	}

	ok(c, HistoryResponse{
		Address: address.String(),
		Index:   index,
		Score:   s.distributor.HistoryOf(address, index).String(),
	})
}

type ClaimsLeftResponse struct {
	Address    string `json:"address"`
	ClaimsLeft uint64 `json:"claims_left"`
}

func (s *Service) ClaimsLeft(c *gin.Context) {
	address, valid := addressParam(c)
	if !valid {
		return
	}

	ok(c, ClaimsLeftResponse{
		Address:    address.String(),
		ClaimsLeft: s.distributor.ClaimsLeft(address),
	})
}
