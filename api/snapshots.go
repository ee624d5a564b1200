package api

import (
	"strconv"

	"github.com/MinterTeam/influence-pool/core/code"
	"github.com/MinterTeam/influence-pool/core/state/snapshots"
	"github.com/MinterTeam/influence-pool/core/types"
	"github.com/gin-gonic/gin"
)

const maxSnapshotsPage = 100

type SnapshotResponse struct {
	Index          uint64 `json:"index"`
	Key            uint64 `json:"key"`
	RewardAmount   string `json:"reward_amount"`
	TotalInfluence string `json:"total_influence"`
}

func snapshotResponse(snapshot *snapshots.Model) SnapshotResponse {
	return SnapshotResponse{
		Index:          snapshot.Index(),
		Key:            snapshot.Key,
		RewardAmount:   snapshot.GetRewardAmount().String(),
		TotalInfluence: snapshot.GetTotalInfluence().String(),
	}
}

func (s *Service) Snapshot(c *gin.Context) {
	index, err := strconv.ParseUint(c.Param("index"), 10, 64)
	if err != nil {
		fail(c, code.New(code.InvalidInput, "invalid index", nil))
		return
	}

	snapshot, err := s.distributor.Snapshot(index)
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, snapshotResponse(snapshot))
}

type SnapshotsResponse struct {
	Count     uint64             `json:"count"`
	Snapshots []SnapshotResponse `json:"snapshots"`
}

// Snapshots pages through the stack with ?from= and ?limit=.
func (s *Service) Snapshots(c *gin.Context) {
	from, err := strconv.ParseUint(c.DefaultQuery("from", "0"), 10, 64)
	if err != nil {
		fail(c, code.New(code.InvalidInput, "invalid from", nil))
		return
	}

	limit, err := strconv.ParseUint(c.DefaultQuery("limit", strconv.Itoa(maxSnapshotsPage)), 10, 64)
	if err != nil || limit > maxSnapshotsPage {
		fail(c, code.New(code.InvalidInput, "invalid limit", nil))
		return
	}

	count := s.distributor.SnapshotsCount()
	result := SnapshotsResponse{Count: count, Snapshots: []SnapshotResponse{}}
	for i := from; i < count && uint64(len(result.Snapshots)) < limit; i++ {
		snapshot, err := s.distributor.Snapshot(i)
		if err != nil {
			fail(c, err)
			return
		}
		result.Snapshots = append(result.Snapshots, snapshotResponse(snapshot))
	}

	ok(c, result)
}

type RewardResponse struct {
	Key    uint64 `json:"key"`
	Amount string `json:"amount"`
}

func (s *Service) Reward(c *gin.Context) {
	key, err := strconv.ParseUint(c.Param("key"), 10, 64)
	if err != nil {
		fail(c, code.New(code.InvalidInput, "invalid key", nil))
		return
	}

	ok(c, RewardResponse{
		Key:    key,
		Amount: s.distributor.RewardFor(types.Key(key)).String(),
	})
}
