package api

import (
	"github.com/MinterTeam/influence-pool/version"
	"github.com/gin-gonic/gin"
)

type StatusResponse struct {
	Version             string  `json:"version"`
	Height              int64   `json:"height"`
	TotalInfluence      string  `json:"total_influence"`
	UnclaimedPool       string  `json:"unclaimed_pool"`
	Snapshots           uint64  `json:"snapshots"`
	LastCommitDuration  float64 `json:"last_commit_duration"`
	LastCommitTimestamp float64 `json:"last_commit_timestamp"`
	SafetyThreshold     uint64  `json:"safety_threshold"`
}

func (s *Service) Status(c *gin.Context) {
	lastCommit := s.statistics.GetLastCommitInfo()

	ok(c, StatusResponse{
		Version:             version.Version,
		Height:              s.distributor.Height(),
		TotalInfluence:      s.distributor.TotalInfluence().String(),
		UnclaimedPool:       s.distributor.UnclaimedPool().String(),
		Snapshots:           s.distributor.SnapshotsCount(),
		LastCommitDuration:  lastCommit.Duration,
		LastCommitTimestamp: lastCommit.Timestamp,
		SafetyThreshold:     s.distributor.SafetyThreshold(),
	})
}
