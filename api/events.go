package api

import (
	"strconv"

	"github.com/MinterTeam/influence-pool/core/code"
	"github.com/MinterTeam/influence-pool/core/events"
	"github.com/gin-gonic/gin"
)

type EventResponse struct {
	Type  string       `json:"type"`
	Value events.Event `json:"value"`
}

type EventsResponse struct {
	Height uint64          `json:"height"`
	Events []EventResponse `json:"events"`
}

func (s *Service) Events(c *gin.Context) {
	height, err := strconv.ParseUint(c.Param("height"), 10, 64)
	if err != nil {
		fail(c, code.New(code.InvalidInput, "invalid height", nil))
		return
	}

	loaded, err := s.eventsDB.LoadEvents(height)
	if err != nil {
		fail(c, err)
		return
	}

	result := EventsResponse{Height: height, Events: make([]EventResponse, 0, len(loaded))}
	for _, event := range loaded {
		result.Events = append(result.Events, EventResponse{Type: event.Type(), Value: event})
	}

	ok(c, result)
}
