package events

import (
	"math/big"

	"github.com/MinterTeam/influence-pool/core/types"
)

// Event type names
const (
	TypeInfluenceUpdatedEvent      = "influence/InfluenceUpdatedEvent"
	TypeInfluenceRemovedEvent      = "influence/InfluenceRemovedEvent"
	TypeSnapshotRecordedEvent      = "influence/SnapshotRecordedEvent"
	TypeRewardScheduleUpdatedEvent = "influence/RewardScheduleUpdatedEvent"
	TypeRewardClaimedEvent         = "influence/RewardClaimedEvent"
)

type Event interface {
	Type() string
	AddressString() string
	address() (types.Address, bool)
	convert(addressID uint32) compactEvent
}

type compactEvent interface {
	compile(address [20]byte) Event
	addressID() uint32
}

type Events []Event

func stringToBytes(value string) []byte {
	bi, ok := big.NewInt(0).SetString(value, 10)
	if !ok {
		return nil
	}
	return bi.Bytes()
}

func bytesToString(value []byte) string {
	return big.NewInt(0).SetBytes(value).String()
}

type influenceUpdated struct {
	Addresses []byte
	Deltas    []string
	Scores    []string
}

func (i *influenceUpdated) compile([20]byte) Event {
	event := new(InfluenceUpdatedEvent)
	for offset := 0; offset+types.AddressLength <= len(i.Addresses); offset += types.AddressLength {
		event.Addresses = append(event.Addresses, types.BytesToAddress(i.Addresses[offset:offset+types.AddressLength]))
	}
	event.Deltas = i.Deltas
	event.Scores = i.Scores
	return event
}

func (i *influenceUpdated) addressID() uint32 {
	return 0
}

// InfluenceUpdatedEvent describes one AddInfluence batch. Deltas and Scores
// are parallel to Addresses; Scores hold the values after the batch entry.
type InfluenceUpdatedEvent struct {
	Addresses []types.Address `json:"addresses"`
	Deltas    []string        `json:"deltas"`
	Scores    []string        `json:"scores"`
}

func (ie *InfluenceUpdatedEvent) Type() string {
	return TypeInfluenceUpdatedEvent
}

func (ie *InfluenceUpdatedEvent) AddressString() string {
	return ""
}

func (ie *InfluenceUpdatedEvent) address() (types.Address, bool) {
	return types.Address{}, false
}

func (ie *InfluenceUpdatedEvent) convert(uint32) compactEvent {
	result := new(influenceUpdated)
	result.Addresses = make([]byte, 0, len(ie.Addresses)*types.AddressLength)
	for _, address := range ie.Addresses {
		result.Addresses = append(result.Addresses, address.Bytes()...)
	}
	result.Deltas = ie.Deltas
	result.Scores = ie.Scores
	return result
}

type influenceRemoved struct {
	AddressID uint32
	Score     []byte
}

func (i *influenceRemoved) compile(address [20]byte) Event {
	event := new(InfluenceRemovedEvent)
	event.Address = address
	event.Score = bytesToString(i.Score)
	return event
}

func (i *influenceRemoved) addressID() uint32 {
	return i.AddressID
}

// InfluenceRemovedEvent carries the score an account had before removal.
type InfluenceRemovedEvent struct {
	Address types.Address `json:"address"`
	Score   string        `json:"score"`
}

func (ie *InfluenceRemovedEvent) Type() string {
	return TypeInfluenceRemovedEvent
}

func (ie *InfluenceRemovedEvent) AddressString() string {
	return ie.Address.String()
}

func (ie *InfluenceRemovedEvent) address() (types.Address, bool) {
	return ie.Address, true
}

func (ie *InfluenceRemovedEvent) convert(addressID uint32) compactEvent {
	result := new(influenceRemoved)
	result.AddressID = addressID
	result.Score = stringToBytes(ie.Score)
	return result
}

type snapshotRecorded struct {
	Index          uint64
	Key            uint64
	RewardAmount   []byte
	TotalInfluence []byte
}

func (s *snapshotRecorded) compile([20]byte) Event {
	event := new(SnapshotRecordedEvent)
	event.Index = s.Index
	event.Key = s.Key
	event.RewardAmount = bytesToString(s.RewardAmount)
	event.TotalInfluence = bytesToString(s.TotalInfluence)
	return event
}

func (s *snapshotRecorded) addressID() uint32 {
	return 0
}

type SnapshotRecordedEvent struct {
	Index          uint64 `json:"index"`
	Key            uint64 `json:"key"`
	RewardAmount   string `json:"reward_amount"`
	TotalInfluence string `json:"total_influence"`
}

func (se *SnapshotRecordedEvent) Type() string {
	return TypeSnapshotRecordedEvent
}

func (se *SnapshotRecordedEvent) AddressString() string {
	return ""
}

func (se *SnapshotRecordedEvent) address() (types.Address, bool) {
	return types.Address{}, false
}

func (se *SnapshotRecordedEvent) convert(uint32) compactEvent {
	result := new(snapshotRecorded)
	result.Index = se.Index
	result.Key = se.Key
	result.RewardAmount = stringToBytes(se.RewardAmount)
	result.TotalInfluence = stringToBytes(se.TotalInfluence)
	return result
}

type rewardScheduleUpdated struct {
	Key    uint64
	Amount []byte
}

func (r *rewardScheduleUpdated) compile([20]byte) Event {
	event := new(RewardScheduleUpdatedEvent)
	event.Key = r.Key
	event.Amount = bytesToString(r.Amount)
	return event
}

func (r *rewardScheduleUpdated) addressID() uint32 {
	return 0
}

type RewardScheduleUpdatedEvent struct {
	Key    uint64 `json:"key"`
	Amount string `json:"amount"`
}

func (re *RewardScheduleUpdatedEvent) Type() string {
	return TypeRewardScheduleUpdatedEvent
}

func (re *RewardScheduleUpdatedEvent) AddressString() string {
	return ""
}

func (re *RewardScheduleUpdatedEvent) address() (types.Address, bool) {
	return types.Address{}, false
}

func (re *RewardScheduleUpdatedEvent) convert(uint32) compactEvent {
	result := new(rewardScheduleUpdated)
	result.Key = re.Key
	result.Amount = stringToBytes(re.Amount)
	return result
}

type rewardClaimed struct {
	AddressID uint32
	Amount    []byte
	From      uint64
	To        uint64
}

func (r *rewardClaimed) compile(address [20]byte) Event {
	event := new(RewardClaimedEvent)
	event.Address = address
	event.Amount = bytesToString(r.Amount)
	event.From = r.From
	event.To = r.To
	return event
}

func (r *rewardClaimed) addressID() uint32 {
	return r.AddressID
}

// RewardClaimedEvent describes a paid claim over snapshots [From, To).
type RewardClaimedEvent struct {
	Address types.Address `json:"address"`
	Amount  string        `json:"amount"`
	From    uint64        `json:"from"`
	To      uint64        `json:"to"`
}

func (re *RewardClaimedEvent) Type() string {
	return TypeRewardClaimedEvent
}

func (re *RewardClaimedEvent) AddressString() string {
	return re.Address.String()
}

func (re *RewardClaimedEvent) address() (types.Address, bool) {
	return re.Address, true
}

func (re *RewardClaimedEvent) convert(addressID uint32) compactEvent {
	result := new(rewardClaimed)
	result.AddressID = addressID
	result.Amount = stringToBytes(re.Amount)
	result.From = re.From
	result.To = re.To
	return result
}
