package bus

// Snapshots exposes the length of the snapshot stack, the index the next
// recorded snapshot will receive.
type Snapshots interface {
	Count() uint64
}
