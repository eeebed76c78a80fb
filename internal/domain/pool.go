package domain

// Pool identifies an AMM holding reserves of an ordered token pair.
// A token may appear as either member across multiple pools.
type Pool struct {
	Address string // pool contract address, unique key
	Token1  string // first member symbol
	Token2  string // second member symbol
}

// PoolSlot selects which member of a pool pair a locked-value query refers to.
type PoolSlot int

const (
	SlotTokenOne PoolSlot = 1
	SlotTokenTwo PoolSlot = 2
)
