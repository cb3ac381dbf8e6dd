package sim

// tradePhase tracks where an open position is in its lifecycle:
// phase1 before the first partial take-profit, phase2 after it.
type tradePhase int

const (
	phase1 tradePhase = iota + 1
	phase2
)

// trade is the single active position. Exactly one may be open at a
// time; it is mutated in place on the phase transition and moved to the
// closed log on any exit.
type trade struct {
	entryIndex int
	entryPrice float64
	size       float64 // base-asset units
	stopPrice  float64
	tp1Price   float64
	tp2Price   float64 // assigned at the phase transition
	phase      tradePhase

	totalCost float64 // quote units debited at entry, fees included
	costPart1 float64
	costPart2 float64
	pnlPart1  float64 // realized at TP1
}
