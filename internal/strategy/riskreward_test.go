package strategy

import (
	"math"
	"testing"

	"divergence-bot/internal/types"
)

func TestRiskRewardFeeAdjusted(t *testing.T) {
	c := types.NewCandle(0, 100, 101, 99, 100, 1000)
	c.ATR = 4
	c.BBMid = 105

	ratio, ok := RiskReward(c, 0.001)
	if !ok {
		t.Fatal("Expected a valid ratio")
	}
	// risk = 100*1.001 - 95*0.999 = 5.195
	// reward = 105*0.999 - 100*1.001 = 4.795
	want := 4.795 / 5.195
	if math.Abs(ratio-want) > 1e-9 {
		t.Errorf("Expected ratio %v, got %v", want, ratio)
	}
}

func TestRiskRewardRejectsNonPositiveReward(t *testing.T) {
	c := types.NewCandle(0, 100, 101, 99, 100, 1000)
	c.ATR = 4
	c.BBMid = 100 // target at entry, fees make the reward negative

	if _, ok := RiskReward(c, 0.001); ok {
		t.Error("Expected ok=false for non-positive reward")
	}
}

func TestRiskRewardRejectsNonPositiveRisk(t *testing.T) {
	c := types.NewCandle(0, 100, 201, 200, 100, 1000)
	c.ATR = 0
	c.BBMid = 250

	if _, ok := RiskReward(c, 0.001); ok {
		t.Error("Expected ok=false when the stop sits above the entry cost")
	}
}

func TestRiskRewardRejectsWarmingIndicators(t *testing.T) {
	c := types.NewCandle(0, 100, 101, 99, 100, 1000)
	c.BBMid = 105 // ATR still NaN

	if _, ok := RiskReward(c, 0.001); ok {
		t.Error("Expected ok=false while ATR is warming up")
	}
}
