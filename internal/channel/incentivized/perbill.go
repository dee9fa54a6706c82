package incentivized

import (
	"fmt"
	"math/big"
)

// Perbill is a fraction in parts per billion
type Perbill uint32

const billion = 1000000000

var bigBillion = big.NewInt(billion)

// PerbillFromPercent converts a whole percentage in [0, 100]
func PerbillFromPercent(percent uint64) (Perbill, error) {
	if percent > 100 {
		return 0, fmt.Errorf("reward fraction %d%% out of range", percent)
	}
	return Perbill(percent * billion / 100), nil
}

func (p Perbill) Valid() bool {
	return p <= billion
}

func (p Perbill) String() string {
	return fmt.Sprintf("%d/%d", uint32(p), billion)
}

// Split divides fee into the relayer reward and the treasury remainder. The
// reward is rounded down so any dust goes to the treasury, and reward plus
// remainder always equals fee.
func Split(fee *big.Int, fraction Perbill) (reward, remainder *big.Int) {
	reward = new(big.Int).Mul(fee, big.NewInt(int64(fraction)))
	reward.Quo(reward, bigBillion)
	remainder = new(big.Int).Sub(fee, reward)
	return reward, remainder
}
