package predictor

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// HashStrategy names the function that maps a PC to a perceptron row.
type HashStrategy string

const (
	// HashModulo uses pc mod entries.
	HashModulo HashStrategy = "modulo"
	// HashHistoryFold XORs the folded global history into the pc before the
	// modulo, so one branch may train several rows.
	HashHistoryFold HashStrategy = "history-fold"
	// HashXXHash uses xxhash64 of the little-endian pc, mod entries.
	HashXXHash HashStrategy = "xxhash"
)

// HashStrategies lists every supported strategy.
var HashStrategies = []HashStrategy{HashModulo, HashHistoryFold, HashXXHash}

func (h HashStrategy) valid() bool {
	for _, s := range HashStrategies {
		if s == h {
			return true
		}
	}
	return false
}

// rowIndex returns a row in [0, entries).
func (h HashStrategy) rowIndex(pc uint32, history uint64, entries uint32) uint32 {
	switch h {
	case HashHistoryFold:
		folded := uint32(history) ^ uint32(history>>32)
		return (pc ^ folded) % entries
	case HashXXHash:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], pc)
		return uint32(xxhash.Sum64(buf[:]) % uint64(entries))
	default:
		return pc % entries
	}
}
