package resourcecheck

import "fmt"

// Binary units, as the kernel reports them in /proc.
const (
	KiB uint64 = 1 << 10
	MiB uint64 = 1 << 20
	GiB uint64 = 1 << 30
)

var sizeUnits = []string{"KiB", "MiB", "GiB", "TiB"}

// FormatSize renders a byte count the way ps and top do, e.g. "150.0MiB".
func FormatSize(bytes uint64) string {
	if bytes < KiB {
		return fmt.Sprintf("%dB", bytes)
	}
	v := float64(bytes) / float64(KiB)
	unit := 0
	for v >= 1024 && unit < len(sizeUnits)-1 {
		v /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f%s", v, sizeUnits[unit])
}
