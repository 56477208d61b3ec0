package cli

import (
	"fmt"
	"strings"

	"github.com/Fepozopo/bilateral/pkg/bilateral"
	"gonum.org/v1/gonum/stat"
)

// ChannelStats summarizes the samples of one channel.
type ChannelStats struct {
	Channel int
	Mean    float64
	StdDev  float64
}

// ComputeStats returns the mean and standard deviation of every channel.
func ComputeStats(im *bilateral.Image) []ChannelStats {
	if im == nil {
		return nil
	}
	nc := im.Channels()
	n := im.Width * im.Height
	out := make([]ChannelStats, nc)
	samples := make([]float64, n)
	for c := 0; c < nc; c++ {
		for p := 0; p < n; p++ {
			samples[p] = float64(im.Pix[p*nc+c])
		}
		mean, std := stat.MeanStdDev(samples, nil)
		out[c] = ChannelStats{Channel: c, Mean: mean, StdDev: std}
	}
	return out
}

// FormatStats renders a before/after table for two images of the same mode.
func FormatStats(before, after *bilateral.Image) string {
	b, a := ComputeStats(before), ComputeStats(after)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-3s %10s %10s %10s %10s\n", "ch", "mean", "stddev", "mean'", "stddev'")
	for i := range b {
		if i >= len(a) {
			break
		}
		fmt.Fprintf(&sb, "%-3d %10.2f %10.2f %10.2f %10.2f\n", b[i].Channel, b[i].Mean, b[i].StdDev, a[i].Mean, a[i].StdDev)
	}
	return sb.String()
}
