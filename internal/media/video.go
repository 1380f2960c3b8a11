package media

import (
	"fmt"
	"os"
	"time"

	"github.com/abema/go-mp4"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/domain"
)

// ProbeDuration reads the movie header of an ISO-BMFF file (mp4, mov, m4v).
func ProbeDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, domain.NewIOError("could not open video", err)
	}
	defer f.Close()

	info, err := mp4.Probe(f)
	if err != nil {
		return 0, domain.NewDecodeError("could not read video metadata", err)
	}
	if info.Timescale == 0 {
		return 0, domain.NewDecodeError("could not read video metadata", fmt.Errorf("zero timescale"))
	}

	ms := info.Duration * 1000 / uint64(info.Timescale)
	return time.Duration(ms) * time.Millisecond, nil
}

// FormatDuration renders d as total minutes and seconds, "mm:ss".
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// DurationLabel probes path and formats the result, degrading to "00:00"
// when the metadata cannot be read.
func DurationLabel(path string) (string, error) {
	d, err := ProbeDuration(path)
	if err != nil {
		return FormatDuration(0), err
	}
	return FormatDuration(d), nil
}
