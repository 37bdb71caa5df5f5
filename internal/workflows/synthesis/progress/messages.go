// internal/workflows/synthesis/progress/messages.go
package progress

import "time"

// Loading messages shown while generation runs. Rotated on a fixed
// interval, wrapping around for long generations.
var loadingMessages = []string{
	"Analyzing your business details...",
	"Writing your website copy...",
	"Matching your brand colors...",
	"Finding the right imagery...",
	"Laying out your pages...",
	"Tuning everything for mobile...",
	"Adding the finishing touches...",
}

// MessageAt returns the loading message for the given elapsed time.
func MessageAt(elapsed, interval time.Duration) string {
	if interval <= 0 {
		return loadingMessages[0]
	}
	idx := int(elapsed/interval) % len(loadingMessages)
	return loadingMessages[idx]
}

// MessageCount returns how many distinct loading messages rotate.
func MessageCount() int {
	return len(loadingMessages)
}
