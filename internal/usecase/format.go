package usecase

import "fmt"

// formatMinutesSeconds: 75 -> "1:15"
func formatMinutesSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
