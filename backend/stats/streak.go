package stats

// CurrentStreak counts consecutive days ending today, or yesterday when
// today has no solve yet.
func CurrentStreak(days []Day, today Day) int {
	set := make(map[Day]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	cursor := today
	if !set[cursor] {
		cursor--
	}
	n := 0
	for set[cursor] {
		n++
		cursor--
	}
	return n
}

func LongestStreak(days []Day) int {
	sorted := distinct(days)
	if len(sorted) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] == 1 {
			run++
			longest = max(longest, run)
		} else {
			run = 1
		}
	}
	return longest
}

// WeeklyCounts reports which of the last seven days (today included) have a
// solve, indexed Monday first.
func WeeklyCounts(days []Day, today Day) [7]int {
	var out [7]int
	for _, d := range distinct(days) {
		if d > today-7 && d <= today {
			out[d.weekdayIndex()]++
		}
	}
	return out
}
