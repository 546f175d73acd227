package repo

import "time"

// SetMemoryClock replaces the clock of a repo from NewMemoryCartEntryRepo.
func SetMemoryClock(r CartEntryRepo, now func() time.Time) {
	r.(*memoryCartEntryRepo).now = now
}
