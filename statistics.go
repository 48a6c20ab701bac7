package seltab

import "math"

// Statistics aggregates basic occupancy numbers for a descriptor table.
type Statistics struct {
	SlotCount      int
	AllocatedCount int
	MappedBytes    int
}

func (s *Statistics) Clear() {
	s.SlotCount = 0
	s.AllocatedCount = 0
	s.MappedBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.SlotCount += other.SlotCount
	s.AllocatedCount += other.AllocatedCount
	s.MappedBytes += other.MappedBytes
}

// DetailedStatistics extends Statistics with free-run information, which is
// what allocation of multi-slot blocks actually depends on.
type DetailedStatistics struct {
	Statistics
	FreeRunCount   int
	FreeRunSizeMin int
	FreeRunSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeRunCount = 0
	s.FreeRunSizeMin = math.MaxInt
	s.FreeRunSizeMax = 0
}

func (s *DetailedStatistics) AddAllocatedSlot(windowBytes int) {
	s.AllocatedCount++
	s.MappedBytes += windowBytes
}

func (s *DetailedStatistics) AddFreeRun(slots int) {
	s.FreeRunCount++

	if slots < s.FreeRunSizeMin {
		s.FreeRunSizeMin = slots
	}

	if slots > s.FreeRunSizeMax {
		s.FreeRunSizeMax = slots
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreeRunCount += other.FreeRunCount

	if other.FreeRunSizeMin < s.FreeRunSizeMin {
		s.FreeRunSizeMin = other.FreeRunSizeMin
	}

	if other.FreeRunSizeMax > s.FreeRunSizeMax {
		s.FreeRunSizeMax = other.FreeRunSizeMax
	}
}
