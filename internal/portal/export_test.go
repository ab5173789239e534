package portal

import "slices"

// Snapshot copies every collection of s for comparison against a reload.
func Snapshot(s *State) Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Data{
		Professors:  slices.Clone(s.d.Professors),
		Students:    slices.Clone(s.d.Students),
		Classes:     slices.Clone(s.d.Classes),
		Questions:   slices.Clone(s.d.Questions),
		Simulations: slices.Clone(s.d.Simulations),
		Results:     slices.Clone(s.d.Results),
		Admin:       s.d.Admin,
	}
}
