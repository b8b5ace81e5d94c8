package domain

// AvailabilityMap maps slot keys to availability flags.
// Keys that are not present are treated as unavailable.
type AvailabilityMap map[SlotKey]bool

// IsAvailable returns true if the key is present and truthy
func (m AvailabilityMap) IsAvailable(key SlotKey) bool {
	return m[key]
}

// CountAvailable returns the number of truthy entries
func (m AvailabilityMap) CountAvailable() int {
	count := 0
	for _, ok := range m {
		if ok {
			count++
		}
	}
	return count
}

// Clone returns an independent copy of the map
func (m AvailabilityMap) Clone() AvailabilityMap {
	out := make(AvailabilityMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
