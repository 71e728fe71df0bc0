package xpath

// seenSet records which keys were already taken. It is unordered; callers keep
// their own slice for first-seen order. One set is owned by each extraction.
type seenSet struct {
	keys map[string]struct{}
}

func newSeenSet(capacity int) *seenSet {
	return &seenSet{keys: make(map[string]struct{}, capacity)}
}

// Add reports whether key was new.
func (s *seenSet) Add(key string) bool {
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}

	return true
}

func (s *seenSet) Len() int {
	return len(s.keys)
}
