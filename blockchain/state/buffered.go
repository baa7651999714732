package state

import "sort"

// Buffered is a write-buffering overlay over a base Store. Mutations stay in
// the overlay until Commit, so a failing extrinsic is rolled back by simply
// dropping the overlay. Single-goroutine use only, matching the runtime's
// execution model.
type Buffered struct {
	base    Store
	writes  map[string]map[string][]byte
	deletes map[string]map[string]struct{}
}

// NewBuffered wraps the base store with an empty overlay.
func NewBuffered(base Store) *Buffered {
	return &Buffered{
		base:    base,
		writes:  map[string]map[string][]byte{},
		deletes: map[string]map[string]struct{}{},
	}
}

func (s *Buffered) layer(m map[string]map[string][]byte, bucket []byte) map[string][]byte {
	l, ok := m[string(bucket)]
	if !ok {
		l = map[string][]byte{}
		m[string(bucket)] = l
	}
	return l
}

func (s *Buffered) deleted(bucket, key []byte) bool {
	d, ok := s.deletes[string(bucket)]
	if !ok {
		return false
	}
	_, gone := d[string(key)]
	return gone
}

func (s *Buffered) Get(bucket, key []byte) ([]byte, error) {
	if s.deleted(bucket, key) {
		return nil, nil
	}
	if v, ok := s.layer(s.writes, bucket)[string(key)]; ok {
		cp := make([]byte, len(v))
		copy(cp, v)
		return cp, nil
	}
	return s.base.Get(bucket, key)
}

func (s *Buffered) Put(bucket, key, value []byte) error {
	if d, ok := s.deletes[string(bucket)]; ok {
		delete(d, string(key))
	}

	cp := make([]byte, len(value))
	copy(cp, value)
	s.layer(s.writes, bucket)[string(key)] = cp
	return nil
}

func (s *Buffered) Delete(bucket, key []byte) error {
	delete(s.layer(s.writes, bucket), string(key))

	d, ok := s.deletes[string(bucket)]
	if !ok {
		d = map[string]struct{}{}
		s.deletes[string(bucket)] = d
	}
	d[string(key)] = struct{}{}
	return nil
}

func (s *Buffered) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	merged := map[string][]byte{}

	err := s.base.ForEach(bucket, func(k, v []byte) error {
		if s.deleted(bucket, k) {
			return nil
		}
		cp := make([]byte, len(v))
		copy(cp, v)
		merged[string(k)] = cp
		return nil
	})
	if err != nil {
		return err
	}

	for k, v := range s.layer(s.writes, bucket) {
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := fn([]byte(k), merged[k]); err != nil {
			return err
		}
	}
	return nil
}

// Commit flushes the overlay into the base store in deterministic order.
func (s *Buffered) Commit() error {
	buckets := make([]string, 0, len(s.deletes))
	for b := range s.deletes {
		buckets = append(buckets, b)
	}
	sort.Strings(buckets)

	for _, b := range buckets {
		keys := make([]string, 0, len(s.deletes[b]))
		for k := range s.deletes[b] {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if err := s.base.Delete([]byte(b), []byte(k)); err != nil {
				return err
			}
		}
	}

	buckets = buckets[:0]
	for b := range s.writes {
		buckets = append(buckets, b)
	}
	sort.Strings(buckets)

	for _, b := range buckets {
		keys := make([]string, 0, len(s.writes[b]))
		for k := range s.writes[b] {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if err := s.base.Put([]byte(b), []byte(k), s.writes[b][k]); err != nil {
				return err
			}
		}
	}

	s.writes = map[string]map[string][]byte{}
	s.deletes = map[string]map[string]struct{}{}
	return nil
}
