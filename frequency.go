package huffpack

// FrequencyTable maps each distinct Symbol of a document to its number of
// occurrences.  It also remembers the order in which the symbols first
// appeared, which the tree builder uses to break ties between equal
// frequencies.
type FrequencyTable struct {
	order  []Symbol
	counts map[Symbol]uint64
	total  uint64
}

// CountFrequencies counts the occurrences of each distinct Symbol.
func CountFrequencies(symbols []Symbol) *FrequencyTable {
	ft := &FrequencyTable{counts: make(map[Symbol]uint64)}
	for _, symbol := range symbols {
		ft.Add(symbol, 1)
	}
	return ft
}

// Add records n more occurrences of symbol.  Adding zero occurrences of a
// new symbol is a no-op.
func (ft *FrequencyTable) Add(symbol Symbol, n uint64) {
	if n == 0 {
		return
	}
	if ft.counts == nil {
		ft.counts = make(map[Symbol]uint64)
	}
	if _, found := ft.counts[symbol]; !found {
		ft.order = append(ft.order, symbol)
	}
	ft.counts[symbol] += n
	ft.total += n
}

// Len returns the number of distinct symbols.
func (ft *FrequencyTable) Len() int {
	return len(ft.order)
}

// Count returns the number of occurrences of symbol.
func (ft *FrequencyTable) Count(symbol Symbol) uint64 {
	return ft.counts[symbol]
}

// Total returns the number of symbols counted.
func (ft *FrequencyTable) Total() uint64 {
	return ft.total
}

// Symbols returns the distinct symbols in order of first occurrence.
func (ft *FrequencyTable) Symbols() []Symbol {
	out := make([]Symbol, len(ft.order))
	copy(out, ft.order)
	return out
}
