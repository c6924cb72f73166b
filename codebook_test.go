package huffpack

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeTestCodeBook() *CodeBook {
	var ft FrequencyTable
	for symbol, freq := range []uint64{5, 9, 12, 13, 16, 45} {
		ft.Add(Symbol(symbol), freq)
	}
	return NewCodeBook(BuildTree(&ft))
}

func TestCodeBook(t *testing.T) {
	cb := makeTestCodeBook()

	expectDump := strings.Join([]string{
		"CodeBook{\n",
		"\tMinSize() = 1\n",
		"\tMaxSize() = 4\n",
		"\tEncode(5) = \"0\"\n",
		"\tEncode(2) = \"100\"\n",
		"\tEncode(3) = \"101\"\n",
		"\tEncode(4) = \"111\"\n",
		"\tEncode(0) = \"1100\"\n",
		"\tEncode(1) = \"1101\"\n",
		"}\n",
	}, "")

	var buf strings.Builder
	_, _ = cb.Dump(&buf)
	actualDump := buf.String()

	if expectDump != actualDump {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectDump, actualDump)
	}

	expectSizes := []byte{4, 4, 3, 3, 3, 1}
	for symbol, expect := range expectSizes {
		hc, found := cb.Encode(Symbol(symbol))
		if !found {
			t.Errorf("symbol %d: no code", symbol)
			continue
		}
		if hc.Size != expect {
			t.Errorf("symbol %d: expected size %d, got %d", symbol, expect, hc.Size)
		}
		if back, found := cb.Decode(hc); !found || back != Symbol(symbol) {
			t.Errorf("symbol %d: inverse lookup of %s returned %d", symbol, hc, back)
		}
	}
}

func TestCodeBook_ScenarioC(t *testing.T) {
	symbols := mustSymbols(t, "abacabad")
	ft := CountFrequencies(symbols)
	cb := NewCodeBook(BuildTree(ft))

	expect := map[Symbol]string{'a': "0", 'b': "10", 'c': "110", 'd': "111"}
	for symbol, str := range expect {
		hc, found := cb.Encode(symbol)
		require.True(t, found)
		require.Equal(t, str, strings.Trim(hc.String(), "\""))
	}

	a, _ := cb.Encode('a')
	c, _ := cb.Encode('c')
	d, _ := cb.Encode('d')
	require.Less(t, a.Size, c.Size)
	require.Less(t, a.Size, d.Size)
	require.Equal(t, uint64(14), cb.EncodedSize(ft))
	requirePrefixFree(t, cb)
}

func TestCodeBook_SingleSymbol(t *testing.T) {
	cb := NewCodeBook(BuildTree(CountFrequencies(mustSymbols(t, "aaaa"))))
	require.Equal(t, []Entry{{Symbol: 'a', Code: MakeCode(1, 0)}}, cb.Entries())
	require.Equal(t, byte(1), cb.MinSize())
	require.Equal(t, byte(1), cb.MaxSize())
}

func TestCodeBook_Empty(t *testing.T) {
	cb := NewCodeBook(nil)
	require.Equal(t, 0, cb.Len())
	_, found := cb.Encode('a')
	require.False(t, found)
	symbol, found := cb.Decode(MakeCode(1, 0))
	require.False(t, found)
	require.Equal(t, InvalidSymbol, symbol)
}

func TestNewCodeBookFromEntries(t *testing.T) {
	cb := makeTestCodeBook()
	rebuilt, err := NewCodeBookFromEntries(cb.Entries())
	require.NoError(t, err)
	require.Equal(t, cb.Entries(), rebuilt.Entries())
	require.Equal(t, cb.MinSize(), rebuilt.MinSize())
	require.Equal(t, cb.MaxSize(), rebuilt.MaxSize())

	code := func(str string) Code {
		hc, err := ParseCode(str)
		require.NoError(t, err)
		return hc
	}

	type testRow struct {
		name    string
		entries []Entry
		errText string
	}

	testData := [...]testRow{
		{
			name:    "prefix",
			entries: []Entry{{'a', code("0")}, {'b', code("01")}},
			errText: "is a prefix of",
		},
		{
			name:    "prefix-unsorted",
			entries: []Entry{{'a', code("10")}, {'b', code("0")}, {'c', code("1011")}, {'d', code("11")}},
			errText: "is a prefix of",
		},
		{
			name:    "duplicate-symbol",
			entries: []Entry{{'a', code("0")}, {'a', code("1")}},
			errText: "duplicate symbol",
		},
		{
			name:    "duplicate-code",
			entries: []Entry{{'a', code("0")}, {'b', code("0")}},
			errText: "already assigned",
		},
		{
			name:    "empty-code",
			entries: []Entry{{'a', Code{}}},
			errText: "invalid code",
		},
		{
			name:    "stray-bits",
			entries: []Entry{{'a', MakeCode(1, 2)}},
			errText: "invalid code",
		},
		{
			name:    "negative-symbol",
			entries: []Entry{{-5, code("0")}},
			errText: "invalid symbol",
		},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			_, err := NewCodeBookFromEntries(row.entries)
			require.Error(t, err)
			require.Contains(t, err.Error(), row.errText)
		})
	}
}

func requirePrefixFree(t *testing.T, cb *CodeBook) {
	t.Helper()
	entries := cb.Entries()
	for i, a := range entries {
		for j, b := range entries {
			if i != j && b.Code.HasPrefix(a.Code) {
				t.Fatalf("code %s of symbol %d is a prefix of code %s of symbol %d", a.Code, a.Symbol, b.Code, b.Symbol)
			}
		}
	}
}
