package huffman

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func makeTestTable() *CodeTable[int] {
	t, err := BuildCodeTable(makeTestTree())
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildCodeTable(t *testing.T) {
	table := makeTestTable()

	expectDump := strings.Join([]string{
		"CodeTable{\n",
		"\tMinSize() = 1\n",
		"\tMaxSize() = 4\n",
		"\tLookup(5) = \"0\"\n",
		"\tLookup(2) = \"100\"\n",
		"\tLookup(3) = \"101\"\n",
		"\tLookup(4) = \"111\"\n",
		"\tLookup(0) = \"1100\"\n",
		"\tLookup(1) = \"1101\"\n",
		"}\n",
	}, "")

	var buf strings.Builder
	_, _ = table.Dump(&buf)
	actualDump := buf.String()

	if expectDump != actualDump {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectDump, actualDump)
	}

	expectSymbols := []int{5, 2, 3, 4, 0, 1}
	actualSymbols := table.Symbols()
	if len(actualSymbols) != len(expectSymbols) {
		t.Fatalf("wrong symbols:\n\texpect: %v\n\tactual: %v", expectSymbols, actualSymbols)
	}
	for i := range expectSymbols {
		if actualSymbols[i] != expectSymbols[i] {
			t.Fatalf("wrong symbols:\n\texpect: %v\n\tactual: %v", expectSymbols, actualSymbols)
		}
	}
}

func TestBuildCodeTable_PrefixFree(t *testing.T) {
	table := makeTestTable()
	symbols := table.Symbols()
	for _, a := range symbols {
		for _, b := range symbols {
			if a == b {
				continue
			}
			ha, _ := table.Lookup(a)
			hb, _ := table.Lookup(b)
			if ha.HasPrefix(hb) {
				t.Errorf("code %s for %d has prefix %s for %d", ha, a, hb, b)
			}
		}
	}
}

func TestBuildCodeTable_Scenario(t *testing.T) {
	root, err := BuildTree(Frequencies([]int{1, 1, 1, 1, 1, 1, 2, 2, 2, 3}))
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	table, err := BuildCodeTable(root)
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}

	expect := map[int]string{1: "1", 2: "01", 3: "00"}
	actual := table.Bitstrings()
	for symbol, str := range expect {
		if actual[symbol] != str {
			t.Errorf("wrong code for %d:\n\texpect: %s\n\tactual: %s", symbol, str, actual[symbol])
		}
	}
	if len(actual) != len(expect) {
		t.Errorf("expected %d codes, got %d", len(expect), len(actual))
	}

	h1, _ := table.Lookup(1)
	h3, _ := table.Lookup(3)
	if h1.Size != table.MinSize() || h3.Size != table.MaxSize() {
		t.Errorf("expected 1 to have the shortest code and 3 the longest, got %s and %s", h1, h3)
	}
}

func TestBuildCodeTable_SingleSymbol(t *testing.T) {
	root, _ := BuildTree(Frequencies([]int{5, 5, 5}))
	table, err := BuildCodeTable(root)
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}
	hc, found := table.Lookup(5)
	if !found || hc != MakeCode(1, 0) {
		t.Errorf("expected code \"0\" for 5, got %s (found=%v)", hc, found)
	}
	if table.Len() != 1 || table.MinSize() != 1 || table.MaxSize() != 1 {
		t.Errorf("wrong table: %s", table)
	}
}

func TestBuildCodeTable_EmptyTree(t *testing.T) {
	table, err := BuildCodeTable[int](nil)
	if !errors.Is(err, ErrEmptyTree) {
		t.Errorf("expected ErrEmptyTree, got %v", err)
	}
	if table != nil {
		t.Errorf("expected nil table")
	}
}

func fibonacciFreqs(n int) []Weighted[int] {
	out := make([]Weighted[int], n)
	a, b := uint64(1), uint64(1)
	for i := range out {
		out[i] = Weighted[int]{Symbol: i, Weight: a}
		a, b = b, a+b
	}
	return out
}

func TestBuildCodeTable_Depth(t *testing.T) {
	// Fibonacci weights produce a maximally deep tree: n leaves, depth n-1.
	root, err := BuildTree(fibonacciFreqs(65))
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	table, err := BuildCodeTable(root)
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}
	if table.MaxSize() != MaxCodeSize {
		t.Errorf("expected MaxSize %d, got %d", MaxCodeSize, table.MaxSize())
	}

	root, err = BuildTree(fibonacciFreqs(66))
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	_, err = BuildCodeTable(root)
	if !errors.Is(err, ErrCodeTooLong) {
		t.Errorf("expected ErrCodeTooLong, got %v", err)
	}
}

func TestNewCodeTable_Invalid(t *testing.T) {
	type testRow struct {
		name  string
		codes map[string]string
	}

	testData := [...]testRow{
		{name: "empty", codes: map[string]string{}},
		{name: "duplicate", codes: map[string]string{"a": "01", "b": "01"}},
		{name: "prefix", codes: map[string]string{"a": "0", "b": "01"}},
		{name: "deep-prefix", codes: map[string]string{"a": "1", "b": "01", "c": "0110"}},
		{name: "empty-code", codes: map[string]string{"a": ""}},
		{name: "not-binary", codes: map[string]string{"a": "0x"}},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			table, err := ParseCodeTable(row.codes)
			if !errors.Is(err, ErrInvalidCodeTable) {
				t.Errorf("expected ErrInvalidCodeTable, got %v", err)
			}
			if table != nil {
				t.Errorf("expected nil table")
			}
		})
	}

	_, err := NewCodeTable(map[string]Code{"a": MakeCode(1, 2)})
	if !errors.Is(err, ErrInvalidCodeTable) {
		t.Errorf("expected ErrInvalidCodeTable for stray bits, got %v", err)
	}
}

func TestParseCodeTable(t *testing.T) {
	expect := makeTestTable()
	actual, err := ParseCodeTable(expect.Bitstrings())
	if err != nil {
		t.Fatalf("ParseCodeTable failed: %v", err)
	}

	var expectBuf, actualBuf strings.Builder
	_, _ = expect.Dump(&expectBuf)
	_, _ = actual.Dump(&actualBuf)
	if expectBuf.String() != actualBuf.String() {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectBuf.String(), actualBuf.String())
	}
}

func TestCodeTable_String(t *testing.T) {
	table := makeTestTable()

	expectString := "(Huffman code table with 6 symbols, with coded lengths of 1 .. 4 bits)"
	actualString := table.String()
	if expectString != actualString {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectString, actualString)
	}
}

func TestCodeTable_EncodedBits(t *testing.T) {
	table := makeTestTable()

	// 5×4 + 9×4 + 12×3 + 13×3 + 16×3 + 45×1
	var expect uint64 = 224
	if actual := table.EncodedBits(makeTestFreqs()); actual != expect {
		t.Errorf("expected %d bits, got %d", expect, actual)
	}
}

func TestCodeTable_MarshalJSON(t *testing.T) {
	table := makeTestTable()

	raw, err := json.Marshal(table)
	if err != nil {
		t.Errorf("json.Marshal failed: %v", err)
	}
	expectJSON := `{"0":"1100","1":"1101","2":"100","3":"101","4":"111","5":"0"}`
	actualJSON := string(raw)
	if expectJSON != actualJSON {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectJSON, actualJSON)
	}
}

func TestCodeTable_UnmarshalJSON(t *testing.T) {
	raw := []byte(`{"0":"1100","1":"1101","2":"100","3":"101","4":"111","5":"0"}`)

	var table CodeTable[int]
	err := json.Unmarshal(raw, &table)
	if err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}

	var expectBuf, actualBuf strings.Builder
	_, _ = makeTestTable().Dump(&expectBuf)
	_, _ = table.Dump(&actualBuf)
	if expectBuf.String() != actualBuf.String() {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectBuf.String(), actualBuf.String())
	}

	err = json.Unmarshal([]byte(`{"0":"1","1":"10"}`), &table)
	if !errors.Is(err, ErrInvalidCodeTable) {
		t.Errorf("expected ErrInvalidCodeTable, got %v", err)
	}
}
