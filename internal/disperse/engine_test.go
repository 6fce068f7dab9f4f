package disperse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/disperse-validator/internal/lineparser"
	"github.com/ginjaninja78/disperse-validator/internal/types"
)

var (
	addr1 = "0x1111111111111111111111111111111111111111"
	addr2 = "0x2222222222222222222222222222222222222222"
)

const exampleInput = `0x1111111111111111111111111111111111111111=1
0x2222222222222222222222222222222222222222,2
0x1111111111111111111111111111111111111111 3`

func TestEngine_ParseAndValidate_DuplicateExample(t *testing.T) {
	engine := New()

	result := engine.ParseAndValidate(exampleInput)

	require.True(t, result.HasDuplicates)
	require.Len(t, result.Errors, 1)
	dup := result.Errors[0]
	assert.Equal(t, types.DuplicateAddress, dup.Kind)
	assert.Equal(t, addr1, dup.Identifier)
	assert.Equal(t, []int{1, 3}, dup.Lines)
	assert.Equal(t, "Address "+addr1+" is duplicated in line(s): 1, 3", dup.Message)
	assert.Len(t, result.Entries, 3)
	assert.Empty(t, result.LineErrors())

	keep, err := engine.ResolveDuplicates(result.Entries, types.KeepFirst)
	require.NoError(t, err)
	assert.Equal(t, addr1+"=1\n"+addr2+"=2", engine.Serialize(keep))

	combined, err := engine.ResolveDuplicates(result.Entries, types.Combine)
	require.NoError(t, err)
	assert.Equal(t, addr1+"=4\n"+addr2+"=2", engine.Serialize(combined))
}

func TestEngine_ParseAndValidate_LineErrors(t *testing.T) {
	engine := New()

	tests := []struct {
		name  string
		text  string
		kinds []types.ErrorKind
		lines []int
	}{
		{
			name:  "single token is a bad delimiter only",
			text:  "not-an-address",
			kinds: []types.ErrorKind{types.BadDelimiter},
			lines: []int{1},
		},
		{
			name:  "short address with valid amount",
			text:  "0xshort 5",
			kinds: []types.ErrorKind{types.InvalidAddress},
			lines: []int{1},
		},
		{
			name:  "empty buffer",
			text:  "",
			kinds: []types.ErrorKind{types.BadDelimiter},
			lines: []int{1},
		},
		{
			name:  "errors keyed by 1-based line",
			text:  addr1 + "=1\n\n0xshort=x\n" + addr2 + "=-1",
			kinds: []types.ErrorKind{types.BadDelimiter, types.InvalidAddressAndAmount, types.InvalidAmount},
			lines: []int{2, 3, 4},
		},
		{
			name: "duplicates are added after line errors",
			text: addr1 + "=1\nbad\n" + addr1 + "=abc",
			kinds: []types.ErrorKind{
				types.BadDelimiter,
				types.InvalidAmount,
				types.DuplicateAddress,
			},
			lines: []int{2, 3, 1},
		},
		{
			name:  "out of range amounts are invalid",
			text:  addr1 + "=1e900000000\n" + addr1 + "=1\n" + addr2 + "=1e-900000000",
			kinds: []types.ErrorKind{types.InvalidAmount, types.InvalidAmount, types.DuplicateAddress},
			lines: []int{1, 3, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.ParseAndValidate(tt.text)

			require.Len(t, result.Errors, len(tt.kinds))
			for i, err := range result.Errors {
				assert.Equal(t, tt.kinds[i], err.Kind)
				assert.Equal(t, tt.lines[i], err.LineNumber)
			}
			assert.Len(t, result.Messages(), len(tt.kinds))
		})
	}
}

func TestEngine_OneErrorPerFailingLine(t *testing.T) {
	engine := New()
	lines := []string{
		addr1 + "=1",
		"a b c",
		"0xshort=1",
		addr2 + "=0",
		"x=y",
		"",
		addr2 + "=3",
	}

	result := engine.ParseAndValidate(strings.Join(lines, "\n"))

	seen := map[int]int{}
	for _, err := range result.LineErrors() {
		seen[err.LineNumber]++
	}
	assert.Equal(t, map[int]int{2: 1, 3: 1, 4: 1, 5: 1, 6: 1}, seen)
}

func TestEngine_Canonical(t *testing.T) {
	engine := New()

	clean := engine.ParseAndValidate(addr1 + "=1.5\n" + addr2 + "=2")
	entries, err := engine.Canonical(clean)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1.5", entries[0].Amount.String())

	_, err = engine.Canonical(engine.ParseAndValidate(exampleInput))
	assert.ErrorIs(t, err, ErrNotClean)
}

func TestEngine_RoundTripKeepFirst(t *testing.T) {
	engine := New()
	result := engine.ParseAndValidate(exampleInput)

	resolved, err := engine.ResolveDuplicates(result.Entries, types.KeepFirst)
	require.NoError(t, err)

	again := engine.ParseAndValidate(engine.Serialize(resolved))
	assert.True(t, again.Clean())
	require.Len(t, again.Entries, 2)
	assert.Equal(t, addr1, again.Entries[0].Identifier)
	assert.Equal(t, "1", again.Entries[0].AmountText)
}

func TestNumberLines(t *testing.T) {
	text := strings.Repeat("x\n", 10) + "last"
	out := strings.Split(NumberLines(text), "\n")

	require.Len(t, out, 11)
	assert.Equal(t, " 1 | x", out[0])
	assert.Equal(t, "11 | last", out[10])
}

func TestExampleTextIsClean(t *testing.T) {
	result := New().ParseAndValidate(ExampleText)

	assert.Empty(t, result.LineErrors())
	assert.Len(t, lineparser.Entries(result.Lines), 3)
}
