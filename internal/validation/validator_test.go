package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/disperse-validator/internal/lineparser"
	"github.com/ginjaninja78/disperse-validator/internal/types"
)

var (
	addrA = "0x" + strings.Repeat("1", 40)
	addrB = "0x" + strings.Repeat("2", 40)
)

func TestValidator_IsValidAddress(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		identifier string
		want       bool
	}{
		{name: "42 chars with prefix", identifier: addrA, want: true},
		{name: "non-hex body still accepted", identifier: "0x" + strings.Repeat("z", 40), want: true},
		{name: "too short", identifier: "0xshort", want: false},
		{name: "too long", identifier: addrA + "0", want: false},
		{name: "missing prefix", identifier: "1x" + strings.Repeat("1", 40), want: false},
		{name: "uppercase prefix rejected", identifier: "0X" + strings.Repeat("1", 40), want: false},
		{name: "empty", identifier: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.IsValidAddress(tt.identifier))
		})
	}
}

func TestIsValidAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{amount: "1", want: true},
		{amount: "0.5", want: true},
		{amount: "1000000000000000000000", want: true},
		{amount: "0", want: false},
		{amount: "0.000", want: false},
		{amount: "-1", want: false},
		{amount: "abc", want: false},
		{amount: "", want: false},
		{amount: "NaN", want: false},
		{amount: "Infinity", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidAmount(tt.amount))
		})
	}
}

func TestParseAmount_Spellings(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
		valid  bool
	}{
		{name: "exponent", amount: "1e3", want: "1000", valid: true},
		{name: "trailing point", amount: "5.", want: "5", valid: true},
		{name: "leading point", amount: ".5", want: "0.5", valid: true},
		{name: "explicit plus", amount: "+5", want: "5", valid: true},
		{name: "negative exponent", amount: "25e-2", want: "0.25", valid: true},
		{name: "largest magnitude", amount: "9e308", want: "9" + strings.Repeat("0", 308), valid: true},
		{name: "smallest magnitude", amount: "1e-324", want: "0." + strings.Repeat("0", 323) + "1", valid: true},
		{name: "long digits above the bound", amount: "1" + strings.Repeat("0", 309), valid: false},
		{name: "magnitude above the bound", amount: "1e309", valid: false},
		{name: "magnitude below the bound", amount: "1e-325", valid: false},
		{name: "huge exponent", amount: "1e900000000", valid: false},
		{name: "huge negative exponent", amount: "1e-900000000", valid: false},
		{name: "exponent beyond int32", amount: "1e99999999999", valid: false},
		{name: "zero with point", amount: "0.0", valid: false},
		{name: "hex", amount: "0x10", valid: false},
		{name: "infinity", amount: "Infinity", valid: false},
		{name: "nan", amount: "NaN", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.amount)
			if !tt.valid {
				assert.Error(t, err)
				assert.False(t, IsValidAmount(tt.amount))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestValidator_ValidateEntry(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		entry    types.ParsedEntry
		wantKind types.ErrorKind
		wantMsg  string
		wantNil  bool
	}{
		{
			name:    "valid entry",
			entry:   types.ParsedEntry{LineNumber: 1, Identifier: addrA, AmountText: "5"},
			wantNil: true,
		},
		{
			name:     "both invalid",
			entry:    types.ParsedEntry{LineNumber: 2, Identifier: "0xshort", AmountText: "zero"},
			wantKind: types.InvalidAddressAndAmount,
			wantMsg:  "Line 2 invalid Ethereum address and wrong amount.",
		},
		{
			name:     "address only",
			entry:    types.ParsedEntry{LineNumber: 3, Identifier: "0xshort", AmountText: "5"},
			wantKind: types.InvalidAddress,
			wantMsg:  "Line 3 has an invalid Ethereum address",
		},
		{
			name:     "amount only",
			entry:    types.ParsedEntry{LineNumber: 4, Identifier: addrA, AmountText: "-2"},
			wantKind: types.InvalidAmount,
			wantMsg:  "Line 4 has an invalid amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.ValidateEntry(tt.entry)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.entry.LineNumber, got.LineNumber)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, tt.wantMsg, got.Error())
		})
	}
}

func TestValidator_ValidateAll(t *testing.T) {
	v := NewValidator()
	text := strings.Join([]string{
		addrA + "=1",
		"not-an-address",
		"0xshort 5",
		addrB + ",0",
		"",
	}, "\n")

	errs := v.ValidateAll(lineparser.Parse(text))

	require.Len(t, errs, 4)
	assert.Equal(t, types.BadDelimiter, errs[0].Kind)
	assert.Equal(t, 2, errs[0].LineNumber)
	assert.Equal(t, "Line 2 is invalid: The address and amount should be separated by the delimiter of space (' '), equals (=), or comma (,).", errs[0].Message)
	assert.Equal(t, types.InvalidAddress, errs[1].Kind)
	assert.Equal(t, 3, errs[1].LineNumber)
	assert.Equal(t, types.InvalidAmount, errs[2].Kind)
	assert.Equal(t, 4, errs[2].LineNumber)
	assert.Equal(t, types.BadDelimiter, errs[3].Kind)
	assert.Equal(t, 5, errs[3].LineNumber)
}

func TestValidator_CustomOptions(t *testing.T) {
	v := NewValidatorWithOptions(Options{AddressLength: 6, AddressPrefix: "ab"})

	assert.True(t, v.IsValidAddress("abcdef"))
	assert.False(t, v.IsValidAddress(addrA))

	defaults := NewValidatorWithOptions(Options{})
	assert.Equal(t, DefaultOptions(), defaults.Options())
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No validation errors.", FormatErrors(nil))

	out := FormatErrors([]*types.ValidationError{
		{LineNumber: 1, Kind: types.InvalidAmount, Message: "Line 1 has an invalid amount"},
	})
	assert.Contains(t, out, "1 error(s)")
	assert.Contains(t, out, "1. [invalid amount] Line 1 has an invalid amount")
}
