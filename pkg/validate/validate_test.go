package validate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwhande57/zimutilityxpress/pkg/validate"
)

func TestEconetNumber(t *testing.T) {
	require.True(t, validate.EconetNumber("0771234567"))
	require.True(t, validate.EconetNumber("0781234567"))
	require.True(t, validate.EconetNumber("077 123 4567"), "whitespace is stripped before matching")
	require.False(t, validate.EconetNumber("0711234567"), "071 is a NetOne prefix")
	require.False(t, validate.EconetNumber("077123456"))
	require.False(t, validate.EconetNumber("07712345678"))
}

func TestNetOneNumber(t *testing.T) {
	require.True(t, validate.NetOneNumber("0711234567"))
	require.False(t, validate.NetOneNumber("0771234567"))
}

func TestZimMobileNumber(t *testing.T) {
	require.True(t, validate.ZimMobileNumber("0771234567"))
	require.True(t, validate.ZimMobileNumber("0781234567"))
	require.True(t, validate.ZimMobileNumber("0711234567"))
	require.False(t, validate.ZimMobileNumber("0731234567"))
}

func TestMeterNumber(t *testing.T) {
	require.True(t, validate.MeterNumber("12345678901"))
	require.True(t, validate.MeterNumber("123 4567 8901"))
	require.False(t, validate.MeterNumber("1234567890"))
	require.False(t, validate.MeterNumber("123456789012"))
}

func TestTelOneAccount(t *testing.T) {
	require.True(t, validate.TelOneAccount("123456"))
	require.True(t, validate.TelOneAccount("123456789012"))
	require.False(t, validate.TelOneAccount("12345"))
	require.False(t, validate.TelOneAccount("1234567890123"))
}

func TestPolicyNumber(t *testing.T) {
	require.True(t, validate.PolicyNumber("NY12345678"))
	require.False(t, validate.PolicyNumber("ny12345678"))
	require.False(t, validate.PolicyNumber("N12345678"))
	require.False(t, validate.PolicyNumber("NY1234567"))
}

func TestFormatPhoneNumber(t *testing.T) {
	require.Equal(t, "077 123 4567", validate.FormatPhoneNumber("0771234567"))
	require.Equal(t, "077 123 4567", validate.FormatPhoneNumber("077-123-4567"))
	require.Equal(t, "077123", validate.FormatPhoneNumber("077123"))
}
