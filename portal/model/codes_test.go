package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeActiveCodes(t *testing.T) {

	payload := `[
		{"code":"ABCD1234EFGH5678","status":"active","date":"2026-01-10","extra":42},
		{"Code":"ZZZZ1234EFGH5678","Status":"used"}
	]`

	codes, err := DecodeActiveCodes([]byte(payload))
	require.NoError(t, err)
	require.Len(t, codes, 2)

	assert.Equal(t, "ABCD1234EFGH5678", codes[0].Code)
	assert.Equal(t, "active", codes[0].Status)
	assert.Equal(t, "2026-01-10", codes[0].CreatedAt)
	assert.Equal(t, "ZZZZ1234EFGH5678", codes[1].Code)
}

func TestDecodeActiveCodes_Empty(t *testing.T) {

	codes, err := DecodeActiveCodes([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestDecodeActiveCodes_NotJSON(t *testing.T) {

	_, err := DecodeActiveCodes([]byte(`<html>login</html>`))
	assert.Error(t, err)
}

func TestDecodeTwoFactorSetup(t *testing.T) {

	payload := `[{"secret":"JBSWY3DPEHPK3PXP","uri":"otpauth://totp/panel?secret=JBSWY3DPEHPK3PXP"}]`

	setup, err := DecodeTwoFactorSetup([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", setup.Secret)
	assert.Equal(t, "otpauth://totp/panel?secret=JBSWY3DPEHPK3PXP", setup.ProvisioningContent())
}

func TestDecodeTwoFactorSetup_SecretOnly(t *testing.T) {

	setup, err := DecodeTwoFactorSetup([]byte(`[{"secret":"JBSWY3DPEHPK3PXP"}]`))
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", setup.ProvisioningContent())
}

func TestDecodeTwoFactorSetup_EmptyPayload(t *testing.T) {

	_, err := DecodeTwoFactorSetup([]byte(`[]`))
	assert.Error(t, err)

	_, err = DecodeTwoFactorSetup([]byte(`[{}]`))
	assert.Error(t, err)
}

func TestOutcomeZeroValueIsUnknown(t *testing.T) {

	var o ActivationOutcome
	assert.Equal(t, OutcomeUnknown, o)
	assert.False(t, o.Success())
	assert.Equal(t, "unknown", o.String())
}
