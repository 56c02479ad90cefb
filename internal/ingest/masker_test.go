package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logingest/internal/logger"
	apperrors "logingest/pkg/errors"
)

func TestHasher_Digest(t *testing.T) {
	h := NewHasher()

	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", h.Digest("", ""))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", h.Digest("a", "bc"))
	assert.Equal(t, h.Digest("ab", "c"), h.Digest("a", "bc"))
}

func TestMasker_Mask(t *testing.T) {
	m := NewMasker(logger.NopLogger())
	record := testRecord()

	masked, err := m.Mask(context.Background(), record, MaskedFields)
	require.NoError(t, err)

	ip, _ := masked.Get("ip")
	deviceID, _ := masked.Get("device_id")
	assert.Equal(t, md5Hex("1.2.3.4"+testDigest), ip)
	assert.Equal(t, md5Hex("dev-9"+testDigest), deviceID)
	assert.Len(t, ip, 32)
	assert.Equal(t, []string{"ip", "device_id"}, masked.MaskedFields())

	locale, _ := masked.Get("locale")
	assert.Equal(t, "en-US", locale)
	assert.Equal(t, record.Keys(), masked.Keys())
}

func TestMasker_Mask_DoesNotMutateInput(t *testing.T) {
	m := NewMasker(logger.NopLogger())
	record := testRecord()

	_, err := m.Mask(context.Background(), record, MaskedFields)
	require.NoError(t, err)

	ip, _ := record.Get("ip")
	assert.Equal(t, "1.2.3.4", ip)
	assert.False(t, record.IsMasked("ip"))
	assert.Empty(t, record.MaskedFields())
}

func TestMasker_Mask_Deterministic(t *testing.T) {
	m := NewMasker(logger.NopLogger())

	first, err := m.Mask(context.Background(), testRecord(), MaskedFields)
	require.NoError(t, err)
	second, err := m.Mask(context.Background(), testRecord(), MaskedFields)
	require.NoError(t, err)

	a, _ := first.Get("ip")
	b, _ := second.Get("ip")
	assert.Equal(t, a, b)
}

func TestMasker_Mask_SaltAndValueChangeDigest(t *testing.T) {
	m := NewMasker(logger.NopLogger())

	base, err := m.Mask(context.Background(), testRecord(), MaskedFields)
	require.NoError(t, err)

	otherSalt := testRecord()
	otherSalt.Set("secret_key", "def456")
	salted, err := m.Mask(context.Background(), otherSalt, MaskedFields)
	require.NoError(t, err)

	otherValue := testRecord()
	otherValue.Set("ip", "1.2.3.5")
	changed, err := m.Mask(context.Background(), otherValue, MaskedFields)
	require.NoError(t, err)

	baseIP, _ := base.Get("ip")
	saltedIP, _ := salted.Get("ip")
	changedIP, _ := changed.Get("ip")
	assert.NotEqual(t, baseIP, saltedIP)
	assert.NotEqual(t, baseIP, changedIP)
}

func TestMasker_Mask_Rejections(t *testing.T) {
	m := NewMasker(logger.NopLogger())

	noDevice := testRecordWithout("device_id")
	noSecret := testRecordWithout("secret_key")

	blankSecret := testRecord()
	blankSecret.Set("secret_key", "  ")

	tests := []struct {
		name  string
		build func() error
	}{
		{name: "missing field", build: func() error {
			_, err := m.Mask(context.Background(), noDevice, MaskedFields)
			return err
		}},
		{name: "missing secret", build: func() error {
			_, err := m.Mask(context.Background(), noSecret, MaskedFields)
			return err
		}},
		{name: "blank secret", build: func() error {
			_, err := m.Mask(context.Background(), blankSecret, MaskedFields)
			return err
		}},
		{name: "no fields", build: func() error {
			_, err := m.Mask(context.Background(), testRecord(), nil)
			return err
		}},
		{name: "nil record", build: func() error {
			_, err := m.Mask(context.Background(), nil, MaskedFields)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			require.Error(t, err)
			assert.True(t, apperrors.IsMasking(err), "got %v", err)
		})
	}
}
