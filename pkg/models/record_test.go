package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldRecord_OrderAndMissing(t *testing.T) {
	r := NewFieldRecord()
	r.Set("secret_key", "abc123")
	r.Set("create_date", "2024-05-01")
	r.Set("user_id", "42")
	r.Set("secret_key", "def456")

	assert.Equal(t, []string{"secret_key", "create_date", "user_id"}, r.Keys())
	v, ok := r.Get("secret_key")
	assert.True(t, ok)
	assert.Equal(t, "def456", v)
	assert.Equal(t, []string{"ip", "locale"}, r.Missing("user_id", "ip", "locale"))
}

func TestFieldRecord_CloneIsIndependent(t *testing.T) {
	r := NewFieldRecord()
	r.MessageID = "m-1"
	r.Set("ip", "1.2.3.4")

	c := r.Clone()
	c.SetMasked("ip", "digest")
	c.Set("locale", "en-US")

	v, _ := r.Get("ip")
	assert.Equal(t, "1.2.3.4", v)
	assert.False(t, r.IsMasked("ip"))
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "m-1", c.MessageID)
	assert.Equal(t, []string{"ip"}, c.MaskedFields())
}

func TestSchemaRecord_Params(t *testing.T) {
	rec := SchemaRecord{
		CreateDate: "2024-05-01",
		UserID:     "42",
		AppVersion: 312,
		DeviceType: "ios",
		IP:         "ip-digest",
		DeviceID:   "device-digest",
		Locale:     "en-US",
	}

	params := rec.Params()
	assert.Len(t, params, 7)
	assert.Equal(t, int32(312), params["app_version"])
	assert.Equal(t, "ip-digest", params["ip"])
	assert.NotContains(t, params, "secret_key")
}
