package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLogo(t *testing.T) {
	var c Client
	assert.False(t, c.HasLogo())
	assert.Equal(t, NoLogo, c.Logo())

	c.SetLogo("client-logos/a.png")
	assert.True(t, c.HasLogo())
	assert.Equal(t, "client-logos/a.png", c.Logo())

	c.SetLogo(NoLogo)
	assert.Nil(t, c.LogoPath)
}

func TestClientJSONReportsSentinel(t *testing.T) {
	c := Client{ID: 7, Name: "Acme", Slug: "acme", ClientPrefix: "ACM", SelfCapture: true}

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "no-image.jpg", raw["client_logo"])
	assert.Equal(t, "acme", raw["slug"])
	assert.Equal(t, true, raw["self_capture"])
	assert.Nil(t, raw["deleted_at"])
	assert.Nil(t, raw["address"])
	assert.NotContains(t, raw, "LogoPath")
}

func TestClientJSONSnapshot(t *testing.T) {
	city := "Porto"
	c := Client{
		ID:           3,
		Name:         "Acme",
		Slug:         "acme",
		IsProject:    true,
		ClientPrefix: "ACM",
		City:         &city,
		CreatedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	c.SetLogo("client-logos/x.png")

	data, err := json.Marshal(&c)
	require.NoError(t, err)

	var back Client
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "client-logos/x.png", back.Logo())
	assert.Equal(t, c.ID, back.ID)
	assert.True(t, back.IsProject)
	require.NotNil(t, back.City)
	assert.Equal(t, "Porto", *back.City)
	assert.True(t, c.CreatedAt.Equal(back.CreatedAt))

	var none Client
	require.NoError(t, json.Unmarshal([]byte(`{"slug":"b","client_logo":"no-image.jpg"}`), &none))
	assert.False(t, none.HasLogo())
}
