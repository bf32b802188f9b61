package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 3, cfg.Count.OvernightShift)
	assert.Equal(t, 6, cfg.Count.CutoffHour)
	assert.Equal(t, []int{1, 2, 3}, cfg.Sync.Shifts)
	assert.Equal(t, 15*time.Second, cfg.ERP.Timeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "America/Bogota", cfg.App.Location().String())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("SYNC_SHIFTS", "1, 3")
	v.Set("COUNT_MAX_QTY", "500")
	v.Set("DB_PASSWORD", "p@ss:word")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, cfg.Sync.Shifts)
	assert.Equal(t, 500, cfg.Count.MaxQty)
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%3Aword")
}

func TestFromViper_TurnosInvalidos(t *testing.T) {
	v := viper.New()
	v.Set("SYNC_SHIFTS", "1,7")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ZonaHoraria(t *testing.T) {
	v := viper.New()
	v.Set("APP_TIMEZONE", "America/Mexico_City")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "America/Mexico_City", cfg.App.Location().String())

	for _, tz := range []string{"Marte/Olimpo", ""} {
		v := viper.New()
		v.Set("APP_TIMEZONE", tz)
		_, err := fromViper(v)
		assert.ErrorContains(t, err, "APP_TIMEZONE", "zona %q", tz)
	}
}
