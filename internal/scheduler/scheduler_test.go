package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/access"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/infrastructure/memstore"
	"github.com/jhoicas/Conteo-api/pkg/config"
	"github.com/jhoicas/Conteo-api/pkg/logger"
)

type fakeSyncer struct {
	calls []dto.SyncInput
	errs  map[string]error
}

func (f *fakeSyncer) Sync(_ context.Context, in dto.SyncInput) (*dto.SyncResult, error) {
	f.calls = append(f.calls, in)
	if err, ok := f.errs[fmt.Sprintf("%s/%d", in.StoreID, in.Shift)]; ok {
		return nil, err
	}
	return &dto.SyncResult{Success: true}, nil
}

func TestRunOnce_ContinuaTrasFallos(t *testing.T) {
	db := memstore.New()
	db.AddStore(&entity.Store{ID: "s1", Code: "T01", Active: true})
	db.AddStore(&entity.Store{ID: "s2", Code: "T02", Active: true})
	db.AddStore(&entity.Store{ID: "s3", Code: "T03", Active: false})

	syncer := &fakeSyncer{errs: map[string]error{
		"s1/1": domain.ErrUpstreamUnavailable,
		"s2/2": domain.ErrNotDistributed,
	}}
	s := New(config.SyncConfig{Schedule: "*/30 * * * *", Shifts: []int{1, 2}}, time.UTC, db.Stores(), syncer, logger.Nop())

	sum, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RunSummary{Synced: 2, Skipped: 1, Failed: 1}, sum)
	require.Len(t, syncer.calls, 4)
	for _, c := range syncer.calls {
		assert.Equal(t, access.RoleSystem, c.ActorRole)
		assert.NotEqual(t, "s3", c.StoreID)
	}
}

func TestStart_CronInvalido(t *testing.T) {
	s := New(config.SyncConfig{Schedule: "no es cron", Shifts: []int{1}}, nil, memstore.New().Stores(), &fakeSyncer{}, logger.Nop())
	assert.Error(t, s.Start())
}
