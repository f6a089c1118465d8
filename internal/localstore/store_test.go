package localstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpggio/cycletrack/internal/domain/progress"
	"github.com/rpggio/cycletrack/internal/domain/schedule"
	"github.com/rpggio/cycletrack/internal/repository"
	"github.com/stretchr/testify/require"
)

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk gone") }
func (brokenKV) Set(context.Context, string, []byte) error   { return errors.New("quota exceeded") }

func newFileStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)
	return NewStore(kv, schedule.Default(), nil), dir
}

func TestStore_LoadMissing(t *testing.T) {
	s, _ := newFileStore(t)
	p, ok := s.Load(context.Background())
	require.False(t, ok)
	require.Nil(t, p)
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s, dir := newFileStore(t)

	p := progress.Empty()
	p.CheckedDays[1] = true
	p.DailyCapsules[1] = progress.Capsules{Osta: 0, Rad: 1, Card: 1}
	p.StartDate = "2026-03-14"
	s.Save(ctx, p)

	raw, err := os.ReadFile(filepath.Join(dir, Key+".json"))
	require.NoError(t, err)
	require.JSONEq(t, `{"checkedDays":{"1":true},"dailyCapsules":{"1":{"osta":0,"rad":1,"card":1}},"startDate":"2026-03-14"}`, string(raw))

	got, ok := s.Load(ctx)
	require.True(t, ok)
	require.Equal(t, p.CheckedDays, got.CheckedDays)
	require.Equal(t, p.DailyCapsules, got.DailyCapsules)
	require.Equal(t, p.StartDate, got.StartDate)
}

func TestStore_CorruptValueIsAbsent(t *testing.T) {
	ctx := context.Background()
	s, dir := newFileStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, Key+".json"), []byte("{not json"), 0o644))

	_, ok := s.Load(ctx)
	require.False(t, ok)

	_, err := s.Fetch(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_FailsSoft(t *testing.T) {
	ctx := context.Background()
	s := NewStore(brokenKV{}, schedule.Default(), nil)

	_, ok := s.Load(ctx)
	require.False(t, ok)
	require.NotPanics(t, func() { s.Save(ctx, progress.Empty()) })
	require.NoError(t, s.Upsert(ctx, progress.Empty()))
}

func TestStore_AsRepository(t *testing.T) {
	ctx := context.Background()
	s, _ := newFileStore(t)

	var repo progress.Repository = s
	_, err := repo.Fetch(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)

	svc := progress.NewService(repo, schedule.Default(), nil)
	_, err = svc.ToggleDay(ctx, 4, true)
	require.NoError(t, err)

	p, err := repo.Fetch(ctx)
	require.NoError(t, err)
	require.True(t, p.CheckedDays[4])
	require.NotEmpty(t, p.StartDate)
}
