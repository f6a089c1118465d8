package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/cycletrack/internal/domain/activity"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestActivityRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("log inserts entry", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		entry := &activity.Entry{ID: "a1", Type: activity.TypeDayChecked, Day: 2, Summary: "day 2 marked complete"}
		require.NoError(t, NewActivityRepository(mt.Coll).Log(context.Background(), entry))
		require.False(t, entry.CreatedAt.IsZero())

		cmd := mt.GetStartedEvent().Command
		require.Equal(t, "a1", cmd.Lookup("documents", "0", "_id").StringValue())
		require.Equal(t, "day_checked", cmd.Lookup("documents", "0", "type").StringValue())
	})

	mt.Run("list filters and sorts", func(mt *mtest.T) {
		at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "cycle.activity", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "a2"},
				{Key: "type", Value: "capsules_changed"},
				{Key: "day", Value: 3},
				{Key: "summary", Value: "day 3 rad set to 0"},
				{Key: "createdAt", Value: at.Add(time.Minute)},
			},
			bson.D{
				{Key: "_id", Value: "a1"},
				{Key: "type", Value: "day_checked"},
				{Key: "day", Value: 3},
				{Key: "summary", Value: "day 3 marked complete"},
				{Key: "createdAt", Value: at},
			},
		))

		day := 3
		entries, err := NewActivityRepository(mt.Coll).List(context.Background(), activity.ListOptions{Day: &day, Limit: 10})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, "a2", entries[0].ID)
		require.Equal(t, activity.TypeCapsulesChanged, entries[0].Type)

		cmd := mt.GetStartedEvent().Command
		require.Equal(t, int32(3), cmd.Lookup("filter", "day").Int32())
		require.Equal(t, int32(-1), cmd.Lookup("sort", "createdAt").Int32())
		require.EqualValues(t, 10, cmd.Lookup("limit").AsInt64())
	})
}
