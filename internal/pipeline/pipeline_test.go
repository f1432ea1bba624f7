package pipeline

import (
	"Orion_Tube/internal/model"
	"Orion_Tube/pkg/errno"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "orion:orion@tcp(127.0.0.1:3306)/orion_tube?charset=utf8mb4&parseTime=True&loc=Local",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func catalogPlan(params Params) *Plan {
	return New(&model.Video{}, "videos").
		Then(
			JoinOwner("videos.owner_id", "videos.*"),
			SortBy("videos.created_at", true),
			TextSearch("Golang", "videos.title", "videos.description"),
			Match("videos.is_published", true),
		).
		Paginate(params)
}

func TestPlanStagesAreOrderedByKind(t *testing.T) {
	p := catalogPlan(Params{Page: 1, Limit: 10})
	assert.Equal(t, []string{
		"text",
		"match:videos.is_published",
		"sort:videos.created_at",
		"lookup:videos.owner_id",
		"paginate",
	}, p.StageNames())
}

func TestPlanBuildQuery(t *testing.T) {
	db := dryRunDB(t)
	p := catalogPlan(Params{Page: 3, Limit: 10})

	var rows []model.Video
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return p.BuildQuery(tx).Find(&rows)
	})
	assert.Contains(t, sql, "LOWER(videos.title) LIKE")
	assert.Contains(t, sql, "LOWER(videos.description) LIKE")
	assert.Contains(t, sql, "videos.is_published = true")
	assert.Contains(t, sql, "LEFT JOIN users AS owner ON owner.id = videos.owner_id AND owner.deleted_at IS NULL")
	assert.Contains(t, sql, "owner.username AS owner_username")
	assert.Contains(t, sql, "ORDER BY videos.created_at DESC")
	assert.Contains(t, sql, "LIMIT 10 OFFSET 20")
	assert.NotContains(t, sql, "owner.password")
}

func TestPlanBuildCountOnlyFilters(t *testing.T) {
	db := dryRunDB(t)
	p := catalogPlan(Params{Page: 2, Limit: 10})

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var n int64
		return p.BuildCount(tx).Count(&n)
	})
	assert.Contains(t, sql, "LOWER(videos.title) LIKE")
	assert.NotContains(t, sql, "LEFT JOIN users")
	assert.NotContains(t, sql, "ORDER BY")
	assert.NotContains(t, sql, "LIMIT")
}

func TestPlanDefaultOrderIsPrimaryKey(t *testing.T) {
	db := dryRunDB(t)
	p := New(&model.Tweet{}, "tweets").Then(Match("tweets.owner_id", 3)).Paginate(Params{Page: 1, Limit: 5})

	var rows []model.Tweet
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return p.BuildQuery(tx).Find(&rows)
	})
	assert.Contains(t, sql, "ORDER BY tweets.id")
	assert.Contains(t, sql, "LIMIT 5")
}

func TestPlanGroupCountsDistinctKey(t *testing.T) {
	db := dryRunDB(t)
	p := New(&model.Like{}, "likes").
		Then(
			Match("likes.liked_by_id", 1),
			InnerJoin("videos", "JOIN videos ON videos.id = likes.target_id AND videos.deleted_at IS NULL"),
			Group("likedVideos", "videos.id"),
		).
		Paginate(Params{Page: 1, Limit: 10})

	countSQL := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var n int64
		return p.BuildCount(tx).Count(&n)
	})
	assert.Contains(t, countSQL, "DISTINCT")

	var rows []model.Video
	querySQL := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return p.BuildQuery(tx).Find(&rows)
	})
	assert.Contains(t, querySQL, "SELECT DISTINCT")
}

func TestExecuteEmptyIsSuccess(t *testing.T) {
	db := dryRunDB(t)
	p := catalogPlan(Params{Page: 10, Limit: 10})

	page, err := Execute[model.Video](context.Background(), db, p)
	require.NoError(t, err)
	assert.NotNil(t, page.Docs)
	assert.Empty(t, page.Docs)
	assert.Equal(t, 10, page.Page)
}

func TestTextSearch(t *testing.T) {
	assert.Nil(t, TextSearch("   ", "videos.title"))
	assert.Nil(t, TextSearch("go"))
	assert.NotNil(t, TextSearch("go", "videos.title"))
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}

func TestResolveSort(t *testing.T) {
	fields := map[string]string{"createdAt": "videos.created_at", "views": "videos.views"}

	s, err := ResolveSort(fields, "", "desc")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = ResolveSort(fields, "views", "DESC")
	require.NoError(t, err)
	assert.Equal(t, "sort:videos.views", s.Name())

	_, err = ResolveSort(fields, "password", "asc")
	assert.ErrorIs(t, err, errno.InvalidArgument)

	_, err = ResolveSort(fields, "views", "sideways")
	assert.ErrorIs(t, err, errno.InvalidArgument)
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		limit   string
		want    Params
		wantErr bool
	}{
		{name: "defaults", want: Params{Page: 1, Limit: 10}},
		{name: "explicit", page: "3", limit: "20", want: Params{Page: 3, Limit: 20}},
		{name: "clamped", page: "1", limit: "1000", want: Params{Page: 1, Limit: 100}},
		{name: "zero page", page: "0", wantErr: true},
		{name: "negative limit", limit: "-5", wantErr: true},
		{name: "not a number", page: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParams(tt.page, tt.limit, 100)
			if tt.wantErr {
				assert.ErrorIs(t, err, errno.InvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginationBoundary(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i + 1
	}

	last := Slice(items, Params{Page: 3, Limit: 10})
	assert.Equal(t, []int{21, 22, 23, 24, 25}, last.Docs)
	assert.Equal(t, int64(25), last.TotalDocs)
	assert.Equal(t, 3, last.TotalPages)
	assert.True(t, last.HasPrevPage)
	assert.False(t, last.HasNextPage)
	require.NotNil(t, last.PrevPage)
	assert.Equal(t, 2, *last.PrevPage)
	assert.Nil(t, last.NextPage)

	beyond := Slice(items, Params{Page: 10, Limit: 10})
	assert.Empty(t, beyond.Docs)
	assert.Equal(t, int64(25), beyond.TotalDocs)

	first := Slice(items, Params{Page: 1, Limit: 10})
	assert.False(t, first.HasPrevPage)
	assert.True(t, first.HasNextPage)
	assert.Equal(t, 2, *first.NextPage)
}

func TestPageMarshalUsesGroupName(t *testing.T) {
	p := Map(NewPage([]int{1, 2}, 2, Params{Page: 1, Limit: 10}), func(i int) string {
		return string(rune('a' + i))
	}).WithGroup("likedVideos")

	b, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Contains(t, out, "likedVideos")
	assert.NotContains(t, out, "docs")
	assert.Equal(t, float64(2), out["totalDocs"])
	assert.Nil(t, out["prevPage"])
}
