package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taichizzz/anime-recommender/internal/models"
)

func TestStub_Recommend(t *testing.T) {
	tests := []struct {
		name     string
		likedIDs []int
		wantErr  bool
	}{
		{name: "nil ids", likedIDs: nil, wantErr: true},
		{name: "empty ids", likedIDs: []int{}, wantErr: true},
		{name: "single id", likedIDs: []int{20}},
		{name: "three ids", likedIDs: []int{20, 1735, 442}},
		{name: "ids are not checked", likedIDs: []int{-5, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := NewStub().Recommend(context.Background(), tt.likedIDs)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, models.IsValidation(err))
				assert.Equal(t, ErrEmptyLikedIDs, err.Error())
				assert.Nil(t, recs)
				return
			}

			require.NoError(t, err)
			require.Len(t, recs, 2)
			assert.Equal(t, 1, recs[0].ID)
			assert.Equal(t, "Demo Recommendation A", recs[0].Title)
			assert.Equal(t, 2, recs[1].ID)
			assert.Equal(t, "Demo Recommendation B", recs[1].Title)
			for _, r := range recs {
				assert.NotEmpty(t, r.Reason)
				assert.Nil(t, r.ImageURL)
				assert.Nil(t, r.Score)
				assert.Nil(t, r.Year)
			}
		})
	}
}

func TestStub_OutputIsInputIndependent(t *testing.T) {
	stub := NewStub()
	a, err := stub.Recommend(context.Background(), []int{1})
	require.NoError(t, err)
	b, err := stub.Recommend(context.Background(), []int{99, 100, 101})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	a[0].Title = "mutated"
	c, err := stub.Recommend(context.Background(), []int{1})
	require.NoError(t, err)
	assert.Equal(t, "Demo Recommendation A", c[0].Title)
}
