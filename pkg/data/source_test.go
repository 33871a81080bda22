package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndListSources(t *testing.T) {
	db := setupTestDB(t)

	pop := 2500.0
	require.NoError(t, SaveSources(db, []*Source{
		{ID: 3, WaterType: SurfaceWaterType, PopEst: &pop, X: 105, Y: 215},
		{ID: 1, WaterType: SurfaceWaterType, X: 125, Y: 205},
		{ID: 2, WaterType: "GW", PopEst: &pop, X: 1, Y: 1},
	}))

	list, err := ListSources(db, SurfaceWaterType)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Ordered by id; missing pop_est comes back nil.
	assert.Equal(t, int64(1), list[0].ID)
	assert.Nil(t, list[0].PopEst)
	assert.Equal(t, int64(3), list[1].ID)
	require.NotNil(t, list[1].PopEst)
	assert.Equal(t, 2500.0, *list[1].PopEst)
}

func TestSaveSources_Upsert(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveSources(db, []*Source{{ID: 1, WaterType: SurfaceWaterType, X: 1, Y: 2}}))
	require.NoError(t, SaveSources(db, []*Source{{ID: 1, WaterType: SurfaceWaterType, X: 9, Y: 8}}))

	list, err := ListSources(db, SurfaceWaterType)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 9.0, list[0].X)
}

func TestListSources_EmptyType(t *testing.T) {
	db := setupTestDB(t)
	_, err := ListSources(db, "")
	assert.Error(t, err)
}

func TestSources_NilDB(t *testing.T) {
	assert.Error(t, SaveSources(nil, nil))
	_, err := ListSources(nil, SurfaceWaterType)
	assert.Error(t, err)
}

func TestHeadwaterCatchments(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveReaches(db, []*Reach{
		{ComID: 10, Basin: "02", StartFlag: true},
		{ComID: 11, Basin: "02", StartFlag: false},
		{ComID: 12, Basin: "02", StartFlag: true},
		{ComID: 10, Basin: "03", StartFlag: false},
	}))

	set, err := HeadwaterCatchments(db, "02")
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{10: true, 12: true}, set)

	set, err = HeadwaterCatchments(db, "03")
	require.NoError(t, err)
	assert.Empty(t, set)

	_, err = HeadwaterCatchments(db, "")
	assert.Error(t, err)
}

func TestSelectedFCodes(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveFCodes(db, []*FCode{
		{Code: 46006, Description: "stream/river", Selected: true},
		{Code: 56600, Description: "coastline"},
		{Code: 39004, Description: "lake/pond", Selected: true},
	}))

	set, err := SelectedFCodes(db)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{46006: true, 39004: true}, set)
}
