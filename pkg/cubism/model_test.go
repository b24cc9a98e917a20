package cubism

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubism-go/cubism-core-go/pkg/cubism/internal/backend"
	"github.com/cubism-go/cubism-core-go/pkg/cubism/internal/backend/backendtest"
)

func TestReadCanvasInfo(t *testing.T) {
	model, _ := newTestModel(t)
	info, err := model.ReadCanvasInfo()
	require.NoError(t, err)
	assert.Equal(t, Vector2{X: 1024, Y: 2048}, info.Size)
	assert.Equal(t, Vector2{X: 512, Y: 1024}, info.Origin)
	assert.EqualValues(t, 1024, info.PixelsPerUnit)
}

func TestCounts(t *testing.T) {
	model, _ := newTestModel(t)

	n, ok, err := model.ParameterCount()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok, err = model.PartCount()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok, err = model.DrawableCount()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestAbsentCounts(t *testing.T) {
	spec := backendtest.SampleSpec()
	spec.AbsentParts = true
	lib, _ := newTestLibrary(t, spec)
	moc, err := lib.ReviveMoc(backendtest.MocBytes(uint8(backend.MocVersion40), 64))
	require.NoError(t, err)
	model, err := moc.InitializeModel()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, model.Close())
		require.NoError(t, moc.Close())
	}()

	n, ok, err := model.PartCount()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, n)

	opacities, err := model.PartOpacities()
	require.NoError(t, err)
	assert.Zero(t, opacities.Len())
	assert.True(t, opacities.Valid())

	ids, err := model.PartIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, found, err := model.PartIndex("PartFace")
	require.NoError(t, err)
	assert.False(t, found)

	assert.ErrorIs(t, model.SetPartOpacity(0, 1), ErrIndexOutOfRange)
}

func TestEmptyCountsAreNotAbsent(t *testing.T) {
	spec := backendtest.SampleSpec()
	spec.Parts = nil
	for i := range spec.Drawables {
		spec.Drawables[i].Part = -1
	}
	lib, _ := newTestLibrary(t, spec)
	moc, err := lib.ReviveMoc(backendtest.MocBytes(uint8(backend.MocVersion40), 64))
	require.NoError(t, err)
	model, err := moc.InitializeModel()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, model.Close())
		require.NoError(t, moc.Close())
	}()

	n, ok, err := model.PartCount()
	require.NoError(t, err)
	assert.True(t, ok, "zero parts is a present, empty table")
	assert.Zero(t, n)

	opacities, err := model.PartOpacities()
	require.NoError(t, err)
	assert.Zero(t, opacities.Len())
	assert.True(t, opacities.Valid())
	got, err := opacities.Copy()
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.ErrorIs(t, model.SetPartOpacity(0, 1), ErrIndexOutOfRange)
}

func TestSettersRejectNaN(t *testing.T) {
	model, _ := newTestModel(t)
	nan := float32(math.NaN())

	values, err := model.ParameterValues()
	require.NoError(t, err)
	before, err := values.At(0)
	require.NoError(t, err)

	assert.ErrorIs(t, model.SetParameterValue(0, nan), ErrInvalidValue)
	after, err := values.At(0)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	assert.ErrorIs(t, model.SetPartOpacity(0, nan), ErrInvalidValue)
	parts, err := model.PartOpacities()
	require.NoError(t, err)
	p, err := parts.At(0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, p)
}

func TestParameterTables(t *testing.T) {
	model, _ := newTestModel(t)

	ids, err := model.ParameterIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"ParamAngleX", "ParamEyeLOpen"}, ids)

	mins, err := model.ParameterMinimumValues()
	require.NoError(t, err)
	got, err := mins.Copy()
	require.NoError(t, err)
	assert.Equal(t, []float32{-30, 0}, got)

	maxs, err := model.ParameterMaximumValues()
	require.NoError(t, err)
	hi, err := maxs.At(1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, hi)

	defaults, err := model.ParameterDefaultValues()
	require.NoError(t, err)
	def, err := defaults.At(1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, def)

	keyCounts, err := model.ParameterKeyCounts()
	require.NoError(t, err)
	counts, err := keyCounts.Copy()
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 2}, counts)

	keys, err := model.ParameterKeyValues()
	require.NoError(t, err)
	assert.Equal(t, 2, keys.Len())
	row, err := keys.Row(0)
	require.NoError(t, err)
	vals, err := row.Copy()
	require.NoError(t, err)
	assert.Equal(t, []float32{-30, 0, 30}, vals)
}

func TestPartTables(t *testing.T) {
	model, _ := newTestModel(t)

	ids, err := model.PartIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"PartFace", "PartEye"}, ids)

	parents, err := model.PartParentPartIndices()
	require.NoError(t, err)
	got, err := parents.Copy()
	require.NoError(t, err)
	assert.Equal(t, []int32{-1, 0}, got)

	i, ok, err := model.PartIndex("PartEye")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestDrawableTables(t *testing.T) {
	model, _ := newTestModel(t)
	require.NoError(t, model.Update())

	ids, err := model.DrawableIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"ArtMeshFace", "ArtMeshEyeL", "ArtMeshGlow"}, ids)

	textures, err := model.DrawableTextureIndices()
	require.NoError(t, err)
	tex, err := textures.Copy()
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0, 1}, tex)

	drawOrders, err := model.DrawableDrawOrders()
	require.NoError(t, err)
	do, err := drawOrders.Copy()
	require.NoError(t, err)
	assert.Equal(t, []int32{500, 510, 520}, do)

	renderOrders, err := model.DrawableRenderOrders()
	require.NoError(t, err)
	ro, err := renderOrders.Copy()
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2}, ro)

	opacities, err := model.DrawableOpacities()
	require.NoError(t, err)
	op, err := opacities.Copy()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 1, 0.5}, op)

	maskCounts, err := model.DrawableMaskCounts()
	require.NoError(t, err)
	mc, err := maskCounts.Copy()
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2}, mc)

	masks, err := model.DrawableMasks()
	require.NoError(t, err)
	all, err := masks.Copy()
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Empty(t, all[0])
	assert.Equal(t, []int32{0, 1}, all[2])

	vertexCounts, err := model.DrawableVertexCounts()
	require.NoError(t, err)
	vc, err := vertexCounts.Copy()
	require.NoError(t, err)
	assert.Equal(t, []int32{4, 4, 3}, vc)

	uvs, err := model.DrawableVertexUvs()
	require.NoError(t, err)
	uvRow, err := uvs.Row(2)
	require.NoError(t, err)
	assert.Equal(t, 3, uvRow.Len())

	indexCounts, err := model.DrawableIndexCounts()
	require.NoError(t, err)
	ic, err := indexCounts.Copy()
	require.NoError(t, err)
	assert.Equal(t, []int32{6, 6, 3}, ic)

	indices, err := model.DrawableIndices()
	require.NoError(t, err)
	idxRow, err := indices.Row(0)
	require.NoError(t, err)
	idx, err := idxRow.Copy()
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 1, 2, 0, 2, 3}, idx)

	constant, err := model.DrawableConstantFlags()
	require.NoError(t, err)
	assert.Equal(t, []NonDynamicDrawableFlags{0, IsDoubleSided, BlendAdditive}, constant)
}

func TestViewIndexOutOfRange(t *testing.T) {
	model, _ := newTestModel(t)
	values, err := model.ParameterValues()
	require.NoError(t, err)

	_, err = values.At(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = values.At(values.Len())
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	positions, err := model.DrawableVertexPositions()
	require.NoError(t, err)
	_, err = positions.Row(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestZeroView(t *testing.T) {
	var v View[float32]
	assert.False(t, v.Valid())
	assert.Zero(t, v.Len())
	_, err := v.At(0)
	assert.ErrorIs(t, err, ErrModelClosed)

	var j Jagged[Vector2]
	_, err = j.Row(0)
	assert.ErrorIs(t, err, ErrModelClosed)
}

func TestUpdateInvalidatesViews(t *testing.T) {
	model, fake := newTestModel(t)

	positions, err := model.DrawableVertexPositions()
	require.NoError(t, err)
	row, err := positions.Row(0)
	require.NoError(t, err)
	opacities, err := model.DrawableOpacities()
	require.NoError(t, err)

	require.NoError(t, model.Update())
	assert.Equal(t, 1, fake.Updates(model.handle))

	assert.False(t, positions.Valid())
	assert.False(t, row.Valid())
	assert.False(t, opacities.Valid())
	_, err = row.At(0)
	assert.ErrorIs(t, err, ErrStaleView)
	_, err = positions.Row(0)
	assert.ErrorIs(t, err, ErrStaleView)
	_, err = opacities.Copy()
	assert.ErrorIs(t, err, ErrStaleView)

	fresh, err := model.DrawableOpacities()
	require.NoError(t, err)
	assert.True(t, fresh.Valid())
}

func TestSettersKeepViews(t *testing.T) {
	model, _ := newTestModel(t)

	values, err := model.ParameterValues()
	require.NoError(t, err)

	i, ok, err := model.ParameterIndex("ParamAngleX")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, model.SetParameterValue(i, 12.5))
	v, err := values.At(i)
	require.NoError(t, err)
	assert.EqualValues(t, 12.5, v)

	require.NoError(t, model.SetParameterValue(i, 100))
	v, err = values.At(i)
	require.NoError(t, err)
	assert.EqualValues(t, 30, v, "clamped to the parameter maximum")

	require.NoError(t, model.SetParameterValue(i, -100))
	v, err = values.At(i)
	require.NoError(t, err)
	assert.EqualValues(t, -30, v, "clamped to the parameter minimum")

	assert.ErrorIs(t, model.SetParameterValue(5, 0), ErrIndexOutOfRange)

	_, ok, err = model.ParameterIndex("ParamMissing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetPartOpacityAffectsUpdate(t *testing.T) {
	model, _ := newTestModel(t)

	require.NoError(t, model.SetPartOpacity(1, 2))
	parts, err := model.PartOpacities()
	require.NoError(t, err)
	p, err := parts.At(1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, p)

	require.NoError(t, model.SetPartOpacity(1, 0))
	require.NoError(t, model.Update())

	flags, err := model.DrawableDynamicFlags()
	require.NoError(t, err)
	assert.True(t, flags[0].Has(IsVisible))
	assert.False(t, flags[1].Has(IsVisible))
	assert.False(t, flags[2].Has(IsVisible))
}

func TestVertexPositionsFollowParameters(t *testing.T) {
	model, _ := newTestModel(t)
	require.NoError(t, model.SetParameterValue(0, 10))
	require.NoError(t, model.Update())

	positions, err := model.DrawableVertexPositions()
	require.NoError(t, err)
	row, err := positions.Row(0)
	require.NoError(t, err)
	first, err := row.At(0)
	require.NoError(t, err)
	// ParamAngleX=10 plus ParamEyeLOpen=1.
	assert.Equal(t, Vector2{X: 10, Y: -1}, first)
}

func TestResetDrawableDynamicFlags(t *testing.T) {
	model, _ := newTestModel(t)
	require.NoError(t, model.Update())

	flags, err := model.DrawableDynamicFlags()
	require.NoError(t, err)
	for i, f := range flags {
		assert.True(t, f.Has(IsVisible), "drawable %d", i)
		assert.True(t, f.Changed(), "drawable %d", i)
	}

	opacities, err := model.DrawableOpacities()
	require.NoError(t, err)

	require.NoError(t, model.ResetDrawableDynamicFlags())
	assert.False(t, opacities.Valid())

	flags, err = model.DrawableDynamicFlags()
	require.NoError(t, err)
	for i, f := range flags {
		assert.Equal(t, IsVisible, f, "drawable %d", i)
	}
}

func TestUnknownDynamicBitsMasked(t *testing.T) {
	spec := backendtest.SampleSpec()
	spec.ExtraDynamicBits = 0x80
	out := &syncBuffer{}
	fake := backendtest.New(spec)
	lib := newLibrary(Config{Logger: testLogger(out)}, fake)

	moc, err := lib.ReviveMoc(backendtest.MocBytes(uint8(backend.MocVersion40), 64))
	require.NoError(t, err)
	model, err := moc.InitializeModel()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, model.Close())
		require.NoError(t, moc.Close())
	}()

	require.NoError(t, model.Update())
	flags, err := model.DrawableDynamicFlags()
	require.NoError(t, err)
	for _, f := range flags {
		assert.Zero(t, uint8(f)&0x80)
		assert.True(t, f.Has(IsVisible))
	}
	assert.Equal(t, 1, strings.Count(out.String(), "dropped unknown drawable flag bits"))
	assert.Contains(t, out.String(), "drawables=3")
}

type frameSnapshot struct {
	canvas    CanvasInfo
	values    []float32
	flags     []DynamicDrawableFlags
	positions [][]Vector2
	opacities []float32
}

func TestDeterministicAcrossRevives(t *testing.T) {
	lib, _ := newTestLibrary(t, backendtest.SampleSpec())
	data := backendtest.MocBytes(uint8(backend.MocVersion40), 64)

	run := func() frameSnapshot {
		moc, err := lib.ReviveMoc(data)
		require.NoError(t, err)
		model, err := moc.InitializeModel()
		require.NoError(t, err)
		defer func() {
			require.NoError(t, model.Close())
			require.NoError(t, moc.Close())
		}()

		require.NoError(t, model.Update())

		var snap frameSnapshot
		snap.canvas, err = model.ReadCanvasInfo()
		require.NoError(t, err)
		values, err := model.ParameterValues()
		require.NoError(t, err)
		snap.values, err = values.Copy()
		require.NoError(t, err)
		snap.flags, err = model.DrawableDynamicFlags()
		require.NoError(t, err)
		positions, err := model.DrawableVertexPositions()
		require.NoError(t, err)
		snap.positions, err = positions.Copy()
		require.NoError(t, err)
		opacities, err := model.DrawableOpacities()
		require.NoError(t, err)
		snap.opacities, err = opacities.Copy()
		require.NoError(t, err)
		return snap
	}

	first := run()
	assert.Equal(t, first, run())

	assert.GreaterOrEqual(t, first.canvas.Size.X, float32(0))
	assert.GreaterOrEqual(t, first.canvas.Size.Y, float32(0))
	assert.Greater(t, first.canvas.PixelsPerUnit, float32(0))
}

func TestModelClosed(t *testing.T) {
	lib, _ := newTestLibrary(t, backendtest.SampleSpec())
	moc, err := lib.ReviveMoc(backendtest.MocBytes(uint8(backend.MocVersion40), 64))
	require.NoError(t, err)
	defer moc.Close()
	model, err := moc.InitializeModel()
	require.NoError(t, err)

	values, err := model.ParameterValues()
	require.NoError(t, err)
	require.NoError(t, model.Close())

	assert.False(t, values.Valid())
	_, err = values.At(0)
	assert.ErrorIs(t, err, ErrModelClosed)
	assert.ErrorIs(t, model.Update(), ErrModelClosed)
	assert.ErrorIs(t, model.ResetDrawableDynamicFlags(), ErrModelClosed)
	_, _, err = model.DrawableCount()
	assert.ErrorIs(t, err, ErrModelClosed)
	_, err = model.ReadCanvasInfo()
	assert.ErrorIs(t, err, ErrModelClosed)
	_, err = model.DrawableDynamicFlags()
	assert.ErrorIs(t, err, ErrModelClosed)
}

func TestConcurrentModelUse(t *testing.T) {
	model, _ := newTestModel(t)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if g%2 == 0 {
					assert.NoError(t, model.SetParameterValue(1, float32(i%2)))
					assert.NoError(t, model.Update())
					continue
				}
				view, err := model.DrawableOpacities()
				assert.NoError(t, err)
				if _, err := view.Copy(); err != nil {
					assert.ErrorIs(t, err, ErrStaleView)
				}
			}
		}(g)
	}
	wg.Wait()
}
