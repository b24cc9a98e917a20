package backend

// Symbols lists every entry point declared by Live2DCubismCore.h, in header
// order. A backend is only usable when all of them resolve.
var Symbols = []string{
	"csmGetVersion",
	"csmGetLatestMocVersion",
	"csmGetMocVersion",
	"csmGetLogFunction",
	"csmSetLogFunction",
	"csmReviveMocInPlace",
	"csmGetSizeofModel",
	"csmInitializeModelInPlace",
	"csmUpdateModel",
	"csmReadCanvasInfo",
	"csmGetParameterCount",
	"csmGetParameterIds",
	"csmGetParameterMinimumValues",
	"csmGetParameterMaximumValues",
	"csmGetParameterDefaultValues",
	"csmGetParameterValues",
	"csmGetParameterKeyCounts",
	"csmGetParameterKeyValues",
	"csmGetPartCount",
	"csmGetPartIds",
	"csmGetPartOpacities",
	"csmGetPartParentPartIndices",
	"csmGetDrawableCount",
	"csmGetDrawableIds",
	"csmGetDrawableConstantFlags",
	"csmGetDrawableDynamicFlags",
	"csmGetDrawableTextureIndices",
	"csmGetDrawableDrawOrders",
	"csmGetDrawableRenderOrders",
	"csmGetDrawableOpacities",
	"csmGetDrawableMaskCounts",
	"csmGetDrawableMasks",
	"csmGetDrawableVertexCounts",
	"csmGetDrawableVertexPositions",
	"csmGetDrawableVertexUvs",
	"csmGetDrawableIndexCounts",
	"csmGetDrawableIndices",
	"csmResetDrawableDynamicFlags",
}
