package game

// Window defaults, used when the config leaves a size at zero.
const (
	WindowWidth  = 1024
	WindowHeight = 768
	WindowTitle  = "Drift Road"
)

// Follow camera.
const (
	CameraRadius = 50.0 // distance behind the car
	CameraHeight = 20.0 // eye height above the car
	CameraLift   = 4.0  // look-at point above the car origin
	CameraFollow = 4.0  // approach rate per second
	CameraFovY   = 55.0 // degrees
	CameraNear   = 0.5
	CameraFar    = 4000.0
)

// Font atlas: printable ASCII laid out in a grid of fixed cells.
const (
	FontFirst  = 32
	FontLast   = 126
	FontCols   = 16
	FontCellW  = 7
	FontCellH  = 13
	FontAscent = 11
	FontAtlasW = FontCols * FontCellW
	FontAtlasH = ((FontLast - FontFirst + FontCols) / FontCols) * FontCellH
	HUDScale   = 2.0
	HUDMargin  = 12.0
	TitleScale = 5.0
)

// FinishDepth is the length of the finish stripe along the direction of travel.
const FinishDepth = 2.0
