package scene

import "planviewer/internal/viewer/models"

// ============================================================
// Palette
// ============================================================

const (
	groundColor        = "#f5f5f5"
	wallColor          = "#bdbdbd"
	loadBearingColor   = "#b45a3c"
	zoneDefaultColor   = "#e0e0e0"
	objectColor        = "#4caf50"
	objectSelectColor  = "#ff9800"
	zoneOpacity        = 0.5
	toDeleteOpacity    = 0.45
	selectedEmissive   = 0.35
	unselectedEmissive = 0
)

var zonePalette = map[string]string{
	"kitchen":       "#ffe0b2",
	"bathroom":      "#b3e5fc",
	"living_room":   "#ffe5cc",
	"bedroom":       "#cce5ff",
	"dining_room":   "#fff3c4",
	"entrance_hall": "#d7ccc8",
	"laundry_room":  "#b2dfdb",
	"wet":           "#b2ebf2",
	"kids_room":     "#f8bbd0",
	"wardrobe":      "#d1c4e9",
	"home_office":   "#c5e1a5",
	"balcony":       "#dcedc8",
	"veranda":       "#dcedc8",
	"loggia":        "#dcedc8",
}

var roleTint = map[models.WallRole]string{
	models.RoleToDelete: "#e53935",
	models.RoleNew:      "#43a047",
	models.RoleModified: "#fb8c00",
}

// loadBearingRoleTint keeps load-bearing walls in a darker tone of each role colour.
var loadBearingRoleTint = map[models.WallRole]string{
	models.RoleToDelete: "#8e1b1b",
	models.RoleNew:      "#1b5e20",
	models.RoleModified: "#a14a00",
}

// WallColor returns the base wall colour for a role. Load-bearing walls stay
// distinguishable under every role.
func WallColor(role models.WallRole, loadBearing bool) string {
	tints, base := roleTint, wallColor
	if loadBearing {
		tints, base = loadBearingRoleTint, loadBearingColor
	}
	if c, ok := tints[role]; ok {
		return c
	}
	return base
}

// ZoneColor returns the fill for a zone type; unknown types get a neutral grey.
func ZoneColor(zoneType string) string {
	if c, ok := zonePalette[zoneType]; ok {
		return c
	}
	return zoneDefaultColor
}
