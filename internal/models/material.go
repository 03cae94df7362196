package models

// Material is a printing material offered by a provider
type Material string

// Supported materials
const (
	MaterialPLA   Material = "PLA"
	MaterialABS   Material = "ABS"
	MaterialPETG  Material = "PETG"
	MaterialTPU   Material = "TPU"
	MaterialResin Material = "Resin"
)

// DefaultMaterial is preselected when a provider lists no materials
const DefaultMaterial = MaterialPLA

// IsValidMaterial checks if the material is one we know about
func IsValidMaterial(material Material) bool {
	switch material {
	case MaterialPLA, MaterialABS, MaterialPETG, MaterialTPU, MaterialResin:
		return true
	default:
		return false
	}
}
