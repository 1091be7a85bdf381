package scene

import (
	"fmt"
	"strings"
)

// ReferenceMode says how a layer element addresses its direct array.
type ReferenceMode int

const (
	Direct ReferenceMode = iota
	Index
	IndexToDirect
)

var referenceModeNames = []string{"direct", "index", "index_to_direct"}

func (r ReferenceMode) String() string {
	if int(r) >= 0 && int(r) < len(referenceModeNames) {
		return referenceModeNames[r]
	}
	return fmt.Sprintf("reference(%d)", int(r))
}

// MappingMode says which mesh component a layer element value applies to.
type MappingMode int

const (
	MappingNone MappingMode = iota
	ByControlPoint
	ByPolygonVertex
	ByPolygon
	ByEdge
	AllSame
)

var mappingModeNames = []string{"none", "by_control_point", "by_polygon_vertex", "by_polygon", "by_edge", "all_same"}

func (m MappingMode) String() string {
	if int(m) >= 0 && int(m) < len(mappingModeNames) {
		return mappingModeNames[m]
	}
	return fmt.Sprintf("mapping(%d)", int(m))
}

// ElementType follows the SDK's layer element ordering. The texture slots
// from TextureDiffuse onwards are the keys UV sets are stored under.
type ElementType int

const (
	Unknown ElementType = iota
	Normal
	BiNormal
	Tangent
	Material
	PolygonGroup
	UV
	VertexColor
	Smoothing
	VertexCrease
	EdgeCrease
	Hole
	UserData
	Visibility
	TextureDiffuse
	TextureDiffuseFactor
	TextureEmissive
	TextureEmissiveFactor
	TextureAmbient
	TextureAmbientFactor
	TextureSpecular
	TextureSpecularFactor
	TextureShininess
	TextureNormalMap
	TextureBump
	TextureTransparency
	TextureTransparencyFactor
	TextureReflection
	TextureReflectionFactor
	TextureDisplacement
	TextureDisplacementVector
	TypeCount
)

var elementTypeNames = [...]string{
	"unknown", "normal", "binormal", "tangent", "material", "polygon_group",
	"uv", "vertex_color", "smoothing", "vertex_crease", "edge_crease", "hole",
	"user_data", "visibility", "diffuse", "diffuse_factor", "emissive",
	"emissive_factor", "ambient", "ambient_factor", "specular",
	"specular_factor", "shininess", "normal_map", "bump", "transparency",
	"transparency_factor", "reflection", "reflection_factor", "displacement",
	"displacement_vector",
}

func (t ElementType) String() string {
	if int(t) >= 0 && int(t) < len(elementTypeNames) {
		return elementTypeNames[t]
	}
	if t == TypeCount {
		return "type_count"
	}
	return fmt.Sprintf("element(%d)", int(t))
}

// ParseReferenceMode accepts the names printed by String.
func ParseReferenceMode(s string) (ReferenceMode, error) {
	for i, n := range referenceModeNames {
		if strings.EqualFold(s, n) {
			return ReferenceMode(i), nil
		}
	}
	return 0, fmt.Errorf("scene: unknown reference mode %q", s)
}

// ParseMappingMode accepts the names printed by String.
func ParseMappingMode(s string) (MappingMode, error) {
	for i, n := range mappingModeNames {
		if strings.EqualFold(s, n) {
			return MappingMode(i), nil
		}
	}
	return 0, fmt.Errorf("scene: unknown mapping mode %q", s)
}

// ParseElementType accepts the names printed by String, including "type_count".
func ParseElementType(s string) (ElementType, error) {
	for i, n := range elementTypeNames {
		if strings.EqualFold(s, n) {
			return ElementType(i), nil
		}
	}
	if strings.EqualFold(s, "type_count") {
		return TypeCount, nil
	}
	return 0, fmt.Errorf("scene: unknown element type %q", s)
}
