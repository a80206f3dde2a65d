package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/pkg/geometry"
	"github.com/df07/go-hybrid-raytracer/pkg/intersect"
	"github.com/df07/go-hybrid-raytracer/pkg/material"
	"github.com/df07/go-hybrid-raytracer/pkg/renderer"
	"github.com/df07/go-hybrid-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Solver       string                 `json:"solver,omitempty"` // "marched" or "traced"
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Material     map[string]interface{} `json:"material"`
	Geometry     map[string]interface{} `json:"geometry,omitempty"`
}

// InspectResult contains rich information about the first surface along a pixel's ray
type InspectResult struct {
	Ray       core.Ray
	Cast      intersect.CastResult
	Marchable geometry.Marchable // Set when the marcher owns the hit
	Traceable geometry.Traceable // Set when the tracer owns the hit
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// extractMaterialInfo lists a material's colour and blend weights
func extractMaterialInfo(mat material.Material) map[string]interface{} {
	c := mat.Color.Clamp(0, 1)
	return map[string]interface{}{
		"color":        vecArray(mat.Color),
		"hex":          fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255)),
		"emission":     mat.Emission,
		"metallic":     mat.Metallic,
		"roughness":    mat.Roughness,
		"transmission": mat.Transmission,
		"specular":     mat.Specular,
	}
}

// pixelRay returns the unjittered primary ray through the centre of pixel
// (x, y), where y counts down from the top row
func pixelRay(sc *scene.Scene, width, height, x, y int) core.Ray {
	u := (float64(x) + 0.5) / float64(width)
	v := (float64(height-y) - 0.5) / float64(height)
	aspect := float64(width) / float64(height)
	return renderer.MakeRay(sc.Camera.Origin, sc.Camera.VFov, aspect, [2]float64{u - 0.5, v - 0.5})
}

// inspectPixel casts a ray through the specified pixel and reports which
// solver and which object produced the first hit
func inspectPixel(sc *scene.Scene, width, height, x, y int) InspectResult {
	ray := pixelRay(sc, width, height, x, y)
	result := InspectResult{Ray: ray, Cast: intersect.Cast(sc.Marchables, sc.Traceables, ray)}
	if !result.Cast.Hit {
		return result
	}

	// Cast does not say who won, so repeat the tracer's answer and compare
	traced := intersect.Trace(sc.Traceables, ray)
	if traced.Hit && traced.Distance == result.Cast.Distance {
		for _, object := range sc.Traceables {
			if hit, distance, _ := object.Trace(ray); hit && distance == traced.Distance {
				result.Traceable = object
				break
			}
		}
		return result
	}

	if _, index := intersect.CombinedSDF(sc.Marchables, result.Cast.Point(ray)); index >= 0 {
		result.Marchable = sc.Marchables[index]
	}
	return result
}

// extractGeometryInfo describes the object that owns a hit
func extractGeometryInfo(result InspectResult) (string, string, map[string]interface{}) {
	properties := make(map[string]interface{})

	if result.Traceable != nil {
		switch geom := result.Traceable.(type) {
		case *geometry.Sphere:
			properties["center"] = vecArray(geom.Center)
			properties["radius"] = geom.Radius
			return "traced", "sphere", properties
		case *geometry.Box:
			properties["center"] = vecArray(geom.Center)
			properties["size"] = vecArray(geom.Size)
			return "traced", "box", properties
		case *geometry.Plane:
			properties["point"] = vecArray(geom.Point)
			properties["normal"] = vecArray(geom.Normal)
			return "traced", "plane", properties
		case *geometry.Disc:
			properties["center"] = vecArray(geom.Center)
			properties["normal"] = vecArray(geom.Normal)
			properties["radius"] = geom.Radius
			return "traced", "disc", properties
		case *geometry.Quad:
			properties["corner"] = vecArray(geom.Corner)
			properties["u"] = vecArray(geom.U)
			properties["v"] = vecArray(geom.V)
			properties["normal"] = vecArray(geom.Normal)
			return "traced", "quad", properties
		default:
			return "traced", "unknown", properties
		}
	}

	switch geom := result.Marchable.(type) {
	case *geometry.SDFSphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "marched", "sphere", properties
	case *geometry.SDFBox:
		properties["center"] = vecArray(geom.Center)
		properties["size"] = vecArray(geom.Size)
		properties["rounding"] = geom.Rounding
		return "marched", "box", properties
	case *geometry.SDFTorus:
		properties["center"] = vecArray(geom.Center)
		properties["majorRadius"] = geom.MajorRadius
		properties["minorRadius"] = geom.MinorRadius
		return "marched", "torus", properties
	case *geometry.SDFPlane:
		properties["point"] = vecArray(geom.Point)
		properties["normal"] = vecArray(geom.Normal)
		return "marched", "plane", properties
	default:
		return "marched", "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := s.createScene(inspectReq.Scene)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := inspectPixel(sceneObj, inspectReq.Width, inspectReq.Height, pixelX, pixelY)
	if !result.Cast.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{
			Hit:      false,
			Normal:   vecArray(result.Cast.Normal),
			Distance: -1,
			Material: extractMaterialInfo(sceneObj.Sky),
		})
		return
	}

	solver, geometryType, geometryProps := extractGeometryInfo(result)
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		Solver:       solver,
		GeometryType: geometryType,
		Point:        vecArray(result.Cast.Point(result.Ray)),
		Normal:       vecArray(result.Cast.Normal),
		Distance:     result.Cast.Distance,
		Material:     extractMaterialInfo(result.Cast.Material),
		Geometry:     geometryProps,
	})
}
