package scene

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bircni/Raytracing/types"
	"github.com/olekukonko/tablewriter"
)

// Scene aggregates everything the renderer needs to draw a frame. A
// scene is assembled by an external loader (or in code), then handed to
// the renderer as a read-only snapshot: nothing in this package mutates
// a scene once rendering has started, which is what allows lock-free
// concurrent reads from all worker goroutines.
type Scene struct {
	Objects []Object
	Lights  []Light
	Camera  *Camera
	Skybox  Skybox

	// Ambient illumination applied to every shaded point.
	AmbientColor     types.Vec3
	AmbientIntensity float32
}

// Bake flattens all objects into world-space triangles.
func (sc *Scene) Bake() []BakedTriangle {
	var out []BakedTriangle
	for i := range sc.Objects {
		out = append(out, sc.Objects[i].Bake()...)
	}
	return out
}

// TriangleCount reports the total (pre-bake) mesh triangle count.
func (sc *Scene) TriangleCount() int {
	count := 0
	for i := range sc.Objects {
		count += len(sc.Objects[i].Mesh.Triangles)
	}
	return count
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Scene element", "Count"})
	table.Append([]string{"Objects", fmt.Sprintf("%d", len(sc.Objects))})
	for i := range sc.Objects {
		o := &sc.Objects[i]
		table.Append([]string{
			fmt.Sprintf("  %s", o.Name),
			fmt.Sprintf("%d triangles", len(o.Mesh.Triangles)),
		})
	}
	table.Append([]string{"Lights", fmt.Sprintf("%d", len(sc.Lights))})
	table.SetFooter([]string{"Triangles", strings.TrimSpace(fmt.Sprintf("%d", sc.TriangleCount()))})
	table.Render()
	return buf.String()
}
