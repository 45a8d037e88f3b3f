package cmd

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/bircni/Raytracing/scene"
	"github.com/bircni/Raytracing/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Built-in demo scenes. Real scene descriptions come from an external
// loader; these exist so the renderer can be exercised without one.
var builtinScenes = map[string]struct {
	description string
	build       func() *scene.Scene
}{
	"cornell": {
		description: "diffuse room with a mirror cube, a glass pane and two point lights",
		build:       cornellScene,
	},
	"cube": {
		description: "white unit cube lit from straight above",
		build:       cubeScene,
	},
	"empty": {
		description: "no geometry, gradient sky only",
		build:       emptyScene,
	},
}

// BuiltinScene assembles one of the built-in demo scenes by name.
func BuiltinScene(name string) (*scene.Scene, error) {
	entry, exists := builtinScenes[name]
	if !exists {
		return nil, fmt.Errorf("unknown scene %q; run the scenes command for a list", name)
	}
	return entry.build(), nil
}

// ListScenes prints the available built-in scenes.
func ListScenes(_ *cli.Context) error {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Description"})
	for _, name := range names {
		table.Append([]string{name, builtinScenes[name].description})
	}
	table.Render()

	fmt.Print(buf.String())
	return nil
}

// boxMesh builds the 12 triangles of an axis-aligned box spanning
// [min, max]. Faces wind outwards.
func boxMesh(min, max types.Vec3) scene.Mesh {
	v := [8]types.Vec3{
		{min[0], min[1], min[2]},
		{max[0], min[1], min[2]},
		{max[0], max[1], min[2]},
		{min[0], max[1], min[2]},
		{min[0], min[1], max[2]},
		{max[0], min[1], max[2]},
		{max[0], max[1], max[2]},
		{min[0], max[1], max[2]},
	}

	quads := [6][4]int{
		{1, 0, 3, 2}, // back   (-Z)
		{4, 5, 6, 7}, // front  (+Z)
		{0, 4, 7, 3}, // left   (-X)
		{5, 1, 2, 6}, // right  (+X)
		{3, 7, 6, 2}, // top    (+Y)
		{0, 1, 5, 4}, // bottom (-Y)
	}

	mesh := scene.Mesh{Triangles: make([]scene.MeshTriangle, 0, 12)}
	for _, q := range quads {
		mesh.Triangles = append(mesh.Triangles,
			triangle(v[q[0]], v[q[1]], v[q[2]]),
			triangle(v[q[0]], v[q[2]], v[q[3]]),
		)
	}
	return mesh
}

// quadMesh builds the two triangles of a quad from four corners in
// winding order.
func quadMesh(a, b, c, d types.Vec3) scene.Mesh {
	return scene.Mesh{Triangles: []scene.MeshTriangle{
		triangle(a, b, c),
		triangle(a, c, d),
	}}
}

func triangle(a, b, c types.Vec3) scene.MeshTriangle {
	return scene.MeshTriangle{V: [3]scene.Vertex{
		{Position: a},
		{Position: b},
		{Position: c},
	}}
}

func cornellScene() *scene.Scene {
	white := &scene.Material{Name: "white", Diffuse: types.Vec3{0.73, 0.73, 0.73}}
	red := &scene.Material{Name: "red", Diffuse: types.Vec3{0.65, 0.05, 0.05}}
	green := &scene.Material{Name: "green", Diffuse: types.Vec3{0.12, 0.45, 0.15}}
	mirror := &scene.Material{
		Name:         "mirror",
		Diffuse:      types.Vec3{0.2, 0.2, 0.2},
		Specular:     types.Vec3{1, 1, 1},
		SpecularExp:  64,
		Reflectivity: 0.8,
	}
	glass := &scene.Material{
		Name:         "glass",
		Diffuse:      types.Vec3{0.7, 0.9, 1},
		Transmission: 0.7,
	}

	objects := []scene.Object{
		{
			Name:      "floor",
			Mesh:      quadMesh(types.Vec3{-2, 0, -2}, types.Vec3{-2, 0, 2}, types.Vec3{2, 0, 2}, types.Vec3{2, 0, -2}),
			Transform: scene.TransformIdent(),
			Material:  white,
		},
		{
			Name:      "ceiling",
			Mesh:      quadMesh(types.Vec3{-2, 4, -2}, types.Vec3{2, 4, -2}, types.Vec3{2, 4, 2}, types.Vec3{-2, 4, 2}),
			Transform: scene.TransformIdent(),
			Material:  white,
		},
		{
			Name:      "back-wall",
			Mesh:      quadMesh(types.Vec3{-2, 0, -2}, types.Vec3{2, 0, -2}, types.Vec3{2, 4, -2}, types.Vec3{-2, 4, -2}),
			Transform: scene.TransformIdent(),
			Material:  white,
		},
		{
			Name:      "left-wall",
			Mesh:      quadMesh(types.Vec3{-2, 0, -2}, types.Vec3{-2, 4, -2}, types.Vec3{-2, 4, 2}, types.Vec3{-2, 0, 2}),
			Transform: scene.TransformIdent(),
			Material:  red,
		},
		{
			Name:      "right-wall",
			Mesh:      quadMesh(types.Vec3{2, 0, -2}, types.Vec3{2, 0, 2}, types.Vec3{2, 4, 2}, types.Vec3{2, 4, -2}),
			Transform: scene.TransformIdent(),
			Material:  green,
		},
		{
			Name: "mirror-cube",
			Mesh: boxMesh(types.Vec3{-0.6, 0, -0.6}, types.Vec3{0.6, 1.2, 0.6}),
			Transform: scene.Transform{
				Position: types.Vec3{-0.7, 0, -0.6},
				Rotation: types.QuatFromEuler(0.35, 0, 0),
				Scale:    types.Vec3{1, 1, 1},
			},
			Material: mirror,
		},
		{
			Name:      "glass-pane",
			Mesh:      quadMesh(types.Vec3{-0.9, 0.2, 1.2}, types.Vec3{0.9, 0.2, 1.2}, types.Vec3{0.9, 2.2, 1.2}, types.Vec3{-0.9, 2.2, 1.2}),
			Transform: scene.TransformIdent(),
			Material:  glass,
		},
		{
			Name: "small-cube",
			Mesh: boxMesh(types.Vec3{-0.4, 0, -0.4}, types.Vec3{0.4, 0.8, 0.4}),
			Transform: scene.Transform{
				Position: types.Vec3{0.9, 0, 0.5},
				Rotation: types.QuatFromEuler(-0.3, 0, 0),
				Scale:    types.Vec3{1, 1, 1},
			},
			Material: white,
		},
	}

	return &scene.Scene{
		Objects: objects,
		Lights: []scene.Light{
			scene.NewLight(types.Vec3{0, 3.8, 0}, types.Vec3{14, 14, 14}),
			scene.NewLight(types.Vec3{1.5, 2.5, 1.8}, types.Vec3{3, 3, 4}),
		},
		Camera:           scene.NewCamera(types.Vec3{0, 2, 6.5}, types.Vec3{0, 1.6, 0}, types.Vec3{0, 1, 0}, 45),
		Skybox:           scene.SolidSkybox{Color: types.Vec3{0.02, 0.02, 0.03}},
		AmbientColor:     types.Vec3{1, 1, 1},
		AmbientIntensity: 0.05,
	}
}

func cubeScene() *scene.Scene {
	white := &scene.Material{Name: "white", Diffuse: types.Vec3{0.9, 0.9, 0.9}}

	return &scene.Scene{
		Objects: []scene.Object{{
			Name:      "cube",
			Mesh:      boxMesh(types.Vec3{-0.5, -0.5, -0.5}, types.Vec3{0.5, 0.5, 0.5}),
			Transform: scene.TransformIdent(),
			Material:  white,
		}},
		Lights: []scene.Light{
			scene.NewLight(types.Vec3{0, 3, 0}, types.Vec3{10, 10, 10}),
		},
		Camera:           scene.NewCamera(types.Vec3{0, 4, 0.001}, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, 40),
		Skybox:           scene.SolidSkybox{Color: types.Vec3{0.05, 0.05, 0.08}},
		AmbientColor:     types.Vec3{1, 1, 1},
		AmbientIntensity: 0.1,
	}
}

func emptyScene() *scene.Scene {
	return &scene.Scene{
		Camera: scene.NewCamera(types.Vec3{0, 1, 3}, types.Vec3{0, 1, 0}, types.Vec3{0, 1, 0}, 60),
		Skybox: scene.GradientSkybox{
			Horizon: types.Vec3{0.9, 0.9, 1.0},
			Zenith:  types.Vec3{0.25, 0.45, 0.85},
			Ground:  types.Vec3{0.2, 0.18, 0.15},
		},
	}
}
