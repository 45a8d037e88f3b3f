package renderer

import (
	"errors"
	"testing"

	"github.com/bircni/Raytracing/scene"
	"github.com/bircni/Raytracing/tracer"
	"github.com/bircni/Raytracing/types"
)

func testOptions() Options {
	return Options{
		FrameW:          16,
		FrameH:          16,
		SamplesPerPixel: 1,
		NumWorkers:      2,
		BlockH:          4,
	}
}

func testScene() *scene.Scene {
	mat := &scene.Material{Name: "matte", Diffuse: types.Vec3{0.5, 0.5, 0.5}}
	quad := scene.Mesh{
		Triangles: []scene.MeshTriangle{
			{V: [3]scene.Vertex{
				{Position: types.Vec3{-5, 0, -5}},
				{Position: types.Vec3{0, 0, 5}},
				{Position: types.Vec3{5, 0, -5}},
			}},
		},
	}
	return &scene.Scene{
		Objects: []scene.Object{
			{Name: "floor", Mesh: quad, Transform: scene.TransformIdent(), Material: mat},
		},
		Lights: []scene.Light{
			{Position: types.Vec3{0, 3, 0}, Color: types.Vec3{1, 1, 1}, Intensity: 9},
		},
		Camera: scene.NewCamera(types.Vec3{0, 2, 4}, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, 60),
		Skybox: scene.SolidSkybox{Color: types.Vec3{0.2, 0.3, 0.4}},
	}
}

func TestNewValidation(t *testing.T) {
	type spec struct {
		sc     *scene.Scene
		opts   Options
		expErr error
	}

	noCamera := testScene()
	noCamera.Camera = nil

	specs := []spec{
		{nil, testOptions(), ErrSceneNotDefined},
		{noCamera, testOptions(), ErrCameraNotDefined},
		{testScene(), Options{FrameW: 0, FrameH: 16, SamplesPerPixel: 1}, ErrInvalidSettings},
		{testScene(), Options{FrameW: 16, FrameH: 16, SamplesPerPixel: 0}, ErrInvalidSettings},
		{testScene(), Options{FrameW: 16, FrameH: 16, SamplesPerPixel: 1, Exposure: -1}, ErrInvalidSettings},
	}

	for index, s := range specs {
		if _, err := New(s.sc, s.opts); !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestNewDegenerateGeometry(t *testing.T) {
	sc := testScene()
	// Collapse the floor to a line; baking drops every triangle and the
	// index has nothing left to partition.
	sc.Objects[0].Transform.Scale = types.Vec3{1, 1, 0}
	sc.Objects[0].Mesh.Triangles[0].V[1].Position = types.Vec3{5, 0, 0}
	sc.Objects[0].Mesh.Triangles[0].V[2].Position = types.Vec3{-5, 0, 0}

	if _, err := New(sc, testOptions()); !errors.Is(err, tracer.ErrEmptyScene) {
		t.Fatalf("expected tracer.ErrEmptyScene; got %v", err)
	}
}

func TestNewDefaultExposure(t *testing.T) {
	r, err := New(testScene(), testOptions())
	if err != nil {
		t.Fatal(err)
	}
	if exp := r.Options().Exposure; exp != 1.0 {
		t.Fatalf("expected zero exposure to default to 1.0; got %g", exp)
	}
}

func TestRenderFullFrame(t *testing.T) {
	r, err := New(testScene(), testOptions())
	if err != nil {
		t.Fatal(err)
	}

	fb, err := r.Render(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if fb.W != 16 || fb.H != 16 {
		t.Fatalf("expected a 16x16 framebuffer; got %dx%d", fb.W, fb.H)
	}

	stats := r.Stats()
	if !stats.Completed {
		t.Fatal("expected the frame to be reported as completed")
	}
	var rows uint32
	for _, w := range stats.Workers {
		rows += w.Rows
	}
	if rows != 16 {
		t.Fatalf("expected worker stats to account for 16 rows; got %d", rows)
	}

	for _, pix := range fb.Pix {
		if pix == (types.Vec3{}) {
			t.Fatal("expected every pixel to be shaded")
		}
	}
}

func TestRenderEmptySceneSkyboxOnly(t *testing.T) {
	sc := &scene.Scene{
		Camera: scene.NewCamera(types.Vec3{0, 0, 5}, types.Vec3{0, 0, 0}, types.Vec3{0, 1, 0}, 60),
		Skybox: scene.SolidSkybox{Color: types.Vec3{0.25, 0.5, 0.75}},
	}

	r, err := New(sc, testOptions())
	if err != nil {
		t.Fatal(err)
	}

	fb, err := r.Render(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, pix := range fb.Pix {
		if pix != (types.Vec3{0.25, 0.5, 0.75}) {
			t.Fatalf("expected every pixel to sample the skybox; got %v", pix)
		}
	}
}

func TestRenderCancelled(t *testing.T) {
	r, err := New(testScene(), testOptions())
	if err != nil {
		t.Fatal(err)
	}

	cancel := make(chan struct{})
	close(cancel)

	if _, err = r.Render(cancel, nil); err != nil {
		t.Fatalf("expected cancellation to not be an error; got %v", err)
	}
	if r.Stats().Completed {
		t.Fatal("expected a cancelled frame to be reported as incomplete")
	}
}
