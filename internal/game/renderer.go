package game

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// FogFar is the view depth at which geometry fully fades into the sky.
const FogFar = 900.0

// glOffset converts a byte offset into the pointer form VertexAttribPointer wants.
func glOffset(n int) unsafe.Pointer {
	return unsafe.Pointer(uintptr(n))
}

type Renderer struct {
	boxProg    uint32
	boxVAO     uint32
	boxVBO     uint32
	boxCount   int32
	uViewProj  int32
	uModel     int32
	uColor     int32
	uLightDir  int32
	uFog       int32
	uFogFar    int32
	viewProj   mgl32.Mat4
	lastColour RGB

	// Font/text rendering.
	fontTex      uint32
	textProg     uint32
	textVAO      uint32
	textVBO      uint32
	textURes     int32
	textUFontTex int32
	textBuf      []float32
}

// cubeVertices returns a unit cube centred on the origin as 36 vertices of
// position(3) + normal(3).
func cubeVertices() []float32 {
	type face struct {
		n    [3]float32
		u, v [3]float32
	}
	faces := []face{
		{n: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
		{n: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
		{n: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
		{n: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
	}
	corners := [6][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, -1}, {1, 1}, {-1, 1}}

	out := make([]float32, 0, 36*6)
	for _, f := range faces {
		for _, c := range corners {
			for i := 0; i < 3; i++ {
				out = append(out, 0.5*(f.n[i]+c[0]*f.u[i]+c[1]*f.v[i]))
			}
			out = append(out, f.n[0], f.n[1], f.n[2])
		}
	}
	return out
}

func NewRenderer() (*Renderer, error) {
	boxProg, err := linkProgram(boxVertSrc, boxFragSrc)
	if err != nil {
		return nil, fmt.Errorf("box program: %w", err)
	}
	r := &Renderer{boxProg: boxProg}

	verts := cubeVertices()
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	stride := int32(6 * 4)
	gl.EnableVertexAttribArray(0) // aPos
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(0))
	gl.EnableVertexAttribArray(1) // aNormal
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, glOffset(3*4))
	r.boxVAO = vao
	r.boxVBO = vbo
	r.boxCount = int32(len(verts) / 6)

	gl.UseProgram(boxProg)
	r.uViewProj = gl.GetUniformLocation(boxProg, gl.Str("uViewProj\x00"))
	r.uModel = gl.GetUniformLocation(boxProg, gl.Str("uModel\x00"))
	r.uColor = gl.GetUniformLocation(boxProg, gl.Str("uColor\x00"))
	r.uLightDir = gl.GetUniformLocation(boxProg, gl.Str("uLightDir\x00"))
	r.uFog = gl.GetUniformLocation(boxProg, gl.Str("uFog\x00"))
	r.uFogFar = gl.GetUniformLocation(boxProg, gl.Str("uFogFar\x00"))

	light := mgl32.Vec3{0.35, 1.0, -0.45}.Normalize()
	gl.Uniform3f(r.uLightDir, light.X(), light.Y(), light.Z())
	gl.Uniform1f(r.uFogFar, FogFar)

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, id := range []uint32{r.boxVBO, r.textVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.boxVAO, r.textVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.boxProg, r.textProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
	if r.fontTex != 0 {
		gl.DeleteTextures(1, &r.fontTex)
	}
}

// BeginFrame clears to the sky colour and binds the box pipeline for cam.
func (r *Renderer) BeginFrame(cam *Camera, fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	sky := Palette.Sky
	gl.ClearColor(float32(sky.R)/255, float32(sky.G)/255, float32(sky.B)/255, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)

	r.viewProj = Projection(fbW, fbH).Mul4(cam.View())

	gl.UseProgram(r.boxProg)
	gl.BindVertexArray(r.boxVAO)
	gl.UniformMatrix4fv(r.uViewProj, 1, false, &r.viewProj[0])
	gl.Uniform3f(r.uFog, float32(sky.R)/255, float32(sky.G)/255, float32(sky.B)/255)
	r.lastColour = RGB{}
	gl.Uniform3f(r.uColor, 0, 0, 0)
}

// DrawBox draws one unit cube transformed by model. Assumes BeginFrame
// bound the box pipeline.
func (r *Renderer) DrawBox(model mgl32.Mat4, col RGB) {
	if col != r.lastColour {
		gl.Uniform3f(r.uColor, float32(col.R)/255, float32(col.G)/255, float32(col.B)/255)
		r.lastColour = col
	}
	gl.UniformMatrix4fv(r.uModel, 1, false, &model[0])
	gl.DrawArrays(gl.TRIANGLES, 0, r.boxCount)
}

// EndScene leaves 3D state so the HUD draws on top.
func (r *Renderer) EndScene() {
	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(0)
}
