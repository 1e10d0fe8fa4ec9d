package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/glimt/imshell/ui"
)

// Renderer turns accumulated UI meshes and texture deltas into GL commands
// against the window's default framebuffer.
type Renderer struct {
	program uint32
	vao     uint32
	vbo     uint32
	ebo     uint32

	uniformProj int32
	uniformTex  int32

	textures map[ui.TextureID]uint32
}

// New compiles the UI pipeline. The GL context must be current.
func New() (*Renderer, error) {
	r := &Renderer{textures: make(map[ui.TextureID]uint32)}

	var err error
	r.program, err = makeProgram(vertexSource, fragmentSource)
	if err != nil {
		return nil, err
	}
	r.uniformProj = gl.GetUniformLocation(r.program, gl.Str("uProjection\x00"))
	r.uniformTex = gl.GetUniformLocation(r.program, gl.Str("uTexture\x00"))

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.GenBuffers(1, &r.ebo)
	return r, nil
}

// Shutdown frees all GL objects.
func (r *Renderer) Shutdown() {
	for id, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
		delete(r.textures, id)
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize reconfigures the drawable area. Dimensions are always positive;
// degenerate resizes never reach the renderer.
func (r *Renderer) Resize(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

// Paint renders one frame's accumulated output. Order is contractual:
// acquire check, texture uploads, draw over the preserved attachment
// contents, then texture frees strictly after the draw.
func (r *Renderer) Paint(out *ui.FrameOutput, in ui.PassInput) error {
	fbW := int32(in.FramebufferSize[0])
	fbH := int32(in.FramebufferSize[1])
	if fbW <= 0 || fbH <= 0 {
		return nil
	}
	// The presentable-image acquire analog: a framebuffer that is not
	// complete is a fatal per-frame error, no recovery.
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer unavailable: status 0x%x", status)
	}

	for _, up := range out.Textures.Set {
		r.uploadTexture(up)
	}

	r.setupRenderState(in.DisplaySize[0], in.DisplaySize[1], fbW, fbH)
	for i := range out.Meshes {
		r.drawMesh(&out.Meshes[i], fbW, fbH)
	}
	r.restoreRenderState()

	// Frees must come after the draw is recorded; a texture may still be
	// referenced by this frame's commands.
	for _, id := range out.Textures.Free {
		r.freeTexture(id)
	}
	return nil
}

func (r *Renderer) setupRenderState(displayW, displayH float32, fbW, fbH int32) {
	gl.Viewport(0, 0, fbW, fbH)
	gl.Enable(gl.BLEND)
	gl.BlendEquation(gl.FUNC_ADD)
	gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.SCISSOR_TEST)

	gl.UseProgram(r.program)
	gl.Uniform1i(r.uniformTex, 0)
	// Vertices are in logical points; the viewport is in pixels, so the
	// projection over the logical size handles the scale.
	ortho := [16]float32{
		2.0 / displayW, 0, 0, 0,
		0, -2.0 / displayH, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
	gl.UniformMatrix4fv(r.uniformProj, 1, false, &ortho[0])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(r.vao)
}

func (r *Renderer) restoreRenderState() {
	gl.Disable(gl.SCISSOR_TEST)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

func (r *Renderer) drawMesh(mesh *ui.Mesh, fbW, fbH int32) {
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices), gl.Ptr(mesh.Vertices), gl.STREAM_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices), gl.Ptr(mesh.Indices), gl.STREAM_DRAW)

	stride := int32(mesh.VertexStride)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, uintptr(mesh.PosOffset))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, uintptr(mesh.UVOffset))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 4, gl.UNSIGNED_BYTE, true, stride, uintptr(mesh.ColorOffset))

	idxType := uint32(gl.UNSIGNED_SHORT)
	if mesh.IndexSize == 4 {
		idxType = gl.UNSIGNED_INT
	}

	for _, cmd := range mesh.Commands {
		x, y, w, h, ok := scissorRect(cmd.ClipRect, fbW, fbH)
		if !ok {
			continue
		}
		gl.Scissor(x, y, w, h)
		if tex, ok := r.textures[cmd.Texture]; ok {
			gl.BindTexture(gl.TEXTURE_2D, tex)
		}
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(cmd.ElemCount), idxType,
			uintptr(cmd.IndexOffset*mesh.IndexSize))
	}
}

// --- Shader utilities ---

const vertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec2 aUV;
layout(location=2) in vec4 aColor;
uniform mat4 uProjection;
out vec2 vUV;
out vec4 vColor;
void main() {
    vUV = aUV;
    vColor = aColor;
    gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
}
` + "\x00"

const fragmentSource = `
#version 330 core
in vec2 vUV;
in vec4 vColor;
uniform sampler2D uTexture;
out vec4 FragColor;
void main() {
    FragColor = vColor * texture(uTexture, vUV);
}
` + "\x00"

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("shader compile error: %s", infoLog)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(infoLog))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", infoLog)
	}
	return prog, nil
}
