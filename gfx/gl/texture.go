package glbackend

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/glimt/imshell/ui"
)

// uploadTexture creates or replaces the GL texture behind a toolkit texture
// ID. Pixels are RGBA8.
func (r *Renderer) uploadTexture(up ui.TextureUpload) {
	if up.Width <= 0 || up.Height <= 0 || len(up.Pixels) < up.Width*up.Height*4 {
		return
	}
	tex, ok := r.textures[up.ID]
	if !ok {
		gl.GenTextures(1, &tex)
		r.textures[up.ID] = tex
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(up.Width), int32(up.Height),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(up.Pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (r *Renderer) freeTexture(id ui.TextureID) {
	if tex, ok := r.textures[id]; ok {
		gl.DeleteTextures(1, &tex)
		delete(r.textures, id)
	}
}

// scissorRect clamps a framebuffer-space clip rect and converts it to GL
// scissor coordinates (origin bottom-left).
func scissorRect(clip [4]float32, fbW, fbH int32) (x, y, w, h int32, ok bool) {
	x0 := math32.Max(clip[0], 0)
	y0 := math32.Max(clip[1], 0)
	x1 := math32.Min(clip[2], float32(fbW))
	y1 := math32.Min(clip[3], float32(fbH))
	if x1 <= x0 || y1 <= y0 {
		return 0, 0, 0, 0, false
	}
	x = int32(x0)
	y = fbH - int32(y1)
	w = int32(x1 - x0)
	h = int32(y1 - y0)
	return x, y, w, h, true
}
