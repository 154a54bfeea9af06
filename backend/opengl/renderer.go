// Package opengl provides an OpenGL 4.1 + GLFW engine for guitex.
package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/guitex"
)

// Renderer draws guitex pictures as textured screen-space quads.
type Renderer struct {
	shader   uint32
	vao, vbo uint32
	projLoc  int32
	texLoc   int32
	width    int
	height   int

	textures map[*guitex.Picture]*glTexture
}

// glTexture is the GPU copy of one picture's texture.
type glTexture struct {
	id      uint32
	version uint64
	size    guitex.Size
}

// quadVertex is one corner of a picture quad.
type quadVertex struct {
	Pos      [2]float32
	TexCoord [2]float32
}

const vertexShaderSource = `
#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;

out vec2 TexCoord;

uniform mat4 projection;

void main() {
    gl_Position = projection * vec4(aPos, 0.0, 1.0);
    TexCoord = aTexCoord;
}
` + "\x00"

// Frames are premultiplied, so the shader passes texels through and the
// blend function does not multiply by alpha again.
const fragmentShaderSource = `
#version 410 core
in vec2 TexCoord;

out vec4 FragColor;

uniform sampler2D pictureTexture;

void main() {
    FragColor = texture(pictureTexture, TexCoord);
}
` + "\x00"

// NewRenderer creates a renderer for a viewport of the given size. An OpenGL
// context must be current.
func NewRenderer(width, height int) (*Renderer, error) {
	r := &Renderer{
		width:    width,
		height:   height,
		textures: make(map[*guitex.Picture]*glTexture),
	}

	var err error
	r.shader, err = createShaderProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader: %w", err)
	}
	r.projLoc = gl.GetUniformLocation(r.shader, gl.Str("projection\x00"))
	r.texLoc = gl.GetUniformLocation(r.shader, gl.Str("pictureTexture\x00"))

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	stride := int32(unsafe.Sizeof(quadVertex{}))
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, unsafe.Offsetof(quadVertex{}.TexCoord))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return r, nil
}

// Resize updates the viewport size.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
}

// pixelTransfer returns the GL format and type reading a buffer of f as
// RGBA texels. Packed 8_8_8_8 types read the bytes of a pixel in reverse on
// little-endian machines.
func pixelTransfer(f guitex.PixelFormat) (format, xtype uint32, ok bool) {
	switch f {
	case guitex.FormatRGBA8:
		return gl.RGBA, gl.UNSIGNED_BYTE, true
	case guitex.FormatBGRA8:
		return gl.BGRA, gl.UNSIGNED_BYTE, true
	case guitex.FormatABGR8:
		return gl.RGBA, gl.UNSIGNED_INT_8_8_8_8, true
	case guitex.FormatARGB8:
		return gl.BGRA, gl.UNSIGNED_INT_8_8_8_8, true
	}
	return 0, 0, false
}

// upload refreshes the GPU copy of p's texture. Storage is reallocated when
// the texture was rebound to a new image.
func (r *Renderer) upload(p *guitex.Picture) *glTexture {
	img := p.Texture.Image()
	if img == nil || img.Size.Empty() {
		return nil
	}
	format, xtype, ok := pixelTransfer(img.Format)
	if !ok {
		return nil
	}

	t := r.textures[p]
	if t == nil {
		t = &glTexture{}
		gl.GenTextures(1, &t.id)
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		r.textures[p] = t
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	version := p.Texture.Version()
	switch {
	case t.version != version:
		img.TakeUpdate()
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(img.Size.Width), int32(img.Size.Height), 0,
			format, xtype, gl.Ptr(img.Data))
		t.version = version
		t.size = img.Size
	case img.TakeUpdate():
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(img.Size.Width), int32(img.Size.Height),
			format, xtype, gl.Ptr(img.Data))
	}
	return t
}

// Render draws every visible picture in order over the current framebuffer.
func (r *Renderer) Render(pictures []*guitex.Picture) error {
	if len(pictures) == 0 {
		return nil
	}

	// Save GL state
	var lastProgram int32
	var lastBlendSrc, lastBlendDst int32
	var blendEnabled, depthEnabled, cullEnabled bool

	gl.GetIntegerv(gl.CURRENT_PROGRAM, &lastProgram)
	gl.GetIntegerv(gl.BLEND_SRC_ALPHA, &lastBlendSrc)
	gl.GetIntegerv(gl.BLEND_DST_ALPHA, &lastBlendDst)
	blendEnabled = gl.IsEnabled(gl.BLEND)
	depthEnabled = gl.IsEnabled(gl.DEPTH_TEST)
	cullEnabled = gl.IsEnabled(gl.CULL_FACE)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)

	gl.UseProgram(r.shader)
	proj := orthoMatrix(0, float32(r.width), float32(r.height), 0, -1, 1)
	gl.UniformMatrix4fv(r.projLoc, 1, false, &proj[0])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(r.texLoc, 0)
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	for _, p := range pictures {
		if !p.Visible() {
			continue
		}
		t := r.upload(p)
		if t == nil {
			continue
		}
		quad := pictureQuad(p.Bounds())
		gl.BufferData(gl.ARRAY_BUFFER, len(quad)*int(unsafe.Sizeof(quadVertex{})), gl.Ptr(&quad[0]), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(quad)))
	}

	// Restore GL state
	gl.UseProgram(uint32(lastProgram))
	gl.BlendFunc(uint32(lastBlendSrc), uint32(lastBlendDst))
	if !blendEnabled {
		gl.Disable(gl.BLEND)
	}
	if depthEnabled {
		gl.Enable(gl.DEPTH_TEST)
	}
	if cullEnabled {
		gl.Enable(gl.CULL_FACE)
	}
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}

// pictureQuad returns two triangles covering b. Row 0 of the frame is the
// top of the screen.
func pictureQuad(b guitex.Rect) [6]quadVertex {
	x0, y0 := float32(b.X), float32(b.Y)
	x1, y1 := float32(b.X+b.W), float32(b.Y+b.H)
	return [6]quadVertex{
		{Pos: [2]float32{x0, y0}, TexCoord: [2]float32{0, 0}},
		{Pos: [2]float32{x1, y0}, TexCoord: [2]float32{1, 0}},
		{Pos: [2]float32{x1, y1}, TexCoord: [2]float32{1, 1}},
		{Pos: [2]float32{x0, y0}, TexCoord: [2]float32{0, 0}},
		{Pos: [2]float32{x1, y1}, TexCoord: [2]float32{1, 1}},
		{Pos: [2]float32{x0, y1}, TexCoord: [2]float32{0, 1}},
	}
}

// Forget releases the GPU copy of a detached picture.
func (r *Renderer) Forget(p *guitex.Picture) {
	if t, ok := r.textures[p]; ok {
		gl.DeleteTextures(1, &t.id)
		delete(r.textures, p)
	}
}

// Delete releases OpenGL resources.
func (r *Renderer) Delete() {
	for p := range r.textures {
		r.Forget(p)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.shader != 0 {
		gl.DeleteProgram(r.shader)
	}
}

// createShaderProgram compiles and links a shader program.
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader compilation failed: %w", err)
	}
	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader compilation failed: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &log[0])
		return 0, fmt.Errorf("shader program linking failed: %s", string(log))
	}

	// Cleanup shaders (they're linked into the program now)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)
	return program, nil
}

func compileShader(source string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csource, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
		return 0, fmt.Errorf("%s", string(log))
	}
	return shader, nil
}

// orthoMatrix creates an orthographic projection matrix.
func orthoMatrix(left, right, bottom, top, near, far float32) [16]float32 {
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}
