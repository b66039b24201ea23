// Package camera builds the model/view/projection matrices fed to the
// vertex shader through a uniform buffer.
package camera

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera looking at Target.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3

	// FovY is the vertical field of view in radians.
	FovY float32
	Near float32
	Far  float32
}

// Default frames a unit-sized model: eye at (2,2,2) looking at
// the origin with Z up.
func Default() Camera {
	return Camera{
		Eye:    mgl32.Vec3{2, 2, 2},
		Target: mgl32.Vec3{0, 0, 0},
		Up:     mgl32.Vec3{0, 0, 1},
		FovY:   mgl32.DegToRad(45),
		Near:   0.1,
		Far:    10,
	}
}

func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

// Projection returns a right-handed perspective matrix for Vulkan clip
// space: Y points down and depth runs from 0 to 1.
func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	proj := mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
	return vulkanClip.Mul4(proj)
}

// vulkanClip converts OpenGL clip space (Y up, Z in [-1,1]) to Vulkan's.
var vulkanClip = mgl32.Mat4{
	1, 0, 0, 0,
	0, -1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Orbit moves the eye around Target on the plane perpendicular to Up,
// keeping its distance and height.
func (c *Camera) Orbit(angle float32) {
	offset := c.Eye.Sub(c.Target)
	rot := mgl32.HomogRotate3D(angle, c.Up.Normalize())
	c.Eye = c.Target.Add(mgl32.TransformCoordinate(offset, rot))
}

// UniformBufferObject mirrors the std140 block
//
//	layout(binding = 0) uniform UniformBufferObject {
//	    mat4 model;
//	    mat4 view;
//	    mat4 proj;
//	};
type UniformBufferObject struct {
	Model mgl32.Mat4
	View  mgl32.Mat4
	Proj  mgl32.Mat4
}

// Size is the byte size of the block as seen by the shader.
const Size = 3 * 16 * 4

func NewUniformBufferObject(c Camera, model mgl32.Mat4, aspect float32) UniformBufferObject {
	return UniformBufferObject{
		Model: model,
		View:  c.View(),
		Proj:  c.Projection(aspect),
	}
}

// Spin returns a model matrix rotating around Z by a quarter turn per second.
func Spin(seconds float64) mgl32.Mat4 {
	period := math.Mod(seconds, 4.0)
	return mgl32.HomogRotate3DZ(float32(period * math.Pi / 2.0))
}

// Bytes encodes the block column-major, little endian.
func (u UniformBufferObject) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, Size))
	// Writes into a bytes.Buffer of fixed-size arrays cannot fail.
	_ = binary.Write(buf, binary.LittleEndian, u)
	return buf.Bytes()
}
