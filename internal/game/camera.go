package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"driftroad/internal/road"
)

// toRender maps a world position into render space. World X grows to the
// driver's right; a right-handed view looking down +Z shows +X on the left,
// so render space mirrors X.
func toRender(p mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{-float32(p.X()), float32(p.Y()), float32(p.Z())}
}

// renderYaw converts a rotation about world Y into render space.
func renderYaw(a float64) float32 { return -float32(a) }

// Camera follows the car from behind and above.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Yaw    float64 // world radians, 0 looks down +Z

	// Screen shake.
	ShakeX, ShakeY float64 // current offset in world units
	ShakeTimer     float64 // remaining shake time
	ShakeIntensity float64 // max offset magnitude
}

// Reset snaps the camera behind pos, looking along yaw.
func (c *Camera) Reset(pos mgl64.Vec3, yaw float64) {
	c.Yaw = yaw
	c.Target = toRender(pos).Add(mgl32.Vec3{0, CameraLift, 0})
	c.Eye = c.desiredEye()
	c.ShakeTimer = 0
	c.ShakeX, c.ShakeY, c.ShakeIntensity = 0, 0, 0
}

// Follow eases the camera toward a spot behind pos. The target tracks the
// car exactly; yaw and eye trail it.
func (c *Camera) Follow(pos mgl64.Vec3, yaw, dt float64) {
	k := 1 - math.Exp(-CameraFollow*dt)
	c.Yaw += (yaw - c.Yaw) * k
	c.Target = toRender(pos).Add(mgl32.Vec3{0, CameraLift, 0})
	want := c.desiredEye()
	c.Eye = c.Eye.Add(want.Sub(c.Eye).Mul(float32(k)))
}

func (c *Camera) desiredEye() mgl32.Vec3 {
	fwd := toRender(mgl64.Vec3{math.Sin(c.Yaw), 0, math.Cos(c.Yaw)})
	return c.Target.Sub(fwd.Mul(CameraRadius)).Add(mgl32.Vec3{0, CameraHeight, 0})
}

// AddShake triggers screen shake with given intensity and duration.
func (c *Camera) AddShake(intensity, duration float64) {
	if intensity > c.ShakeIntensity {
		c.ShakeIntensity = intensity
	}
	if duration > c.ShakeTimer {
		c.ShakeTimer = duration
	}
}

// UpdateShake decays shake and computes random offsets.
func (c *Camera) UpdateShake(dt float64, seed uint64) {
	if c.ShakeTimer <= 0 {
		c.ShakeX = 0
		c.ShakeY = 0
		c.ShakeIntensity = 0
		return
	}
	c.ShakeTimer -= dt
	if c.ShakeTimer < 0 {
		c.ShakeTimer = 0
	}
	t := c.ShakeTimer
	rr := road.NewRand(seed ^ uint64(t*10000))
	mag := c.ShakeIntensity * (t / (t + 0.08))
	c.ShakeX = (rr.Float64()*2 - 1) * mag
	c.ShakeY = (rr.Float64()*2 - 1) * mag
}

// View returns the view matrix with shake applied to the eye.
func (c *Camera) View() mgl32.Mat4 {
	eye := c.Eye.Add(mgl32.Vec3{float32(c.ShakeX), float32(c.ShakeY), 0})
	return mgl32.LookAtV(eye, c.Target, mgl32.Vec3{0, 1, 0})
}

// Projection returns a perspective projection for a framebuffer size.
func Projection(fbW, fbH int) mgl32.Mat4 {
	aspect := float32(1)
	if fbW > 0 && fbH > 0 {
		aspect = float32(fbW) / float32(fbH)
	}
	return mgl32.Perspective(mgl32.DegToRad(CameraFovY), aspect, CameraNear, CameraFar)
}
