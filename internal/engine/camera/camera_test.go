package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/groundwalk/pkg/math"
)

func near(a, b math.Vec3) bool {
	return a.Distance(b) < 1e-5
}

func TestForward(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float32
		want       math.Vec3
	}{
		{"default faces north", 0, 0, math.Vec3{Z: -1}},
		{"quarter left faces west", gomath.Pi / 2, 0, math.Vec3{X: -1}},
		{"quarter right faces east", -gomath.Pi / 2, 0, math.Vec3{X: 1}},
		{"about face", gomath.Pi, 0, math.Vec3{Z: 1}},
		{"looking up", 0, gomath.Pi / 4, math.Vec3{Y: 0.70710677, Z: -0.70710677}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFirstPerson(70, 0.002)
			c.SetOrientation(tt.yaw, tt.pitch)
			if got := c.Forward(); !near(got, tt.want) {
				t.Errorf("Forward() = %v, want %v", got, tt.want)
			}
			if l := c.Forward().Length(); math.Abs(l-1) > 1e-5 {
				t.Errorf("Forward() length = %v", l)
			}
		})
	}
}

func TestRightIsPerpendicularAndLevel(t *testing.T) {
	c := NewFirstPerson(70, 0.002)
	for _, yaw := range []float32{0, 0.3, 1.7, -2.5} {
		c.SetOrientation(yaw, 0.6)
		r := c.Right()
		if r.Y != 0 {
			t.Errorf("yaw %v: right %v is not level", yaw, r)
		}
		if d := r.Dot(c.Forward()); math.Abs(d) > 1e-5 {
			t.Errorf("yaw %v: right . forward = %v", yaw, d)
		}
		if want := c.Forward().Horizontal().Normalize().Cross(math.Up); !near(r, want) {
			t.Errorf("yaw %v: right %v, want forward x up = %v", yaw, r, want)
		}
	}
}

func TestHandleMouse(t *testing.T) {
	c := NewFirstPerson(70, 0.01)

	c.HandleMouse(10, 0)
	if c.Yaw >= 0 || c.Forward().X <= 0 {
		t.Errorf("moving the mouse right should turn right: yaw %v forward %v", c.Yaw, c.Forward())
	}

	c.SetOrientation(0, 0)
	c.HandleMouse(0, -10)
	if c.Pitch <= 0 {
		t.Errorf("moving the mouse up should look up, pitch %v", c.Pitch)
	}

	c.InvertY = true
	c.SetOrientation(0, 0)
	c.HandleMouse(0, -10)
	if c.Pitch >= 0 {
		t.Errorf("inverted mouse up should look down, pitch %v", c.Pitch)
	}
}

func TestPitchIsClamped(t *testing.T) {
	c := NewFirstPerson(70, 0.01)
	c.HandleMouse(0, -100000)
	if c.Pitch != MaxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, float32(MaxPitch))
	}
	c.HandleMouse(0, 100000)
	if c.Pitch != -MaxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, float32(-MaxPitch))
	}

	c.SetOrientation(0, 5)
	if c.Pitch != MaxPitch {
		t.Errorf("SetOrientation pitch = %v, want clamped", c.Pitch)
	}
}

func TestYawStaysBounded(t *testing.T) {
	c := NewFirstPerson(70, 0.01)
	for range 1000 {
		c.HandleMouse(500, 0)
	}
	if c.Yaw < -gomath.Pi || c.Yaw > gomath.Pi {
		t.Errorf("yaw = %v after many turns, want within [-pi, pi]", c.Yaw)
	}
}

func TestViewMatrixPutsForwardOnNegativeZ(t *testing.T) {
	c := NewFirstPerson(70, 0.002)
	c.SetPosition(math.Vec3{X: 3, Y: 1.35, Z: -2})
	c.SetOrientation(0.8, -0.3)

	ahead := c.Position.Add(c.Forward().Scale(5))
	if got := c.ViewMatrix().TransformVec3(ahead); !near(got, math.Vec3{Z: -5}) {
		t.Errorf("point ahead maps to %v in view space, want (0, 0, -5)", got)
	}
	if got := c.ViewMatrix().TransformVec3(c.Position); !near(got, math.Vec3{}) {
		t.Errorf("eye maps to %v, want origin", got)
	}
}

func TestProjectionMatrix(t *testing.T) {
	c := NewFirstPerson(90, 0.002)
	p := c.ProjectionMatrix(2)
	// With a 90 degree FOV, f = 1 and the X scale is f / aspect.
	if math.Abs(p[5]-1) > 1e-5 || math.Abs(p[0]-0.5) > 1e-5 {
		t.Errorf("projection scale = %v, %v", p[0], p[5])
	}
	if q := c.ProjectionMatrix(0); q[0] != q[5] {
		t.Errorf("zero aspect should fall back to square, got %v / %v", q[0], q[5])
	}
}
