// Package mat holds the 4×4 matrix functions used by the transform pipeline.
//
// Matrices are column-major, the layout glUniformMatrix4fv expects with
// transpose=false: element (row r, column c) is stored at index c*4+r.
// Points are column vectors, so in a product A·B the right-hand matrix is
// applied to the point first.
package mat

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrDegenerateTransform is returned when projection parameters cannot
// produce an invertible matrix. The accompanying matrix is the identity.
var ErrDegenerateTransform = errors.New("degenerate transform")

// parallelEpsilon is the squared cross-product length below which the look-at
// up vector is treated as parallel to the view direction.
const parallelEpsilon = 1e-10

// Mat4 is a column-major 4×4 matrix.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns the element at row r, column c.
func (m Mat4) At(r, c int) float32 {
	return m[c*4+r]
}

// Mul returns m·o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m.At(r, k) * o.At(k, c)
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// MulPoint transforms p (w=1) and divides by the resulting w when it is not 0 or 1.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	x := m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]
	y := m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]
	z := m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]
	w := m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// ApproxEqual reports whether every element of m is within tol of o.
func (m Mat4) ApproxEqual(o Mat4, tol float32) bool {
	for i := range m {
		if math32.Abs(m[i]-o[i]) > tol {
			return false
		}
	}
	return true
}

// MultiplyChain composes ms left to right: MultiplyChain(A, B, C) = A·B·C.
// The last matrix is the first transform applied to a point.
// An empty chain is the identity.
func MultiplyChain(ms ...Mat4) Mat4 {
	out := Identity()
	for _, m := range ms {
		out = out.Mul(m)
	}
	return out
}

// Translate returns a translation by (dx, dy, dz).
func Translate(dx, dy, dz float32) Mat4 {
	m := Identity()
	m[12] = dx
	m[13] = dy
	m[14] = dz
	return m
}

// TranslateVec is Translate with a vector argument.
func TranslateVec(v Vec3) Mat4 {
	return Translate(v[0], v[1], v[2])
}

// Scale returns a scale by (sx, sy, sz).
func Scale(sx, sy, sz float32) Mat4 {
	m := Identity()
	m[0] = sx
	m[5] = sy
	m[10] = sz
	return m
}

// RotateZ returns a counter-clockwise rotation about the Z axis.
func RotateZ(rad float32) Mat4 {
	s, c := math32.Sincos(rad)
	m := Identity()
	m[0] = c
	m[1] = s
	m[4] = -s
	m[5] = c
	return m
}

// Perspective returns a right-handed perspective projection mapping the view
// frustum to clip space [-1,1]. It returns the identity and
// ErrDegenerateTransform when near <= 0, far <= near, aspect <= 0 or the field
// of view is outside (0, π).
func Perspective(fovY, aspect, near, far float32) (Mat4, error) {
	if near <= 0 || far <= near || aspect <= 0 || fovY <= 0 || fovY >= math32.Pi {
		return Identity(), fmt.Errorf("perspective(fov=%g aspect=%g near=%g far=%g): %w", fovY, aspect, near, far, ErrDegenerateTransform)
	}
	f := 1 / math32.Tan(fovY/2)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / (near - far)
	m[11] = -1
	m[14] = 2 * far * near / (near - far)
	return m, nil
}

// Orthographic returns an orthographic projection of the given box. It returns
// the identity and ErrDegenerateTransform when any extent is zero.
func Orthographic(left, right, bottom, top, near, far float32) (Mat4, error) {
	if right == left || top == bottom || far == near {
		return Identity(), fmt.Errorf("orthographic(%g,%g,%g,%g,%g,%g): %w", left, right, bottom, top, near, far, ErrDegenerateTransform)
	}
	m := Identity()
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = -2 / (far - near)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -(far + near) / (far - near)
	return m, nil
}

// fallbackUps are tried in order when the requested up vector is parallel to
// the view direction.
var fallbackUps = []Vec3{{0, 0, 1}, {0, 1, 0}, {1, 0, 0}}

// LookAt returns a view matrix for a camera at eye looking at target.
// If up is zero or parallel to the view direction another axis is substituted.
// If eye equals target the result only translates eye to the origin.
func LookAt(eye, target, up Vec3) Mat4 {
	fwd := target.Sub(eye)
	if fwd.Dot(fwd) == 0 {
		return TranslateVec(eye.Negate())
	}
	f := fwd.Normalize()
	side := f.Cross(up)
	if side.Dot(side) < parallelEpsilon {
		for _, alt := range fallbackUps {
			side = f.Cross(alt)
			if side.Dot(side) >= parallelEpsilon {
				break
			}
		}
	}
	s := side.Normalize()
	u := s.Cross(f)

	m := Identity()
	m[0], m[4], m[8] = s[0], s[1], s[2]
	m[1], m[5], m[9] = u[0], u[1], u[2]
	m[2], m[6], m[10] = -f[0], -f[1], -f[2]
	m[12] = -s.Dot(eye)
	m[13] = -u.Dot(eye)
	m[14] = f.Dot(eye)
	return m
}
