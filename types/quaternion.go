package types

import "github.com/chewxy/math32"

// Quaternion used for rotating object geometry into world space.
type Quat struct {
	V Vec3
	W float32
}

// Create identity quaternion.
func QuatIdent() Quat {
	return Quat{
		V: Vec3{},
		W: 1.0,
	}
}

// Create a quaternion from an axis vector and an angle.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	sin := math32.Sin(angle * 0.5)
	cos := math32.Cos(angle * 0.5)
	return Quat{
		V: axis.Mul(sin),
		W: cos,
	}
}

// Create a quaternion from yaw (Y), pitch (X) and roll (Z) angles in radians.
func QuatFromEuler(yaw, pitch, roll float32) Quat {
	qYaw := QuatFromAxisAngle(Vec3{0, 1, 0}, yaw)
	qPitch := QuatFromAxisAngle(Vec3{1, 0, 0}, pitch)
	qRoll := QuatFromAxisAngle(Vec3{0, 0, 1}, roll)
	return qYaw.Mul(qPitch).Mul(qRoll).Normalize()
}

// Rotates a vector by the rotation this quaternion represents.
// This will result in a 3D vector.
func (q1 Quat) Rotate(v Vec3) Vec3 {
	cross := q1.V.Cross(v)
	// v + 2q_w * (q_v x v) + 2q_v x (q_v x v)
	return v.Add(cross.Mul(2 * q1.W)).Add(q1.V.Mul(2).Cross(cross))
}

// Multiplies two quaternions. This can be seen as a rotation. Note that
// Multiplication is NOT commutative, meaning q1.Mul(q2) does not necessarily
// equal q2.Mul(q1).
func (q1 Quat) Mul(q2 Quat) Quat {
	return Quat{
		q1.V.Cross(q2.V).Add(q2.V.Mul(q1.W)).Add(q1.V.Mul(q2.W)),
		q1.W*q2.W - q1.V.Dot(q2.V),
	}
}

// Returns the Length of the quaternion, also known as its Norm. This is the same thing as
// the Len of a Vec4
func (q1 Quat) Len() float32 {
	return math32.Sqrt(q1.W*q1.W + q1.V[0]*q1.V[0] + q1.V[1]*q1.V[1] + q1.V[2]*q1.V[2])
}

// Normalizes the quaternion, returning its versor (unit quaternion).
func (q1 Quat) Normalize() Quat {
	length := q1.Len()
	if length < floatCmpEpsilon {
		return QuatIdent()
	}
	if math32.Abs(1-length) < floatCmpEpsilon {
		return q1
	}
	s := 1.0 / length
	return Quat{q1.V.Mul(s), q1.W * s}
}
