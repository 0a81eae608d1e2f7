package schema

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind is the declared type of a schema property.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindNumber
	KindVec3
	// KindAsset holds an arbitrary reference, nil allowed.
	KindAsset
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindVec3:
		return "vec3"
	case KindAsset:
		return "asset"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// MarshalText lets tooling render kinds by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// normalize converts v to the canonical Go representation of kind k.
func normalize(k Kind, v any) (any, error) {
	switch k {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case int32:
			return float64(n), nil
		case uint:
			return float64(n), nil
		}
	case KindVec3:
		switch vec := v.(type) {
		case mgl64.Vec3:
			return vec, nil
		case [3]float64:
			return mgl64.Vec3(vec), nil
		case []float64:
			if len(vec) == 3 {
				return mgl64.Vec3{vec[0], vec[1], vec[2]}, nil
			}
		case []int:
			if len(vec) == 3 {
				return mgl64.Vec3{float64(vec[0]), float64(vec[1]), float64(vec[2])}, nil
			}
		case []any:
			if len(vec) == 3 {
				var out mgl64.Vec3
				for i, c := range vec {
					n, err := normalize(KindNumber, c)
					if err != nil {
						return nil, err
					}
					out[i] = n.(float64)
				}
				return out, nil
			}
		}
	case KindAsset:
		return v, nil
	}
	return nil, fmt.Errorf("%w: want %s, got %T", ErrTypeMismatch, k, v)
}
