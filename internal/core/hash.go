package core

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pcgeo/pctree/internal/utils"
)

// geohashAlphabet is the base-32 alphabet used by the classical geohash
// encoding: digits and lowercase letters minus a, i, l, o.
const geohashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// MaxResolution bounds the length of any hash this package produces or
// accepts. It is a compile-time constant, not a Config knob: resolutions
// beyond it would not fit the bit-interleaving below cleanly.
const MaxResolution = 16

var geohashIndex [128]int8

func init() {
	for i := range geohashIndex {
		geohashIndex[i] = -1
	}
	for i, c := range geohashAlphabet {
		geohashIndex[c] = int8(i)
	}
}

// Coordinate is a (longitude, latitude) pair in degrees.
type Coordinate struct {
	X, Y float64
}

// Area is an axis-aligned bounding box in degrees.
type Area struct {
	XMin, YMin, XMax, YMax float64
}

// Mid returns the coordinate at the area's center.
func (a Area) Mid() Coordinate {
	return Coordinate{
		X: (a.XMin + a.XMax) / 2,
		Y: (a.YMin + a.YMax) / 2,
	}
}

// Encode produces an r-character base-32 geohash for c, alternating
// longitude/latitude bisection and emitting one base-32 digit per 5 bits.
func Encode(c Coordinate, r int) (string, error) {
	if r < 0 || r > MaxResolution {
		return "", utils.New(utils.KindRange, fmt.Sprintf("resolution %d exceeds max %d", r, MaxResolution))
	}
	if c.X < -180 || c.X > 180 || c.Y < -90 || c.Y > 90 {
		return "", utils.New(utils.KindRange, fmt.Sprintf("coordinate (%v,%v) out of range", c.X, c.Y))
	}
	if r == 0 {
		return "", nil
	}

	lonLo, lonHi := -180.0, 180.0
	latLo, latHi := -90.0, 90.0

	var sb strings.Builder
	sb.Grow(r)

	bit := 0
	var ch byte
	isLon := true

	for sb.Len() < r {
		if isLon {
			mid := (lonLo + lonHi) / 2
			if c.X >= mid {
				ch = ch<<1 | 1
				lonLo = mid
			} else {
				ch <<= 1
				lonHi = mid
			}
		} else {
			mid := (latLo + latHi) / 2
			if c.Y >= mid {
				ch = ch<<1 | 1
				latLo = mid
			} else {
				ch <<= 1
				latHi = mid
			}
		}
		isLon = !isLon
		bit++
		if bit == 5 {
			sb.WriteByte(geohashAlphabet[ch])
			bit = 0
			ch = 0
		}
	}
	return sb.String(), nil
}

// DecodeArea reverses the bisection in Encode, returning the hash's
// bounding cell. The empty hash yields the full world.
func DecodeArea(hash string) (Area, error) {
	lonLo, lonHi := -180.0, 180.0
	latLo, latHi := -90.0, 90.0

	isLon := true
	for i := 0; i < len(hash); i++ {
		c := hash[i]
		if c >= 128 || geohashIndex[c] < 0 {
			return Area{}, utils.New(utils.KindMalformed, fmt.Sprintf("invalid geohash character %q", c))
		}
		v := uint8(geohashIndex[c])
		for bit := 4; bit >= 0; bit-- {
			set := v&(1<<uint(bit)) != 0
			if isLon {
				mid := (lonLo + lonHi) / 2
				if set {
					lonLo = mid
				} else {
					lonHi = mid
				}
			} else {
				mid := (latLo + latHi) / 2
				if set {
					latLo = mid
				} else {
					latHi = mid
				}
			}
			isLon = !isLon
		}
	}
	return Area{XMin: lonLo, YMin: latLo, XMax: lonHi, YMax: latHi}, nil
}

// DecodeCoordinate returns the midpoint of the hash's decoded area.
func DecodeCoordinate(hash string) (Coordinate, error) {
	a, err := DecodeArea(hash)
	if err != nil {
		return Coordinate{}, err
	}
	return a.Mid(), nil
}

// CommonLength returns the length of the longest shared prefix of a and
// b, clamped to max. Returns 0 if either is empty, -1 if they share no
// prefix at all (and both are non-empty).
func CommonLength(a, b string, max int) int {
	if a == "" || b == "" {
		return 0
	}
	n := 0
	limit := len(a)
	if len(b) < limit {
		limit = len(b)
	}
	if limit > max {
		limit = max
	}
	for n < limit && a[n] == b[n] {
		n++
	}
	if n == 0 {
		return -1
	}
	return n
}

// LeafCase classifies the relationship between two hash fragments, per
// the leaf_parts table.
type LeafCase uint8

const (
	CaseGlobal LeafCase = iota
	CaseSame
	CaseChildBUnderA
	CaseChildAUnderB
	CaseSplit
	CaseNone
)

// LeafParts computes the shared-prefix relationship between a (an
// existing node's fragment) and b (an incoming fragment), returning the
// classification and each side's trimmed remainder. CaseChildAUnderB is
// the "rewritten as SPLIT" row: callers that don't need to distinguish
// it from a real SPLIT may treat the two identically, but insertion
// cares about the direction so it is kept distinct.
func LeafParts(a, b string, max int) (kase LeafCase, aLeaf, bLeaf string) {
	if a == "" {
		return CaseGlobal, "", b
	}
	if a == b {
		return CaseSame, "", ""
	}

	n := CommonLength(a, b, max)
	switch {
	case n == len(a) && len(b) > n:
		return CaseChildBUnderA, "", b[n:]
	case n == len(b) && len(a) > n:
		return CaseChildAUnderB, a[n:], ""
	case n > 0 && n < len(a) && n < len(b):
		return CaseSplit, a[n:], b[n:]
	default:
		return CaseNone, a, b
	}
}

// AreaCache memoizes DecodeArea results, since query/filter workloads
// repeatedly decode the same short prefixes while walking a tree.
// Encode results are not cached: encode inputs are not reused within a
// build pass.
type AreaCache struct {
	cache *lru.Cache[string, Area]
}

// DefaultAreaCacheSize is the number of distinct hashes an AreaCache
// retains before evicting the least recently used entry.
const DefaultAreaCacheSize = 4096

// NewAreaCache builds an AreaCache with the given capacity, or
// DefaultAreaCacheSize if size <= 0.
func NewAreaCache(size int) (*AreaCache, error) {
	if size <= 0 {
		size = DefaultAreaCacheSize
	}
	c, err := lru.New[string, Area](size)
	if err != nil {
		return nil, utils.Wrap(utils.KindError, "allocate area cache", err)
	}
	return &AreaCache{cache: c}, nil
}

// Decode returns hash's bounding area, using the cache when possible.
func (ac *AreaCache) Decode(hash string) (Area, error) {
	if a, ok := ac.cache.Get(hash); ok {
		return a, nil
	}
	a, err := DecodeArea(hash)
	if err != nil {
		return Area{}, err
	}
	ac.cache.Add(hash, a)
	return a, nil
}
