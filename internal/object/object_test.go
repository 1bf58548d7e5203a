package object

import (
	"math"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualPrimitives(t *testing.T) {
	assert.True(t, Equal(Int(1), Int(1)))
	assert.False(t, Equal(Int(1), Int(2)))
	assert.True(t, Equal(Text("a"), Text("a")))
}

func TestEqualCrossNumericPromotion(t *testing.T) {
	assert.True(t, Equal(Int(2), Float(2.0)), "Int(2) should equal Float(2.0) under cross-numeric promotion")
}

func TestEqualNaNNeverEqual(t *testing.T) {
	nan := Float(math.NaN())
	assert.False(t, Equal(nan, nan), "NaN must never equal itself")
}

func TestEqualClosuresAndFuturesNeverEqual(t *testing.T) {
	c1 := &Closure{Name: "f"}
	c2 := &Closure{Name: "f"}
	assert.False(t, Equal(c1, c1), "closures must never be equal, even to themselves")
	assert.False(t, Equal(c1, c2))
	fu := &Future{}
	assert.False(t, Equal(fu, fu), "futures must never be equal, even to themselves")
}

func TestCompareNumericOrderingWithPromotion(t *testing.T) {
	cmp, ok := Compare(Int(1), Float(2.5))
	require.True(t, ok)
	assert.Equal(t, -1, cmp)
}

func TestCompareNaNUnordered(t *testing.T) {
	_, ok := Compare(Float(math.NaN()), Float(1))
	assert.False(t, ok, "comparisons involving NaN must be unorderable")
}

func TestCompareClosuresUnordered(t *testing.T) {
	_, ok := Compare(&Closure{}, &Closure{})
	assert.False(t, ok, "closures must be unordered")
}

func TestMapNoDuplicateKeys(t *testing.T) {
	m := NewMap()
	m.Set(Int(1), Text("a"))
	m.Set(Int(1), Text("b"))
	require.Equal(t, 1, m.Len(), "duplicate key overwrite")
	v, ok := m.Get(Int(1))
	require.True(t, ok)
	assert.True(t, Equal(v, Text("b")))
}

func TestMapInsertionOrderPreserved(t *testing.T) {
	m := NewMap()
	m.Set(Text("z"), Int(1))
	m.Set(Text("a"), Int(2))
	keys := m.Keys()
	require.Len(t, keys, 2)
	assert.True(t, Equal(keys[0], Text("z")))
	assert.True(t, Equal(keys[1], Text("a")))
}

func TestSetNoDuplicateMembers(t *testing.T) {
	s := NewSet()
	require.True(t, s.Add(Int(1)), "first Add should report inserted")
	assert.False(t, s.Add(Int(1)), "second Add of the same value should report not-inserted")
	assert.Equal(t, 1, s.Len())
}

func TestOptionSomeNone(t *testing.T) {
	some := Some(Int(5))
	none := None()
	assert.True(t, some.IsSome())
	assert.False(t, none.IsSome())
	assert.Equal(t, "None", none.String())
	assert.Equal(t, "Some(5)", some.String())
}

func TestResultOkErr(t *testing.T) {
	ok := Ok(Int(1))
	bad := Err(Text("boom"))
	assert.True(t, ok.IsOk())
	assert.False(t, bad.IsOk())
}

func TestRecordFieldOrderPreserved(t *testing.T) {
	r := NewRecord("Point")
	r.Set("y", Int(2))
	r.Set("x", Int(1))
	require.Equal(t, []string{"y", "x"}, r.Order)
}

// TestRecordStructuralDiff uses go-test/deep to produce a readable
// field-by-field diff when two record snapshots drift apart, the way
// playbymail-ottomap's location tests compare parsed structures.
func TestRecordStructuralDiff(t *testing.T) {
	a := NewRecord("Point")
	a.Set("x", Int(1))
	a.Set("y", Int(2))

	b := NewRecord("Point")
	b.Set("x", Int(1))
	b.Set("y", Int(2))

	if diff := deep.Equal(a, b); diff != nil {
		t.Errorf("identical records should produce no diff, got: %v", diff)
	}

	b.Set("y", Int(3))
	if diff := deep.Equal(a, b); diff == nil {
		t.Errorf("expected a diff once the records' y field diverges")
	}
}
