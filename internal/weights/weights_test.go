package weights_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/21it/grenade/internal/weights"
)

func TestUniformBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const fanIn, fanOut = 16, 8
	bound := 1 / math.Sqrt(fanIn)

	v := weights.Uniform.Vector(1000, fanIn, fanOut, rng)
	for i, x := range v.Data() {
		if x < -bound || x > bound {
			t.Fatalf("sample %d = %v outside [-%v, %v]", i, x, bound, bound)
		}
	}
}

func TestXavierBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const fanIn, fanOut = 10, 30
	bound := math.Sqrt(6.0 / (fanIn + fanOut))

	m := weights.Xavier.Matrix(25, 40, fanIn, fanOut, rng)
	for i, x := range m.Data() {
		if x < -bound || x > bound {
			t.Fatalf("sample %d = %v outside [-%v, %v]", i, x, bound, bound)
		}
	}
}

func TestHeEtAlMoments(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const fanIn = 50
	v := weights.HeEtAl.Vector(20000, fanIn, 1, rng)

	mean, sq := 0.0, 0.0
	for _, x := range v.Data() {
		mean += x
		sq += x * x
	}
	n := float64(v.Len())
	mean /= n
	std := math.Sqrt(sq/n - mean*mean)

	want := math.Sqrt(2.0 / fanIn)
	if math.Abs(mean) > 0.01 {
		t.Errorf("mean = %v, want ~0", mean)
	}
	if math.Abs(std-want) > 0.01 {
		t.Errorf("std = %v, want ~%v", std, want)
	}
}

func TestDeterministicBySeed(t *testing.T) {
	a := weights.Xavier.Matrix(3, 4, 4, 3, rand.New(rand.NewSource(42)))
	b := weights.Xavier.Matrix(3, 4, 4, 3, rand.New(rand.NewSource(42)))
	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatalf("same seed diverges at element %d", i)
		}
	}
}
