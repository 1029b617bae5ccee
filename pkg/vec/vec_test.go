package vec

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        []float32{1, 2, 3},
			b:        []float32{1, 2, 3},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: -1.0,
		},
		{
			name:     "zero vector",
			a:        []float32{0, 0},
			b:        []float32{1, 1},
			expected: 0.0,
		},
		{
			name:     "length mismatch",
			a:        []float32{1, 2},
			b:        []float32{1, 2, 3},
			expected: 0.0,
		},
		{
			name:     "empty vectors",
			a:        nil,
			b:        nil,
			expected: 0.0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Cosine(test.a, test.b)
			if math.Abs(got-test.expected) > 1e-9 {
				t.Errorf("Cosine(%v, %v) = %v, want %v", test.a, test.b, got, test.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]float32{3, 4})
	want := []float32{0.6, 0.8}

	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Fatalf("Normalize([3 4]) = %v, want %v", got, want)
		}
	}

	var norm float64
	for _, x := range got {
		norm += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-6 {
		t.Errorf("normalized vector length = %v, want 1", math.Sqrt(norm))
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	got := Normalize([]float32{0, 0, 0})
	for i, x := range got {
		if x != 0 {
			t.Errorf("Normalize zero vector index %d = %v, want 0", i, x)
		}
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := []float32{3, 4}
	_ = Normalize(in)

	if in[0] != 3 || in[1] != 4 {
		t.Errorf("Normalize mutated input: %v", in)
	}
}

func TestBlend(t *testing.T) {
	tests := []struct {
		name     string
		original []float32
		target   []float32
		weight   float64
		want     []float32
	}{
		{
			name:     "zero weight keeps original",
			original: []float32{1, 0},
			target:   []float32{0, 1},
			weight:   0,
			want:     []float32{1, 0},
		},
		{
			name:     "full weight gives target",
			original: []float32{1, 0},
			target:   []float32{0, 1},
			weight:   1,
			want:     []float32{0, 1},
		},
		{
			name:     "partial shift",
			original: []float32{1, 0},
			target:   []float32{0, 1},
			weight:   0.1,
			want:     []float32{0.9, 0.1},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Blend(test.original, test.target, test.weight)
			for i := range test.want {
				if math.Abs(float64(got[i]-test.want[i])) > 1e-6 {
					t.Fatalf("Blend(%v, %v, %v) = %v, want %v",
						test.original, test.target, test.weight, got, test.want)
				}
			}
		})
	}
}
