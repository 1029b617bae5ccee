// Package vec содержит векторную арифметику над []float32,
// используемую при подсчете сходства и корректировке эмбеддингов.
package vec

import "math"

// Cosine возвращает косинусное сходство двух векторов.
// Для нулевых векторов или векторов разной длины возвращает 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Normalize возвращает вектор единичной длины.
// Нулевой вектор возвращается без изменений.
func Normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(v))
	if norm == 0 {
		copy(out, v)
		return out
	}

	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}

	return out
}

// Blend сдвигает вектор original в сторону target с весом weight:
// original + weight*(target-original). Результат не нормализуется.
func Blend(original, target []float32, weight float64) []float32 {
	out := make([]float32, len(original))
	for i := range original {
		out[i] = original[i] + float32(weight)*(target[i]-original[i])
	}

	return out
}
