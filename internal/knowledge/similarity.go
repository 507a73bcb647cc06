package knowledge

import "math"

// CosineSimilarity 计算两个向量的余弦相似度
// 维度不一致或任一向量模为零时返回0，避免除零
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	normA := VectorNorm(a)
	normB := VectorNorm(b)
	if normA == 0 || normB == 0 {
		return 0
	}

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}

	return dot / (normA * normB)
}

// VectorNorm 计算向量模长
func VectorNorm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
