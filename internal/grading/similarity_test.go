package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 3, Levenshtein("kitten", "sitting"))
	assert.Equal(t, 0, Levenshtein("same", "same"))
	assert.Equal(t, 4, Levenshtein("", "abcd"))
	assert.Equal(t, 4, Levenshtein("abcd", ""))
	assert.Equal(t, 1, Levenshtein("你好", "你们"))
}

func TestSimilarity_Boundaries(t *testing.T) {
	assert.Equal(t, 100, Similarity("", ""))
	assert.Equal(t, 0, Similarity("abc", ""))
	assert.Equal(t, 0, Similarity("", "abc"))
	assert.Equal(t, 57, Similarity("kitten", "sitting"))
	assert.Equal(t, 50, Similarity("你好", "你们"))
}

func TestSimilarity_IsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"print(1)", "print(2);"},
		{"", "x"},
		{"int main() { return 0; }", "int main(){return 1;}"},
		{"求和", "求积与和"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestSimilarity_SelfIsHundred(t *testing.T) {
	for _, s := range []string{"", "a", "System.out.println(x);", "打印"} {
		n := Normalize(s)
		assert.Equal(t, 100, Similarity(n, n))
	}
}

func TestRoundScore_HalfUp(t *testing.T) {
	assert.Equal(t, 3.3, RoundScore(10.0/3))
	assert.Equal(t, 0.5, RoundScore(0.45))
	assert.Equal(t, 6.7, RoundScore(2*(10.0/3)))
	assert.Equal(t, 10.0, RoundScore(10))
}
