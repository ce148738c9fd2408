package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sumTemplate = "int main() {\n" +
	"  /**********SPACE**********/\n" +
	"  int a = 【?】;\n" +
	"  /**********SPACE**********/\n" +
	"  printf(\"%d\", 【?】);\n" +
	"}"

func TestExtractFillBlankAnswers(t *testing.T) {
	code := "int main() {\n" +
		"  /**********SPACE**********/\n" +
		"  int a = 10;\n" +
		"  /**********SPACE**********/\n" +
		"  printf(\"%d\", a);\n" +
		"}"
	assert.Equal(t, []string{"10", "a"}, ExtractFillBlankAnswers(code, sumTemplate))
}

func TestExtractFillBlankAnswers_UnfilledPlaceholderIsEmpty(t *testing.T) {
	assert.Equal(t, []string{"", ""}, ExtractFillBlankAnswers(sumTemplate, sumTemplate))
}

func TestExtractFillBlankAnswers_FallsBackToWholeLine(t *testing.T) {
	code := "/**********SPACE**********/\n  a = 10;\n/**********SPACE**********/\nprintf(\"%d\", a);"
	assert.Equal(t, []string{"a = 10;", "a"}, ExtractFillBlankAnswers(code, sumTemplate))
}

func TestExtractFillBlankAnswers_FewerMarkersInSubmission(t *testing.T) {
	code := "/**********SPACE**********/\nint a = 7;\n"
	assert.Equal(t, []string{"7"}, ExtractFillBlankAnswers(code, sumTemplate))
}

func TestExtractFillBlankAnswers_OnlyFirstLineCounts(t *testing.T) {
	tpl := "/*SPACE*/\nx = 【?】;\n"
	code := "/*SPACE*/\n\n  x = y + 1;\n  z = 2;\n"
	assert.Equal(t, []string{"y + 1"}, ExtractFillBlankAnswers(code, tpl))
}

func TestExtractFillBlankAnswers_NoTemplateMarkers(t *testing.T) {
	assert.Empty(t, ExtractFillBlankAnswers("/*SPACE*/ x", "no markers"))
}

func TestExtractErrorFixAnswers(t *testing.T) {
	code := "/**********FOUND**********/\n" +
		"for (i = 0; i < n; i++)\n" +
		"  x++;\n" +
		"/**********FOUND**********/\n" +
		"  return 0;"
	assert.Equal(t, []string{"for (i = 0; i < n; i++)", "return 0;"}, ExtractErrorFixAnswers(code))
	assert.Empty(t, ExtractErrorFixAnswers("return 0;"))
}

func TestExtractProgramBody(t *testing.T) {
	code := "int add(int a, int b) {\n/**********Program**********/\n  return a + b;\n/**********  End  **********/\n}"
	assert.Equal(t, "return a + b;", ExtractProgramBody(code))
	assert.Equal(t, "return a;", ExtractProgramBody("return a;"))
}
