package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStarterCodePython(t *testing.T) {
	code := StarterCode(twoSumSchema(), LangPython)
	require.Contains(t, code, "from typing import Any, Dict, List")
	require.Contains(t, code, "class Solution:")
	require.Contains(t, code, "def solve(self, nums: List[int], target: int) -> List[int]:")
	require.Contains(t, code, "return []")
}

func TestStarterCodeJava(t *testing.T) {
	code := StarterCode(twoSumSchema(), LangJava)
	require.Contains(t, code, "import java.util.*;")
	require.Contains(t, code, "public List<Integer> solve(List<Integer> nums, int target) {")
	require.Contains(t, code, "return new ArrayList<>();")
}

func TestStarterCodeCppPassesCollectionsByReference(t *testing.T) {
	code := StarterCode(twoSumSchema(), LangCpp)
	require.Contains(t, code, "#include <vector>")
	require.Contains(t, code, "vector<int> solve(vector<int>& nums, int target) {")
	require.Contains(t, code, "return {};")
}

func TestStarterCodeGo(t *testing.T) {
	code := StarterCode(twoSumSchema(), LangGo)
	require.Contains(t, code, "package main")
	require.Contains(t, code, "func (s Solution) solve(nums []int, target int) []int {")
	require.Contains(t, code, "return nil")
}

func TestStarterCodeJavaScriptDocumentsTypes(t *testing.T) {
	code := StarterCode(twoSumSchema(), LangJavaScript)
	require.Contains(t, code, "@param {Array<number>} nums")
	require.Contains(t, code, "@returns {Array<number>}")
	require.Contains(t, code, "solve(nums, target) {")
	require.Contains(t, code, "module.exports = Solution;")
}

func TestStarterCodeNoSchemaStillCompiles(t *testing.T) {
	for _, lang := range []string{LangPython, LangJava, LangCpp, LangGo, LangJavaScript} {
		code := StarterCode(nil, lang)
		require.NotEmpty(t, code, lang)
		require.Contains(t, code, "solve", lang)
	}

	// Void return types get no return statement at all.
	require.NotContains(t, StarterCode(nil, LangJava), "return")
	require.Contains(t, StarterCode(nil, LangPython), "return None")
}

func TestStarterCodeUnsupportedLanguageReturnsPlaceholder(t *testing.T) {
	code := StarterCode(twoSumSchema(), "cobol")
	require.True(t, strings.HasPrefix(code, "//"))
	require.Contains(t, code, "cobol")
}

func TestStarterCodeVariousReturnTypes(t *testing.T) {
	cases := []struct {
		output SchemaOutput
		lang   string
		want   string
	}{
		{SchemaOutput{Type: TypeBool}, LangPython, "return False"},
		{SchemaOutput{Type: TypeString}, LangJava, `return "";`},
		{SchemaOutput{Type: TypeFloat}, LangCpp, "return 0.0;"},
		{SchemaOutput{Type: TypeObject}, LangJava, "return new HashMap<>();"},
		{SchemaOutput{Type: TypeInt}, LangJavaScript, "return 0;"},
	}

	for _, tc := range cases {
		schema := &Schema{Output: tc.output}
		require.Contains(t, StarterCode(schema, tc.lang), tc.want, "%s/%s", tc.lang, tc.output.Type)
	}
}
