package codegen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPythonHarnessFeedsInputAndPrintsJSON(t *testing.T) {
	input := map[string]interface{}{"nums": []interface{}{2.0, 7.0, 11.0, 15.0}, "target": 9.0}

	code, err := Harness("class Solution:\n    def solve(self, nums, target):\n        return []", LangPython, twoSumSchema(), input)
	require.NoError(t, err)
	require.Contains(t, code, "import json")
	require.Contains(t, code, `solution.solve(input_data["nums"], input_data["target"])`)
	require.Contains(t, code, "print(json.dumps(result))")
}

func TestJavaScriptHarnessHandlesUndefinedResult(t *testing.T) {
	code, err := Harness("class Solution { solve() {} }", LangJavaScript, nil, map[string]interface{}{})
	require.NoError(t, err)
	require.Contains(t, code, "const solution = new Solution();")
	require.Contains(t, code, "result === undefined ? null : result")
}

func TestCppHarnessDeclaresTypedInputs(t *testing.T) {
	input := map[string]interface{}{
		"nums":   []interface{}{2.0, 7.0},
		"target": 9.0,
	}

	code, err := Harness("class Solution {};", LangCpp, twoSumSchema(), input)
	require.NoError(t, err)
	require.Contains(t, code, "vector<int> nums = {2, 7};")
	require.Contains(t, code, "int target = 9;")
	require.Contains(t, code, "auto result = solution.solve(nums, target);")
	require.Contains(t, code, "cout << toJson(result) << endl;")
}

func TestCppHarnessStringAndBoolLiterals(t *testing.T) {
	schema := &Schema{Params: []SchemaParam{
		{Name: "word", Type: TypeString},
		{Name: "strict", Type: TypeBool},
		{Name: "names", Type: TypeArray, ElementType: TypeString},
	}}
	input := map[string]interface{}{
		"word":   "he\"llo",
		"strict": true,
		"names":  []interface{}{"a", "b"},
	}

	code, err := Harness("class Solution {};", LangCpp, schema, input)
	require.NoError(t, err)
	require.Contains(t, code, `string word = "he\"llo";`)
	require.Contains(t, code, "bool strict = true;")
	require.Contains(t, code, `vector<string> names = {"a", "b"};`)
}

func TestHarnessUnsupportedLanguage(t *testing.T) {
	_, err := Harness("code", LangJava, nil, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrHarnessUnsupported))
}
