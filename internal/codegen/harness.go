package codegen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrHarnessUnsupported indicates the language has no execution harness.
var ErrHarnessUnsupported = errors.New("no execution harness for language")

// Harness wraps user code with a generated driver that feeds one test case's
// input into the fixed entry point and prints the JSON-encoded return value
// to stdout, where the executor captures it for comparison against the
// expected output.
func Harness(userCode, lang string, schema *Schema, input map[string]interface{}) (string, error) {
	lang = normalizeLang(lang)

	var params []SchemaParam
	if schema != nil {
		params = schema.Params
	}

	switch lang {
	case LangPython:
		return pythonHarness(userCode, params, input)
	case LangJavaScript:
		return javascriptHarness(userCode, params, input)
	case LangCpp:
		return cppHarness(userCode, params, input)
	default:
		return "", fmt.Errorf("%w: %s", ErrHarnessUnsupported, lang)
	}
}

func pythonHarness(userCode string, params []SchemaParam, input map[string]interface{}) (string, error) {
	encoded, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("encode test input: %w", err)
	}

	args := make([]string, 0, len(params))
	for _, p := range params {
		args = append(args, fmt.Sprintf("input_data[%q]", p.Name))
	}

	var b strings.Builder
	b.WriteString("import json\nfrom typing import Any, Dict, List\n\n")
	b.WriteString(userCode)
	b.WriteString("\n\nsolution = Solution()\n")
	fmt.Fprintf(&b, "input_data = json.loads(%s)\n", pythonStringLiteral(string(encoded)))
	fmt.Fprintf(&b, "result = solution.%s(%s)\n", entryPointName, strings.Join(args, ", "))
	b.WriteString("print(json.dumps(result))\n")
	return b.String(), nil
}

func javascriptHarness(userCode string, params []SchemaParam, input map[string]interface{}) (string, error) {
	encoded, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("encode test input: %w", err)
	}

	args := make([]string, 0, len(params))
	for _, p := range params {
		args = append(args, fmt.Sprintf("inputData[%q]", p.Name))
	}

	var b strings.Builder
	b.WriteString(userCode)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "const inputData = %s;\n", string(encoded))
	b.WriteString("const solution = new Solution();\n")
	fmt.Fprintf(&b, "const result = solution.%s(%s);\n", entryPointName, strings.Join(args, ", "))
	b.WriteString("console.log(JSON.stringify(result === undefined ? null : result));\n")
	return b.String(), nil
}

func cppHarness(userCode string, params []SchemaParam, input map[string]interface{}) (string, error) {
	declarations := make([]string, 0, len(params))
	args := make([]string, 0, len(params))
	for _, p := range params {
		decl, err := cppDeclaration(p, input[p.Name])
		if err != nil {
			return "", err
		}
		declarations = append(declarations, "    "+decl)
		args = append(args, p.Name)
	}

	var b strings.Builder
	b.WriteString(cppSerializerPrelude)
	b.WriteString("\n")
	b.WriteString(userCode)
	b.WriteString("\n\nint main() {\n    Solution solution;\n")
	b.WriteString(strings.Join(declarations, "\n"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "    auto result = solution.%s(%s);\n", entryPointName, strings.Join(args, ", "))
	b.WriteString("    cout << toJson(result) << endl;\n    return 0;\n}\n")
	return b.String(), nil
}

// JSON serialisation helpers compiled in front of the user's code. toJson is
// overloaded for every value shape the harness can produce so the driver can
// print any supported return type.
const cppSerializerPrelude = `#include <iostream>
#include <map>
#include <sstream>
#include <string>
#include <vector>
using namespace std;

string toJson(int val) { return to_string(val); }
string toJson(long long val) { return to_string(val); }
string toJson(double val) {
    ostringstream oss;
    oss << val;
    return oss.str();
}
string toJson(bool val) { return val ? "true" : "false"; }
string toJson(const string& val) {
    string result = "\"";
    for (char c : val) {
        if (c == '"') result += "\\\"";
        else if (c == '\\') result += "\\\\";
        else if (c == '\n') result += "\\n";
        else if (c == '\t') result += "\\t";
        else result += c;
    }
    result += "\"";
    return result;
}

template<typename T>
string toJson(const vector<T>& vec) {
    string result = "[";
    for (size_t i = 0; i < vec.size(); i++) {
        if (i > 0) result += ",";
        result += toJson(vec[i]);
    }
    result += "]";
    return result;
}
`

func cppDeclaration(param SchemaParam, value interface{}) (string, error) {
	name := param.Name

	if param.Type == TypeArray {
		items, _ := value.([]interface{})
		element := param.ElementType
		if element == "" {
			element = TypeInt
		}
		literals := make([]string, 0, len(items))
		for _, item := range items {
			literal, err := cppScalarLiteral(element, item)
			if err != nil {
				return "", err
			}
			literals = append(literals, literal)
		}
		return fmt.Sprintf("vector<%s> %s = {%s};", TypeToken(LangCpp, element), name, strings.Join(literals, ", ")), nil
	}

	literal, err := cppScalarLiteral(param.Type, value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s = %s;", TypeToken(LangCpp, param.Type), name, literal), nil
}

func cppScalarLiteral(tag string, value interface{}) (string, error) {
	switch tag {
	case TypeInt:
		switch v := value.(type) {
		case float64:
			return strconv.FormatInt(int64(v), 10), nil
		case int:
			return strconv.Itoa(v), nil
		}
	case TypeFloat:
		if v, ok := value.(float64); ok {
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		}
	case TypeBool:
		if v, ok := value.(bool); ok {
			if v {
				return "true", nil
			}
			return "false", nil
		}
	case TypeString:
		if v, ok := value.(string); ok {
			encoded, err := json.Marshal(v)
			if err != nil {
				return "", fmt.Errorf("encode string literal: %w", err)
			}
			return string(encoded), nil
		}
	}
	return "", fmt.Errorf("cannot render test input value %v as %q", value, tag)
}

func pythonStringLiteral(s string) string {
	// json.Marshal escapes quotes and backslashes the same way Python expects.
	encoded, _ := json.Marshal(s)
	return string(encoded)
}
