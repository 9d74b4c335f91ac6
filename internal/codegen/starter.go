package codegen

import (
	"fmt"
	"strings"
)

// StarterCode emits a complete, compilable skeleton for the problem schema in
// the target language: imports, a Solution container, and a single stub method
// whose body returns a zero value matching the declared return type. For
// languages outside the supported set a plain placeholder comment is returned
// instead of an error so the editor always has something to show.
func StarterCode(schema *Schema, lang string) string {
	lang = normalizeLang(lang)
	sig := BuildSignature(schema, lang)

	switch lang {
	case LangPython:
		return pythonStarter(sig)
	case LangJavaScript:
		return javascriptStarter(sig)
	case LangJava:
		return javaStarter(sig)
	case LangCpp:
		return cppStarter(sig)
	case LangGo:
		return goStarter(sig)
	default:
		return fmt.Sprintf("// Starter code is not available for %q. Write your solution from scratch.\n", lang)
	}
}

func pythonStarter(sig Signature) string {
	params := make([]string, 0, len(sig.Params)+1)
	params = append(params, "self")
	for _, p := range sig.Params {
		params = append(params, fmt.Sprintf("%s: %s", p.Name, p.Type))
	}

	var b strings.Builder
	b.WriteString("from typing import Any, Dict, List\n\n\n")
	b.WriteString("class Solution:\n")
	fmt.Fprintf(&b, "    def %s(%s) -> %s:\n", sig.Name, strings.Join(params, ", "), sig.ReturnType)
	b.WriteString("        # Write your solution here\n")
	fmt.Fprintf(&b, "        return %s\n", pythonZero(sig.ReturnType))
	return b.String()
}

func javascriptStarter(sig Signature) string {
	names := make([]string, 0, len(sig.Params))
	var doc strings.Builder
	doc.WriteString("  /**\n")
	for _, p := range sig.Params {
		names = append(names, p.Name)
		fmt.Fprintf(&doc, "   * @param {%s} %s\n", p.Type, p.Name)
	}
	fmt.Fprintf(&doc, "   * @returns {%s}\n", sig.ReturnType)
	doc.WriteString("   */\n")

	var b strings.Builder
	b.WriteString("class Solution {\n")
	b.WriteString(doc.String())
	fmt.Fprintf(&b, "  %s(%s) {\n", sig.Name, strings.Join(names, ", "))
	b.WriteString("    // Write your solution here\n")
	if zero := javascriptZero(sig.ReturnType); zero != "" {
		fmt.Fprintf(&b, "    return %s;\n", zero)
	}
	b.WriteString("  }\n}\n\nmodule.exports = Solution;\n")
	return b.String()
}

func javaStarter(sig Signature) string {
	params := make([]string, 0, len(sig.Params))
	for _, p := range sig.Params {
		params = append(params, fmt.Sprintf("%s %s", p.Type, p.Name))
	}

	var b strings.Builder
	b.WriteString("import java.util.*;\n\n")
	b.WriteString("class Solution {\n")
	fmt.Fprintf(&b, "    public %s %s(%s) {\n", sig.ReturnType, sig.Name, strings.Join(params, ", "))
	b.WriteString("        // Write your solution here\n")
	if zero := javaZero(sig.ReturnType); zero != "" {
		fmt.Fprintf(&b, "        return %s;\n", zero)
	}
	b.WriteString("    }\n}\n")
	return b.String()
}

func cppStarter(sig Signature) string {
	params := make([]string, 0, len(sig.Params))
	for _, p := range sig.Params {
		if strings.HasPrefix(p.Type, "vector<") || p.Type == "string" || strings.HasPrefix(p.Type, "map<") {
			params = append(params, fmt.Sprintf("%s& %s", p.Type, p.Name))
			continue
		}
		params = append(params, fmt.Sprintf("%s %s", p.Type, p.Name))
	}

	var b strings.Builder
	b.WriteString("#include <map>\n#include <string>\n#include <vector>\nusing namespace std;\n\n")
	b.WriteString("class Solution {\npublic:\n")
	fmt.Fprintf(&b, "    %s %s(%s) {\n", sig.ReturnType, sig.Name, strings.Join(params, ", "))
	b.WriteString("        // Write your solution here\n")
	if zero := cppZero(sig.ReturnType); zero != "" {
		fmt.Fprintf(&b, "        return %s;\n", zero)
	}
	b.WriteString("    }\n};\n")
	return b.String()
}

func goStarter(sig Signature) string {
	params := make([]string, 0, len(sig.Params))
	for _, p := range sig.Params {
		params = append(params, fmt.Sprintf("%s %s", p.Name, p.Type))
	}

	var b strings.Builder
	b.WriteString("package main\n\ntype Solution struct{}\n\n")
	if sig.ReturnType == "" {
		fmt.Fprintf(&b, "func (s Solution) %s(%s) {\n", sig.Name, strings.Join(params, ", "))
		b.WriteString("\t// Write your solution here\n}\n")
		return b.String()
	}
	fmt.Fprintf(&b, "func (s Solution) %s(%s) %s {\n", sig.Name, strings.Join(params, ", "), sig.ReturnType)
	b.WriteString("\t// Write your solution here\n")
	fmt.Fprintf(&b, "\treturn %s\n}\n", goZero(sig.ReturnType))
	return b.String()
}

func pythonZero(token string) string {
	switch {
	case token == "int":
		return "0"
	case token == "float":
		return "0.0"
	case token == "str":
		return "\"\""
	case token == "bool":
		return "False"
	case token == "List" || strings.HasPrefix(token, "List["):
		return "[]"
	case strings.HasPrefix(token, "Dict"):
		return "{}"
	default:
		return "None"
	}
}

func javascriptZero(token string) string {
	switch {
	case token == "void":
		return ""
	case token == "number":
		return "0"
	case token == "string":
		return "\"\""
	case token == "boolean":
		return "false"
	case token == "Array" || strings.HasPrefix(token, "Array<"):
		return "[]"
	case token == "Object":
		return "{}"
	default:
		return "null"
	}
}

func javaZero(token string) string {
	switch {
	case token == "void":
		return ""
	case token == "int":
		return "0"
	case token == "double":
		return "0.0"
	case token == "boolean":
		return "false"
	case token == "String":
		return "\"\""
	case strings.HasPrefix(token, "List<"):
		return "new ArrayList<>()"
	case strings.HasPrefix(token, "Map<"):
		return "new HashMap<>()"
	case strings.HasSuffix(token, "[]"):
		return fmt.Sprintf("new %s{}", token)
	default:
		return "null"
	}
}

func cppZero(token string) string {
	switch {
	case token == "void":
		return ""
	case token == "int":
		return "0"
	case token == "double":
		return "0.0"
	case token == "bool":
		return "false"
	case token == "string":
		return "\"\""
	default:
		return "{}"
	}
}

func goZero(token string) string {
	switch {
	case token == "int":
		return "0"
	case token == "float64":
		return "0"
	case token == "string":
		return "\"\""
	case token == "bool":
		return "false"
	default:
		return "nil"
	}
}
