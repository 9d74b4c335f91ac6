package codegen

import "strings"

// Supported language identifiers.
const (
	LangPython     = "python"
	LangJavaScript = "javascript"
	LangJava       = "java"
	LangCpp        = "cpp"
	LangGo         = "go"
)

// Abstract parameter type tags used by problem I/O schemas.
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeString = "string"
	TypeBool   = "bool"
	TypeArray  = "array"
	TypeObject = "object"
)

var typeTokens = map[string]map[string]string{
	LangPython: {
		TypeInt:    "int",
		TypeFloat:  "float",
		TypeString: "str",
		TypeBool:   "bool",
		TypeArray:  "List",
		TypeObject: "Dict[str, Any]",
	},
	LangJavaScript: {
		TypeInt:    "number",
		TypeFloat:  "number",
		TypeString: "string",
		TypeBool:   "boolean",
		TypeArray:  "Array",
		TypeObject: "Object",
	},
	LangJava: {
		TypeInt:    "int",
		TypeFloat:  "double",
		TypeString: "String",
		TypeBool:   "boolean",
		TypeArray:  "int[]",
		TypeObject: "Map<String, Object>",
	},
	LangCpp: {
		TypeInt:    "int",
		TypeFloat:  "double",
		TypeString: "string",
		TypeBool:   "bool",
		TypeArray:  "vector<int>",
		TypeObject: "map<string, string>",
	},
	LangGo: {
		TypeInt:    "int",
		TypeFloat:  "float64",
		TypeString: "string",
		TypeBool:   "bool",
		TypeArray:  "[]int",
		TypeObject: "map[string]interface{}",
	},
}

// Java boxed tokens for generic composition.
var javaBoxed = map[string]string{
	TypeInt:    "Integer",
	TypeFloat:  "Double",
	TypeString: "String",
	TypeBool:   "Boolean",
}

// TypeToken maps an abstract type tag to the declaration token of the target
// language. Unknown tags pass through unchanged so new schema types never
// break code generation.
func TypeToken(lang, tag string) string {
	tokens, ok := typeTokens[normalizeLang(lang)]
	if !ok {
		return tag
	}
	if token, ok := tokens[tag]; ok {
		return token
	}
	return tag
}

// CollectionToken composes a language-appropriate generic collection type for
// an array parameter with a known element type.
func CollectionToken(lang, elementTag string) string {
	lang = normalizeLang(lang)
	switch lang {
	case LangPython:
		return "List[" + TypeToken(lang, elementTag) + "]"
	case LangJavaScript:
		return "Array<" + TypeToken(lang, elementTag) + ">"
	case LangJava:
		boxed, ok := javaBoxed[elementTag]
		if !ok {
			boxed = TypeToken(lang, elementTag)
		}
		return "List<" + boxed + ">"
	case LangCpp:
		return "vector<" + TypeToken(lang, elementTag) + ">"
	case LangGo:
		return "[]" + TypeToken(lang, elementTag)
	default:
		return elementTag + "[]"
	}
}

// IsSupported reports whether starter code can be generated for the language.
func IsSupported(lang string) bool {
	_, ok := typeTokens[normalizeLang(lang)]
	return ok
}

// Normalize canonicalizes a language identifier, resolving common aliases.
func Normalize(lang string) string {
	return normalizeLang(lang)
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "c++":
		return LangCpp
	case "js", "node":
		return LangJavaScript
	case "golang":
		return LangGo
	default:
		return lang
	}
}
