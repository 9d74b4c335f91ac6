package codegen

// SchemaParam describes a single input parameter of a problem's I/O schema.
type SchemaParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	ElementType string `json:"element_type,omitempty"`
}

// SchemaOutput describes the expected return value of the solution entry point.
type SchemaOutput struct {
	Type        string `json:"type"`
	ElementType string `json:"element_type,omitempty"`
}

// Schema is the structured function signature description attached to a problem.
type Schema struct {
	Params []SchemaParam `json:"params"`
	Output SchemaOutput  `json:"output"`
}

// Param is a rendered parameter of a generated signature.
type Param struct {
	Name string
	Type string
}

// Signature is the resolved entry-point signature for a target language.
type Signature struct {
	Name       string
	Params     []Param
	ReturnType string
}

// The judge always invokes a fixed entry point regardless of problem metadata.
const entryPointName = "solve"

var voidTokens = map[string]string{
	LangPython:     "None",
	LangJavaScript: "void",
	LangJava:       "void",
	LangCpp:        "void",
	LangGo:         "",
}

// BuildSignature resolves the entry-point signature for the given language.
// A nil schema degrades to a zero-argument stub with a void-equivalent return
// type; generation never fails for a missing schema.
func BuildSignature(schema *Schema, lang string) Signature {
	lang = normalizeLang(lang)

	sig := Signature{
		Name:       entryPointName,
		ReturnType: voidTokens[lang],
	}
	if schema == nil {
		return sig
	}

	for _, param := range schema.Params {
		sig.Params = append(sig.Params, Param{
			Name: param.Name,
			Type: resolveType(lang, param.Type, param.ElementType),
		})
	}

	if schema.Output.Type != "" {
		sig.ReturnType = resolveType(lang, schema.Output.Type, schema.Output.ElementType)
	}

	return sig
}

func resolveType(lang, tag, elementTag string) string {
	if tag == TypeArray && elementTag != "" {
		return CollectionToken(lang, elementTag)
	}
	return TypeToken(lang, tag)
}
