package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func twoSumSchema() *Schema {
	return &Schema{
		Params: []SchemaParam{
			{Name: "nums", Type: TypeArray, ElementType: TypeInt},
			{Name: "target", Type: TypeInt},
		},
		Output: SchemaOutput{Type: TypeArray, ElementType: TypeInt},
	}
}

func TestBuildSignatureNilSchemaDegradesToStub(t *testing.T) {
	sig := BuildSignature(nil, LangPython)
	require.Equal(t, "solve", sig.Name)
	require.Empty(t, sig.Params)
	require.Equal(t, "None", sig.ReturnType)

	sig = BuildSignature(nil, LangJava)
	require.Equal(t, "void", sig.ReturnType)

	sig = BuildSignature(nil, LangGo)
	require.Empty(t, sig.ReturnType)
}

func TestBuildSignatureComposesArrayParams(t *testing.T) {
	sig := BuildSignature(twoSumSchema(), LangJava)
	require.Equal(t, "solve", sig.Name)
	require.Len(t, sig.Params, 2)
	require.Equal(t, Param{Name: "nums", Type: "List<Integer>"}, sig.Params[0])
	require.Equal(t, Param{Name: "target", Type: "int"}, sig.Params[1])
	require.Equal(t, "List<Integer>", sig.ReturnType)
}

func TestBuildSignatureBareArrayKeepsLanguageDefault(t *testing.T) {
	schema := &Schema{
		Params: []SchemaParam{{Name: "values", Type: TypeArray}},
		Output: SchemaOutput{Type: TypeBool},
	}

	sig := BuildSignature(schema, LangCpp)
	require.Equal(t, "vector<int>", sig.Params[0].Type)
	require.Equal(t, "bool", sig.ReturnType)
}

func TestBuildSignatureUnknownTagsSurviveUnchanged(t *testing.T) {
	schema := &Schema{
		Params: []SchemaParam{{Name: "root", Type: "tree"}},
		Output: SchemaOutput{Type: "graph"},
	}

	sig := BuildSignature(schema, LangPython)
	require.Equal(t, "tree", sig.Params[0].Type)
	require.Equal(t, "graph", sig.ReturnType)
}
