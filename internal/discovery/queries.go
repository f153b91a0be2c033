package discovery

// Capture names shared by the queries below.
const (
	captureNamespaceName = "namespace.name"
	captureNamespaceDef  = "namespace.definition"
	captureTestName      = "test.name"
	captureTestDef       = "test.definition"
	captureTestComment   = "test.comment"
	captureTestAttrs     = "test.attributes"
)

// Each rule is compiled as its own query so a match of one never hides
// another on the same declaration.
var ruleQueries = []struct {
	name  string
	query string
}{
	{
		// Keep in sync with IsTestClass.
		name: "class",
		query: `((class_declaration
  name: (name) @namespace.name (#match? @namespace.name "Test")) @namespace.definition)`,
	},
	{
		name: "method-name",
		query: `((method_declaration
  (name) @test.name (#match? @test.name "test")) @test.definition)`,
	},
	{
		name: "annotation",
		query: `(declaration_list
  (comment) @test.comment
  .
  (method_declaration (name) @test.name) @test.definition
  (#match? @test.comment "@test"))`,
	},
	{
		name: "attribute",
		query: `((method_declaration
  (attribute_list) @test.attributes
  (name) @test.name) @test.definition)`,
	},
}
