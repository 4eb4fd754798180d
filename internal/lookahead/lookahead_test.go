package lookahead

import (
	"testing"

	language "github.com/thearchitector/grommet/internal/language"
	schema "github.com/thearchitector/grommet/internal/schema"
)

func buildSampleSchema() *schema.Schema {
	s := schema.NewSchema("")
	s.SetQueryType("Query")

	author := schema.NewType("Author", schema.TypeKindObject, "").
		AddField(schema.NewField("name", "", schema.NonNullType(schema.NamedType("String"))))

	post := schema.NewType("Post", schema.TypeKindObject, "").
		AddField(schema.NewField("title", "", schema.NonNullType(schema.NamedType("String")))).
		AddField(schema.NewField("author", "", schema.NamedType("Author")))

	query := schema.NewType("Query", schema.TypeKindObject, "").
		AddField(schema.NewField("post", "", schema.NamedType("Post")))

	s.AddType(query).AddType(post).AddType(author)
	return s
}

func mustParse(t *testing.T, src string) *language.QueryDocument {
	t.Helper()
	doc, err := language.ParseQuery(src)
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	return doc
}

func TestBuild_SelectedFieldExists(t *testing.T) {
	sch := buildSampleSchema()
	doc := mustParse(t, "{ post { title author { name } } }")

	graph := Build(doc, sch, sch.Types["Query"], doc.Operations[0].SelectionSet)

	post := graph.Field("post")
	if !post.Exists() {
		t.Fatalf("expected post to exist")
	}
	if !post.Field("title").Exists() {
		t.Fatalf("expected post.title to exist")
	}
	if !post.Field("author").Field("name").Exists() {
		t.Fatalf("expected post.author.name to exist")
	}
	if post.Field("comments").Exists() {
		t.Fatalf("expected post.comments to not exist")
	}
}

func TestBuild_ExpandsFragments(t *testing.T) {
	sch := buildSampleSchema()
	doc := mustParse(t, `
		{ post { ...PostFields } }
		fragment PostFields on Post { title author { name } }
	`)

	graph := Build(doc, sch, sch.Types["Query"], doc.Operations[0].SelectionSet)

	post := graph.Field("post")
	if !post.Field("title").Exists() {
		t.Fatalf("expected fragment-spread field title to exist")
	}
	if !post.Field("author").Field("name").Exists() {
		t.Fatalf("expected fragment-spread nested field to exist")
	}
}

func TestGraph_NilIsSafe(t *testing.T) {
	var g *Graph
	if g.Exists() {
		t.Fatalf("nil graph must report Exists() == false")
	}
	if g.Field("anything").Exists() {
		t.Fatalf("field lookup on a nil graph must stay nil/non-existent")
	}
}
