package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_Key(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{"root", nil, ""},
		{"single", Path{Prop("image")}, "image"},
		{"nested", Path{Prop("image"), Prop("tag")}, "image.tag"},
		{"array item field", Path{Prop("env"), Items(), Prop("name")}, "env[].name"},
		{"nested arrays", Path{Prop("m"), Items(), Items()}, "m[][]"},
		{"root array", Path{Items(), Prop("a")}, "[].a"},
		{"dotted name", Path{Prop("a.b")}, `"a.b"`},
		{"dotted name nested", Path{Prop("labels"), Prop("app.kubernetes.io/name")}, `labels."app.kubernetes.io/name"`},
		{"bracket name", Path{Prop("x[]"), Items()}, `"x[]"[]`},
		{"empty name", Path{Prop(""), Prop("a")}, `"".a`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.path.Key())
			assert.True(t, ParsePath(tt.want).Equal(tt.path), "ParsePath(%q)", tt.want)
		})
	}
}

func TestPath_ChildDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 4)
	base[0] = Prop("a")

	left := base.Child(Prop("b"))
	right := base.Child(Prop("c"))

	assert.Equal(t, "a.b", left.Key())
	assert.Equal(t, "a.c", right.Key())
	assert.Len(t, base, 1)
}

func TestPath_Equal(t *testing.T) {
	assert.True(t, Path{Prop("a")}.Equal(Path{Prop("a")}))
	assert.False(t, Path{Prop("a")}.Equal(Path{Prop("a"), Items()}))
	assert.False(t, Path{Prop("a")}.Equal(Path{Prop("b")}))
	assert.True(t, Path(nil).IsEmpty())
}

func TestPath_DottedNameDoesNotCollide(t *testing.T) {
	flat := Path{Prop("a.b")}
	nested := Path{Prop("a"), Prop("b")}

	assert.NotEqual(t, flat.Key(), nested.Key())
	assert.True(t, ParsePath(flat.Key()).Equal(flat))
	assert.True(t, ParsePath(nested.Key()).Equal(nested))
}

func TestParsePath_Lenient(t *testing.T) {
	assert.Nil(t, ParsePath("  "))
	assert.True(t, ParsePath("a..b").Equal(Path{Prop("a"), Prop("b")}))
	assert.True(t, ParsePath(`a."b`).Equal(Path{Prop("a"), Prop("b")}))
}
