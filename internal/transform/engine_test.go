package transform

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/ludo-technologies/autoimport/domain"
	"github.com/ludo-technologies/autoimport/internal/injector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

const projectDir = "/project/src"

func fixtureEngine(t *testing.T) *Engine {
	t.Helper()
	bindings := []domain.Binding{
		{Name: "ref", From: "vue"},
		{Name: "computed", From: "vue"},
		{Name: "reactive", From: "vue"},
		{Name: "watch", From: "vue"},
		{Name: "Ref", From: "vue", Type: true},
		{Name: "useState", From: "react"},
		{Name: "useEffect", From: "react"},
		{Name: "useId", From: "react"},
		{Name: "ignored", From: "ignored-pkg"},
		{Name: "customNamed", From: "custom"},
		{Name: "default", As: "customDefault", From: "custom"},
		{Name: "default", As: "customDefaultAlias", From: "custom"},
		{Name: "$", From: "vue-dollar"},
		{Name: "*", As: "THREE", From: "three.js"},
		{Name: "foo", From: "bar"},
		{Name: "Button", From: projectDir + "/components/Button"},
		{Name: "default", As: "useScope", From: projectDir + "/hooks/use-scope"},
	}
	registry, err := injector.NewRegistry(bindings, []string{"ignored", "useId"}, nil)
	require.NoError(t, err)
	return NewEngine(registry, nil)
}

// transformCode returns the transformed code, or source when nothing changed
func transformCode(t *testing.T, e *Engine, path, source string) string {
	t.Helper()
	result, err := e.Transform(path, source)
	require.NoError(t, err)
	if result == nil {
		return source
	}
	return result.Code
}

func TestEngine_Golden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	e := fixtureEngine(t)
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txtar"), func(t *testing.T) {
			archive, err := txtar.ParseFile(file)
			require.NoError(t, err)
			require.NotEmpty(t, archive.Files)

			input := archive.Files[0]
			source := string(input.Data)
			want := source
			for _, f := range archive.Files[1:] {
				if f.Name == "want" {
					want = string(f.Data)
				}
			}

			path := filepath.Join(projectDir, input.Name)
			pass1 := transformCode(t, e, path, source)
			assert.Equal(t, want, pass1)

			pass2 := transformCode(t, e, path, pass1)
			assert.Equal(t, pass1, pass2, "transform is not idempotent")
		})
	}
}

func TestEngine_LiteralScenarios(t *testing.T) {
	e := fixtureEngine(t)

	testCases := []struct {
		name   string
		path   string
		source string
		want   string
	}{
		{
			name:   "named import",
			path:   "/test/file.ts",
			source: "const count = ref(0)",
			want:   "import { ref } from 'vue';\nconst count = ref(0)",
		},
		{
			name:   "custom module",
			path:   "/test/file.js",
			source: "console.log(foo)",
			want:   "import { foo } from 'bar';\nconsole.log(foo)",
		},
		{
			name:   "jsx",
			path:   "/test/file.jsx",
			source: "function Comp(){ const [s, setS] = useState(0); return <div>{s}</div> }",
			want:   "import { useState } from 'react';\nfunction Comp(){ const [s, setS] = useState(0); return <div>{s}</div> }",
		},
		{
			name:   "tsx",
			path:   "/test/file.tsx",
			source: "function Comp(): JSX.Element { const [s, setS] = useState(0); return <div>{s}</div> }",
			want:   "import { useState } from 'react';\nfunction Comp(): JSX.Element { const [s, setS] = useState(0); return <div>{s}</div> }",
		},
		{
			name:   "typed declaration",
			path:   "/test/file.ts",
			source: "const count: Ref<number> = ref(0)",
			want:   "import { ref } from 'vue';\nconst count: Ref<number> = ref(0)",
		},
		{
			name:   "no reference",
			path:   "/test/file.ts",
			source: "const count = 0",
			want:   "const count = 0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, transformCode(t, e, tc.path, tc.source))
		})
	}
}

func TestEngine_NoChangeReturnsNil(t *testing.T) {
	e := fixtureEngine(t)

	for _, path := range []string{"/test/file.ts", "/test/file.tsx"} {
		result, err := e.Transform(path, "const count = 0")
		require.NoError(t, err)
		assert.Nil(t, result, path)
	}
}

func TestEngine_DuplicateAvoidance(t *testing.T) {
	e := fixtureEngine(t)
	source := "import { useState as useS } from 'react'\nimport { useState } from 'preact/hooks'\nconst [a] = useState(0)\n"

	result, err := e.Transform("/test/file.ts", source)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestEngine_ExistingImportFilter(t *testing.T) {
	e := fixtureEngine(t)
	// Without whitespace before `from` the scanner does not see the import clause
	source := "import {useState}from'preact/hooks'\nconst [a] = useState(0)\n"

	result, err := e.Transform("/test/file.ts", source)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestEngine_DirectiveFirst(t *testing.T) {
	e := fixtureEngine(t)
	first := regexp.MustCompile(`^'use client'\s*\n+\s*import `)
	notFirst := regexp.MustCompile(`(?m)^import.*'use client'`)

	testCases := []struct {
		name   string
		path   string
		source string
		expect string
	}{
		{
			name:   "tsx",
			path:   "/test/file.tsx",
			source: "'use client'\n\nexport default function Comp() {\n  const [s, setS] = useState(0)\n  return <div>{s}</div>\n}",
			expect: "import { useState } from 'react'",
		},
		{
			name:   "ts without imports",
			path:   "/test/file.ts",
			source: "'use client'\n\nexport function useFoo() {\n  return foo()\n}",
			expect: "import { foo } from 'bar'",
		},
		{
			name:   "multiple imports",
			path:   "/test/file.tsx",
			source: "'use client'\n\nexport default function Comp() {\n  const [s, setS] = useState(0)\n  useEffect(() => {}, [])\n  return <div>{s}</div>\n}",
			expect: "import { useState, useEffect } from 'react'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := transformCode(t, e, tc.path, tc.source)
			assert.Regexp(t, first, code)
			assert.NotRegexp(t, notFirst, code)
			assert.Contains(t, code, tc.expect)
		})
	}

	t.Run("existing imports", func(t *testing.T) {
		source := "'use client'\n\nimport Image from 'next/image'\n\nexport default function Comp() {\n  const [s, setS] = useState(0)\n  return (\n    <div>\n      <Image src=\"/x\" alt=\"x\" width={1} height={1} />\n      {s}\n    </div>\n  )\n}"
		code := transformCode(t, e, "/test/file.tsx", source)

		assert.Regexp(t, regexp.MustCompile(`^'use client'\s*\n+`), code)
		directivePos := strings.Index(code, "'use client'")
		imagePos := strings.Index(code, "import Image")
		statePos := strings.Index(code, "import { useState }")
		require.GreaterOrEqual(t, imagePos, 0)
		require.GreaterOrEqual(t, statePos, 0)
		assert.Less(t, directivePos, imagePos)
		assert.Less(t, directivePos, statePos)
	})
}

func TestEngine_JSXComponentImportedOnce(t *testing.T) {
	e := fixtureEngine(t)
	markup := "<Button label=\"a\" />\n      <Button label=\"b\" />"
	source := "export default function App() {\n  return (\n    <div>\n      " + markup + "\n    </div>\n  )\n}\n"

	code := transformCode(t, e, projectDir+"/App.tsx", source)
	assert.Equal(t, 1, strings.Count(code, "import { Button } from './components/Button'"))
	assert.Contains(t, code, markup)
	assert.NotContains(t, code, "@autoimport-jsx-refs")
}

func TestEngine_SourceMap(t *testing.T) {
	e := fixtureEngine(t)
	result, err := e.Transform("/test/file.ts", "const count = ref(0)")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Changed)
	require.Len(t, result.Imports, 1)
	assert.Equal(t, "ref", result.Imports[0].Name)

	require.NotNil(t, result.Map)
	assert.Equal(t, []string{"/test/file.ts"}, result.Map.Sources)
	assert.Equal(t, []string{"const count = ref(0)"}, result.Map.SourcesContent)
	assert.True(t, strings.HasPrefix(result.Map.Mappings, ";AAAA"), result.Map.Mappings)
}

func TestIsSelfImport(t *testing.T) {
	testCases := []struct {
		from, file string
		want       bool
	}{
		{"/project/src/hooks/use-scope", "/project/src/hooks/use-scope.ts", true},
		{"/project/src/hooks/use-scope.ts", "/project/src/hooks/use-scope.ts", true},
		{"./use-scope", "/project/src/hooks/use-scope.ts", true},
		{"../hooks/use-scope", "/project/src/hooks/use-scope.ts", true},
		{"./other", "/project/src/hooks/use-scope.ts", false},
		{"use-scope", "/project/src/hooks/use-scope.ts", false},
		{"/project/src/hooks/use-scope", "", false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, IsSelfImport(tc.from, tc.file), "%s in %s", tc.from, tc.file)
	}
}

func TestImportFilter_SelfImport(t *testing.T) {
	file := "/project/src/hooks/use-scope.ts"
	filter := NewImportFilter(file, "useScope()", nil)

	got := filter([]domain.ResolvedImport{
		{Binding: domain.Binding{Name: "default", As: "useScope", From: "/project/src/hooks/use-scope"}},
		{Binding: domain.Binding{Name: "ref", From: "vue"}},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "ref", got[0].Name)
}

func TestExistingImportNames(t *testing.T) {
	code := strings.Join([]string{
		"import React, { useState as useS, type FC } from 'react'",
		"import * as THREE from 'three'",
		"import 'polyfill'",
		"import { a b } from 'broken'",
		"// import { hidden } from 'x'",
	}, "\n")

	names := ExistingImportNames(code, nil)
	for _, name := range []string{"React", "useS", "FC", "THREE"} {
		assert.Contains(t, names, name)
	}
	assert.NotContains(t, names, "useState")
	assert.NotContains(t, names, "hidden")
	assert.NotContains(t, names, "a")
}
