package jsx

import (
	"reflect"
	"testing"
)

func TestIsMarkupFile(t *testing.T) {
	testCases := []struct {
		path string
		want bool
	}{
		{"App.jsx", true},
		{"src/App.TSX", true},
		{"main.ts", false},
		{"main.js", false},
		{"jsx", false},
	}
	for _, tc := range testCases {
		if got := IsMarkupFile(tc.path); got != tc.want {
			t.Errorf("IsMarkupFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestComponentRefs(t *testing.T) {
	testCases := []struct {
		name string
		code string
		want []string
	}{
		{"none", "const a = 1 < 2", nil},
		{"lowercase tags", "return <div><span/></div>", nil},
		{"self closing", "return <Button/>", []string{"Button"}},
		{"attributes", "<Card title='x'>", []string{"Card"}},
		{"member tag", "<Card.Title>x</Card.Title>", []string{"Card"}},
		{"distinct in order", "<B/><A>\n<B></B></A>", []string{"B", "A"}},
		{"comparison", "if (a<B) {}", nil},
		{"dollar names", "<My$Comp />", []string{"My$Comp"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComponentRefs(tc.code)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ComponentRefs() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	code := "export default () => <Layout><Button /></Layout>"
	normalized, sentinel := Normalize(code)

	wantSentinel := ";[Layout, Button] " + Marker + "\n"
	if sentinel != wantSentinel {
		t.Fatalf("sentinel = %q, want %q", sentinel, wantSentinel)
	}
	if normalized != wantSentinel+code {
		t.Errorf("normalized = %q", normalized)
	}

	normalized, sentinel = Normalize("const a = <div/>")
	if sentinel != "" || normalized != "const a = <div/>" {
		t.Errorf("code without components must be unchanged, got %q / %q", normalized, sentinel)
	}
}

func TestStrip(t *testing.T) {
	sentinel := ";[Button] " + Marker + "\n"

	testCases := []struct {
		name string
		code string
		want string
	}{
		{
			name: "exact",
			code: "import { Button } from './Button';\n" + sentinel + "<Button/>",
			want: "import { Button } from './Button';\n<Button/>",
		},
		{
			name: "reshaped",
			code: "import x from 'x'\n  ;[Button]   " + Marker + "\n<Button/>",
			want: "import x from 'x'\n<Button/>",
		},
		{
			name: "unrelated lines untouched",
			code: "const marker = '@autoimport'\n<Button/>",
			want: "const marker = '@autoimport'\n<Button/>",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Strip(tc.code, sentinel); got != tc.want {
				t.Errorf("Strip() = %q, want %q", got, tc.want)
			}
		})
	}

	if got := Strip("a", ""); got != "a" {
		t.Errorf("Strip with no sentinel = %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	code := "function App() {\n  return <Card.Title>hi</Card.Title>\n}\n"
	normalized, sentinel := Normalize(code)
	if got := Strip(normalized, sentinel); got != code {
		t.Errorf("Strip(Normalize(code)) = %q, want %q", got, code)
	}
}
