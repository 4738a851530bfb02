package reading

import (
	"reflect"
	"testing"

	"github.com/uta-tools/lyricmatch/core/mora"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "hiragana", input: "とうきょう", want: "トウキョウ"},
		{name: "already katakana", input: "トウキョウ", want: "トウキョウ"},
		{name: "mixed", input: "とウきョう", want: "トウキョウ"},
		{name: "small kana", input: "きょっと", want: "キョット"},
		{name: "kanji passthrough", input: "東京とう", want: "東京トウ"},
		{name: "latin passthrough", input: "abcあ", want: "abcア"},
		{name: "punctuation passthrough", input: "、。ーあ", want: "、。ーア"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q; want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"", "とうきょう", "トウキョウ", "東京abc、", "ゔぁゖ"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestMorae(t *testing.T) {
	got := mora.Values(Morae("とうきょう"))
	want := []string{"ト", "ウ", "キョ", "ウ"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Morae(とうきょう) = %v; want %v", got, want)
	}
}

func TestReading(t *testing.T) {
	r := New("ふぁいと")
	if r.Raw() != "ふぁいと" {
		t.Errorf("Raw() = %q", r.Raw())
	}
	if r.Normalized() != "ファイト" {
		t.Errorf("Normalized() = %q; want ファイト", r.Normalized())
	}
	got := mora.Values(r.Morae())
	want := []string{"ファ", "イ", "ト"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Morae() = %v; want %v", got, want)
	}
}

// Coverage invariant across both algorithms: segmenting the normalized
// form and joining it back reproduces the normalized form exactly.
func TestNormalizeSegment_RoundTrip(t *testing.T) {
	inputs := []string{"", "とうきょう", "歌が好きだ", "ラーメン大好き", "ふぁみこん、こんぼ"}
	for _, in := range inputs {
		norm := Normalize(in)
		if got := mora.Join(mora.Segment(norm)); got != norm {
			t.Errorf("round trip failed for %q: got %q want %q", in, got, norm)
		}
	}
}
