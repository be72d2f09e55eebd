package importer

import (
	"reflect"
	"testing"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  [][]string
	}{
		{
			name:  "quoted field with comma and newline",
			input: "a,\"b,c\nd\",e",
			want:  [][]string{{"a", "b,c\nd", "e"}},
		},
		{
			name:  "escaped quote",
			input: "\"x\"\"y\"",
			want:  [][]string{{"x\"y"}},
		},
		{
			name:  "crlf is one row boundary",
			input: "a,b\r\nc,d",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "bare cr ends row",
			input: "a,b\rc,d",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "all-empty rows dropped",
			input: "a,b\n,,\n\nc,d\n",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "fields trimmed",
			input: " a ,  b\t\nc , d",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "trailing row without newline",
			input: "a,b\nc,d",
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "unterminated quote flushes",
			input: "a,\"unfinished",
			want:  [][]string{{"a", "unfinished"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCSV(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCSV(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}
