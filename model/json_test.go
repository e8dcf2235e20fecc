package model

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeStringList(t *testing.T) {
	tests := []struct {
		name   string
		values []string
	}{
		{"nil becomes empty", nil},
		{"empty stays empty", []string{}},
		{"order preserved", []string{"NCERT", "Previous Year Papers", "NCERT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeStringList(tt.values)
			decoded := DecodeStringList(encoded)

			want := tt.values
			if want == nil {
				want = []string{}
			}
			if !reflect.DeepEqual(decoded, want) {
				t.Errorf("round trip = %v, want %v", decoded, want)
			}
		})
	}
}

func TestDecodeStringListMalformed(t *testing.T) {
	if got := DecodeStringList([]byte("{not json")); len(got) != 0 {
		t.Errorf("DecodeStringList(malformed) = %v, want empty", got)
	}
	if got := DecodeStringList(nil); len(got) != 0 {
		t.Errorf("DecodeStringList(nil) = %v, want empty", got)
	}
}
