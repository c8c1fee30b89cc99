package main

import (
	"testing"
	"time"
)

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: "2026-09-15T10:30:00Z",
			want:  time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: "2026-09-15",
			want:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "us format",
			input:   "09/15/2026",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDueDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseDueDate(%q) error = nil, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDueDate(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseDueDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
