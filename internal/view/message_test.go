package view

import (
	"errors"
	"testing"
)

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name          string
		data          string
		wantErr       error
		wantAction    string
		wantPositions []int
	}{
		{
			name:          "highlight request",
			data:          `{"action":"highlightChunks","positions":[3,0,7]}`,
			wantAction:    ActionHighlightChunks,
			wantPositions: []int{3, 0, 7},
		},
		{
			name:          "missing positions",
			data:          `{"action":"highlightChunks"}`,
			wantAction:    ActionHighlightChunks,
			wantPositions: []int{},
		},
		{
			name:          "null positions",
			data:          `{"action":"highlightChunks","positions":null}`,
			wantAction:    ActionHighlightChunks,
			wantPositions: []int{},
		},
		{
			name:          "non-array positions",
			data:          `{"action":"highlightChunks","positions":"1,2"}`,
			wantAction:    ActionHighlightChunks,
			wantPositions: []int{},
		},
		{
			name:          "object positions",
			data:          `{"action":"highlightChunks","positions":{"0":1}}`,
			wantAction:    ActionHighlightChunks,
			wantPositions: []int{},
		},
		{
			name:          "invalid entries dropped",
			data:          `{"action":"highlightChunks","positions":[1,-2,"x",2.5,null,4]}`,
			wantAction:    ActionHighlightChunks,
			wantPositions: []int{1, 4},
		},
		{
			name:          "empty positions",
			data:          `{"action":"highlightChunks","positions":[]}`,
			wantAction:    ActionHighlightChunks,
			wantPositions: []int{},
		},
		{
			name:          "other action",
			data:          `{"action":"clearHighlights"}`,
			wantAction:    ActionClearHighlights,
			wantPositions: []int{},
		},
		{
			name:    "not json",
			data:    `highlight please`,
			wantErr: ErrMalformedMessage,
		},
		{
			name:    "json array",
			data:    `[1,2]`,
			wantErr: ErrMalformedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeMessage([]byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("DecodeMessage() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeMessage() unexpected error: %v", err)
			}
			if msg.Action != tt.wantAction {
				t.Errorf("DecodeMessage() action = %v, want %v", msg.Action, tt.wantAction)
			}
			if len(msg.Positions) != len(tt.wantPositions) {
				t.Fatalf("DecodeMessage() positions = %v, want %v", msg.Positions, tt.wantPositions)
			}
			for i := range msg.Positions {
				if msg.Positions[i] != tt.wantPositions[i] {
					t.Errorf("DecodeMessage() positions = %v, want %v", msg.Positions, tt.wantPositions)
					break
				}
			}
		})
	}
}
