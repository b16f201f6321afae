package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomStatusEnded(t *testing.T) {
	tests := []struct {
		status RoomStatus
		ended  bool
	}{
		{StatusLobby, false},
		{StatusInGame, false},
		{StatusEndedCivilian, true},
		{StatusEndedUndercover, true},
		{StatusEndedUndercoverMrWhite, true},
		{StatusEndedMrWhite, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.ended, tt.status.Ended())
		})
	}
}
