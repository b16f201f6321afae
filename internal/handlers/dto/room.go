package dto

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type JoinRoomRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type RoomJoinedResponse struct {
	RoomCode string `json:"roomCode"`
	RoomID   string `json:"roomId"`
	GuestID  string `json:"guestId"`
	PlayerID string `json:"playerId"`
}

// RoleQuotaRequest uses pointers so a missing count is told apart from zero.
type RoleQuotaRequest struct {
	Code            string `json:"code"`
	UndercoverCount *int   `json:"undercoverCount"`
	MrWhiteCount    *int   `json:"mrwhiteCount"`
}
