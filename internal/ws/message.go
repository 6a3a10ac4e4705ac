package ws

// Message — исходящий конверт для клиента
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// clientMessage — входящий конверт от клиента
type clientMessage struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

const (
	// входящие
	msgCreateRoom = "create_room"
	msgJoinRoom   = "join_room"
	msgDirection  = "direction"

	// исходящие
	msgRoomCreated = "room_created"
	msgRoomJoined  = "room_joined"
	msgGameState   = "game_state"
	msgError       = "error"
)
