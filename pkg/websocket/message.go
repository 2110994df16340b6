package websocket

import "time"

// Envelope - конверт любого сообщения; по Type фронтенд решает, что перечитать.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

const MessageSnapshotChanged = "snapshot.changed"

// ChangePayload - что изменилось; клиент перечитывает нужные данные сам.
type ChangePayload struct {
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     string `json:"id"`
}
