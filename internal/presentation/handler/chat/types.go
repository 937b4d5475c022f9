package chat

// mintChatRequest asks for a signed chat id binding two participant keys.
type mintChatRequest struct {
	SenderKey   string `json:"senderPk"`
	ReceiverKey string `json:"receiverPk"`
}

// mintChatResponse returns the minted chat id.
type mintChatResponse struct {
	ChatID      string `json:"chatId"`
	SenderKey   string `json:"senderPk"`
	ReceiverKey string `json:"receiverPk"`
}
