package ws

// Client → server events.
const (
	JoinChat    = "join chat"
	CreateChat  = "create chat"
	SendMessage = "send message"
	Typing      = "typing"
	StopTyping  = "stop typing"
	SignResult  = "sign result"
)

// Server → client events.
const (
	OnlineUsers       = "online users"
	UserOnline        = "user online"
	UserOffline       = "user offline"
	JoinError         = "join error"
	ReceiveMessage    = "receive message"
	ReceiveChat       = "receive chat"
	UserTyping        = "user typing"
	UserStoppedTyping = "user stopped typing"
	ReceiveSignResult = "receive sign result"
)
