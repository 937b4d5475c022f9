package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	IO              Category = "IO"
	Internal        Category = "Internal"
	RabbitMQ        Category = "RabbitMQ"
	WebSocket       Category = "WebSocket"
	Mongo           Category = "Mongo"
	Presence        Category = "Presence"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
)

const (
	// General
	Startup         SubCategory = "Startup"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Relay core
	Lifecycle SubCategory = "Lifecycle"
	Relay     SubCategory = "Relay"
	Enqueue   SubCategory = "Enqueue"
	Drain     SubCategory = "Drain"
	Audit     SubCategory = "Audit"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	HostIp       ExtraKey = "HostIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	BodySize     ExtraKey = "BodySize"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	ErrorMessage ExtraKey = "ErrorMessage"

	SessionID ExtraKey = "SessionId"
	UserKey   ExtraKey = "UserKey"
	ChatID    ExtraKey = "ChatId"
	QueueName ExtraKey = "QueueName"
)
