package websocket

// Event names carried in the envelope. The frontend branches on these.
const (
	EventNewRequest    = "NEW_REQUEST"
	EventNewTask       = "NEW_TASK"
	EventTaskUpdate    = "TASK_UPDATE"
	EventTaskCompleted = "TASK_COMPLETED"
	EventTeamLocation  = "TEAM_LOCATION"
)

// Topic channels. Admin consoles join the admin channel, rescuers their own
// team channel, citizens their own account channel.
const (
	ChannelAdmin      = "admin"
	channelTeamPrefix = "team:"
	channelUserPrefix = "user:"
)

func TeamChannel(teamID string) string { return channelTeamPrefix + teamID }
func UserChannel(accountID string) string { return channelUserPrefix + accountID }

// Client message types.
const (
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// Environment keys for LoadConfigFromEnv.
const (
	EnvWebSocketMaxConnections    = "WS_MAX_CONNECTIONS"
	EnvWebSocketHeartbeatInterval = "WS_HEARTBEAT_INTERVAL"
	EnvWebSocketConnectionTimeout = "WS_CONNECTION_TIMEOUT"
	EnvWebSocketMessageBufferSize = "WS_MESSAGE_BUFFER_SIZE"
)
