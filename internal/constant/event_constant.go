package constant

// TopicSessionCompleted is the in-process bus topic carrying session
// completion notifications. The NATS subject reuses the same name under
// the "events." prefix.
const TopicSessionCompleted = "SESSION_COMPLETED"
