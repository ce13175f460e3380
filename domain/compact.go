package domain

// CompactMessages bounds a message history to maxHistory messages with the
// leading instruction message pinned. When the history grows past
// maxHistory+1 messages, the result is the first message followed by the
// most recent maxHistory-1 messages; otherwise the input is returned
// unchanged. Pure and deterministic.
func CompactMessages(messages []Message, maxHistory int) []Message {
	if maxHistory < 1 || len(messages) <= maxHistory+1 {
		return messages
	}
	compacted := make([]Message, 0, maxHistory)
	compacted = append(compacted, messages[0])
	compacted = append(compacted, messages[len(messages)-(maxHistory-1):]...)
	return compacted
}
