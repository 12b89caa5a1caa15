package ports

type CommandMetrics interface {
	RecordCommandSuccess(command string)
	RecordCommandFailure(command string)
}

type DeliveryMetrics interface {
	RecordDelivered(event string, attempts int)
	RecordExhausted(event string, attempts int)
}
