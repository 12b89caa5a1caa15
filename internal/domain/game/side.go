package game

import "errors"

type Side string

const (
	Corp   Side = "corp"
	Runner Side = "runner"
)

var ErrUnknownSide = errors.New("unknown side")

func (s Side) Opponent() Side {
	switch s {
	case Corp:
		return Runner
	case Runner:
		return Corp
	default:
		return ""
	}
}

func (s Side) Valid() bool {
	return s == Corp || s == Runner
}
