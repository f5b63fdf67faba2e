package cli

import "time"

type Options struct {
	Command string
	JSON    bool
	Timeout time.Duration
}
