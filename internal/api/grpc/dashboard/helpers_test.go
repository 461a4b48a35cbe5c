package dashboard

import "time"

const (
	// testWait bounds asynchronous assertions.
	testWait = 2 * time.Second
	// testTick is the polling interval of asynchronous assertions.
	testTick = 10 * time.Millisecond
)
