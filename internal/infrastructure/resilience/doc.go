/*
Package resilience provides a circuit breaker for remote collaborators.

The conversational assistant is the only window content that leaves the
process; its calls run through a Breaker so a dead endpoint fails fast
instead of stalling every chat window.

# Usage

	breaker := resilience.New("assistant", resilience.Settings{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	reply, err := resilience.Call(ctx, breaker, func(ctx context.Context) (string, error) {
		return client.Generate(ctx, prompt)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                       [failure]
	                                           v
	                                         Open
*/
package resilience
